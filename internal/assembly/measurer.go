package assembly

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"proksee/internal/config"
	"proksee/internal/resource"
	"proksee/internal/shell"
)

// Artifact names QUAST leaves in the output directory. The report directory
// survives the run; the scratch logs are removed during cleanup.
const (
	QuastDirName   = "quast"
	QuastOutName   = "quast.o"
	QuastErrName   = "quast.e"
	quastReportTSV = "report.tsv"
)

// QuastMeasurer computes QualityMetrics for a contigs file by running QUAST
// and parsing its tab-separated report.
type QuastMeasurer struct {
	Runner    shell.Runner
	Config    *config.Config
	Resources resource.Spec
}

// Measure runs QUAST against contigsPath, placing the report under
// <outputDir>/quast and the captured streams in quast.o / quast.e.
func (m *QuastMeasurer) Measure(ctx context.Context, contigsPath, outputDir string) (QualityMetrics, error) {
	reportDir := filepath.Join(outputDir, QuastDirName)

	args := []string{contigsPath, "-o", reportDir}
	if m.Resources.Threads > 0 {
		args = append(args, "--threads", strconv.Itoa(m.Resources.Threads))
	}
	args = append(args, m.Config.ToolArgs("quast")...)

	_, err := m.Runner.Run(ctx, shell.Command{
		Path:       m.Config.ToolPath("quast", "quast.py"),
		Args:       args,
		StdoutFile: filepath.Join(outputDir, QuastOutName),
		StderrFile: filepath.Join(outputDir, QuastErrName),
	})
	if err != nil {
		return QualityMetrics{}, fmt.Errorf("measure assembly quality: %w", err)
	}

	f, err := os.Open(filepath.Join(reportDir, quastReportTSV))
	if err != nil {
		return QualityMetrics{}, fmt.Errorf("measure assembly quality: %w", err)
	}
	defer f.Close()

	metrics, err := ParseQuastReport(f)
	if err != nil {
		return QualityMetrics{}, fmt.Errorf("measure assembly quality: %w", err)
	}
	return metrics, nil
}

// ParseQuastReport extracts QualityMetrics from QUAST's report.tsv, which
// carries one "metric name\tvalue" row per line.
func ParseQuastReport(r io.Reader) (QualityMetrics, error) {
	var q QualityMetrics
	seen := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		name, value, ok := strings.Cut(scanner.Text(), "\t")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(name) {
		case "# contigs":
			q.NumContigs, _ = strconv.Atoi(value)
			seen++
		case "N50":
			q.N50, _ = strconv.Atoi(value)
			seen++
		case "L50":
			q.L50, _ = strconv.Atoi(value)
			seen++
		case "Total length":
			q.TotalLength, _ = strconv.ParseInt(value, 10, 64)
			seen++
		case "GC (%)":
			pct, _ := strconv.ParseFloat(value, 64)
			q.GCContent = pct / 100
			seen++
		}
	}
	if err := scanner.Err(); err != nil {
		return QualityMetrics{}, err
	}
	if seen == 0 {
		return QualityMetrics{}, fmt.Errorf("no recognized metrics in report")
	}
	return q, nil
}
