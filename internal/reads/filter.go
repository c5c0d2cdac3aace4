package reads

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"proksee/internal/config"
	"proksee/internal/resource"
	"proksee/internal/shell"
)

// Artifact names the filterer leaves in the output directory. The logfile
// and the filtered read files are removed during pipeline cleanup.
const (
	FwdFilteredName = "fwd_filtered.fastq"
	RevFilteredName = "rev_filtered.fastq"
	LogfileName     = "fastp.log"
	ReportName      = "fastp.json"
)

// Filterer trims and quality-filters a read set with fastp, writing the
// filtered reads and the fastp report into the output directory.
type Filterer struct {
	Runner    shell.Runner
	Config    *config.Config
	Resources resource.Spec
}

// Filter runs fastp over rs and returns the filtered read set together with
// a quality summary parsed from fastp's JSON report.
func (f *Filterer) Filter(ctx context.Context, rs ReadSet, outputDir string) (ReadSet, Quality, error) {
	fwdOut := filepath.Join(outputDir, FwdFilteredName)
	reportPath := filepath.Join(outputDir, ReportName)
	logPath := filepath.Join(outputDir, LogfileName)

	args := []string{
		"-i", rs.Forward,
		"-o", fwdOut,
		"--json", reportPath,
	}
	filtered := ReadSet{Forward: fwdOut}
	if rs.Paired() {
		filtered.Reverse = filepath.Join(outputDir, RevFilteredName)
		args = append(args, "-I", rs.Reverse, "-O", filtered.Reverse)
	}
	if f.Resources.Threads > 0 {
		args = append(args, "--thread", strconv.Itoa(f.Resources.Threads))
	}
	args = append(args, f.Config.ToolArgs("fastp")...)

	_, err := f.Runner.Run(ctx, shell.Command{
		Path:       f.Config.ToolPath("fastp"),
		Args:       args,
		StderrFile: logPath,
	})
	if err != nil {
		return ReadSet{}, Quality{}, fmt.Errorf("filter reads: %w", err)
	}

	quality, err := readFastpReport(reportPath)
	if err != nil {
		return ReadSet{}, Quality{}, fmt.Errorf("filter reads: %w", err)
	}
	return filtered, quality, nil
}

// fastpReport is the slice of fastp's JSON output the pipeline cares about.
type fastpReport struct {
	Summary struct {
		AfterFiltering struct {
			TotalReads int64   `json:"total_reads"`
			TotalBases int64   `json:"total_bases"`
			Q30Rate    float64 `json:"q30_rate"`
		} `json:"after_filtering"`
	} `json:"summary"`
}

func readFastpReport(path string) (Quality, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Quality{}, err
	}
	return ParseFastpReport(data)
}

// ParseFastpReport extracts the post-filtering quality summary from fastp's
// JSON report.
func ParseFastpReport(data []byte) (Quality, error) {
	var rep fastpReport
	if err := json.Unmarshal(data, &rep); err != nil {
		return Quality{}, fmt.Errorf("parse fastp report: %w", err)
	}
	after := rep.Summary.AfterFiltering
	return Quality{
		TotalReads: after.TotalReads,
		TotalBases: after.TotalBases,
		Q30Rate:    after.Q30Rate,
	}, nil
}
