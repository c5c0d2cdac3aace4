package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"proksee/internal/assembly"
	"proksee/internal/evaluate"
	"proksee/internal/reads"
	"proksee/internal/species"
)

// Final artifact names in the output directory.
const (
	CSVName  = "assembly_statistics.csv"
	JSONName = "assembly_info.json"
)

// WriteCSV writes the assembler-by-metric statistics table: one column per
// assembler, one row per metric.
func WriteCSV(outputDir string, names []string, metrics []assembly.QualityMetrics) error {
	if len(names) != len(metrics) {
		return fmt.Errorf("write csv: %d names for %d metric sets", len(names), len(metrics))
	}

	f, err := os.Create(filepath.Join(outputDir, CSVName))
	if err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := append([]string{"Assembly Statistic"}, names...)
	rows := [][]string{header}

	add := func(name string, value func(assembly.QualityMetrics) string) {
		row := []string{name}
		for _, m := range metrics {
			row = append(row, value(m))
		}
		rows = append(rows, row)
	}
	add("Number of Contigs", func(m assembly.QualityMetrics) string { return strconv.Itoa(m.NumContigs) })
	add("N50", func(m assembly.QualityMetrics) string { return strconv.Itoa(m.N50) })
	add("L50", func(m assembly.QualityMetrics) string { return strconv.Itoa(m.L50) })
	add("Total Length", func(m assembly.QualityMetrics) string { return strconv.FormatInt(m.TotalLength, 10) })
	add("GC Content", func(m assembly.QualityMetrics) string { return strconv.FormatFloat(m.GCContent, 'f', 4, 64) })

	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// RunInfo is the full run metadata persisted as JSON at the end of a
// successful run.
type RunInfo struct {
	RunID               string                  `json:"run_id"`
	CreatedAt           time.Time               `json:"created_at"`
	Platform            string                  `json:"platform"`
	Species             species.Species         `json:"species"`
	ReadLocations       []string                `json:"read_locations"`
	ReadQuality         reads.Quality           `json:"read_quality"`
	Quality             assembly.QualityMetrics `json:"quality"`
	MLEvaluation        evaluate.Evaluation     `json:"ml_evaluation"`
	HeuristicEvaluation evaluate.Evaluation     `json:"heuristic_evaluation"`
	DatabasePath        string                  `json:"database_path,omitempty"`
}

// WriteJSON writes the run metadata file.
func WriteJSON(outputDir string, info RunInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	path := filepath.Join(outputDir, JSONName)
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}
