package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"proksee/internal/assembly"
	"proksee/internal/evaluate"
	"proksee/internal/reads"
	"proksee/internal/species"
)

func TestConsoleSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsole(&buf)
	sink.Report("SPECIES: Listeria monocytogenes (p=0.99)")
	sink.Reportf("Sequencing Platform: %s", "Illumina")
	sink.Blank()

	want := "SPECIES: Listeria monocytogenes (p=0.99)\nSequencing Platform: Illumina\n\n"
	if buf.String() != want {
		t.Errorf("console output = %q, want %q", buf.String(), want)
	}
}

func TestMemorySinkOrder(t *testing.T) {
	m := &Memory{}
	m.Report("first")
	m.Reportf("second %d", 2)
	m.Blank()

	want := []string{"first", "second 2", ""}
	if diff := cmp.Diff(want, m.Lines()); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	names := []string{"SKESA", "SPAdes"}
	metrics := []assembly.QualityMetrics{
		{NumContigs: 40, N50: 250000, L50: 6, TotalLength: 2990000, GCContent: 0.379},
		{NumContigs: 22, N50: 410000, L50: 3, TotalLength: 3010000, GCContent: 0.3801},
	}
	if err := WriteCSV(dir, names, metrics); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, CSVName))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	want := [][]string{
		{"Assembly Statistic", "SKESA", "SPAdes"},
		{"Number of Contigs", "40", "22"},
		{"N50", "250000", "410000"},
		{"L50", "6", "3"},
		{"Total Length", "2990000", "3010000"},
		{"GC Content", "0.3790", "0.3801"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("csv mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteCSVMismatchedInput(t *testing.T) {
	if err := WriteCSV(t.TempDir(), []string{"SKESA"}, nil); err == nil {
		t.Error("expected error for mismatched names and metrics")
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	info := RunInfo{
		RunID:         uuid.NewString(),
		CreatedAt:     time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Platform:      "Illumina",
		Species:       species.Species{Name: "Listeria monocytogenes", Confidence: 0.99},
		ReadLocations: []string{"fwd.fastq"},
		ReadQuality:   reads.Quality{TotalReads: 19404, TotalBases: 2890000, Q30Rate: 0.9412},
		Quality:       assembly.QualityMetrics{NumContigs: 22, N50: 410000, L50: 3, TotalLength: 3010000, GCContent: 0.3801},
		MLEvaluation:  evaluate.Evaluation{Success: true, Confidence: 0.87, Report: "good"},
		HeuristicEvaluation: evaluate.Evaluation{
			Success: true,
			Report:  "within range",
		},
		DatabasePath: "stats.db",
	}
	if err := WriteJSON(dir, info); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, JSONName))
	if err != nil {
		t.Fatal(err)
	}
	var got RunInfo
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(info, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
