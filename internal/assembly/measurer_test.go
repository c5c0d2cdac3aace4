package assembly

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"proksee/internal/shell"
)

const quastReport = `Assembly	contigs
# contigs (>= 0 bp)	74
# contigs (>= 1000 bp)	52
Total length (>= 0 bp)	5213145
# contigs	61
Largest contig	842166
Total length	5198270
GC (%)	57.55
N50	302450
N75	154021
L50	7
L75	13
`

func TestParseQuastReport(t *testing.T) {
	got, err := ParseQuastReport(strings.NewReader(quastReport))
	if err != nil {
		t.Fatalf("ParseQuastReport: %v", err)
	}
	want := QualityMetrics{
		NumContigs:  61,
		N50:         302450,
		L50:         7,
		TotalLength: 5198270,
		GCContent:   0.5755,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("metrics mismatch (-want +got):\n%s", diff)
	}
}

func TestParseQuastReportEmpty(t *testing.T) {
	if _, err := ParseQuastReport(strings.NewReader("Assembly\tcontigs\n")); err == nil {
		t.Error("expected error when no metrics are present")
	}
}

// quastFake pretends to be QUAST: it creates the report directory and writes
// a canned report.tsv.
type quastFake struct {
	cmd shell.Command
}

func (q *quastFake) Run(_ context.Context, cmd shell.Command) (shell.Result, error) {
	q.cmd = cmd
	reportDir := cmd.Args[2] // contigs -o <dir>
	if err := os.MkdirAll(reportDir, 0755); err != nil {
		return shell.Result{}, err
	}
	err := os.WriteFile(filepath.Join(reportDir, "report.tsv"), []byte(quastReport), 0644)
	return shell.Result{}, err
}

func TestMeasure(t *testing.T) {
	outDir := t.TempDir()
	fake := &quastFake{}
	m := &QuastMeasurer{Runner: fake}

	got, err := m.Measure(context.Background(), "contigs.fasta", outDir)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if got.N50 != 302450 || got.NumContigs != 61 {
		t.Errorf("metrics = %+v", got)
	}

	if fake.cmd.StdoutFile != filepath.Join(outDir, QuastOutName) {
		t.Errorf("stdout scratch = %q", fake.cmd.StdoutFile)
	}
	if fake.cmd.StderrFile != filepath.Join(outDir, QuastErrName) {
		t.Errorf("stderr scratch = %q", fake.cmd.StderrFile)
	}
	if fake.cmd.Args[0] != "contigs.fasta" {
		t.Errorf("first arg = %q, want contigs path", fake.cmd.Args[0])
	}
}
