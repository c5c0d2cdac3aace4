package reads

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"proksee/internal/config"
	"proksee/internal/resource"
	"proksee/internal/shell"
)

const fastpJSON = `{
  "summary": {
    "before_filtering": {"total_reads": 20000, "total_bases": 3000000, "q30_rate": 0.89},
    "after_filtering": {"total_reads": 19404, "total_bases": 2890000, "q30_rate": 0.9412}
  }
}`

func TestParseFastpReport(t *testing.T) {
	q, err := ParseFastpReport([]byte(fastpJSON))
	if err != nil {
		t.Fatalf("ParseFastpReport: %v", err)
	}
	if q.TotalReads != 19404 {
		t.Errorf("TotalReads = %d, want 19404", q.TotalReads)
	}
	if q.TotalBases != 2890000 {
		t.Errorf("TotalBases = %d, want 2890000", q.TotalBases)
	}
	if q.Q30Rate != 0.9412 {
		t.Errorf("Q30Rate = %v, want 0.9412", q.Q30Rate)
	}
}

func TestParseFastpReportMalformed(t *testing.T) {
	if _, err := ParseFastpReport([]byte("not json")); err == nil {
		t.Error("expected error for malformed report")
	}
}

// scriptRunner fakes the fastp invocation by writing the JSON report the
// filterer parses afterwards.
type scriptRunner struct {
	cmds []shell.Command
}

func (s *scriptRunner) Run(_ context.Context, cmd shell.Command) (shell.Result, error) {
	s.cmds = append(s.cmds, cmd)
	for i, a := range cmd.Args {
		if a == "--json" && i+1 < len(cmd.Args) {
			if err := os.WriteFile(cmd.Args[i+1], []byte(fastpJSON), 0644); err != nil {
				return shell.Result{}, err
			}
		}
	}
	return shell.Result{Command: cmd.Path}, nil
}

func TestFilterPaired(t *testing.T) {
	outDir := t.TempDir()
	runner := &scriptRunner{}
	f := &Filterer{
		Runner:    runner,
		Config:    &config.Config{},
		Resources: resource.Spec{Threads: 4},
	}

	filtered, quality, err := f.Filter(context.Background(), NewReadSet("fwd.fastq", "rev.fastq"), outDir)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if filtered.Forward != filepath.Join(outDir, FwdFilteredName) {
		t.Errorf("forward = %q", filtered.Forward)
	}
	if filtered.Reverse != filepath.Join(outDir, RevFilteredName) {
		t.Errorf("reverse = %q", filtered.Reverse)
	}
	if quality.Q30Rate != 0.9412 {
		t.Errorf("Q30Rate = %v", quality.Q30Rate)
	}

	if len(runner.cmds) != 1 {
		t.Fatalf("expected one invocation, got %d", len(runner.cmds))
	}
	cmd := runner.cmds[0]
	if cmd.Path != "fastp" {
		t.Errorf("tool = %q, want fastp", cmd.Path)
	}
	if cmd.StderrFile != filepath.Join(outDir, LogfileName) {
		t.Errorf("stderr log = %q", cmd.StderrFile)
	}
	if !containsArg(cmd.Args, "-I") || !containsArg(cmd.Args, "--thread") {
		t.Errorf("args missing paired/thread flags: %v", cmd.Args)
	}
}

func TestFilterSingleEndOmitsReverseFlags(t *testing.T) {
	outDir := t.TempDir()
	runner := &scriptRunner{}
	f := &Filterer{Runner: runner, Config: nil}

	filtered, _, err := f.Filter(context.Background(), NewReadSet("fwd.fastq", ""), outDir)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if filtered.Paired() {
		t.Error("filtered single-end set should stay unpaired")
	}
	if containsArg(runner.cmds[0].Args, "-I") {
		t.Errorf("unexpected reverse flag in args: %v", runner.cmds[0].Args)
	}
}

func containsArg(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}
