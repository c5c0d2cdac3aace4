package shell

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestRunCapturesOutput(t *testing.T) {
	r := NewRunner(nil)
	res, err := r.Run(context.Background(), Command{
		Path: "sh",
		Args: []string{"-c", "echo assembled"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Output != "assembled" {
		t.Errorf("Output = %q, want %q", res.Output, "assembled")
	}
}

func TestRunRedirectsStreams(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "tool.o")
	errPath := filepath.Join(dir, "tool.e")

	r := NewRunner(nil)
	res, err := r.Run(context.Background(), Command{
		Path:       "sh",
		Args:       []string{"-c", "echo report; echo diagnostics >&2"},
		StdoutFile: outPath,
		StderrFile: errPath,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Output != "" {
		t.Errorf("redirected run should capture nothing, got %q", res.Output)
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "report\n" {
		t.Errorf("stdout file = %q", out)
	}
	errOut, err := os.ReadFile(errPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(errOut) != "diagnostics\n" {
		t.Errorf("stderr file = %q", errOut)
	}
}

func TestRunMissingBinary(t *testing.T) {
	r := NewRunner(nil)
	_, err := r.Run(context.Background(), Command{Path: "definitely-not-a-real-assembler"})
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
}

func TestRunNonzeroExit(t *testing.T) {
	r := NewRunner(nil)
	res, err := r.Run(context.Background(), Command{
		Path: "sh",
		Args: []string{"-c", "echo partial; exit 3"},
	})
	if err == nil {
		t.Fatal("expected error for nonzero exit")
	}
	if res.Output != "partial" {
		t.Errorf("partial output should still be captured, got %q", res.Output)
	}
}
