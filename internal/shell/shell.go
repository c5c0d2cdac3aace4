// Package shell runs the external bioinformatics tools the pipeline
// orchestrates (fastp, mash, the assemblers, quast). Every invocation is
// one-shot: no retries, no internal timeouts. A nonzero exit or a missing
// binary surfaces as an error and aborts the run.
package shell

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Command describes one external tool invocation.
type Command struct {
	Path string   // binary path or name resolved via $PATH
	Args []string
	Dir  string // working directory; empty = inherit

	// StdoutFile and StderrFile redirect the respective stream to a file.
	// Streams without a redirect are captured into Result.Output.
	StdoutFile string
	StderrFile string
}

// Result is the outcome of a completed invocation.
type Result struct {
	Command string
	Args    []string
	Output  string // captured, trimmed output of the non-redirected streams
}

// Runner executes external commands. The pipeline depends on this interface
// so tests can substitute a fake.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner is the os/exec-backed Runner.
type ExecRunner struct {
	Log *slog.Logger
}

// NewRunner returns an ExecRunner with a component-scoped logger.
func NewRunner(log *slog.Logger) *ExecRunner {
	return &ExecRunner{Log: log}
}

// Run executes the command and blocks until it returns. The orchestrator has
// no cancellation of its own; ctx is passed through for the caller's sake.
func (r *ExecRunner) Run(ctx context.Context, spec Command) (Result, error) {
	cmd := exec.CommandContext(ctx, spec.Path, spec.Args...)
	cmd.Dir = spec.Dir

	var capture strings.Builder
	cmd.Stdout = &capture
	cmd.Stderr = &capture

	var files []*os.File
	defer func() {
		for _, f := range files {
			_ = f.Close()
		}
	}()

	if spec.StdoutFile != "" {
		f, err := os.Create(spec.StdoutFile)
		if err != nil {
			return Result{}, fmt.Errorf("create stdout file: %w", err)
		}
		files = append(files, f)
		cmd.Stdout = f
	}
	if spec.StderrFile != "" {
		f, err := os.Create(spec.StderrFile)
		if err != nil {
			return Result{}, fmt.Errorf("create stderr file: %w", err)
		}
		files = append(files, f)
		cmd.Stderr = f
	}

	if r.Log != nil {
		r.Log.Debug("running tool", slog.String("path", spec.Path), slog.Any("args", spec.Args))
	}

	err := cmd.Run()
	res := Result{
		Command: spec.Path,
		Args:    spec.Args,
		Output:  strings.TrimSpace(capture.String()),
	}
	if err != nil {
		return res, fmt.Errorf("%s: %w", spec.Path, err)
	}
	return res, nil
}
