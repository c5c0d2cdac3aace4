// Package assembler wraps the external assembly programs. Each assembler is
// a black box: run it, capture its output, and expose a stable path to the
// contigs file it produced. A crash or a missing contigs file is fatal to
// the run; retry policy lives with the orchestrator's gates, never here.
package assembler

import (
	"context"
	"fmt"
	"os"
)

// Assembler is one invocable assembly program bound to a read set and an
// output directory.
type Assembler interface {
	// Name is the human-readable assembler name used in reports and the
	// statistics CSV.
	Name() string
	// Assemble runs the assembler and returns its captured output. The
	// contigs file is discoverable via ContigsPath after a successful
	// return.
	Assemble(ctx context.Context) (string, error)
	// ContigsPath is the stable path of the produced contigs file.
	ContigsPath() string
	// WorkDir is the assembler's working directory under the pipeline
	// output directory, removed during cleanup.
	WorkDir() string
}

// Directory names of the per-assembler work directories, also used by
// pipeline cleanup.
const (
	SkesaDirName  = "skesa"
	SpadesDirName = "spades"
	FlyeDirName   = "flye"
)

// ensureContigs verifies the assembler actually produced its contigs file.
func ensureContigs(name, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s produced no contigs file at %s: %w", name, path, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%s produced an empty contigs file at %s", name, path)
	}
	return nil
}
