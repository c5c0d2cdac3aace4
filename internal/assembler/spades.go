package assembler

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"proksee/internal/config"
	"proksee/internal/reads"
	"proksee/internal/resource"
	"proksee/internal/shell"
)

// Spades runs the SPAdes assembler, the expert-strategy choice for short
// reads.
type Spades struct {
	runner    shell.Runner
	cfg       *config.Config
	reads     reads.ReadSet
	outputDir string
	resources resource.Spec
	extraArgs []string
}

// NewSpades binds SPAdes to a read set and output directory. extraArgs lets
// the expert system tune the invocation (e.g. --careful) from what it
// learned in the fast pass.
func NewSpades(runner shell.Runner, cfg *config.Config, rs reads.ReadSet, outputDir string, res resource.Spec, extraArgs ...string) *Spades {
	return &Spades{runner: runner, cfg: cfg, reads: rs, outputDir: outputDir, resources: res, extraArgs: extraArgs}
}

func (s *Spades) Name() string { return "SPAdes" }

func (s *Spades) WorkDir() string {
	return filepath.Join(s.outputDir, SpadesDirName)
}

func (s *Spades) ContigsPath() string {
	return filepath.Join(s.WorkDir(), "contigs.fasta")
}

// Assemble runs SPAdes and verifies the contigs file exists afterwards.
// SPAdes creates its own output directory.
func (s *Spades) Assemble(ctx context.Context) (string, error) {
	var args []string
	if s.reads.Paired() {
		args = append(args, "-1", s.reads.Forward, "-2", s.reads.Reverse)
	} else {
		args = append(args, "-s", s.reads.Forward)
	}
	args = append(args, "-o", s.WorkDir())
	if s.resources.Threads > 0 {
		args = append(args, "-t", strconv.Itoa(s.resources.Threads))
	}
	if s.resources.Memory > 0 {
		args = append(args, "-m", strconv.Itoa(s.resources.Memory))
	}
	args = append(args, s.extraArgs...)
	args = append(args, s.cfg.ToolArgs("spades")...)

	res, err := s.runner.Run(ctx, shell.Command{
		Path: s.cfg.ToolPath("spades", "spades.py"),
		Args: args,
	})
	if err != nil {
		return res.Output, fmt.Errorf("spades assembly: %w", err)
	}
	if err := ensureContigs(s.Name(), s.ContigsPath()); err != nil {
		return res.Output, err
	}
	return res.Output, nil
}
