package assembler

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"proksee/internal/config"
	"proksee/internal/platform"
	"proksee/internal/reads"
	"proksee/internal/resource"
	"proksee/internal/shell"
)

// Flye runs the Flye assembler, the expert-strategy choice for long reads.
type Flye struct {
	runner    shell.Runner
	cfg       *config.Config
	reads     reads.ReadSet
	outputDir string
	resources resource.Spec
	platform  platform.Platform
}

// NewFlye binds Flye to a read set and output directory. The platform picks
// the input mode (--pacbio-raw or --nano-raw).
func NewFlye(runner shell.Runner, cfg *config.Config, rs reads.ReadSet, outputDir string, res resource.Spec, p platform.Platform) *Flye {
	return &Flye{runner: runner, cfg: cfg, reads: rs, outputDir: outputDir, resources: res, platform: p}
}

func (f *Flye) Name() string { return "Flye" }

func (f *Flye) WorkDir() string {
	return filepath.Join(f.outputDir, FlyeDirName)
}

func (f *Flye) ContigsPath() string {
	return filepath.Join(f.WorkDir(), "assembly.fasta")
}

// Assemble runs Flye and verifies the contigs file exists afterwards.
func (f *Flye) Assemble(ctx context.Context) (string, error) {
	mode := "--nano-raw"
	if f.platform == platform.PacBio {
		mode = "--pacbio-raw"
	}
	args := []string{mode, f.reads.Forward, "--out-dir", f.WorkDir()}
	if f.resources.Threads > 0 {
		args = append(args, "--threads", strconv.Itoa(f.resources.Threads))
	}
	args = append(args, f.cfg.ToolArgs("flye")...)

	res, err := f.runner.Run(ctx, shell.Command{
		Path: f.cfg.ToolPath("flye"),
		Args: args,
	})
	if err != nil {
		return res.Output, fmt.Errorf("flye assembly: %w", err)
	}
	if err := ensureContigs(f.Name(), f.ContigsPath()); err != nil {
		return res.Output, err
	}
	return res.Output, nil
}
