package assembler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"proksee/internal/config"
	"proksee/internal/reads"
	"proksee/internal/resource"
	"proksee/internal/shell"
)

// Skesa runs the SKESA assembler, the fast-strategy choice for short reads.
type Skesa struct {
	runner    shell.Runner
	cfg       *config.Config
	reads     reads.ReadSet
	outputDir string
	resources resource.Spec
}

// NewSkesa binds SKESA to a read set and output directory.
func NewSkesa(runner shell.Runner, cfg *config.Config, rs reads.ReadSet, outputDir string, res resource.Spec) *Skesa {
	return &Skesa{runner: runner, cfg: cfg, reads: rs, outputDir: outputDir, resources: res}
}

func (s *Skesa) Name() string { return "SKESA" }

func (s *Skesa) WorkDir() string {
	return filepath.Join(s.outputDir, SkesaDirName)
}

func (s *Skesa) ContigsPath() string {
	return filepath.Join(s.WorkDir(), "contigs.fasta")
}

// Assemble runs SKESA and verifies the contigs file exists afterwards.
func (s *Skesa) Assemble(ctx context.Context) (string, error) {
	if err := os.MkdirAll(s.WorkDir(), 0755); err != nil {
		return "", fmt.Errorf("create skesa work dir: %w", err)
	}

	args := []string{
		"--reads", strings.Join(s.reads.Locations(), ","),
		"--contigs_out", s.ContigsPath(),
	}
	if s.resources.Threads > 0 {
		args = append(args, "--cores", strconv.Itoa(s.resources.Threads))
	}
	if s.resources.Memory > 0 {
		args = append(args, "--memory", strconv.Itoa(s.resources.Memory))
	}
	args = append(args, s.cfg.ToolArgs("skesa")...)

	res, err := s.runner.Run(ctx, shell.Command{
		Path: s.cfg.ToolPath("skesa"),
		Args: args,
	})
	if err != nil {
		return res.Output, fmt.Errorf("skesa assembly: %w", err)
	}
	if err := ensureContigs(s.Name(), s.ContigsPath()); err != nil {
		return res.Output, err
	}
	return res.Output, nil
}
