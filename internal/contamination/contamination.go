// Package contamination checks an assembly's contigs for organisms that
// disagree with the estimated species. The check is contig-level: the
// contigs are split into a scratch FASTA directory and screened against the
// Mash reference database.
package contamination

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"proksee/internal/config"
	"proksee/internal/evaluate"
	"proksee/internal/resource"
	"proksee/internal/shell"
	"proksee/internal/species"
)

// FastaDirName is the scratch directory of split contigs, removed during
// pipeline cleanup.
const FastaDirName = "fasta"

// maxSplitContigs bounds how many contigs are split into the scratch
// directory and screened.
const maxSplitContigs = 50

// Handler estimates contamination in a contigs file.
type Handler struct {
	Runner        shell.Runner
	Config        *config.Config
	DatabasePath  string // mash reference sketch (.msh)
	IDMappingPath string // optional NCBI ID to taxonomy mapping file
	Resources     resource.Spec
}

// Check splits the contigs, screens the split files against the reference
// database and succeeds iff every credible hit agrees with the estimated
// species at genus level.
func (h *Handler) Check(ctx context.Context, sp species.Species, contigsPath, outputDir string) (evaluate.Evaluation, error) {
	files, err := splitContigs(contigsPath, filepath.Join(outputDir, FastaDirName))
	if err != nil {
		return evaluate.Evaluation{}, fmt.Errorf("contamination check: %w", err)
	}
	if len(files) == 0 {
		return Evaluate(sp, nil), nil
	}

	mapping, err := species.LoadIDMapping(h.IDMappingPath)
	if err != nil {
		return evaluate.Evaluation{}, fmt.Errorf("contamination check: %w", err)
	}

	args := []string{"screen", "-w"}
	if h.Resources.Threads > 0 {
		args = append(args, "-p", strconv.Itoa(h.Resources.Threads))
	}
	args = append(args, h.Config.ToolArgs("mash")...)
	args = append(args, h.DatabasePath)
	args = append(args, files...)

	outPath := filepath.Join(outputDir, FastaDirName, "screen.o")
	if _, err := h.Runner.Run(ctx, shell.Command{
		Path:       h.Config.ToolPath("mash"),
		Args:       args,
		StdoutFile: outPath,
	}); err != nil {
		return evaluate.Evaluation{}, fmt.Errorf("contamination check: %w", err)
	}

	f, err := os.Open(outPath)
	if err != nil {
		return evaluate.Evaluation{}, fmt.Errorf("contamination check: %w", err)
	}
	defer f.Close()

	hits, err := species.ParseScreen(f, mapping)
	if err != nil {
		return evaluate.Evaluation{}, fmt.Errorf("contamination check: %w", err)
	}
	return Evaluate(sp, hits), nil
}

// Evaluate compares contig-level hits against the estimated species. Hits
// for Unknown (no credible organism) never count as contamination.
func Evaluate(sp species.Species, hits []species.Species) evaluate.Evaluation {
	genus := sp.Genus()
	var foreign []string
	for _, hit := range hits {
		if hit.Name == species.UnknownName {
			continue
		}
		if hit.Genus() != genus {
			foreign = append(foreign, hit.Name)
		}
	}

	if len(foreign) > 0 {
		return evaluate.Evaluation{
			Success: false,
			Report: fmt.Sprintf("The assembly appears to be contaminated: found %s in addition to the estimated species (%s).",
				strings.Join(foreign, ", "), sp.Name),
		}
	}
	return evaluate.Evaluation{
		Success: true,
		Report:  fmt.Sprintf("The contigs appear to agree with the estimated species: %s.", sp.Name),
	}
}

// splitContigs writes each of the first maxSplitContigs contigs into its own
// file under dir and returns the written paths, in contig order.
func splitContigs(contigsPath, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create fasta dir: %w", err)
	}

	f, err := os.Open(contigsPath)
	if err != nil {
		return nil, fmt.Errorf("open contigs: %w", err)
	}
	defer f.Close()

	var (
		out   *os.File
		files []string
	)
	closeOut := func() error {
		if out == nil {
			return nil
		}
		err := out.Close()
		out = nil
		return err
	}
	defer closeOut()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, ">") {
			if err := closeOut(); err != nil {
				return nil, err
			}
			if len(files) == maxSplitContigs {
				break
			}
			path := filepath.Join(dir, fmt.Sprintf("contig_%d.fasta", len(files)+1))
			out, err = os.Create(path)
			if err != nil {
				return nil, fmt.Errorf("create contig file: %w", err)
			}
			files = append(files, path)
		}
		if out != nil {
			if _, err := fmt.Fprintln(out, line); err != nil {
				return nil, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := closeOut(); err != nil {
		return nil, err
	}
	return files, nil
}
