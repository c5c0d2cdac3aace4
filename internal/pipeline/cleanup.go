package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"proksee/internal/assembler"
	"proksee/internal/assembly"
	"proksee/internal/contamination"
	"proksee/internal/reads"
	"proksee/internal/species"
)

// Cleanup removes the intermediate artifacts of a completed run from the
// output directory: the contamination scratch directory, the read-filtering
// log and filtered read files, the species-estimation output, the
// quality-measurement capture files, and the per-assembler work
// directories. Every removal is conditional on existence, so Cleanup is
// idempotent. It runs only after finalization, leaving a halted run's
// artifacts in place for debugging.
func Cleanup(outputDir string) error {
	dirs := []string{
		contamination.FastaDirName,
		assembler.SkesaDirName,
		assembler.SpadesDirName,
		assembler.FlyeDirName,
	}
	for _, d := range dirs {
		if err := os.RemoveAll(filepath.Join(outputDir, d)); err != nil {
			return fmt.Errorf("cleanup %s: %w", d, err)
		}
	}

	files := []string{
		reads.LogfileName,
		reads.FwdFilteredName,
		reads.RevFilteredName,
		species.OutputName,
		assembly.QuastOutName,
		assembly.QuastErrName,
	}
	for _, f := range files {
		if err := os.Remove(filepath.Join(outputDir, f)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("cleanup %s: %w", f, err)
		}
	}
	return nil
}
