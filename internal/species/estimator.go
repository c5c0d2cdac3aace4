package species

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"proksee/internal/config"
	"proksee/internal/resource"
	"proksee/internal/shell"
)

// OutputName is the raw mash screen output left in the output directory and
// removed during pipeline cleanup.
const OutputName = "mash.o"

// minIdentity is the screen identity below which a hit is not considered a
// credible species candidate.
const minIdentity = 0.85

// Estimator ranks species candidates for a set of reads by screening them
// against a Mash reference sketch database.
type Estimator struct {
	Runner        shell.Runner
	Config        *config.Config
	DatabasePath  string // mash reference sketch (.msh)
	IDMappingPath string // optional NCBI ID to taxonomy mapping file
	Resources     resource.Spec
}

// Estimate screens the read files against the reference database and returns
// a ranked candidate list. The list is never empty: when no credible hit is
// found the single entry is Unknown.
func (e *Estimator) Estimate(ctx context.Context, locations []string, outputDir string) ([]Species, error) {
	mapping, err := LoadIDMapping(e.IDMappingPath)
	if err != nil {
		return nil, fmt.Errorf("estimate species: %w", err)
	}

	outPath := filepath.Join(outputDir, OutputName)

	args := []string{"screen", "-w"}
	if e.Resources.Threads > 0 {
		args = append(args, "-p", strconv.Itoa(e.Resources.Threads))
	}
	args = append(args, e.Config.ToolArgs("mash")...)
	args = append(args, e.DatabasePath)
	args = append(args, locations...)

	if _, err := e.Runner.Run(ctx, shell.Command{
		Path:       e.Config.ToolPath("mash"),
		Args:       args,
		StdoutFile: outPath,
	}); err != nil {
		return nil, fmt.Errorf("estimate species: %w", err)
	}

	f, err := os.Open(outPath)
	if err != nil {
		return nil, fmt.Errorf("estimate species: %w", err)
	}
	defer f.Close()

	candidates, err := ParseScreen(f, mapping)
	if err != nil {
		return nil, fmt.Errorf("estimate species: %w", err)
	}
	return candidates, nil
}

// accession matches sequence identifiers (NZ_CP012345.1 and friends) so they
// are not mistaken for the start of an organism name.
var accession = regexp.MustCompile(`^[A-Z]{1,4}_?[A-Z0-9]*\d\.?\d*$`)

// ParseScreen parses mash screen output (identity, shared-hashes,
// median-multiplicity, p-value, query-ID, query-comment) into a ranked,
// deduplicated candidate list. A hit's organism name is resolved through
// the ID mapping when one is supplied, falling back to the reference
// comment. The result is never empty.
func ParseScreen(r io.Reader, mapping map[string]string) ([]Species, error) {
	best := map[string]float64{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) < 6 {
			continue
		}
		identity, err := strconv.ParseFloat(fields[0], 64)
		if err != nil || identity < minIdentity {
			continue
		}
		name := lookupID(mapping, fields[4])
		if name == "" {
			name = organismFromComment(fields[5])
		}
		if name == "" {
			continue
		}
		if identity > best[name] {
			best[name] = identity
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	candidates := make([]Species, 0, len(best))
	for name, identity := range best {
		candidates = append(candidates, Species{Name: name, Confidence: identity})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Confidence != candidates[j].Confidence {
			return candidates[i].Confidence > candidates[j].Confidence
		}
		return candidates[i].Name < candidates[j].Name
	})

	if len(candidates) == 0 {
		return []Species{Unknown()}, nil
	}
	return candidates, nil
}

// organismFromComment extracts "Genus species" from a reference comment such
// as "[5 seqs] NZ_CP012345.1 Klebsiella pneumoniae strain X, complete genome".
func organismFromComment(comment string) string {
	comment = strings.TrimSpace(comment)
	if strings.HasPrefix(comment, "[") {
		if i := strings.IndexByte(comment, ']'); i >= 0 {
			comment = strings.TrimSpace(comment[i+1:])
		}
	}
	words := strings.Fields(comment)
	for i := 0; i+1 < len(words); i++ {
		w := words[i]
		if accession.MatchString(w) {
			continue
		}
		if len(w) > 1 && w[0] >= 'A' && w[0] <= 'Z' && isLowerWord(words[i+1]) {
			return w + " " + strings.TrimRight(words[i+1], ",.")
		}
	}
	return ""
}

func isLowerWord(w string) bool {
	w = strings.TrimRight(w, ",.")
	if w == "" {
		return false
	}
	for _, r := range w {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
