package species

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadIDMapping reads a reference ID to taxonomy mapping file: one
// tab-separated "id<TAB>organism name" pair per line, blank lines and
// #-comments skipped. An empty path returns a nil mapping, which disables
// ID resolution and leaves name extraction to the reference comments.
func LoadIDMapping(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load id mapping: %w", err)
	}
	defer f.Close()

	mapping := map[string]string{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		id, name, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		id = strings.TrimSpace(id)
		name = strings.TrimSpace(name)
		if id == "" || name == "" {
			continue
		}
		mapping[id] = name
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("load id mapping: %w", err)
	}
	return mapping, nil
}

// lookupID resolves a screen query ID through the mapping. Query IDs carry
// assembly-name and file-extension suffixes (GCF_000196035.1_ASM19603v1_genomic.fna.gz),
// so a miss on the full ID retries the bare accession prefix.
func lookupID(mapping map[string]string, id string) string {
	if len(mapping) == 0 || id == "" {
		return ""
	}
	if name, ok := mapping[id]; ok {
		return name
	}
	parts := strings.SplitN(id, "_", 3)
	if len(parts) >= 2 {
		if name, ok := mapping[parts[0]+"_"+parts[1]]; ok {
			return name
		}
	}
	return ""
}
