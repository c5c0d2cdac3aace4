package assembly

import "proksee/internal/species"

// Summary is the final pipeline result. It is constructed only when the run
// reaches finalization; a halted run produces no Summary.
type Summary struct {
	Species     species.Species `json:"species"`
	Quality     QualityMetrics  `json:"quality"`
	ContigsPath string          `json:"contigs_path"`
}
