// Package species estimates which organism a set of reads came from, using a
// Mash reference sketch database. The estimator is an external collaborator:
// the pipeline only sees a ranked, never-empty candidate list.
package species

import (
	"fmt"
	"strings"
)

// UnknownName is the terminal fallback candidate name. An Unknown top
// candidate produces a warning but never halts the pipeline on its own.
const UnknownName = "Unknown"

// Species is one organism hypothesis with its confidence rank.
type Species struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

func (s Species) String() string {
	return fmt.Sprintf("%s (p=%.2f)", s.Name, s.Confidence)
}

// Unknown returns the fallback candidate used when estimation finds nothing.
func Unknown() Species {
	return Species{Name: UnknownName, Confidence: 0}
}

// Genus returns the first word of the species name, used by the
// contamination check for genus-level agreement.
func (s Species) Genus() string {
	name := strings.TrimSpace(s.Name)
	if i := strings.IndexByte(name, ' '); i > 0 {
		return name[:i]
	}
	return name
}
