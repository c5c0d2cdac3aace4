// Package platform identifies the sequencing technology behind a read set,
// either from a caller-supplied name or by inspecting the reads themselves.
package platform

import (
	"regexp"
	"strings"

	"proksee/internal/reads"
)

// Platform is the sequencing technology that produced the reads. It is
// resolved exactly once per pipeline run.
type Platform int

const (
	Unidentifiable Platform = iota
	Illumina
	IonTorrent
	PacBio
	OxfordNanopore
)

func (p Platform) String() string {
	switch p {
	case Illumina:
		return "Illumina"
	case IonTorrent:
		return "Ion Torrent"
	case PacBio:
		return "PacBio"
	case OxfordNanopore:
		return "Oxford Nanopore"
	default:
		return "Unidentifiable"
	}
}

// LongRead reports whether the platform produces long reads, which changes
// the assembler choice in both strategy passes.
func (p Platform) LongRead() bool {
	return p == PacBio || p == OxfordNanopore
}

// Identify maps a user-supplied platform name to a Platform. Unrecognized
// names yield Unidentifiable; the caller decides whether to fall back to
// detection from the reads.
func Identify(name string) Platform {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "illumina":
		return Illumina
	case "ion torrent", "ion-torrent", "iontorrent", "ion":
		return IonTorrent
	case "pacbio", "pac bio", "pacific biosciences":
		return PacBio
	case "oxford nanopore", "nanopore", "ont":
		return OxfordNanopore
	default:
		return Unidentifiable
	}
}

// detectSample is how many leading records detection inspects.
const detectSample = 250

var (
	// Casava-style Illumina header: instrument:run:flowcell:lane:tile:x:y.
	illuminaHeader = regexp.MustCompile(`^@[^:\s]+:\d+:[^:\s]+:\d+:\d+:\d+:\d+`)
	// PacBio movie header: @m<movie>/<zmw>/... .
	pacbioHeader = regexp.MustCompile(`^@m\d+[^/\s]*/`)
	// Nanopore read IDs are UUIDs.
	nanoporeHeader = regexp.MustCompile(`^@[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)
)

// Detect infers the platform from the forward reads. It never fails: when
// nothing matches, the result is Unidentifiable and the pipeline carries on.
func Detect(rs reads.ReadSet) Platform {
	var (
		total       int
		illumina    int
		pacbio      int
		nanopore    int
		lengths     = map[int]struct{}{}
		totalLength int
	)

	err := reads.Records(rs.Forward, detectSample, func(header, seq string) error {
		total++
		switch {
		case illuminaHeader.MatchString(header):
			illumina++
		case pacbioHeader.MatchString(header):
			pacbio++
		case nanoporeHeader.MatchString(header):
			nanopore++
		}
		lengths[len(seq)] = struct{}{}
		totalLength += len(seq)
		return nil
	})
	if err != nil || total == 0 {
		return Unidentifiable
	}

	// Header evidence wins when a clear majority agrees.
	majority := total / 2
	switch {
	case illumina > majority:
		return Illumina
	case pacbio > majority:
		return PacBio
	case nanopore > majority:
		return OxfordNanopore
	}

	// Fall back to read-length characteristics: uniform short reads are an
	// Illumina signature; varied short reads suggest Ion Torrent.
	mean := totalLength / total
	if len(lengths) == 1 && mean <= 600 {
		return Illumina
	}
	if mean <= 600 {
		return IonTorrent
	}
	return Unidentifiable
}
