// Package expert derives assembly strategies: which assembler to run, with
// what parameters, and whether the attempt is worth making at all. The fast
// strategy is decided from platform and read quality; the expert strategy
// additionally uses the fast pass's measured quality and the historical
// statistics database (the pipeline's feedback edge).
package expert

import (
	"fmt"

	"proksee/internal/assembler"
	"proksee/internal/assembly"
	"proksee/internal/config"
	"proksee/internal/evaluate"
	"proksee/internal/platform"
	"proksee/internal/reads"
	"proksee/internal/resource"
	"proksee/internal/shell"
	"proksee/internal/species"
	"proksee/internal/stats"
)

// defaultMinQ30 is the read-quality floor for the fast strategy when the
// tool configuration does not override it.
const defaultMinQ30 = 0.60

// carefulProbability: below this fast-pass probability the expert SPAdes run
// gets --careful.
const carefulProbability = 0.5

// Strategy is a plan for one assembly attempt. Proceed=false recommends
// halting; the orchestrator may override it with the force flag, in which
// case Assembler is still invocable as a best-effort choice.
type Strategy struct {
	Proceed   bool
	Assembler assembler.Assembler
	Report    string
}

// System derives strategies for one pipeline run. All fields are fixed at
// construction; the two derivation calls are pure apart from store reads.
type System struct {
	Platform  platform.Platform
	Species   species.Species
	Reads     reads.ReadSet // filtered reads
	OutputDir string
	Resources resource.Spec
	Runner    shell.Runner
	Config    *config.Config
	Store     stats.Store
}

func (s *System) minQ30() float64 {
	if s.Config != nil && s.Config.MinQ30 > 0 {
		return s.Config.MinQ30
	}
	return defaultMinQ30
}

// FastStrategy derives the first-pass strategy from the platform and the
// filtered read quality.
func (s *System) FastStrategy(q reads.Quality) Strategy {
	if s.Platform.LongRead() {
		// No fast assembler exists for long reads; Flye is the
		// best-effort choice if the caller forces the pass anyway.
		return Strategy{
			Proceed:   false,
			Assembler: assembler.NewFlye(s.Runner, s.Config, s.Reads, s.OutputDir, s.Resources, s.Platform),
			Report:    fmt.Sprintf("No fast assembly strategy is available for the %s platform.", s.Platform),
		}
	}

	skesa := assembler.NewSkesa(s.Runner, s.Config, s.Reads, s.OutputDir, s.Resources)

	if s.Platform == platform.Unidentifiable {
		return Strategy{
			Proceed:   false,
			Assembler: skesa,
			Report:    "The sequencing platform could not be identified. A fast assembly strategy cannot be determined.",
		}
	}
	if floor := s.minQ30(); q.Q30Rate < floor {
		return Strategy{
			Proceed:   false,
			Assembler: skesa,
			Report: fmt.Sprintf("The read quality (Q30 rate = %.2f) is below the minimum of %.2f required for assembly.",
				q.Q30Rate, floor),
		}
	}
	return Strategy{
		Proceed:   true,
		Assembler: skesa,
		Report:    fmt.Sprintf("An assembly strategy was determined: fast assembly with %s.", skesa.Name()),
	}
}

// ExpertStrategy derives the second-pass strategy from the fast assembly's
// measured quality and the species' historical statistics.
func (s *System) ExpertStrategy(fastQuality assembly.QualityMetrics) (Strategy, error) {
	if s.Platform.LongRead() {
		flye := assembler.NewFlye(s.Runner, s.Config, s.Reads, s.OutputDir, s.Resources, s.Platform)
		return Strategy{
			Proceed:   true,
			Assembler: flye,
			Report:    fmt.Sprintf("An expert assembly strategy was determined: expert assembly with %s.", flye.Name()),
		}, nil
	}

	st, err := s.Store.Lookup(s.Species.Name)
	if err != nil {
		return Strategy{}, fmt.Errorf("expert strategy: %w", err)
	}
	if st == nil {
		spades := assembler.NewSpades(s.Runner, s.Config, s.Reads, s.OutputDir, s.Resources)
		return Strategy{
			Proceed:   true,
			Assembler: spades,
			Report: fmt.Sprintf("The species '%s' is not present in the assembly statistics database. "+
				"Proceeding cautiously with an expert assembly using %s.", s.Species.Name, spades.Name()),
		}, nil
	}

	// The fast pass informs the expert pass: a hopeless fast assembly means
	// an expert attempt will not rescue the data; a mediocre one turns on
	// SPAdes' careful mode.
	if hopeless(st, fastQuality) {
		return Strategy{
			Proceed:   false,
			Assembler: assembler.NewSpades(s.Runner, s.Config, s.Reads, s.OutputDir, s.Resources),
			Report: fmt.Sprintf("The fast assembly quality is far outside what is expected for %s. "+
				"An expert assembly is unlikely to produce a good assembly.", s.Species.Name),
		}, nil
	}

	var extra []string
	if evaluate.Probability(st, fastQuality) < carefulProbability {
		extra = append(extra, "--careful")
	}
	spades := assembler.NewSpades(s.Runner, s.Config, s.Reads, s.OutputDir, s.Resources, extra...)
	return Strategy{
		Proceed:   true,
		Assembler: spades,
		Report:    fmt.Sprintf("An expert assembly strategy was determined: expert assembly with %s.", spades.Name()),
	}, nil
}

// hopeless reports whether the fast assembly is so far outside the species'
// historical range that a second pass cannot help: N50 below the 5th
// percentile with a contig count above the 95th.
func hopeless(st *stats.SpeciesStats, q assembly.QualityMetrics) bool {
	return float64(q.N50) < st.N50.Low() && float64(q.NumContigs) > st.Contigs.High()
}
