// Package pipeline sequences the assembly stages: validate reads, identify
// the platform and species, derive a fast strategy, assemble, check for
// contamination, measure quality, derive an expert strategy from the fast
// result, assemble again, evaluate, and finalize. Each gated stage's outcome
// decides whether the run proceeds; the force flag bypasses every gate. A
// halted run has already reported its reason and returns (nil, nil).
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"proksee/internal/assembler"
	"proksee/internal/assembly"
	"proksee/internal/evaluate"
	"proksee/internal/expert"
	"proksee/internal/platform"
	"proksee/internal/reads"
	"proksee/internal/report"
	"proksee/internal/resource"
	"proksee/internal/species"
	"proksee/internal/stats"
)

// ContigsName is the canonical name the final contigs file is moved to in
// the output directory.
const ContigsName = "contigs.fasta"

// Options are the caller-facing inputs of one pipeline run.
type Options struct {
	Reads        reads.ReadSet
	OutputDir    string
	Force        bool   // bypass every gate
	SpeciesName  string // optional species hint
	PlatformName string // optional platform hint
	DatabasePath string // assembly statistics database, empty for in-memory
	MashDatabase string // mash reference sketch
	IDMapping    string // optional NCBI ID to taxonomy mapping file
	Resources    resource.Spec
}

// Filterer trims and quality-filters a read set.
type Filterer interface {
	Filter(ctx context.Context, rs reads.ReadSet, outputDir string) (reads.ReadSet, reads.Quality, error)
}

// Estimator ranks species candidates for a set of read files. The returned
// list is never empty.
type Estimator interface {
	Estimate(ctx context.Context, locations []string, outputDir string) ([]species.Species, error)
}

// Strategist derives the fast and expert strategies for one run.
type Strategist interface {
	FastStrategy(q reads.Quality) expert.Strategy
	ExpertStrategy(fastQuality assembly.QualityMetrics) (expert.Strategy, error)
}

// ContaminationChecker evaluates a contigs file against the estimated
// species.
type ContaminationChecker interface {
	Check(ctx context.Context, sp species.Species, contigsPath, outputDir string) (evaluate.Evaluation, error)
}

// Measurer computes quality metrics for a contigs file.
type Measurer interface {
	Measure(ctx context.Context, contigsPath, outputDir string) (assembly.QualityMetrics, error)
}

// Evaluator scores assembly quality for a species.
type Evaluator interface {
	Evaluate(sp species.Species, q assembly.QualityMetrics) (evaluate.Evaluation, error)
}

// Deps are the stage executors of one pipeline run. DefaultDeps wires the
// real tools; tests substitute fakes.
type Deps struct {
	Validate      func(reads.ReadSet) bool
	Detect        func(reads.ReadSet) platform.Platform
	Filterer      Filterer
	Estimator     Estimator
	NewStrategist func(p platform.Platform, sp species.Species, filtered reads.ReadSet) Strategist
	Contamination ContaminationChecker
	Measurer      Measurer
	ML            Evaluator
	Heuristic     Evaluator
	Store         stats.Store
	Sink          report.Sink
	Log           *slog.Logger
}

// Assemble runs the full pipeline. On success it returns the assembly
// summary; on a non-forced gate failure it returns (nil, nil) with the halt
// reason already reported through the sink. Any other error is fatal and
// aborts the run regardless of the force flag.
func Assemble(ctx context.Context, opts Options, deps Deps) (*assembly.Summary, error) {
	log := deps.Log
	if log == nil {
		log = slog.Default()
	}
	sink := deps.Sink

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("prepare output directory: %w", err)
	}

	// Validate FASTQ inputs.
	valid := deps.Validate(opts.Reads)
	reportValidFASTQ(sink, valid)
	if !valid && !opts.Force {
		return nil, nil
	}

	plat := determinePlatform(sink, deps.Detect, opts.Reads, opts.PlatformName)
	sink.Reportf("Sequencing Platform: %s", plat)

	// Filter reads.
	filtered, readQuality, err := deps.Filterer.Filter(ctx, opts.Reads, opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("filter reads: %w", err)
	}
	log.Debug("reads filtered",
		"total_reads", readQuality.TotalReads,
		"q30_rate", readQuality.Q30Rate)

	// Estimate species.
	candidates, err := determineSpecies(ctx, opts, deps, filtered)
	if err != nil {
		return nil, fmt.Errorf("estimate species: %w", err)
	}
	sp := candidates[0]
	reportSpecies(sink, candidates)

	strategist := deps.NewStrategist(plat, sp, filtered)

	// Determine a fast assembly strategy.
	fast := strategist.FastStrategy(readQuality)
	reportStrategy(sink, fast)
	if !fast.Proceed && !opts.Force {
		return nil, nil
	}

	// Perform a fast assembly.
	if err := runAssembly(ctx, sink, fast.Assembler); err != nil {
		return nil, err
	}

	// Check for contamination at the contig level.
	contamEv, err := deps.Contamination.Check(ctx, sp, fast.Assembler.ContigsPath(), opts.OutputDir)
	if err != nil {
		return nil, err
	}
	reportContamination(sink, contamEv)
	if !contamEv.Success && !opts.Force {
		return nil, nil
	}

	// Measure fast assembly quality.
	fastQuality, err := deps.Measurer.Measure(ctx, fast.Assembler.ContigsPath(), opts.OutputDir)
	if err != nil {
		return nil, err
	}

	mlFast, err := deps.ML.Evaluate(sp, fastQuality)
	if err != nil {
		return nil, err
	}
	sink.Report(mlFast.Report)

	// Derive the expert strategy from the fast assembly's measured quality.
	exp, err := strategist.ExpertStrategy(fastQuality)
	if err != nil {
		return nil, err
	}
	reportStrategy(sink, exp)
	if !exp.Proceed && !opts.Force {
		return nil, nil
	}

	sink.Report("Performing expert assembly.")
	if err := runAssembly(ctx, sink, exp.Assembler); err != nil {
		return nil, err
	}

	expertQuality, err := deps.Measurer.Measure(ctx, exp.Assembler.ContigsPath(), opts.OutputDir)
	if err != nil {
		return nil, err
	}

	mlExpert, err := deps.ML.Evaluate(sp, expertQuality)
	if err != nil {
		return nil, err
	}
	sink.Report(mlExpert.Report)

	heuristic, err := deps.Heuristic.Evaluate(sp, expertQuality)
	if err != nil {
		return nil, err
	}
	sink.Report(heuristic.Report)

	// Compare the fast and expert assemblies.
	sink.Report(evaluate.Compare(fastQuality, expertQuality))

	// Persist the statistics summary and run metadata.
	names := []string{fast.Assembler.Name(), exp.Assembler.Name()}
	metrics := []assembly.QualityMetrics{fastQuality, expertQuality}
	if err := report.WriteCSV(opts.OutputDir, names, metrics); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	createdAt := time.Now().UTC()
	info := report.RunInfo{
		RunID:               runID,
		CreatedAt:           createdAt,
		Platform:            plat.String(),
		Species:             sp,
		ReadLocations:       opts.Reads.Locations(),
		ReadQuality:         readQuality,
		Quality:             expertQuality,
		MLEvaluation:        mlExpert,
		HeuristicEvaluation: heuristic,
		DatabasePath:        opts.DatabasePath,
	}
	if err := report.WriteJSON(opts.OutputDir, info); err != nil {
		return nil, err
	}

	// Move the expert contigs to the canonical output path.
	contigsPath := filepath.Join(opts.OutputDir, ContigsName)
	if err := os.Rename(exp.Assembler.ContigsPath(), contigsPath); err != nil {
		return nil, fmt.Errorf("finalize contigs: %w", err)
	}

	if err := deps.Store.RecordRun(&stats.Run{
		ID:        runID,
		Species:   sp.Name,
		Assembler: exp.Assembler.Name(),
		Quality:   expertQuality,
		CreatedAt: createdAt,
	}); err != nil {
		return nil, fmt.Errorf("record run: %w", err)
	}

	if err := Cleanup(opts.OutputDir); err != nil {
		return nil, err
	}

	sink.Report("Complete.")
	sink.Blank()
	return &assembly.Summary{
		Species:     sp,
		Quality:     expertQuality,
		ContigsPath: contigsPath,
	}, nil
}

// determinePlatform resolves the sequencing platform exactly once: a
// recognized caller hint wins, otherwise the platform is inferred from the
// reads.
func determinePlatform(sink report.Sink, detect func(reads.ReadSet) platform.Platform, rs reads.ReadSet, hint string) platform.Platform {
	plat := platform.Unidentifiable

	if hint != "" {
		plat = platform.Identify(hint)
		sink.Blank()
		if plat == platform.Unidentifiable {
			sink.Reportf("The platform name '%s' is unrecognized.", hint)
			sink.Report("Please see the help message for valid platform names.")
		} else {
			sink.Reportf("The platform name '%s' was recognized.", hint)
		}
	}

	if plat == platform.Unidentifiable {
		sink.Blank()
		sink.Report("Attempting to identify the sequencing platform from the reads.")
		plat = detect(rs)
	}
	return plat
}

// determineSpecies returns the ranked candidate list for the run. A
// caller-supplied species name that exists in the statistics database
// shortcuts estimation.
func determineSpecies(ctx context.Context, opts Options, deps Deps, filtered reads.ReadSet) ([]species.Species, error) {
	if opts.SpeciesName != "" {
		ok, err := deps.Store.Contains(opts.SpeciesName)
		if err != nil {
			return nil, err
		}
		if ok {
			return []species.Species{{Name: opts.SpeciesName, Confidence: 1.0}}, nil
		}
	}
	candidates, err := deps.Estimator.Estimate(ctx, filtered.Locations(), opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		candidates = []species.Species{species.Unknown()}
	}
	return candidates, nil
}

// runAssembly invokes one assembler and reports its captured output. A
// failed invocation or a missing contigs file is fatal to the run.
func runAssembly(ctx context.Context, sink report.Sink, a assembler.Assembler) error {
	output, err := a.Assemble(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", a.Name(), err)
	}
	sink.Report(output)
	return nil
}

func reportValidFASTQ(sink report.Sink, valid bool) {
	if valid {
		sink.Report("The reads appear to be formatted correctly.")
	} else {
		sink.Report("One or both of the reads are not in FASTQ format.")
	}
}

func reportSpecies(sink report.Sink, candidates []species.Species) {
	top := candidates[0]
	sink.Reportf("SPECIES: %s", top)

	if len(candidates) > 1 {
		sink.Blank()
		sink.Report("WARNING: Additional high-confidence species were found in the input data:")
		sink.Blank()
		for _, sp := range candidates[1:min(5, len(candidates))] {
			sink.Report(sp.String())
		}
	}
	if top.Name == species.UnknownName {
		sink.Blank()
		sink.Report("WARNING: A species could not be determined with high confidence from the input data.")
	}
	sink.Blank()
}

func reportStrategy(sink report.Sink, s expert.Strategy) {
	sink.Report(s.Report)
	if !s.Proceed {
		sink.Report("The assembly was unable to proceed.")
		sink.Blank()
	}
}

func reportContamination(sink report.Sink, ev evaluate.Evaluation) {
	sink.Report(ev.Report)
	if !ev.Success {
		sink.Report("The assembly was unable to proceed.")
		sink.Blank()
	}
}
