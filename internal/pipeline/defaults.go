package pipeline

import (
	"fmt"
	"os"

	"proksee/internal/assembly"
	"proksee/internal/config"
	"proksee/internal/contamination"
	"proksee/internal/evaluate"
	"proksee/internal/expert"
	"proksee/internal/logging"
	"proksee/internal/platform"
	"proksee/internal/reads"
	"proksee/internal/report"
	"proksee/internal/shell"
	"proksee/internal/species"
	"proksee/internal/stats"
)

// DefaultDeps wires the real stage executors for opts: the external tools
// behind an exec runner, the SQLite statistics store when a database path
// is given (in-memory otherwise), and a console sink on stdout. The caller
// owns the returned store and closes it after the run.
func DefaultDeps(opts Options, cfg *config.Config) (Deps, error) {
	log := logging.New("pipeline")
	runner := shell.NewRunner(logging.New("shell"))

	var store stats.Store
	if opts.DatabasePath != "" {
		s, err := stats.Open(opts.DatabasePath)
		if err != nil {
			return Deps{}, fmt.Errorf("open statistics database: %w", err)
		}
		store = s
	} else {
		store = stats.NewMemStore()
	}

	return Deps{
		Validate: reads.ValidFASTQ,
		Detect:   platform.Detect,
		Filterer: &reads.Filterer{
			Runner:    runner,
			Config:    cfg,
			Resources: opts.Resources,
		},
		Estimator: &species.Estimator{
			Runner:        runner,
			Config:        cfg,
			DatabasePath:  opts.MashDatabase,
			IDMappingPath: opts.IDMapping,
			Resources:     opts.Resources,
		},
		NewStrategist: func(p platform.Platform, sp species.Species, filtered reads.ReadSet) Strategist {
			return &expert.System{
				Platform:  p,
				Species:   sp,
				Reads:     filtered,
				OutputDir: opts.OutputDir,
				Resources: opts.Resources,
				Runner:    runner,
				Config:    cfg,
				Store:     store,
			}
		},
		Contamination: &contamination.Handler{
			Runner:        runner,
			Config:        cfg,
			DatabasePath:  opts.MashDatabase,
			IDMappingPath: opts.IDMapping,
			Resources:     opts.Resources,
		},
		Measurer: &assembly.QuastMeasurer{
			Runner:    runner,
			Config:    cfg,
			Resources: opts.Resources,
		},
		ML:        &evaluate.MLEvaluator{Store: store},
		Heuristic: &evaluate.HeuristicEvaluator{Store: store},
		Store:     store,
		Sink:      report.NewConsole(os.Stdout),
		Log:       log,
	}, nil
}
