package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"proksee/internal/config"
	"proksee/internal/logging"
	"proksee/internal/pipeline"
	"proksee/internal/reads"
	"proksee/internal/resource"
)

var assembleFlags struct {
	outputDir    string
	force        bool
	speciesName  string
	platformName string
	databasePath string
	mashDatabase string
	idMapping    string
	threads      int
	memory       int
	configPath   string
	logLevel     string
}

var assembleCmd = &cobra.Command{
	Use:   "assemble -o <dir> <forward> [reverse]",
	Short: "Assemble sequencing reads and evaluate the result",
	Long: `Assemble runs the full pipeline: validate the reads, identify the
sequencing platform and species, perform a fast assembly, and use its
measured quality to derive and run a refined expert assembly. The final
contigs, a statistics CSV and a run-metadata JSON file are written to the
output directory.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.RangeArgs(1, 2)(cmd, args); err != nil {
			return fmt.Errorf("%w: %s", errUsage, err)
		}
		return nil
	},
	RunE: runAssemble,
}

func init() {
	f := assembleCmd.Flags()
	f.StringVarP(&assembleFlags.outputDir, "output", "o", "", "Output directory (required)")
	f.BoolVar(&assembleFlags.force, "force", false, "Continue through every gate, even when a check fails")
	f.StringVar(&assembleFlags.speciesName, "species", "", "Species name hint")
	f.StringVar(&assembleFlags.platformName, "platform", "", "Sequencing platform hint (Illumina, Ion Torrent, Pac Bio, Oxford Nanopore)")
	f.StringVar(&assembleFlags.databasePath, "database", "", "Assembly statistics database path (SQLite); in-memory when empty")
	f.StringVar(&assembleFlags.mashDatabase, "mash-database", "", "Mash reference sketch path")
	f.StringVar(&assembleFlags.idMapping, "id-mapping", "", "NCBI ID to taxonomy mapping file path")
	f.IntVar(&assembleFlags.threads, "threads", 4, "Threads for external tools")
	f.IntVar(&assembleFlags.memory, "memory", 4, "Memory in gigabytes for external tools")
	f.StringVar(&assembleFlags.configPath, "config", "", "Tool configuration file (YAML or JSON)")
	f.StringVar(&assembleFlags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

func runAssemble(cmd *cobra.Command, args []string) error {
	if assembleFlags.outputDir == "" {
		return fmt.Errorf("%w: the output directory is required (-o)", errUsage)
	}

	logging.Init(assembleFlags.logLevel, "text", os.Stderr)

	var cfg *config.Config
	if assembleFlags.configPath != "" {
		c, err := config.LoadFromPath(assembleFlags.configPath)
		if err != nil {
			return err
		}
		cfg = c
	}

	forward := args[0]
	reverse := ""
	if len(args) == 2 {
		reverse = args[1]
	}

	opts := pipeline.Options{
		Reads:        reads.NewReadSet(forward, reverse),
		OutputDir:    assembleFlags.outputDir,
		Force:        assembleFlags.force,
		SpeciesName:  assembleFlags.speciesName,
		PlatformName: assembleFlags.platformName,
		DatabasePath: assembleFlags.databasePath,
		MashDatabase: assembleFlags.mashDatabase,
		IDMapping:    assembleFlags.idMapping,
		Resources: resource.Spec{
			Threads: assembleFlags.threads,
			Memory:  assembleFlags.memory,
		},
	}

	deps, err := pipeline.DefaultDeps(opts, cfg)
	if err != nil {
		return err
	}
	defer deps.Store.Close()

	summary, err := pipeline.Assemble(cmd.Context(), opts, deps)
	if err != nil {
		return err
	}
	if summary == nil {
		return errHalted
	}
	return nil
}
