// proksee assembles and evaluates genome sequencing reads.
//
// Usage:
//
//	proksee assemble -o <dir> [--force] [--species <name>] [--platform <name>]
//	                 [--database <path>] [--mash-database <path>] <forward> [reverse]
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

// errHalted marks a pipeline run that stopped at a gate. The reason has
// already been reported, so main exits without printing anything further.
var errHalted = errors.New("assembly halted")

// errUsage marks a caller mistake, distinguished from runtime failures by
// its exit code.
var errUsage = errors.New("usage error")

var rootCmd = &cobra.Command{
	Use:   "proksee",
	Short: "Assemble and evaluate genome sequencing reads",
	Long: "Proksee assembles sequencing reads with a two-pass strategy:\n" +
		"a fast first assembly whose measured quality informs a refined\nexpert assembly.",
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(assembleCmd)
	rootCmd.Version = version
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %s", errUsage, err)
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		switch {
		case errors.Is(err, errHalted):
			os.Exit(1)
		case errors.Is(err, errUsage):
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		default:
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
