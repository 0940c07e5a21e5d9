// Package cli implements the molscope command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/praxisip/molscope/internal/config"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootConfigPath string

// NewRootCommand creates the root command and mounts the subcommands.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "molscope",
		Short: "Search patent publications by chemical molecule",
		Long: `molscope searches WIPO PatentScope for patent publications that
mention a chemical molecule, given as a name, molecular formula, or
SMILES string.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "path to config file")

	rootCmd.AddCommand(NewSearchCmd())
	rootCmd.AddCommand(NewDetailCmd())
	return rootCmd
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig resolves configuration for a CLI invocation: the --config
// file when given, environment otherwise.
func loadConfig() (*config.Config, error) {
	if rootConfigPath != "" {
		return config.Load(rootConfigPath)
	}
	return config.LoadFromEnv()
}
