package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
	jsonOutput bool

	buildVersion string
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	buildVersion = version
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cyto",
		Short: "CytoWeave - Cellular Reconfiguration Engine",
		Long: `CytoWeave models reconfigurable cells: each cell carries a fixed set
of organelles whose behavior is rewritten at runtime by genetic programs.

Features:
  - Program catalog with built-in specialization profiles and YAML loading
  - Deterministic gene-segment compilation into organelle directives
  - Power-budgeted cell cycles with storage routing and coherence tracking
  - Tissue-level parallel execution and organ-level aggregation
  - Event stream, Prometheus metrics, and optional SQLite run history`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	// Add subcommands
	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newProgramsCommand())
	rootCmd.AddCommand(newStatusCommand())
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newHistoryCommand())

	return rootCmd
}
