package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/prosim/internal/logger"
	"github.com/ludo-technologies/prosim/internal/version"
)

// newRootCmd builds the prosim command tree
func newRootCmd() *cobra.Command {
	var (
		verbose   bool
		logLevel  string
		logFormat string
	)

	rootCmd := &cobra.Command{
		Use:   "prosim",
		Short: "A prosodic corpus similarity engine",
		Long: `prosim compares documents of a prosodic corpus window by window.

Every phoneme carries a tuple of categorical features (part of speech,
accent, stress, tone, phrase id, break index). prosim slides a fixed-size
window over each document, finds the best matching window in every other
document, and reports per-position similarity rows together with a
document-by-document confusion matrix.

Features:
  • Weighted mismatch scoring over configurable feature channels
  • Parallel solving with deterministic, seeded tie-breaks
  • Text, JSON, YAML and CSV reports`,
		Version:      version.Short(),
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := logLevel
			if verbose {
				level = "debug"
			}
			logger.SetupWithWriter(cmd.ErrOrStderr(), level, logFormat)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (same as --log-level debug)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text, json")

	// Add main subcommands
	rootCmd.AddCommand(NewAnalyzeCmd())
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
