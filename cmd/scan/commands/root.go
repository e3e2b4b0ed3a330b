package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scan",
	Short: "S&P 500 technical scanner",
	Long: `S&P 500 daily technical scanner.

Fetches daily OHLCV bars per ticker, computes technical indicators,
and ranks the universe into a composite top-picks report.

Usage:
  go run ./cmd/scan [command]

Examples:
  go run ./cmd/scan universe
  go run ./cmd/scan worker
  go run ./cmd/scan finalize
  go run ./cmd/scan schedule
  go run ./cmd/scan api`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
