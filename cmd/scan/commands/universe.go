package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/sp500scan/internal/universe"
	"github.com/wonny/sp500scan/pkg/httputil"
)

// universeCmd represents the universe command
var universeCmd = &cobra.Command{
	Use:   "universe",
	Short: "Refresh the S&P 500 ticker list",
	Long: `Downloads the current S&P 500 constituents and writes the
universe file consumed by worker shards.

This command:
- Scrapes the constituents table from Wikipedia
- Validates and dedupes the symbols
- Writes one ticker per line to UNIVERSE_FILE

Example:
  go run ./cmd/scan universe
  go run ./cmd/scan universe --out sp500_list.txt`,
	RunE: runUniverse,
}

var (
	universeOut string
)

func init() {
	rootCmd.AddCommand(universeCmd)

	// Flags
	universeCmd.Flags().StringVar(&universeOut, "out", "", "output path (default UNIVERSE_FILE)")
}

func runUniverse(cmd *cobra.Command, args []string) error {
	fmt.Println("=== S&P 500 Universe Refresh ===")

	// 1. Load config and logger
	cfg, log, err := initRuntime()
	if err != nil {
		return err
	}

	out := cfg.Paths.UniverseFile
	if universeOut != "" {
		out = universeOut
	}

	// 2. Download constituents
	httpClient := httputil.New(cfg, log)
	downloader := universe.NewDownloader(httpClient, log)

	symbols, err := downloader.FetchConstituents(context.Background())
	if err != nil {
		return fmt.Errorf("fetch constituents: %w", err)
	}

	// 3. Write the universe file
	if err := universe.WriteList(out, symbols); err != nil {
		return fmt.Errorf("write universe file: %w", err)
	}

	fmt.Printf("\nWrote %d tickers to %s\n", len(symbols), out)
	return nil
}
