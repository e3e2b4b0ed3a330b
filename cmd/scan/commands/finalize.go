package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wonny/sp500scan/internal/rank"
)

// finalizeCmd represents the finalize command
var finalizeCmd = &cobra.Command{
	Use:   "finalize",
	Short: "Aggregate shard artifacts into the top-picks report",
	Long: `Merges every raw-results artifact in ARTIFACT_DIR, normalizes the
features across the merged universe, scores and ranks the tickers, and
writes top_picks.json to PUBLIC_DIR.

Run once after all worker shards have finished.

Example:
  go run ./cmd/scan finalize
  go run ./cmd/scan finalize --archive --details 50`,
	RunE: runFinalize,
}

var (
	finalizeArchive bool
	finalizeDetails int
)

func init() {
	rootCmd.AddCommand(finalizeCmd)

	// Flags
	finalizeCmd.Flags().BoolVar(&finalizeArchive, "archive", false, "also write a timestamped copy under archive/")
	finalizeCmd.Flags().IntVar(&finalizeDetails, "details", 0, "write per-ticker detail files for the top N picks")
}

func runFinalize(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Scanner Finalize ===")

	// 1. Load config and logger
	cfg, log, err := initRuntime()
	if err != nil {
		return err
	}

	// 2. Build the artifact manifest
	manifest, err := filepath.Glob(filepath.Join(cfg.Paths.ArtifactDir, "raw-results-*.json"))
	if err != nil {
		return fmt.Errorf("build manifest: %w", err)
	}
	if len(manifest) == 0 {
		fmt.Printf("No artifacts found in %s; writing empty report\n", cfg.Paths.ArtifactDir)
	}

	// 3. Merge, normalize, score
	agg := rank.NewAggregator(log).Merge(manifest)
	scorer := rank.NewScorer(log)
	items := scorer.Score(agg.Rows, rank.Normalize(agg.Rows))

	// 4. Write the report
	report := rank.BuildReport(agg, items)
	writer := rank.NewWriter(cfg.Paths.PublicDir, log)

	path, err := writer.Write(report)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Printf("\nReport: %s\n", path)

	if finalizeArchive {
		archived, err := writer.Archive(report)
		if err != nil {
			return fmt.Errorf("archive report: %w", err)
		}
		fmt.Printf("Archive: %s\n", archived)
	}

	// 5. Optional per-ticker detail files (fetches history again for the top N)
	if finalizeDetails > 0 {
		top := items
		if finalizeDetails < len(top) {
			top = top[:finalizeDetails]
		}

		fetcher := buildFetcher(cfg, log)
		if err := writer.WriteDetails(context.Background(), top, fetcher); err != nil {
			return fmt.Errorf("write details: %w", err)
		}
		fmt.Printf("Details: %d tickers\n", len(top))
	}

	fmt.Printf("\nTickers: %d attempted, %d scored, %d in report\n",
		agg.Attempted, agg.Processed, len(report.Top))

	return nil
}
