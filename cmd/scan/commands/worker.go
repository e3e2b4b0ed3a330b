package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/sp500scan/internal/universe"
	"github.com/wonny/sp500scan/internal/worker"
	"github.com/wonny/sp500scan/pkg/httputil"
)

// workerCmd represents the worker command
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run one scanner shard",
	Long: `Runs this shard's slice of the universe and writes a raw-results
artifact.

This command:
- Loads the universe file and takes tickers where i mod JOB_TOTAL == JOB_INDEX
- Fetches daily bars per ticker (Yahoo primary, Stooq fallback)
- Computes the indicator set per ticker
- Writes raw-results-<JOB_INDEX>.json to ARTIFACT_DIR

Per-ticker failures are recorded in the artifact, not fatal.

Example:
  go run ./cmd/scan worker
  JOB_INDEX=2 JOB_TOTAL=4 go run ./cmd/scan worker`,
	RunE: runWorker,
}

var (
	workerJobIndex int
	workerJobTotal int
)

func init() {
	rootCmd.AddCommand(workerCmd)

	// Flags override the JOB_INDEX / JOB_TOTAL environment
	workerCmd.Flags().IntVar(&workerJobIndex, "job-index", -1, "shard index (default JOB_INDEX)")
	workerCmd.Flags().IntVar(&workerJobTotal, "job-total", 0, "total shards (default JOB_TOTAL)")
}

func runWorker(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Scanner Worker ===")

	// 1. Load config and logger
	cfg, log, err := initRuntime()
	if err != nil {
		return err
	}

	if workerJobTotal > 0 {
		cfg.Scan.JobTotal = workerJobTotal
	}
	if workerJobIndex >= 0 {
		cfg.Scan.JobIndex = workerJobIndex
	}
	if cfg.Scan.JobIndex >= cfg.Scan.JobTotal {
		return fmt.Errorf("job index %d out of range for %d shards", cfg.Scan.JobIndex, cfg.Scan.JobTotal)
	}

	fmt.Printf("Shard: %d/%d\n\n", cfg.Scan.JobIndex, cfg.Scan.JobTotal)

	// 2. Wire fetcher, engine, runner
	fetcher := buildFetcher(cfg, log)
	engine := buildEngine(cfg, log)
	downloader := universe.NewDownloader(httputil.New(cfg, log), log)
	runner := worker.NewRunner(cfg, fetcher, engine, log).WithRefresher(downloader)

	// Ctrl+C stops the shard; whatever was processed so far still gets written
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Run the shard
	artifact := runner.Run(ctx)

	// 4. Write the artifact
	path, err := worker.WriteArtifact(cfg.Paths.ArtifactDir, artifact)
	if err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}

	fmt.Printf("\nArtifact: %s\n", path)
	fmt.Printf("Attempted: %d  Processed: %d  Errors: %d\n",
		artifact.AttemptedCount, artifact.ProcessedCount, len(artifact.Errors))

	return nil
}
