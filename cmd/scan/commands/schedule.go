package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/sp500scan/internal/rank"
	"github.com/wonny/sp500scan/internal/scheduler"
	"github.com/wonny/sp500scan/internal/scheduler/jobs"
	"github.com/wonny/sp500scan/internal/universe"
	"github.com/wonny/sp500scan/internal/worker"
	"github.com/wonny/sp500scan/pkg/httputil"
)

// scheduleCmd represents the schedule command
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the daily scan on a cron schedule",
	Long: `Starts a long-lived process that runs the full scan pipeline
(worker shard + finalize) on CRON_SPEC.

The default schedule is 22:00 on weekdays, after the US close.
Failed runs are retried up to 3 times with a one minute delay.

Example:
  go run ./cmd/scan schedule
  CRON_SPEC="0 30 21 * * 1-5" go run ./cmd/scan schedule`,
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Scanner Scheduler ===")

	// 1. Load config and logger
	cfg, log, err := initRuntime()
	if err != nil {
		return err
	}

	// 2. Wire the pipeline
	fetcher := buildFetcher(cfg, log)
	engine := buildEngine(cfg, log)
	downloader := universe.NewDownloader(httputil.New(cfg, log), log)
	runner := worker.NewRunner(cfg, fetcher, engine, log).WithRefresher(downloader)
	aggregator := rank.NewAggregator(log)
	scorer := rank.NewScorer(log)
	writer := rank.NewWriter(cfg.Paths.PublicDir, log)

	// 3. Register the daily scan job
	sched := scheduler.New(log)
	scanJob := jobs.NewScanJob(cfg.CronSpec, runner, cfg.Paths.ArtifactDir,
		aggregator, scorer, writer, log)

	if err := sched.AddJob(scanJob); err != nil {
		return fmt.Errorf("add job: %w", err)
	}

	// 4. Start and wait for interrupt
	sched.Start()

	fmt.Printf("\nScheduler started\n")
	fmt.Printf("  %s @ %q\n", scanJob.Name(), scanJob.Schedule())
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}
