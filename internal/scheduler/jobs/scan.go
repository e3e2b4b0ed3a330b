package jobs

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/wonny/sp500scan/internal/rank"
	"github.com/wonny/sp500scan/internal/worker"
	"github.com/wonny/sp500scan/pkg/logger"
)

// ScanJob runs the full daily pipeline for single-process deployments: this
// shard's worker pass followed by aggregation over whatever artifacts exist.
// Multi-shard deployments run `scan worker` per shard and a single
// `scan finalize` instead.
type ScanJob struct {
	schedule    string
	runner      *worker.Runner
	artifactDir string
	aggregator  *rank.Aggregator
	scorer      *rank.Scorer
	writer      *rank.Writer
	logger      *logger.Logger
}

// NewScanJob creates the daily scan job.
func NewScanJob(schedule string, runner *worker.Runner, artifactDir string,
	aggregator *rank.Aggregator, scorer *rank.Scorer, writer *rank.Writer, log *logger.Logger) *ScanJob {
	return &ScanJob{
		schedule:    schedule,
		runner:      runner,
		artifactDir: artifactDir,
		aggregator:  aggregator,
		scorer:      scorer,
		writer:      writer,
		logger:      log,
	}
}

// Name implements scheduler.Job.
func (j *ScanJob) Name() string { return "daily-scan" }

// Schedule implements scheduler.Job.
func (j *ScanJob) Schedule() string { return j.schedule }

// Run implements scheduler.Job.
func (j *ScanJob) Run(ctx context.Context) error {
	artifact := j.runner.Run(ctx)

	path, err := worker.WriteArtifact(j.artifactDir, artifact)
	if err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	j.logger.WithField("path", path).Info("Artifact written")

	manifest, err := filepath.Glob(filepath.Join(j.artifactDir, "raw-results-*.json"))
	if err != nil {
		return fmt.Errorf("build manifest: %w", err)
	}

	agg := j.aggregator.Merge(manifest)
	items := j.scorer.Score(agg.Rows, rank.Normalize(agg.Rows))
	report := rank.BuildReport(agg, items)

	if _, err := j.writer.Write(report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}
