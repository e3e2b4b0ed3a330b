package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/sp500scan/internal/contracts"
	"github.com/wonny/sp500scan/internal/fetch"
	"github.com/wonny/sp500scan/internal/indicator"
	"github.com/wonny/sp500scan/internal/universe"
	"github.com/wonny/sp500scan/pkg/config"
	"github.com/wonny/sp500scan/pkg/logger"
)

// UniverseRefresher can rebuild the constituent list when the universe file
// is missing. *universe.Downloader satisfies it.
type UniverseRefresher interface {
	FetchConstituents(ctx context.Context) ([]string, error)
}

// Runner executes one shard: ensure the universe list exists, take this
// shard's slice, fetch and compute each ticker sequentially, and package the
// results into a WorkerArtifact. Per-ticker failures are recorded and
// skipped; only the artifact write itself can fail the run.
type Runner struct {
	scan         config.ScanConfig
	universeFile string
	fetcher      fetch.Fetcher
	engine       *indicator.Engine
	refresher    UniverseRefresher
	limiter      *rate.Limiter
	logger       *logger.Logger
}

// NewRunner creates a shard runner.
func NewRunner(cfg *config.Config, fetcher fetch.Fetcher, engine *indicator.Engine, log *logger.Logger) *Runner {
	return &Runner{
		scan:         cfg.Scan,
		universeFile: cfg.Paths.UniverseFile,
		fetcher:      fetcher,
		engine:       engine,
		limiter:      rate.NewLimiter(rate.Every(cfg.Scan.TickerPause), 1),
		logger:       log,
	}
}

// WithRefresher attaches a universe refresher consulted when the universe
// file cannot be loaded.
func (r *Runner) WithRefresher(refresher UniverseRefresher) *Runner {
	r.refresher = refresher
	return r
}

// Run produces this shard's artifact. A missing universe file is rebuilt via
// the refresher when one is attached; only when that also fails does the
// shard emit a zero-result artifact carrying a top-level error, so
// aggregation proceeds with reduced coverage.
func (r *Runner) Run(ctx context.Context) *contracts.WorkerArtifact {
	artifact := &contracts.WorkerArtifact{
		Results:  make([]contracts.FeatureRow, 0),
		Errors:   make([]string, 0),
		JobIndex: r.scan.JobIndex,
	}

	tickers, err := r.ensureUniverse(ctx)
	if err != nil {
		r.logger.WithError(err).Error("Universe list unavailable")
		artifact.Errors = append(artifact.Errors, fmt.Sprintf("universe list unavailable: %v", err))
		artifact.TS = time.Now().UTC()
		return artifact
	}

	assigned := universe.Assign(tickers, r.scan.JobTotal, r.scan.JobIndex)
	artifact.AttemptedCount = len(assigned)

	r.logger.WithFields(map[string]interface{}{
		"job_index": r.scan.JobIndex,
		"job_total": r.scan.JobTotal,
		"universe":  len(tickers),
		"assigned":  len(assigned),
	}).Info("Shard run started")

	for i, ticker := range assigned {
		if err := r.limiter.Wait(ctx); err != nil {
			artifact.Errors = append(artifact.Errors, fmt.Sprintf("%s: %v", ticker, err))
			break
		}

		row, err := r.processTicker(ctx, ticker)
		if err != nil {
			artifact.Errors = append(artifact.Errors, fmt.Sprintf("%s: %v", ticker, err))
			continue
		}

		artifact.Results = append(artifact.Results, *row)
		artifact.ProcessedCount++

		r.logger.WithFields(map[string]interface{}{
			"ticker":   ticker,
			"progress": fmt.Sprintf("%d/%d", i+1, len(assigned)),
			"source":   row.FetchSource,
		}).Debug("Ticker processed")
	}

	artifact.TS = time.Now().UTC()

	r.logger.WithFields(map[string]interface{}{
		"job_index": artifact.JobIndex,
		"attempted": artifact.AttemptedCount,
		"processed": artifact.ProcessedCount,
		"errors":    len(artifact.Errors),
	}).Info("Shard run completed")

	return artifact
}

// ensureUniverse loads the constituent list, rebuilding it through the
// refresher when the file cannot be read.
func (r *Runner) ensureUniverse(ctx context.Context) ([]string, error) {
	tickers, err := universe.Load(r.universeFile)
	if err == nil {
		return tickers, nil
	}
	if r.refresher == nil {
		return nil, err
	}

	r.logger.WithError(err).Warn("Universe list missing, refreshing")

	symbols, ferr := r.refresher.FetchConstituents(ctx)
	if ferr != nil {
		return nil, fmt.Errorf("refresh universe: %w", ferr)
	}
	if werr := universe.WriteList(r.universeFile, symbols); werr != nil {
		return nil, fmt.Errorf("write universe list: %w", werr)
	}

	return universe.Load(r.universeFile)
}

// processTicker runs fetch-then-compute for one ticker.
func (r *Runner) processTicker(ctx context.Context, ticker string) (*contracts.FeatureRow, error) {
	series, source, err := r.fetcher.Fetch(ctx, ticker)
	if err != nil {
		return nil, err
	}

	row, err := r.engine.Compute(series)
	if err != nil {
		if errors.Is(err, contracts.ErrInsufficientData) {
			return nil, fmt.Errorf("insufficient data from %s (%d rows)", source, series.Len())
		}
		return nil, err
	}

	row.FetchSource = source
	return row, nil
}
