package commands

import (
	"fmt"

	"github.com/wonny/sp500scan/internal/fetch"
	"github.com/wonny/sp500scan/internal/indicator"
	"github.com/wonny/sp500scan/pkg/config"
	"github.com/wonny/sp500scan/pkg/httputil"
	"github.com/wonny/sp500scan/pkg/logger"
)

// initRuntime loads config and builds the logger shared by every command.
func initRuntime() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)
	return cfg, log, nil
}

// buildFetcher wires the price sources: Yahoo chart API as primary, Stooq CSV
// as fallback. Retry policy lives in MultiSource, so the HTTP client runs
// with its own retry loop disabled.
func buildFetcher(cfg *config.Config, log *logger.Logger) fetch.Fetcher {
	httpClient := httputil.New(cfg, log).DisableRetry()

	yahoo := fetch.NewYahooSource(httpClient, cfg.Scan.LookbackDays, log)
	stooq := fetch.NewStooqSource(httpClient, cfg.Scan.LookbackDays, log)

	return fetch.NewMultiSource(yahoo, []fetch.Source{stooq},
		cfg.Fetch.MaxRetries, cfg.Fetch.RetryDelay, log)
}

// buildEngine constructs the indicator engine from scan config.
func buildEngine(cfg *config.Config, log *logger.Logger) *indicator.Engine {
	return indicator.New(indicator.Config{
		VolSpikeMult: cfg.Scan.VolSpikeMult,
		RecentDays:   cfg.Scan.RecentDays,
		SlopeDays:    cfg.Scan.SlopeDays,
	}, log)
}
