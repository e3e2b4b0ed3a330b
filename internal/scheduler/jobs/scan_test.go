package jobs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sp500scan/internal/contracts"
	"github.com/wonny/sp500scan/internal/indicator"
	"github.com/wonny/sp500scan/internal/rank"
	"github.com/wonny/sp500scan/internal/worker"
	"github.com/wonny/sp500scan/pkg/config"
	"github.com/wonny/sp500scan/pkg/logger"
)

type stubFetcher struct{}

func (stubFetcher) Fetch(ctx context.Context, ticker string) (*contracts.PriceSeries, string, error) {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	bars := make([]contracts.Bar, 70)
	for i := range bars {
		c := 100.0 + float64(i)
		bars[i] = contracts.Bar{
			Date: start.AddDate(0, 0, i), Open: c - 0.5, High: c + 1, Low: c - 1, Close: c, Volume: 1e6,
		}
	}
	return &contracts.PriceSeries{Ticker: ticker, Bars: bars}, "stub", nil
}

func TestScanJob_Run(t *testing.T) {
	workDir := t.TempDir()
	publicDir := filepath.Join(workDir, "public")

	universeFile := filepath.Join(workDir, "sp500_list.txt")
	require.NoError(t, os.WriteFile(universeFile, []byte("AAPL\nMSFT\n"), 0o644))

	cfg := &config.Config{
		Scan: config.ScanConfig{
			JobIndex: 0, JobTotal: 1,
			VolSpikeMult: 1.5, RecentDays: 8, SlopeDays: 14,
			TickerPause: time.Microsecond,
		},
		Paths: config.PathsConfig{
			UniverseFile: universeFile,
			ArtifactDir:  workDir,
			PublicDir:    publicDir,
		},
	}

	log := logger.Nop()
	engine := indicator.New(indicator.DefaultConfig(), log)
	runner := worker.NewRunner(cfg, stubFetcher{}, engine, log)

	job := NewScanJob("0 0 22 * * 1-5", runner, workDir,
		rank.NewAggregator(log), rank.NewScorer(log), rank.NewWriter(publicDir, log), log)

	assert.Equal(t, "daily-scan", job.Name())
	assert.Equal(t, "0 0 22 * * 1-5", job.Schedule())

	require.NoError(t, job.Run(context.Background()))

	// the shard artifact and the final report both land on disk
	assert.FileExists(t, filepath.Join(workDir, "raw-results-0.json"))

	data, err := os.ReadFile(filepath.Join(publicDir, rank.ReportName))
	require.NoError(t, err)

	var report contracts.TopPicksReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, 2, report.CountTotal)
	assert.Equal(t, 2, report.CountResults)
	assert.Equal(t, 0, report.FailedCount)
	assert.Len(t, report.Top, 2)
}
