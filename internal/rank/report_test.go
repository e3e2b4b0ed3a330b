package rank

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sp500scan/internal/contracts"
	"github.com/wonny/sp500scan/pkg/logger"
)

// stubFetcher serves a canned series or a canned error.
type stubFetcher struct {
	series *contracts.PriceSeries
	err    error
}

func (f *stubFetcher) Fetch(ctx context.Context, ticker string) (*contracts.PriceSeries, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return f.series, "stub", nil
}

func TestBuildReport(t *testing.T) {
	agg := &Aggregated{
		Rows:      []contracts.FeatureRow{{Ticker: "AAPL"}},
		Attempted: 10,
		Processed: 8,
		Errors:    []string{"a.json: NVDA: data unavailable"},
	}
	items := []ScoredItem{
		{
			Row:         contracts.FeatureRow{Ticker: "AAPL", RSI: 72, MACDBull: 1, AvgVol20: 5e6, LastClose: 210.5},
			Score0100:   91.25,
			Score010:    9.13,
			Explanation: "MACD bullish crossover",
			Rank:        1,
		},
	}

	report := BuildReport(agg, items)

	assert.Equal(t, 10, report.CountTotal)
	assert.Equal(t, 8, report.CountResults)
	assert.Equal(t, 2, report.FailedCount)
	assert.Equal(t, agg.Errors, report.Errors)
	assert.False(t, report.GeneratedAt.IsZero())

	require.Len(t, report.Top, 1)
	pick := report.Top[0]
	assert.Equal(t, "AAPL", pick.Ticker)
	assert.Equal(t, 91.25, pick.Score0100)
	assert.Equal(t, 210.5, pick.LastClose)

	// features carry the raw indicator values, not the normalized ones
	assert.Equal(t, 72.0, pick.Features["rsi"])
	assert.Equal(t, 1, pick.Bools["macd_bull"])
	assert.Len(t, pick.Features, len(contracts.NumericFeatures))
	assert.Len(t, pick.Bools, len(contracts.BoolFeatures))
}

func TestBuildReport_FailedCountNeverNegative(t *testing.T) {
	// more results than attempts can only come from inconsistent artifacts;
	// the report still clamps at zero
	agg := &Aggregated{Attempted: 1, Processed: 5}

	report := BuildReport(agg, nil)
	assert.Equal(t, 0, report.FailedCount)
}

func TestWriter_WriteAndArchive(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, logger.Nop())

	report := &contracts.TopPicksReport{
		GeneratedAt: time.Date(2026, 8, 21, 22, 0, 0, 0, time.UTC),
		Errors:      []string{},
		Top:         []contracts.TopPick{},
	}

	path, err := w.Write(report)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ReportName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got contracts.TopPicksReport
	require.NoError(t, json.Unmarshal(data, &got))
	assert.True(t, got.GeneratedAt.Equal(report.GeneratedAt))

	archived, err := w.Archive(report)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "archive", "top_picks-20260821-220000.json"), archived)
	assert.FileExists(t, archived)
}

func TestWriter_WriteDetails(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, logger.Nop())

	items := []ScoredItem{
		{Row: contracts.FeatureRow{Ticker: "AAPL"}, Score0100: 90},
	}

	t.Run("with history", func(t *testing.T) {
		series := &contracts.PriceSeries{
			Ticker: "AAPL",
			Bars: []contracts.Bar{
				{Date: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), Close: 210},
			},
		}

		require.NoError(t, w.WriteDetails(context.Background(), items, &stubFetcher{series: series}))

		data, err := os.ReadFile(filepath.Join(dir, "details", "AAPL.json"))
		require.NoError(t, err)

		var detail contracts.TickerDetail
		require.NoError(t, json.Unmarshal(data, &detail))
		assert.Equal(t, "AAPL", detail.Ticker)
		assert.Equal(t, 90.0, detail.Indicators.Score0100)
		assert.Len(t, detail.History, 1)
	})

	t.Run("fetch failure degrades to indicator-only", func(t *testing.T) {
		fetchErr := errors.New("upstream down")
		require.NoError(t, w.WriteDetails(context.Background(), items, &stubFetcher{err: fetchErr}))

		data, err := os.ReadFile(filepath.Join(dir, "details", "AAPL.json"))
		require.NoError(t, err)

		var detail contracts.TickerDetail
		require.NoError(t, json.Unmarshal(data, &detail))
		assert.Empty(t, detail.History)
		assert.Equal(t, 90.0, detail.Indicators.Score0100)
	})
}
