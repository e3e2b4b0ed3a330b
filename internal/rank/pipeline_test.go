package rank

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sp500scan/internal/contracts"
	"github.com/wonny/sp500scan/internal/indicator"
	"github.com/wonny/sp500scan/pkg/logger"
)

// synthSeries builds n daily bars from a close function with a fixed 2-point
// daily range and constant volume.
func synthSeries(ticker string, n int, closeAt func(i int) float64) *contracts.PriceSeries {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	bars := make([]contracts.Bar, n)
	for i := 0; i < n; i++ {
		c := closeAt(i)
		bars[i] = contracts.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1_000_000,
		}
	}
	return &contracts.PriceSeries{Ticker: ticker, Bars: bars}
}

// TestPipeline_EndToEnd runs crafted price histories through the indicator
// engine, normalization, scoring, and report assembly, and checks that the
// obviously strongest ticker lands on top with the expected signals.
func TestPipeline_EndToEnd(t *testing.T) {
	engine := indicator.New(indicator.DefaultConfig(), logger.Nop())

	// breakout: steady uptrend that accelerates hard over the last 5 bars
	breakout := synthSeries("UP", 65, func(i int) float64 {
		if i < 60 {
			return 100 + float64(i)
		}
		return 159 + 10*float64(i-59)
	})
	// flat: no movement at all
	flat := synthSeries("FLAT", 65, func(i int) float64 { return 100 })
	// slide: steady downtrend
	slide := synthSeries("DOWN", 65, func(i int) float64 { return 300 - float64(i) })

	var rows []contracts.FeatureRow
	for _, series := range []*contracts.PriceSeries{breakout, flat, slide} {
		row, err := engine.Compute(series)
		require.NoError(t, err)
		row.FetchSource = "test"
		rows = append(rows, *row)
	}

	scorer := NewScorer(logger.Nop())
	items := scorer.Score(rows, Normalize(rows))
	require.Len(t, items, 3)

	top := items[0]
	assert.Equal(t, "UP", top.Row.Ticker)
	assert.Equal(t, 1, top.Rank)
	assert.Equal(t, 100.0, top.Score0100)

	assert.Contains(t, top.Explanation, "MACD bullish crossover")
	assert.Contains(t, top.Explanation, "Bollinger breakout")
	assert.Contains(t, top.Explanation, "strong trend (ADX)")
	assert.Contains(t, top.Explanation, "price above trend")

	// scores are monotone with rank
	assert.GreaterOrEqual(t, items[0].Score0100, items[1].Score0100)
	assert.GreaterOrEqual(t, items[1].Score0100, items[2].Score0100)

	agg := &Aggregated{
		Rows:      rows,
		Attempted: 4, // one ticker failed upstream
		Processed: 3,
		Errors:    []string{"raw-results-0.json: GONE: data unavailable"},
	}

	report := BuildReport(agg, items)
	assert.Equal(t, 4, report.CountTotal)
	assert.Equal(t, 3, report.CountResults)
	assert.Equal(t, 1, report.FailedCount)
	require.Len(t, report.Top, 3)
	assert.Equal(t, "UP", report.Top[0].Ticker)
}

// TestPipeline_Deterministic re-runs the full scoring pass and expects
// byte-identical ordering, ties included.
func TestPipeline_Deterministic(t *testing.T) {
	engine := indicator.New(indicator.DefaultConfig(), logger.Nop())
	scorer := NewScorer(logger.Nop())

	var rows []contracts.FeatureRow
	for _, n := range []struct {
		ticker string
		slope  float64
	}{
		{"S1", 0.5}, {"S2", -0.25}, {"S3", 1.5}, {"S4", 0.0},
	} {
		series := synthSeries(n.ticker, 70, func(i int) float64 {
			return 100 + n.slope*float64(i)
		})
		row, err := engine.Compute(series)
		require.NoError(t, err)
		rows = append(rows, *row)
	}

	first := scorer.Score(rows, Normalize(rows))
	second := scorer.Score(rows, Normalize(rows))

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Row.Ticker, second[i].Row.Ticker)
		assert.Equal(t, first[i].Score0100, second[i].Score0100)
		assert.Equal(t, first[i].Rank, second[i].Rank)
	}
}
