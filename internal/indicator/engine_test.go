package indicator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sp500scan/internal/contracts"
	"github.com/wonny/sp500scan/pkg/logger"
)

// uptrendSeries builds n daily bars closing 1 higher each day with a fixed
// 2-point range. The final bar carries a 5x volume.
func uptrendSeries(ticker string, n int) *contracts.PriceSeries {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	bars := make([]contracts.Bar, n)
	for i := 0; i < n; i++ {
		c := 100.0 + float64(i)
		vol := 1_000_000.0
		if i == n-1 {
			vol = 5_000_000.0
		}
		bars[i] = contracts.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: vol,
		}
	}
	return &contracts.PriceSeries{Ticker: ticker, Bars: bars}
}

func TestEngine_Compute_Uptrend(t *testing.T) {
	engine := New(DefaultConfig(), logger.Nop())

	row, err := engine.Compute(uptrendSeries("AAPL", 70))
	require.NoError(t, err)

	assert.Equal(t, "AAPL", row.Ticker)
	assert.Equal(t, 169.0, row.LastClose)

	// bullish trend signals
	assert.Equal(t, 1, row.MACDBull)
	assert.Equal(t, 1, row.AboveTrend)
	assert.Greater(t, row.MACDHist, 0.0)
	assert.Greater(t, row.RSI, 99.0)
	assert.Greater(t, row.Mom14, 0.0)
	assert.Greater(t, row.ADX, 25.0)

	// trend references
	assert.InDelta(t, 159.5, row.SMA20, 1e-9)
	assert.Greater(t, row.EMA50, 0.0)
	assert.Greater(t, row.EMA200, 0.0)

	// constant daily range
	assert.InDelta(t, 2.0, row.ATR, 1e-9)

	// last bar volume 5x over a 1M baseline
	assert.InDelta(t, 1_200_000.0, row.AvgVol20, 1e-6)
	assert.Equal(t, 1, row.VolSpike)

	// a strictly rising close has no interior local peak
	assert.Equal(t, 1.0, row.WaveStrength)

	// a linear ramp stays inside the upper band
	assert.Equal(t, 0, row.BBBreakout)

	assert.Greater(t, row.OBVSlope, 0.0)
}

func TestEngine_Compute_AcceleratingTail(t *testing.T) {
	engine := New(DefaultConfig(), logger.Nop())

	series := uptrendSeries("NVDA", 65)
	// last 5 bars jump 10/day, blowing through the 20-bar upper band
	for i := 60; i < 65; i++ {
		c := series.Bars[59].Close + 10.0*float64(i-59)
		series.Bars[i].Close = c
		series.Bars[i].High = c + 1
		series.Bars[i].Low = c - 1
		series.Bars[i].Open = c - 0.5
	}

	row, err := engine.Compute(series)
	require.NoError(t, err)

	assert.Equal(t, 1, row.BBBreakout)
	assert.Equal(t, 1, row.MACDBull)
	assert.Greater(t, row.MACDSlope, 0.0)
}

func TestEngine_Compute_InsufficientData(t *testing.T) {
	engine := New(DefaultConfig(), logger.Nop())

	_, err := engine.Compute(uptrendSeries("NEW", contracts.MinRows-1))
	require.Error(t, err)
	assert.ErrorIs(t, err, contracts.ErrInsufficientData)
}

func TestEngine_Compute_MalformedSeries(t *testing.T) {
	engine := New(DefaultConfig(), logger.Nop())

	series := uptrendSeries("BAD", 70)
	series.Bars[10].Date = series.Bars[9].Date // duplicate date

	_, err := engine.Compute(series)
	require.Error(t, err)
	assert.ErrorIs(t, err, contracts.ErrComputeFailed)
}

func TestEngine_Compute_FlatSeries(t *testing.T) {
	engine := New(DefaultConfig(), logger.Nop())

	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	bars := make([]contracts.Bar, 70)
	for i := range bars {
		bars[i] = contracts.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   100,
			High:   101,
			Low:    99,
			Close:  100,
			Volume: 1_000_000,
		}
	}

	row, err := engine.Compute(&contracts.PriceSeries{Ticker: "FLAT", Bars: bars})
	require.NoError(t, err)

	assert.Equal(t, 0, row.MACDBull)
	assert.Equal(t, 0, row.AboveTrend)
	assert.Equal(t, 0, row.BBBreakout)
	assert.Equal(t, 0, row.VolSpike)
	assert.InDelta(t, 0.0, row.MACDHist, 1e-9)
	assert.InDelta(t, 0.0, row.Mom14, 1e-9)
	assert.Equal(t, 1.0, row.WaveStrength)
	assert.InDelta(t, 0.0, row.ADX, 1e-9)
}
