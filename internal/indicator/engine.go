package indicator

import (
	"fmt"
	"math"
	"time"

	"github.com/wonny/sp500scan/internal/contracts"
	"github.com/wonny/sp500scan/pkg/logger"
)

// Config holds the indicator thresholds threaded into the engine at
// construction. Nothing in this package reads ambient state.
type Config struct {
	VolSpikeMult float64 // volume spike multiplier over avg_vol20
	RecentDays   int     // MACD crossover lookback window
	SlopeDays    int     // slope window for macd/rsi/obv slopes
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		VolSpikeMult: 1.5,
		RecentDays:   8,
		SlopeDays:    14,
	}
}

// Engine converts one ticker's price series into a feature row.
// Every indicator that can fail internally has a documented neutral default;
// only a malformed series aborts the whole row.
type Engine struct {
	cfg    Config
	logger *logger.Logger
}

// New creates a new indicator engine.
func New(cfg Config, log *logger.Logger) *Engine {
	return &Engine{
		cfg:    cfg,
		logger: log,
	}
}

// Compute builds the feature row for a series. It returns
// contracts.ErrInsufficientData when the series is shorter than
// contracts.MinRows and contracts.ErrComputeFailed when the series itself is
// malformed. The caller fills FetchSource afterwards.
func (e *Engine) Compute(series *contracts.PriceSeries) (*contracts.FeatureRow, error) {
	if series.Len() < contracts.MinRows {
		return nil, fmt.Errorf("%w: %s has %d rows, need %d",
			contracts.ErrInsufficientData, series.Ticker, series.Len(), contracts.MinRows)
	}

	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", contracts.ErrComputeFailed, series.Ticker, err)
	}

	closes := series.Closes()
	highs := series.Highs()
	lows := series.Lows()
	volumes := series.Volumes()
	n := len(closes)
	last := n - 1

	row := &contracts.FeatureRow{
		Ticker:    series.Ticker,
		LastClose: closes[last],
		TS:        time.Now().UTC(),
	}

	// MACD: 12/26 EMA spread with a 9-EMA signal line.
	macdLine := Sub(EMA(closes, 12), EMA(closes, 26))
	signal := EMA(macdLine, 9)
	hist := Sub(macdLine, signal)
	row.MACDHist = finiteOr(hist[last], 0.0)
	row.MACDSlope = finiteOr(Slope(hist, e.cfg.SlopeDays), 0.0)
	row.MACDBull = boolToInt(e.macdBull(macdLine, signal))

	// RSI(14) from rolling gain/loss means.
	rsi := RSI(closes, 14)
	row.RSI = finiteOr(rsi[last], 50.0)
	row.RSISlope = finiteOr(Slope(rsi, e.cfg.SlopeDays), 0.0)

	// Trend references.
	sma20 := LastMean(closes, 20)
	ema50 := EMA(closes, 50)[last]
	row.SMA20 = finiteOr(sma20, 0.0)
	row.EMA50 = finiteOr(ema50, 0.0)
	row.EMA200 = finiteOr(EMA(closes, 200)[last], 0.0)
	row.AboveTrend = boolToInt(closes[last] > sma20 && closes[last] > ema50)

	// Bollinger breakout over the 20-bar upper band.
	upper := sma20 + 2.0*SampleStdev(closes, 20)
	row.BBBreakout = boolToInt(closes[last] > upper)

	// ADX falls back to 0, ATR to the plain 14-bar high-low range mean.
	adx, err := ADX(highs, lows, closes, 14)
	if err != nil {
		adx = 0.0
	}
	row.ADX = finiteOr(adx, 0.0)

	atr, err := ATR(highs, lows, closes, 14)
	if err != nil {
		atr = LastMean(Sub(highs, lows), 14)
	}
	row.ATR = finiteOr(atr, 0.0)

	// OBV slope over the configured window.
	row.OBVSlope = finiteOr(Slope(OBV(closes, volumes), e.cfg.SlopeDays), 0.0)

	// Volume: 20-bar average and spike flag.
	avgVol20 := LastMean(volumes, 20)
	row.AvgVol20 = finiteOr(avgVol20, 0.0)
	row.VolSpike = boolToInt(volumes[last] > e.cfg.VolSpikeMult*avgVol20)

	// 14-day momentum.
	if n > 15 && closes[n-15] != 0 {
		row.Mom14 = finiteOr((closes[last]-closes[n-15])/closes[n-15], 0.0)
	}

	// Wave strength: latest local close peak over the trailing 60 bars,
	// relative to sma20. Defaults to 1.0 when no peak exists.
	row.WaveStrength = finiteOr(waveStrength(closes, sma20), 1.0)

	e.logger.WithFields(map[string]interface{}{
		"ticker":    row.Ticker,
		"macd_hist": row.MACDHist,
		"rsi":       row.RSI,
		"adx":       row.ADX,
	}).Debug("Computed feature row")

	return row, nil
}

// macdBull reports whether the MACD line exceeded its signal at any point
// within the last RecentDays bars and is above it now.
func (e *Engine) macdBull(macdLine, signal []float64) bool {
	n := len(macdLine)
	if n == 0 {
		return false
	}

	start := n - e.cfg.RecentDays
	if start < 0 {
		start = 0
	}

	crossed := false
	for i := start; i < n; i++ {
		if macdLine[i] > signal[i] {
			crossed = true
			break
		}
	}
	return crossed && macdLine[n-1] > signal[n-1]
}

// waveStrength returns the ratio of the most recent local peak (a close that
// exceeds both neighbors, searched over the trailing 60 bars) to sma20.
func waveStrength(closes []float64, sma20 float64) float64 {
	window := closes
	if len(window) > 60 {
		window = window[len(window)-60:]
	}

	peak := 0.0
	found := false
	for i := 1; i < len(window)-1; i++ {
		if window[i] > window[i-1] && window[i] > window[i+1] {
			peak = window[i]
			found = true
		}
	}

	if !found || sma20 <= 0 {
		return 1.0
	}
	return peak / sma20
}

// finiteOr returns v unless it is NaN or infinite, in which case the
// indicator's neutral default is used.
func finiteOr(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
