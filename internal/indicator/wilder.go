package indicator

import (
	"fmt"
	"math"
)

// Wilder-smoothed directional and volatility indicators. Both return an
// error when the series is too short; the engine maps errors to the
// documented per-indicator fallbacks instead of failing the row.

// trueRange returns the true range series. tr[0] is the plain high-low range
// since there is no prior close.
func trueRange(highs, lows, closes []float64) []float64 {
	n := len(closes)
	tr := make([]float64, n)
	if n == 0 {
		return tr
	}

	tr[0] = highs[0] - lows[0]
	for i := 1; i < n; i++ {
		hl := highs[i] - lows[i]
		hc := math.Abs(highs[i] - closes[i-1])
		lc := math.Abs(lows[i] - closes[i-1])
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}
	return tr
}

// wilderSmooth applies Wilder's smoothing: seed with the mean of the first
// `period` values, then s[i] = (s[i-1]*(period-1) + x[i]) / period.
func wilderSmooth(xs []float64, period int) []float64 {
	out := make([]float64, len(xs))
	if len(xs) < period {
		return out
	}

	var seed float64
	for i := 0; i < period; i++ {
		seed += xs[i]
	}
	out[period-1] = seed / float64(period)

	for i := period; i < len(xs); i++ {
		out[i] = (out[i-1]*float64(period-1) + xs[i]) / float64(period)
	}
	return out
}

// ATR returns the latest Wilder-smoothed average true range.
func ATR(highs, lows, closes []float64, period int) (float64, error) {
	n := len(closes)
	if n < period+1 || len(highs) != n || len(lows) != n {
		return 0.0, fmt.Errorf("atr: need %d bars, have %d", period+1, n)
	}

	tr := trueRange(highs, lows, closes)
	smoothed := wilderSmooth(tr[1:], period)
	return smoothed[len(smoothed)-1], nil
}

// ADX returns the latest average directional index.
func ADX(highs, lows, closes []float64, period int) (float64, error) {
	n := len(closes)
	if n < 2*period+1 || len(highs) != n || len(lows) != n {
		return 0.0, fmt.Errorf("adx: need %d bars, have %d", 2*period+1, n)
	}

	tr := trueRange(highs, lows, closes)
	plusDM := make([]float64, n-1)
	minusDM := make([]float64, n-1)
	for i := 1; i < n; i++ {
		up := highs[i] - highs[i-1]
		down := lows[i-1] - lows[i]
		if up > down && up > 0 {
			plusDM[i-1] = up
		}
		if down > up && down > 0 {
			minusDM[i-1] = down
		}
	}

	smTR := wilderSmooth(tr[1:], period)
	smPlus := wilderSmooth(plusDM, period)
	smMinus := wilderSmooth(minusDM, period)

	// DX per bar from the directional indexes; zero when there is no
	// directional movement at all.
	dx := make([]float64, 0, n-period)
	for i := period - 1; i < n-1; i++ {
		if smTR[i] == 0 {
			dx = append(dx, 0.0)
			continue
		}
		plusDI := 100.0 * smPlus[i] / smTR[i]
		minusDI := 100.0 * smMinus[i] / smTR[i]
		sum := plusDI + minusDI
		if sum == 0 {
			dx = append(dx, 0.0)
			continue
		}
		dx = append(dx, 100.0*math.Abs(plusDI-minusDI)/sum)
	}

	smDX := wilderSmooth(dx, period)
	return smDX[len(smDX)-1], nil
}
