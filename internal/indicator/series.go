package indicator

import "math"

// Series helpers shared by the indicator engine. All of them operate on
// chronologically ordered values, oldest first.

// EMA returns the exponential moving average series with smoothing
// alpha = 2/(span+1), seeded from the first value.
func EMA(xs []float64, span int) []float64 {
	out := make([]float64, len(xs))
	if len(xs) == 0 {
		return out
	}

	alpha := 2.0 / (float64(span) + 1.0)
	out[0] = xs[0]
	for i := 1; i < len(xs); i++ {
		out[i] = alpha*xs[i] + (1-alpha)*out[i-1]
	}
	return out
}

// Sub returns a-b element-wise. Both slices must have equal length.
func Sub(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0.0
	}

	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// LastMean returns the mean of the trailing window of size w, or the mean of
// the whole slice when it is shorter than w.
func LastMean(xs []float64, w int) float64 {
	if len(xs) > w {
		xs = xs[len(xs)-w:]
	}
	return Mean(xs)
}

// SampleStdev returns the sample standard deviation (n-1 denominator) of the
// trailing window of size w. Returns 0 when fewer than two values are
// available.
func SampleStdev(xs []float64, w int) float64 {
	if len(xs) > w {
		xs = xs[len(xs)-w:]
	}
	if len(xs) < 2 {
		return 0.0
	}

	m := Mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

// Slope returns the per-bar change over the trailing w bars:
// (x[last] - x[last-w]) / w. Returns 0 when the series is too short.
func Slope(xs []float64, w int) float64 {
	if w < 1 || len(xs) < w+1 {
		return 0.0
	}

	last := len(xs) - 1
	return (xs[last] - xs[last-w]) / float64(w)
}

// RSI returns the Relative Strength Index series computed from rolling means
// of positive and negative deltas. Values at indexes below period are the
// warm-up region and hold the neutral 50; callers must only read bars at or
// beyond period.
func RSI(closes []float64, period int) []float64 {
	n := len(closes)
	out := make([]float64, n)
	for i := range out {
		out[i] = 50.0
	}
	if n < period+1 {
		return out
	}

	ups := make([]float64, n)
	downs := make([]float64, n)
	for i := 1; i < n; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			ups[i] = delta
		} else {
			downs[i] = -delta
		}
	}

	// Rolling means over the last `period` deltas; epsilon guards the
	// denominator on all-gain windows.
	const eps = 1e-9
	for i := period; i < n; i++ {
		var upSum, downSum float64
		for j := i - period + 1; j <= i; j++ {
			upSum += ups[j]
			downSum += downs[j]
		}
		rs := (upSum / float64(period)) / (downSum/float64(period) + eps)
		out[i] = 100.0 - 100.0/(1.0+rs)
	}

	return out
}

// OBV returns the cumulative on-balance volume series: volume is added on
// up-closes, subtracted on down-closes, and ignored on unchanged closes.
func OBV(closes, volumes []float64) []float64 {
	n := len(closes)
	out := make([]float64, n)
	if n == 0 {
		return out
	}

	for i := 1; i < n; i++ {
		switch {
		case closes[i] > closes[i-1]:
			out[i] = out[i-1] + volumes[i]
		case closes[i] < closes[i-1]:
			out[i] = out[i-1] - volumes[i]
		default:
			out[i] = out[i-1]
		}
	}
	return out
}
