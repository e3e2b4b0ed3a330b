package rank

import (
	"math"

	"github.com/wonny/sp500scan/internal/contracts"
)

// Normalizer rescales raw numeric features across the merged dataset so that
// features with different units contribute comparably to the composite.
//
// Two features get special treatment:
//   - rsi passes through a monotone "prefer oversold" transform before the
//     generic min-max pass (both stages run; collapsing them is behaviorally
//     near-identity but not provably identical in the all-equal case)
//   - atr is inverted after scaling, since lower volatility should score
//     higher
//
// Boolean features are already 0/1 and pass through unchanged.

// TransformRSI maps raw RSI onto [0,1] preferring oversold values: 1.0 at
// RSI 0, linearly down to 0.0 at RSI 40, and 0.0 everywhere above 40. Input
// is clamped to [0,100] first.
func TransformRSI(v float64) float64 {
	if v < 0 {
		v = 0
	} else if v > 100 {
		v = 100
	}

	if v <= 40.0 {
		return (40.0 - v) / 40.0
	}
	return 0.0
}

// MinMaxScale rescales values to [0,1]. When max and min coincide within
// floating tolerance, every value maps to 0.5: no division by zero and no
// spurious bias toward either extreme.
func MinMaxScale(xs []float64) []float64 {
	if len(xs) == 0 {
		return nil
	}

	mn, mx := xs[0], xs[0]
	for _, v := range xs[1:] {
		if v < mn {
			mn = v
		}
		if v > mx {
			mx = v
		}
	}

	out := make([]float64, len(xs))
	if nearlyEqual(mn, mx) {
		for i := range out {
			out[i] = 0.5
		}
		return out
	}

	span := mx - mn
	for i, v := range xs {
		out[i] = (v - mn) / span
	}
	return out
}

// nearlyEqual mirrors a relative tolerance of 1e-9.
func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(math.Abs(a), math.Abs(b))
}

// Normalize produces the scaled numeric feature columns for a dataset,
// keyed by feature name. Column i corresponds to rows[i].
func Normalize(rows []contracts.FeatureRow) map[string][]float64 {
	norm := make(map[string][]float64, len(contracts.NumericFeatures))

	for _, feature := range contracts.NumericFeatures {
		column := make([]float64, len(rows))
		for i := range rows {
			v := rows[i].Numeric(feature)
			if feature == "rsi" {
				v = TransformRSI(v)
			}
			column[i] = v
		}

		scaled := MinMaxScale(column)

		if feature == "atr" {
			for i := range scaled {
				scaled[i] = 1.0 - scaled[i]
			}
		}

		norm[feature] = scaled
	}

	return norm
}
