package rank

import (
	"math"
	"sort"
	"strings"

	"github.com/wonny/sp500scan/internal/contracts"
	"github.com/wonny/sp500scan/pkg/logger"
)

// Weights maps every feature to its contribution in the composite score.
// The denominator is the sum of absolute weights, so the raw composite stays
// in [0,1] regardless of how the weights evolve.
var Weights = map[string]float64{
	"macd_hist":     2.0,
	"macd_slope":    1.5,
	"rsi":           1.5,
	"rsi_slope":     1.0,
	"wave_strength": 2.0,
	"adx":           1.0,
	"atr":           1.0,
	"obv_slope":     1.0,
	"mom14":         1.5,

	"macd_bull":   3.0,
	"bb_breakout": 1.0,
	"vol_spike":   0.7,
	"above_trend": 1.0,
}

// ScoredItem is a feature row with its derived scores, transient per run.
type ScoredItem struct {
	Row         contracts.FeatureRow
	Raw         float64
	Score01     float64
	Score0100   float64
	Score010    float64
	Explanation string
	Rank        int
}

// Scorer computes weighted composite scores, ranks the dataset, and explains
// each entry.
type Scorer struct {
	weights map[string]float64
	logger  *logger.Logger
}

// NewScorer creates a scorer with the standard weights.
func NewScorer(log *logger.Logger) *Scorer {
	return &Scorer{
		weights: Weights,
		logger:  log,
	}
}

// Score derives ranked items from rows and their normalized feature columns
// (as produced by Normalize). The result is deterministic: the comparator is
// explicit and the sort is stable, so identical inputs always produce
// identical rankings, ties included.
func (s *Scorer) Score(rows []contracts.FeatureRow, norm map[string][]float64) []ScoredItem {
	if len(rows) == 0 {
		return nil
	}

	absSum := 0.0
	for _, w := range s.weights {
		absSum += math.Abs(w)
	}
	if absSum == 0 {
		absSum = 1.0
	}

	items := make([]ScoredItem, len(rows))
	for i := range rows {
		weighted := 0.0
		for _, feature := range contracts.NumericFeatures {
			weighted += norm[feature][i] * s.weights[feature]
		}
		for _, feature := range contracts.BoolFeatures {
			weighted += float64(rows[i].Bool(feature)) * s.weights[feature]
		}

		items[i] = ScoredItem{
			Row: rows[i],
			Raw: weighted / absSum,
		}
	}

	// Composite values are themselves min-max scaled so the best pick of
	// the day reads 100 and the worst 0.
	raws := make([]float64, len(items))
	for i := range items {
		raws[i] = items[i].Raw
	}
	scaled := MinMaxScale(raws)

	for i := range items {
		items[i].Score01 = scaled[i]
		items[i].Score0100 = round2(scaled[i] * 100)
		items[i].Score010 = round2(scaled[i] * 10)
		items[i].Explanation = Explain(&items[i].Row)
	}

	// Descending by rounded score; raw macd_hist then avg_vol20 break ties.
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score0100 != items[j].Score0100 {
			return items[i].Score0100 > items[j].Score0100
		}
		if items[i].Row.MACDHist != items[j].Row.MACDHist {
			return items[i].Row.MACDHist > items[j].Row.MACDHist
		}
		return items[i].Row.AvgVol20 > items[j].Row.AvgVol20
	})

	if len(items) > contracts.TopN {
		items = items[:contracts.TopN]
	}

	for i := range items {
		items[i].Rank = i + 1
	}

	s.logger.WithFields(map[string]interface{}{
		"scored":     len(rows),
		"kept":       len(items),
		"top_ticker": items[0].Row.Ticker,
		"top_score":  items[0].Score0100,
	}).Info("Scoring completed")

	return items
}

// Explain concatenates the triggered signal phrases for a row in fixed
// priority order. Thresholds read the raw (untransformed) feature values.
func Explain(row *contracts.FeatureRow) string {
	var signals []string

	if row.MACDBull == 1 {
		signals = append(signals, "MACD bullish crossover")
	}
	if row.BBBreakout == 1 {
		signals = append(signals, "Bollinger breakout")
	}
	if row.ADX > 25 {
		signals = append(signals, "strong trend (ADX)")
	}
	if row.VolSpike == 1 {
		signals = append(signals, "volume spike")
	}
	if row.AboveTrend == 1 {
		signals = append(signals, "price above trend")
	}
	if row.RSI < 30 {
		signals = append(signals, "RSI oversold")
	}
	if row.RSI > 70 {
		signals = append(signals, "RSI overbought")
	}
	if row.OBVSlope > 0 {
		signals = append(signals, "rising OBV")
	}
	if row.WaveStrength > 1.05 {
		signals = append(signals, "strong wave")
	}

	if len(signals) == 0 {
		return "no significant signals"
	}
	return strings.Join(signals, "; ")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
