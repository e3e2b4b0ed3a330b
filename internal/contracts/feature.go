package contracts

import "time"

// Numeric and boolean feature key sets. These are fixed: a FeatureRow always
// carries every key, with indicator sub-failures filled by neutral defaults.
var (
	NumericFeatures = []string{
		"macd_hist", "macd_slope", "rsi", "rsi_slope", "wave_strength",
		"adx", "atr", "obv_slope", "mom14",
	}
	BoolFeatures = []string{
		"macd_bull", "bb_breakout", "vol_spike", "above_trend",
	}
)

// FeatureRow is the feature vector computed for one ticker from its price
// series. Created once by the indicator engine and immutable afterwards;
// scores are attached to a separate wrapper at ranking time.
type FeatureRow struct {
	Ticker string `json:"ticker"`

	MACDHist  float64 `json:"macd_hist"`
	MACDSlope float64 `json:"macd_slope"`
	MACDBull  int     `json:"macd_bull"`

	RSI      float64 `json:"rsi"`
	RSISlope float64 `json:"rsi_slope"`

	SMA20      float64 `json:"sma20"`
	EMA50      float64 `json:"ema50"`
	EMA200     float64 `json:"ema200"`
	AboveTrend int     `json:"above_trend"`

	BBBreakout int `json:"bb_breakout"`

	ADX float64 `json:"adx"`
	ATR float64 `json:"atr"`

	OBVSlope float64 `json:"obv_slope"`

	AvgVol20 float64 `json:"avg_vol20"`
	VolSpike int     `json:"vol_spike"`

	Mom14        float64 `json:"mom14"`
	WaveStrength float64 `json:"wave_strength"`

	LastClose   float64   `json:"last_close"`
	FetchSource string    `json:"fetch_source"`
	TS          time.Time `json:"ts"`
}

// Numeric returns the value of a numeric feature by key.
func (r *FeatureRow) Numeric(key string) float64 {
	switch key {
	case "macd_hist":
		return r.MACDHist
	case "macd_slope":
		return r.MACDSlope
	case "rsi":
		return r.RSI
	case "rsi_slope":
		return r.RSISlope
	case "wave_strength":
		return r.WaveStrength
	case "adx":
		return r.ADX
	case "atr":
		return r.ATR
	case "obv_slope":
		return r.OBVSlope
	case "mom14":
		return r.Mom14
	default:
		return 0.0
	}
}

// Bool returns the value of a boolean feature by key (0 or 1).
func (r *FeatureRow) Bool(key string) int {
	switch key {
	case "macd_bull":
		return r.MACDBull
	case "bb_breakout":
		return r.BBBreakout
	case "vol_spike":
		return r.VolSpike
	case "above_trend":
		return r.AboveTrend
	default:
		return 0
	}
}
