package contracts

import "time"

// TopN caps the number of picks carried in a report.
const TopN = 500

// TopPick is one ranked entry of the report.
type TopPick struct {
	Ticker      string             `json:"ticker"`
	Score0100   float64            `json:"score_0_100"`
	Score010    float64            `json:"score_0_10"`
	Features    map[string]float64 `json:"features"`
	Bools       map[string]int     `json:"bools"`
	Explanation string             `json:"explanation"`
	AvgVol20    float64            `json:"avg_vol20"`
	LastClose   float64            `json:"last_close"`
}

// TopPicksReport is the final ranked report, regenerated wholesale each run.
// Invariant: FailedCount == CountTotal - CountResults, never negative.
type TopPicksReport struct {
	GeneratedAt  time.Time `json:"generated_at"`
	CountTotal   int       `json:"count_total"`
	CountResults int       `json:"count_results"`
	FailedCount  int       `json:"failed_count"`
	Errors       []string  `json:"errors"`
	Top          []TopPick `json:"top"`
}

// TickerIndicators combines a feature row with its scores for the per-ticker
// detail record.
type TickerIndicators struct {
	FeatureRow
	Score0100   float64 `json:"score_0_100"`
	Score010    float64 `json:"score_0_10"`
	Explanation string  `json:"explanation"`
}

// TickerDetail is the optional per-ticker detail record: indicators plus the
// raw history the dashboard charts from. History may be empty when the
// refetch failed; the record then degrades to indicators only.
type TickerDetail struct {
	Ticker     string           `json:"ticker"`
	Indicators TickerIndicators `json:"indicators"`
	History    []Bar            `json:"history"`
}
