package contracts

import (
	"fmt"
	"time"
)

// MinRows is the minimum number of daily bars required before feature
// extraction proceeds for a ticker.
const MinRows = 60

// Bar represents one daily OHLCV bar.
type Bar struct {
	Date   time.Time `json:"Date"`
	Open   float64   `json:"Open"`
	High   float64   `json:"High"`
	Low    float64   `json:"Low"`
	Close  float64   `json:"Close"`
	Volume float64   `json:"Volume"`
}

// PriceSeries is a date-ordered daily price history for one ticker.
// It is ephemeral: fetched, consumed by the indicator engine, discarded.
type PriceSeries struct {
	Ticker string `json:"ticker"`
	Bars   []Bar  `json:"bars"`
}

// Len returns the number of bars.
func (s *PriceSeries) Len() int {
	return len(s.Bars)
}

// Validate checks the series invariant: strictly increasing dates with no
// duplicates. It does not enforce MinRows; short series are a separate,
// per-ticker condition (ErrInsufficientData).
func (s *PriceSeries) Validate() error {
	for i := 1; i < len(s.Bars); i++ {
		if !s.Bars[i].Date.After(s.Bars[i-1].Date) {
			return fmt.Errorf("bar %d (%s) not after bar %d (%s)",
				i, s.Bars[i].Date.Format("2006-01-02"),
				i-1, s.Bars[i-1].Date.Format("2006-01-02"))
		}
	}
	return nil
}

// Closes returns the close column.
func (s *PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Highs returns the high column.
func (s *PriceSeries) Highs() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.High
	}
	return out
}

// Lows returns the low column.
func (s *PriceSeries) Lows() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Low
	}
	return out
}

// Volumes returns the volume column.
func (s *PriceSeries) Volumes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Volume
	}
	return out
}
