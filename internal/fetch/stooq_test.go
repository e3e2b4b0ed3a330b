package fetch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeColumn(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Date", "Date"},
		{"date", "Date"},
		{"Open", "Open"},
		{"OPEN", "Open"},
		{"High", "High"},
		{"Low", "Low"},
		{"Close", "Close"},
		{"close price", "Close"},
		{"Adj Close", "Adj Close"},
		{"adjusted close", "Adj Close"},
		{"Volume", "Volume"},
		{" volume ", "Volume"},
		{"Dividends", "Dividends"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeColumn(tt.in))
		})
	}
}

func TestParseDailyCSV(t *testing.T) {
	t.Run("stooq header", func(t *testing.T) {
		csv := `Date,Open,High,Low,Close,Volume
2026-08-18,100.0,102.0,99.0,101.0,1000000
2026-08-19,101.0,103.0,100.5,102.5,1100000`

		series, err := ParseDailyCSV("AAPL", csv)
		require.NoError(t, err)
		require.Equal(t, 2, series.Len())

		assert.Equal(t, "AAPL", series.Ticker)
		assert.Equal(t, time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC), series.Bars[0].Date)
		assert.Equal(t, 101.0, series.Bars[0].Close)
		assert.Equal(t, 1_100_000.0, series.Bars[1].Volume)
		assert.NoError(t, series.Validate())
	})

	t.Run("lowercase header with adj close", func(t *testing.T) {
		csv := `date,open,high,low,close,adj close,volume
2026-08-18,100,102,99,101,100.5,1000000`

		series, err := ParseDailyCSV("MSFT", csv)
		require.NoError(t, err)
		require.Equal(t, 1, series.Len())

		// raw close, not the adjusted one
		assert.Equal(t, 101.0, series.Bars[0].Close)
	})

	t.Run("unsorted rows come out date-ordered", func(t *testing.T) {
		csv := `Date,Open,High,Low,Close,Volume
2026-08-19,101,103,100.5,102.5,1100000
2026-08-18,100,102,99,101,1000000`

		series, err := ParseDailyCSV("GOOG", csv)
		require.NoError(t, err)
		require.Equal(t, 2, series.Len())
		assert.True(t, series.Bars[0].Date.Before(series.Bars[1].Date))
	})

	t.Run("malformed rows are skipped", func(t *testing.T) {
		csv := `Date,Open,High,Low,Close,Volume
2026-08-18,100,102,99,101,1000000
not-a-date,1,2,3,4,5
2026-08-19,101,103,100.5,oops,1100000
2026-08-20,102,104,101,103,1200000`

		series, err := ParseDailyCSV("AMZN", csv)
		require.NoError(t, err)
		assert.Equal(t, 2, series.Len())
	})

	t.Run("missing column", func(t *testing.T) {
		csv := `Date,Open,High,Low,Close
2026-08-18,100,102,99,101`

		_, err := ParseDailyCSV("TSLA", csv)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Volume")
	})

	t.Run("header only", func(t *testing.T) {
		_, err := ParseDailyCSV("META", "Date,Open,High,Low,Close,Volume")
		assert.Error(t, err)
	})

	t.Run("empty body", func(t *testing.T) {
		_, err := ParseDailyCSV("NVDA", "")
		assert.Error(t, err)
	})
}
