package fetch

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/sp500scan/internal/contracts"
	"github.com/wonny/sp500scan/pkg/httputil"
	"github.com/wonny/sp500scan/pkg/logger"
)

// StooqSource fetches daily bars from the Stooq CSV endpoint. US tickers are
// suffixed with ".US" as Stooq expects.
type StooqSource struct {
	httpClient   *httpClientFunc
	lookbackDays int
	logger       *logger.Logger
}

// NewStooqSource creates a Stooq CSV source.
func NewStooqSource(client *httputil.Client, lookbackDays int, log *logger.Logger) *StooqSource {
	return &StooqSource{
		httpClient:   &httpClientFunc{get: client.Get},
		lookbackDays: lookbackDays,
		logger:       log,
	}
}

// Name implements Source.
func (s *StooqSource) Name() string { return "stooq" }

// Fetch implements Source.
func (s *StooqSource) Fetch(ctx context.Context, ticker string) (*contracts.PriceSeries, error) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -s.lookbackDays)

	symbol := strings.ToUpper(ticker)
	if !strings.HasSuffix(symbol, ".US") {
		symbol += ".US"
	}

	url := fmt.Sprintf(
		"https://stooq.com/q/d/l/?s=%s&d1=%s&d2=%s&i=d",
		strings.ToLower(symbol), start.Format("20060102"), end.Format("20060102"),
	)

	resp, err := s.httpClient.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("stooq request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stooq status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read stooq response: %w", err)
	}

	return ParseDailyCSV(ticker, string(body))
}

// canonical OHLCV column names, in output order.
var canonicalColumns = []string{"Date", "Open", "High", "Low", "Close", "Volume"}

// normalizeColumn maps an arbitrary source column name onto its canonical
// OHLCV name, or returns the input unchanged. Adjusted-close variants are
// deliberately kept distinct so they never shadow the raw close.
func normalizeColumn(name string) string {
	low := strings.ToLower(strings.TrimSpace(name))
	switch {
	case strings.Contains(low, "date"):
		return "Date"
	case strings.Contains(low, "open") && !strings.Contains(low, "adj"):
		return "Open"
	case strings.Contains(low, "high"):
		return "High"
	case strings.Contains(low, "low"):
		return "Low"
	case strings.Contains(low, "close") && strings.Contains(low, "adj"):
		return "Adj Close"
	case strings.Contains(low, "close"):
		return "Close"
	case strings.Contains(low, "volume"):
		return "Volume"
	default:
		return strings.TrimSpace(name)
	}
}

// ParseDailyCSV parses a daily OHLCV CSV with arbitrary header naming into a
// canonical, date-sorted series. All six canonical columns must be present.
func ParseDailyCSV(ticker, text string) (*contracts.PriceSeries, error) {
	reader := csv.NewReader(strings.NewReader(strings.TrimSpace(text)))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("csv has no data rows")
	}

	// Header → canonical column index map.
	cols := make(map[string]int)
	for i, name := range records[0] {
		cols[normalizeColumn(name)] = i
	}
	for _, want := range canonicalColumns {
		if _, ok := cols[want]; !ok {
			return nil, fmt.Errorf("csv missing column %q", want)
		}
	}

	series := &contracts.PriceSeries{Ticker: ticker}
	for _, rec := range records[1:] {
		bar, ok := parseBar(rec, cols)
		if !ok {
			continue
		}
		series.Bars = append(series.Bars, bar)
	}

	sort.Slice(series.Bars, func(i, j int) bool {
		return series.Bars[i].Date.Before(series.Bars[j].Date)
	})

	return series, nil
}

// parseBar converts one CSV record; malformed records are skipped rather
// than failing the whole series.
func parseBar(rec []string, cols map[string]int) (contracts.Bar, bool) {
	get := func(name string) (string, bool) {
		idx := cols[name]
		if idx >= len(rec) {
			return "", false
		}
		return strings.TrimSpace(rec[idx]), true
	}

	dateStr, ok := get("Date")
	if !ok {
		return contracts.Bar{}, false
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return contracts.Bar{}, false
	}

	bar := contracts.Bar{Date: date}
	for _, field := range []struct {
		name string
		dst  *float64
	}{
		{"Open", &bar.Open},
		{"High", &bar.High},
		{"Low", &bar.Low},
		{"Close", &bar.Close},
		{"Volume", &bar.Volume},
	} {
		raw, ok := get(field.name)
		if !ok || raw == "" {
			return contracts.Bar{}, false
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return contracts.Bar{}, false
		}
		*field.dst = v
	}

	return bar, true
}
