package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/wonny/sp500scan/internal/contracts"
	"github.com/wonny/sp500scan/pkg/httputil"
	"github.com/wonny/sp500scan/pkg/logger"
)

// YahooSource fetches daily bars from the Yahoo Finance chart API.
type YahooSource struct {
	httpClient   *httpClientFunc
	lookbackDays int
	logger       *logger.Logger
}

// httpClientFunc narrows httputil.Client to what sources need; it keeps the
// source testable against a local server.
type httpClientFunc struct {
	get func(ctx context.Context, url string) (*http.Response, error)
}

// NewYahooSource creates a Yahoo chart API source.
func NewYahooSource(client *httputil.Client, lookbackDays int, log *logger.Logger) *YahooSource {
	return &YahooSource{
		httpClient:   &httpClientFunc{get: client.Get},
		lookbackDays: lookbackDays,
		logger:       log,
	}
}

// Name implements Source.
func (s *YahooSource) Name() string { return "yahoo" }

// yahooChart mirrors the subset of the chart API response we consume.
// Quote columns use pointers because Yahoo emits nulls for halted days.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Fetch implements Source.
func (s *YahooSource) Fetch(ctx context.Context, ticker string) (*contracts.PriceSeries, error) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -s.lookbackDays)

	u := fmt.Sprintf(
		"https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		url.PathEscape(ticker), start.Unix(), end.Unix(),
	)

	resp, err := s.httpClient.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("yahoo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read yahoo response: %w", err)
	}

	return parseYahooChart(ticker, body)
}

// parseYahooChart converts the chart payload into a canonical series,
// skipping bars with any null column.
func parseYahooChart(ticker string, body []byte) (*contracts.PriceSeries, error) {
	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("decode yahoo response: %w", err)
	}

	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo error: %s", chart.Chart.Error.Code)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo returned no result")
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo returned no quote block")
	}
	quote := result.Indicators.Quote[0]

	// Yahoo occasionally truncates one column; clamp to the shortest.
	n := len(result.Timestamp)
	for _, col := range [][]*float64{quote.Open, quote.High, quote.Low, quote.Close, quote.Volume} {
		if len(col) < n {
			n = len(col)
		}
	}

	series := &contracts.PriceSeries{Ticker: ticker}
	for i := 0; i < n; i++ {
		ts := result.Timestamp[i]
		if quote.Open[i] == nil || quote.High[i] == nil || quote.Low[i] == nil ||
			quote.Close[i] == nil || quote.Volume[i] == nil {
			continue
		}
		series.Bars = append(series.Bars, contracts.Bar{
			Date:   time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Open:   *quote.Open[i],
			High:   *quote.High[i],
			Low:    *quote.Low[i],
			Close:  *quote.Close[i],
			Volume: *quote.Volume[i],
		})
	}

	return series, nil
}
