package universe

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/sp500scan/pkg/httputil"
	"github.com/wonny/sp500scan/pkg/logger"
)

// ConstituentsURL is the Wikipedia page listing S&P 500 constituents.
const ConstituentsURL = "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"

// Downloader fetches the constituent list from Wikipedia.
type Downloader struct {
	httpClient *httputil.Client
	logger     *logger.Logger
}

// NewDownloader creates a new constituents downloader.
func NewDownloader(client *httputil.Client, log *logger.Logger) *Downloader {
	return &Downloader{
		httpClient: client,
		logger:     log,
	}
}

// FetchConstituents scrapes the constituents table and returns the raw
// symbol column. Symbols are validated and sorted by WriteList/Load.
func (d *Downloader) FetchConstituents(ctx context.Context) ([]string, error) {
	resp, err := d.httpClient.Get(ctx, ConstituentsURL)
	if err != nil {
		return nil, fmt.Errorf("fetch constituents page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse constituents page: %w", err)
	}

	symbols := parseConstituents(doc)
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no symbol column found in any table")
	}

	d.logger.WithField("count", len(symbols)).Info("Fetched constituents")
	return symbols, nil
}

// parseConstituents finds the first wikitable whose header contains a
// Symbol/Ticker column and extracts that column.
func parseConstituents(doc *goquery.Document) []string {
	var symbols []string

	doc.Find("table.wikitable").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		symCol := -1
		table.Find("tr").First().Find("th").Each(func(i int, th *goquery.Selection) {
			header := strings.ToLower(strings.TrimSpace(th.Text()))
			if symCol == -1 && (strings.Contains(header, "symbol") || strings.Contains(header, "ticker")) {
				symCol = i
			}
		})
		if symCol == -1 {
			return true // keep looking
		}

		table.Find("tr").Each(func(i int, tr *goquery.Selection) {
			if i == 0 {
				return // header row
			}
			cell := tr.Find("td").Eq(symCol)
			s := strings.ToUpper(strings.TrimSpace(cell.Text()))
			if s != "" {
				symbols = append(symbols, s)
			}
		})
		return false
	})

	return symbols
}
