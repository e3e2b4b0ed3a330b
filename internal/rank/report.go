package rank

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wonny/sp500scan/internal/contracts"
	"github.com/wonny/sp500scan/internal/fetch"
	"github.com/wonny/sp500scan/pkg/logger"
)

// ReportName is the "latest" report file, regenerated wholesale each run.
const ReportName = "top_picks.json"

// BuildReport assembles the final report from the aggregated dataset and the
// scored items.
func BuildReport(agg *Aggregated, items []ScoredItem) *contracts.TopPicksReport {
	failed := agg.Attempted - agg.Processed
	if failed < 0 {
		failed = 0
	}

	report := &contracts.TopPicksReport{
		GeneratedAt:  time.Now().UTC(),
		CountTotal:   agg.Attempted,
		CountResults: agg.Processed,
		FailedCount:  failed,
		Errors:       agg.Errors,
		Top:          make([]contracts.TopPick, 0, len(items)),
	}

	for _, item := range items {
		features := make(map[string]float64, len(contracts.NumericFeatures))
		for _, f := range contracts.NumericFeatures {
			features[f] = item.Row.Numeric(f)
		}
		bools := make(map[string]int, len(contracts.BoolFeatures))
		for _, f := range contracts.BoolFeatures {
			bools[f] = item.Row.Bool(f)
		}

		report.Top = append(report.Top, contracts.TopPick{
			Ticker:      item.Row.Ticker,
			Score0100:   item.Score0100,
			Score010:    item.Score010,
			Features:    features,
			Bools:       bools,
			Explanation: item.Explanation,
			AvgVol20:    item.Row.AvgVol20,
			LastClose:   item.Row.LastClose,
		})
	}

	return report
}

// Writer serializes reports and optional per-ticker detail files under the
// public directory.
type Writer struct {
	publicDir string
	logger    *logger.Logger
}

// NewWriter creates a report writer rooted at publicDir.
func NewWriter(publicDir string, log *logger.Logger) *Writer {
	return &Writer{
		publicDir: publicDir,
		logger:    log,
	}
}

// Write serializes the report to the latest file and returns its path.
func (w *Writer) Write(report *contracts.TopPicksReport) (string, error) {
	if err := os.MkdirAll(w.publicDir, 0o755); err != nil {
		return "", fmt.Errorf("create public dir: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	path := filepath.Join(w.publicDir, ReportName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	w.logger.WithFields(map[string]interface{}{
		"path":  path,
		"picks": len(report.Top),
	}).Info("Report written")

	return path, nil
}

// Archive additionally stores a timestamped copy under archive/ without
// touching the latest file.
func (w *Writer) Archive(report *contracts.TopPicksReport) (string, error) {
	dir := filepath.Join(w.publicDir, "archive")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	name := fmt.Sprintf("top_picks-%s.json", report.GeneratedAt.Format("20060102-150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write archive copy: %w", err)
	}

	return path, nil
}

// WriteDetails writes one detail file per scored item, combining indicators
// with a freshly fetched history series. A failed history fetch degrades
// that ticker to an indicator-only record; it never aborts the batch.
func (w *Writer) WriteDetails(ctx context.Context, items []ScoredItem, fetcher fetch.Fetcher) error {
	dir := filepath.Join(w.publicDir, "details")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create details dir: %w", err)
	}

	for _, item := range items {
		detail := contracts.TickerDetail{
			Ticker: item.Row.Ticker,
			Indicators: contracts.TickerIndicators{
				FeatureRow:  item.Row,
				Score0100:   item.Score0100,
				Score010:    item.Score010,
				Explanation: item.Explanation,
			},
			History: make([]contracts.Bar, 0),
		}

		series, _, err := fetcher.Fetch(ctx, item.Row.Ticker)
		if err != nil {
			w.logger.WithFields(map[string]interface{}{
				"ticker": item.Row.Ticker,
				"error":  err.Error(),
			}).Warn("History fetch failed, writing indicator-only detail")
		} else {
			detail.History = series.Bars
		}

		data, err := json.MarshalIndent(detail, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal detail for %s: %w", item.Row.Ticker, err)
		}

		path := filepath.Join(dir, item.Row.Ticker+".json")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write detail for %s: %w", item.Row.Ticker, err)
		}
	}

	w.logger.WithField("count", len(items)).Info("Detail files written")
	return nil
}
