package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/sp500scan/internal/contracts"
	"github.com/wonny/sp500scan/internal/rank"
	"github.com/wonny/sp500scan/pkg/logger"
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9.\-]{1,10}$`)

// ReportHandler serves the latest report and per-ticker details from the
// public directory. It reads the flat files on every request; the report is
// regenerated wholesale by finalize, so there is nothing to cache safely.
type ReportHandler struct {
	publicDir string
	logger    *logger.Logger
}

// NewReportHandler creates a report handler rooted at publicDir.
func NewReportHandler(publicDir string, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		publicDir: publicDir,
		logger:    log,
	}
}

// GetReport returns the full latest report.
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.loadReport()
	if err != nil {
		h.writeError(w, http.StatusNotFound, "no report available")
		return
	}

	h.writeJSON(w, report)
}

// GetTop returns the first n picks of the latest report (?n=, default 50).
func (h *ReportHandler) GetTop(w http.ResponseWriter, r *http.Request) {
	report, err := h.loadReport()
	if err != nil {
		h.writeError(w, http.StatusNotFound, "no report available")
		return
	}

	n := 50
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.writeError(w, http.StatusBadRequest, "n must be a positive integer")
			return
		}
		n = parsed
	}
	if n > len(report.Top) {
		n = len(report.Top)
	}

	h.writeJSON(w, map[string]interface{}{
		"generated_at": report.GeneratedAt,
		"top":          report.Top[:n],
	})
}

// GetTicker returns the per-ticker detail record.
func (h *ReportHandler) GetTicker(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	if !symbolPattern.MatchString(symbol) {
		h.writeError(w, http.StatusBadRequest, "invalid symbol")
		return
	}

	path := filepath.Join(h.publicDir, "details", symbol+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		h.writeError(w, http.StatusNotFound, "no detail for "+symbol)
		return
	}

	var detail contracts.TickerDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		h.logger.WithError(err).Error("Malformed detail file")
		h.writeError(w, http.StatusInternalServerError, "malformed detail file")
		return
	}

	h.writeJSON(w, detail)
}

func (h *ReportHandler) loadReport() (*contracts.TopPicksReport, error) {
	data, err := os.ReadFile(filepath.Join(h.publicDir, rank.ReportName))
	if err != nil {
		return nil, err
	}

	var report contracts.TopPicksReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, err
	}

	return &report, nil
}

func (h *ReportHandler) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.WithError(err).Error("Failed to encode response")
	}
}

func (h *ReportHandler) writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
