package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wonny/sp500scan/internal/contracts"
	"github.com/wonny/sp500scan/internal/rank"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarize the latest report",
	Long: `Reads top_picks.json from PUBLIC_DIR and prints a run summary with
the leading picks.

Example:
  go run ./cmd/scan status
  go run ./cmd/scan status --top 20`,
	RunE: runStatus,
}

var (
	statusTop int
)

func init() {
	rootCmd.AddCommand(statusCmd)

	// Flags
	statusCmd.Flags().IntVar(&statusTop, "top", 10, "number of picks to print")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, _, err := initRuntime()
	if err != nil {
		return err
	}

	path := filepath.Join(cfg.Paths.PublicDir, rank.ReportName)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("no report at %s (run finalize first): %w", path, err)
	}

	var report contracts.TopPicksReport
	if err := json.Unmarshal(data, &report); err != nil {
		return fmt.Errorf("malformed report %s: %w", path, err)
	}

	fmt.Println("=== Scan Report Status ===")
	fmt.Println()
	fmt.Printf("%-15s %s\n", "Generated:", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("%-15s %d\n", "Attempted:", report.CountTotal)
	fmt.Printf("%-15s %d\n", "Scored:", report.CountResults)
	fmt.Printf("%-15s %d\n", "Failed:", report.FailedCount)
	fmt.Printf("%-15s %d\n", "In report:", len(report.Top))
	fmt.Println()

	n := statusTop
	if n > len(report.Top) {
		n = len(report.Top)
	}

	if n > 0 {
		fmt.Printf("Top %d picks:\n", n)
		fmt.Printf("%-5s %-8s %8s %12s  %s\n", "Rank", "Ticker", "Score", "Last Close", "Signals")
		for i := 0; i < n; i++ {
			pick := report.Top[i]
			fmt.Printf("%-5d %-8s %8.2f %12.2f  %s\n",
				i+1, pick.Ticker, pick.Score0100, pick.LastClose, pick.Explanation)
		}
		fmt.Println()
	}

	if len(report.Errors) > 0 {
		fmt.Printf("Errors (%d):\n", len(report.Errors))
		limit := len(report.Errors)
		if limit > 10 {
			limit = 10
		}
		for _, msg := range report.Errors[:limit] {
			fmt.Printf("  - %s\n", msg)
		}
		if limit < len(report.Errors) {
			fmt.Printf("  ... and %d more\n", len(report.Errors)-limit)
		}
	}

	return nil
}
