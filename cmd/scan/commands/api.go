package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/sp500scan/internal/api"
	"github.com/wonny/sp500scan/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Serve the latest report over HTTP",
	Long: `Starts a read-only REST API over the report files in PUBLIC_DIR.

Endpoints:
  GET /health                 - Health check
  GET /api/report             - Full latest report
  GET /api/report/top?n=50    - First n picks
  GET /api/tickers/{symbol}   - Per-ticker detail

Example:
  go run ./cmd/scan api
  go run ./cmd/scan api --port 8090`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "listen port (default PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Scanner API Server ===")

	// 1. Load config and logger
	cfg, log, err := initRuntime()
	if err != nil {
		return err
	}

	if apiPort != "" {
		cfg.Port = apiPort
	}

	log.WithFields(map[string]interface{}{
		"port":       cfg.Port,
		"public_dir": cfg.Paths.PublicDir,
	}).Info("Initializing API server")

	// 2. Wire handler, router, server
	reportHandler := handlers.NewReportHandler(cfg.Paths.PublicDir, log)
	router := api.NewRouter(reportHandler, log)
	server := api.New(cfg, log, router)

	// 3. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\nServer running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET /health")
	fmt.Println("  GET /api/report")
	fmt.Println("  GET /api/report/top")
	fmt.Println("  GET /api/tickers/{symbol}")
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
