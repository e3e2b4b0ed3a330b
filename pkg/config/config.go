package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the scanner.
// All environment variables are read here and nowhere else; the rest of the
// code receives immutable values through constructors.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Pipeline
	Scan  ScanConfig
	Fetch FetchConfig
	Paths PathsConfig

	// Scheduling
	CronSpec string

	// Logging
	LogLevel  string
	LogFormat string
}

// ScanConfig holds shard coordinates and indicator thresholds.
type ScanConfig struct {
	JobIndex     int           // 0-based shard index
	JobTotal     int           // total shard count
	VolSpikeMult float64       // volume spike multiplier over avg_vol20
	RecentDays   int           // MACD crossover lookback window
	SlopeDays    int           // slope window for macd/rsi/obv slopes
	LookbackDays int           // calendar days of history to request
	TickerPause  time.Duration // minimum spacing between per-ticker fetches
}

// FetchConfig holds price-fetch retry and timeout settings.
type FetchConfig struct {
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// PathsConfig holds filesystem locations for pipeline inputs and outputs.
type PathsConfig struct {
	UniverseFile string // newline-separated ticker list
	ArtifactDir  string // per-shard raw-results-*.json
	PublicDir    string // top_picks.json and per-ticker details
}

// Load reads configuration from environment variables, consulting a .env
// file first when one is present.
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		Scan: ScanConfig{
			JobIndex:     getEnvAsInt("JOB_INDEX", 0),
			JobTotal:     getEnvAsInt("JOB_TOTAL", 1),
			VolSpikeMult: getEnvAsFloat("VOL_SPIKE_MULT", 1.5),
			RecentDays:   getEnvAsInt("RECENT_DAYS", 8),
			SlopeDays:    getEnvAsInt("SLOPE_DAYS", 14),
			LookbackDays: getEnvAsInt("LOOKBACK_DAYS", 440),
			TickerPause:  getEnvAsDuration("TICKER_PAUSE", "50ms"),
		},

		Fetch: FetchConfig{
			Timeout:    getEnvAsDuration("FETCH_TIMEOUT", "20s"),
			MaxRetries: getEnvAsInt("FETCH_MAX_RETRIES", 3),
			RetryDelay: getEnvAsDuration("FETCH_RETRY_DELAY", "1s"),
		},

		Paths: PathsConfig{
			UniverseFile: getEnv("UNIVERSE_FILE", "sp500_list.txt"),
			ArtifactDir:  getEnv("ARTIFACT_DIR", "."),
			PublicDir:    getEnv("PUBLIC_DIR", "public"),
		},

		CronSpec: getEnv("CRON_SPEC", "0 0 22 * * 1-5"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks cross-field constraints that a typo in the environment
// would otherwise surface deep inside a shard run.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Scan.JobTotal < 1 {
		return fmt.Errorf("JOB_TOTAL must be >= 1, got %d", c.Scan.JobTotal)
	}

	if c.Scan.JobIndex < 0 || c.Scan.JobIndex >= c.Scan.JobTotal {
		return fmt.Errorf("JOB_INDEX must be in [0, %d), got %d", c.Scan.JobTotal, c.Scan.JobIndex)
	}

	if c.Scan.VolSpikeMult <= 0 {
		return fmt.Errorf("VOL_SPIKE_MULT must be positive, got %g", c.Scan.VolSpikeMult)
	}

	if c.Scan.RecentDays < 1 || c.Scan.SlopeDays < 1 {
		return fmt.Errorf("RECENT_DAYS and SLOPE_DAYS must be >= 1")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations.
func loadEnvFile() {
	paths := []string{
		".env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
