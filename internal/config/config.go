// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir          string // Base directory for the market data cache (always absolute)
	Port             int
	LogLevel         string
	DevMode          bool
	AlphaVantageKey  string
	NewsDataKey      string
	MockFallback     bool          // Serve generated data for the demo symbols when providers fail
	PlaybackInterval time.Duration // Auto-play cadence
	InitialCash      float64
	ChartWindowDays  int
	SessionIdleTTL   time.Duration
	HistoryCacheTTL  time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("HERMES_DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:          absDataDir,
		Port:             getEnvAsInt("GO_PORT", 8001),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		DevMode:          getEnvAsBool("DEV_MODE", false),
		AlphaVantageKey:  getEnv("ALPHA_VANTAGE_API_KEY", "demo"),
		NewsDataKey:      getEnv("NEWSDATA_API_KEY", ""),
		MockFallback:     getEnvAsBool("MOCK_FALLBACK", true),
		PlaybackInterval: time.Duration(getEnvAsInt("PLAYBACK_INTERVAL_MS", 800)) * time.Millisecond,
		InitialCash:      getEnvAsFloat("INITIAL_CASH", 10000),
		ChartWindowDays:  getEnvAsInt("CHART_WINDOW_DAYS", 100),
		SessionIdleTTL:   time.Duration(getEnvAsInt("SESSION_IDLE_TTL_MINUTES", 120)) * time.Minute,
		HistoryCacheTTL:  time.Duration(getEnvAsInt("HISTORY_CACHE_TTL_HOURS", 24)) * time.Hour,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that numeric settings are usable
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.PlaybackInterval <= 0 {
		return fmt.Errorf("playback interval must be positive, got %s", c.PlaybackInterval)
	}
	if c.InitialCash <= 0 {
		return fmt.Errorf("initial cash must be positive, got %.2f", c.InitialCash)
	}
	if c.ChartWindowDays <= 0 {
		return fmt.Errorf("chart window must be positive, got %d", c.ChartWindowDays)
	}
	if c.SessionIdleTTL <= 0 {
		return fmt.Errorf("session idle TTL must be positive, got %s", c.SessionIdleTTL)
	}
	return nil
}

// HistoryDBPath returns the location of the market data cache database
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.DataDir, "history.db")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
