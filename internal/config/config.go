package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DatabasePath    string
	MarketDataURL   string
	LogLevel        string
	Port            int
	DevMode         bool
	RefreshSchedule string // cron expression for the periodic analytics refresh
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnvAsInt("PORT", 8080),
		DevMode:         getEnvAsBool("DEV_MODE", false),
		DatabasePath:    getEnv("DATABASE_PATH", "./data/holdings.db"),
		MarketDataURL:   getEnv("MARKET_DATA_URL", "http://localhost:9000"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		RefreshSchedule: getEnv("REFRESH_SCHEDULE", "0 */5 * * * *"), // every 5 minutes
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}

	if c.MarketDataURL == "" {
		return fmt.Errorf("MARKET_DATA_URL is required")
	}

	return nil
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

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
