package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aman-zulfiqar/currency-swap/internal/constants"
)

type Config struct {
	// API settings
	APIAddr   string
	APIKey    string
	DevMode   bool
	SwapRate  float64 // swap submissions per second per client
	SwapBurst int

	// Logging
	LogLevel string

	// Price feed
	PriceFeedURL string
	PollInterval time.Duration
	HTTPTimeout  time.Duration
	Fluctuate    bool // jitter non-stable prices on every sync

	// Redis settings
	RedisAddr string

	// ClickHouse settings (optional; history is skipped when empty)
	ClickHouseAddr     string
	ClickHouseDatabase string
	ClickHouseUsername string
	ClickHousePassword string

	// Swap simulation
	SubmitFailureRate float64
	SubmitMinDelay    time.Duration
	SubmitMaxDelay    time.Duration
}

func Load() *Config {
	return &Config{
		// API
		APIAddr: getEnv("API_ADDR", ":8090"),
		APIKey:  getEnv("API_KEY", ""),
		DevMode: getBoolEnv("DEV_MODE", false),

		SwapRate:  getFloatEnv("SWAP_RATE_LIMIT", 1),
		SwapBurst: getIntEnv("SWAP_RATE_BURST", 5),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Price feed
		PriceFeedURL: getEnv("PRICE_FEED_URL", constants.DefaultPriceFeedURL),
		PollInterval: getDurationEnv("POLL_INTERVAL", 30*time.Second),
		HTTPTimeout:  getDurationEnv("HTTP_TIMEOUT", 10*time.Second),
		Fluctuate:    getBoolEnv("PRICE_FLUCTUATE", false),

		// Redis
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),

		// ClickHouse
		ClickHouseAddr:     getEnv("CLICKHOUSE_ADDR", ""),
		ClickHouseDatabase: getEnv("CLICKHOUSE_DATABASE", "swap"),
		ClickHouseUsername: getEnv("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),

		// Simulation
		SubmitFailureRate: getFloatEnv("SUBMIT_FAILURE_RATE", constants.SubmitFailureRate),
		SubmitMinDelay:    getDurationEnv("SUBMIT_MIN_DELAY", constants.SubmitMinDelay),
		SubmitMaxDelay:    getDurationEnv("SUBMIT_MAX_DELAY", constants.SubmitMaxDelay),
	}
}

// Validate checks the loaded values for consistency.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.APIAddr) == "" {
		errs = append(errs, errors.New("API_ADDR is required"))
	}
	if strings.TrimSpace(c.RedisAddr) == "" {
		errs = append(errs, errors.New("REDIS_ADDR is required"))
	}
	if !strings.HasPrefix(c.PriceFeedURL, "http://") && !strings.HasPrefix(c.PriceFeedURL, "https://") {
		errs = append(errs, fmt.Errorf("PRICE_FEED_URL must be an http(s) url, got %q", c.PriceFeedURL))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, errors.New("POLL_INTERVAL must be > 0"))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, errors.New("HTTP_TIMEOUT must be > 0"))
	}
	if c.SwapRate <= 0 || c.SwapBurst < 1 {
		errs = append(errs, errors.New("SWAP_RATE_LIMIT must be > 0 and SWAP_RATE_BURST >= 1"))
	}
	if c.SubmitFailureRate < 0 || c.SubmitFailureRate > 1 {
		errs = append(errs, errors.New("SUBMIT_FAILURE_RATE must be within [0, 1]"))
	}
	if c.SubmitMinDelay < 0 || c.SubmitMaxDelay < c.SubmitMinDelay {
		errs = append(errs, errors.New("SUBMIT_MIN_DELAY/SUBMIT_MAX_DELAY must satisfy 0 <= min <= max"))
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getFloatEnv(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
