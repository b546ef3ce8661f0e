package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aman-zulfiqar/jupiter-e2e/internal/constants"
	"github.com/sirupsen/logrus"
)

type Config struct {
	// Jupiter API settings
	BaseURL     string
	APIKey      string
	HTTPTimeout time.Duration

	// Client-side throttling
	RateLimitRPS   float64
	RateLimitBurst int

	LogLevel string

	// Redis settings
	RedisAddr string
	RedisDB   int

	// ClickHouse settings
	ClickHouseAddr     string
	ClickHouseDatabase string
	ClickHouseUsername string
	ClickHousePassword string

	// Mock API settings
	MockAddr         string
	MockAPIKey       string
	MockRateLimitRPS float64
	MockAccessLog    bool

	// Load check settings
	PerfVUs      int
	PerfDuration time.Duration

	// Validation tolerances
	StablecoinRatioMin          float64
	StablecoinRatioMax          float64
	MaxStablecoinPriceImpactPct float64
	PriorityFeeMargin           int
	MaxComputeUnitLimit         int
}

func Load() *Config {
	return &Config{
		// Jupiter
		BaseURL:     getEnv("JUPITER_BASE_URL", constants.DefaultBaseURL),
		APIKey:      getEnv("JUPITER_API_KEY", ""),
		HTTPTimeout: getDurationEnv("HTTP_TIMEOUT", constants.DefaultHTTPTimeout),

		RateLimitRPS:   getFloatEnv("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 5),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Redis
		RedisAddr: getEnv("REDIS_ADDR", ""),
		RedisDB:   getIntEnv("REDIS_DB", 0),

		// ClickHouse
		ClickHouseAddr:     getEnv("CLICKHOUSE_ADDR", ""),
		ClickHouseDatabase: getEnv("CLICKHOUSE_DATABASE", "jupiter"),
		ClickHouseUsername: getEnv("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),

		// Mock API
		MockAddr:         getEnv("MOCK_API_ADDR", ":8090"),
		MockAPIKey:       getEnv("MOCK_API_KEY", ""),
		MockRateLimitRPS: getFloatEnv("MOCK_RATE_LIMIT_RPS", 50),
		MockAccessLog:    getBoolEnv("MOCK_ACCESS_LOG", false),

		// Load check
		PerfVUs:      getIntEnv("PERF_VUS", 10),
		PerfDuration: getDurationEnv("PERF_DURATION", 30*time.Second),

		// Tolerances
		StablecoinRatioMin:          getFloatEnv("STABLECOIN_RATIO_MIN", constants.StablecoinRatioMin),
		StablecoinRatioMax:          getFloatEnv("STABLECOIN_RATIO_MAX", constants.StablecoinRatioMax),
		MaxStablecoinPriceImpactPct: getFloatEnv("STABLECOIN_MAX_PRICE_IMPACT_PCT", constants.MaxStablecoinPriceImpactPct),
		PriorityFeeMargin:           getIntEnv("PRIORITY_FEE_MARGIN", constants.PriorityFeeMargin),
		MaxComputeUnitLimit:         getIntEnv("MAX_COMPUTE_UNIT_LIMIT", constants.MaxComputeUnitLimit),
	}
}

// Validate rejects settings the suite cannot run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("JUPITER_BASE_URL must be an absolute url, got %q", c.BaseURL)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must not be negative")
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1")
	}
	if c.StablecoinRatioMin <= 0 || c.StablecoinRatioMin >= c.StablecoinRatioMax {
		return fmt.Errorf("stablecoin ratio band [%v, %v] is empty", c.StablecoinRatioMin, c.StablecoinRatioMax)
	}
	if c.PriorityFeeMargin < 0 {
		return fmt.Errorf("PRIORITY_FEE_MARGIN must not be negative")
	}
	if c.MaxComputeUnitLimit <= 0 {
		return fmt.Errorf("MAX_COMPUTE_UNIT_LIMIT must be positive")
	}
	if c.PerfVUs < 1 || c.PerfDuration <= 0 {
		return fmt.Errorf("PERF_VUS and PERF_DURATION must be positive")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return nil
}

// Level returns the configured log level, falling back to info.
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(c.LogLevel))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
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

func getBoolEnv(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
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
