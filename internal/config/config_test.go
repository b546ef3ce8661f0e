package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JUPITER_BASE_URL", "")
	t.Setenv("HTTP_TIMEOUT", "")
	t.Setenv("PRIORITY_FEE_MARGIN", "")
	t.Setenv("LOG_LEVEL", "")

	cfg := Load()
	assert.Equal(t, "https://lite-api.jup.ag", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 5, cfg.PriorityFeeMargin)
	assert.Equal(t, 1_400_000, cfg.MaxComputeUnitLimit)
	assert.InDelta(t, 0.995, cfg.StablecoinRatioMin, 1e-9)
	assert.InDelta(t, 1.005, cfg.StablecoinRatioMax, 1e-9)
	require.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JUPITER_BASE_URL", "http://127.0.0.1:8090")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("RATE_LIMIT_RPS", "0")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PRIORITY_FEE_MARGIN", "not-a-number")
	t.Setenv("MOCK_ACCESS_LOG", "true")
	t.Setenv("PERF_VUS", "3")
	t.Setenv("PERF_DURATION", "5s")

	cfg := Load()
	assert.Equal(t, "http://127.0.0.1:8090", cfg.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Zero(t, cfg.RateLimitRPS)
	assert.Equal(t, logrus.DebugLevel, cfg.Level())
	// unparseable values fall back to the default
	assert.Equal(t, 5, cfg.PriorityFeeMargin)
	assert.True(t, cfg.MockAccessLog)
	assert.Equal(t, 3, cfg.PerfVUs)
	assert.Equal(t, 5*time.Second, cfg.PerfDuration)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"relative base url", func(c *Config) { c.BaseURL = "lite-api.jup.ag" }, "JUPITER_BASE_URL"},
		{"zero timeout", func(c *Config) { c.HTTPTimeout = 0 }, "HTTP_TIMEOUT"},
		{"negative rps", func(c *Config) { c.RateLimitRPS = -1 }, "RATE_LIMIT_RPS"},
		{"zero burst", func(c *Config) { c.RateLimitBurst = 0 }, "RATE_LIMIT_BURST"},
		{"inverted ratio band", func(c *Config) { c.StablecoinRatioMin = 1.1 }, "ratio band"},
		{"negative fee margin", func(c *Config) { c.PriorityFeeMargin = -1 }, "PRIORITY_FEE_MARGIN"},
		{"no virtual users", func(c *Config) { c.PerfVUs = 0 }, "PERF_VUS"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", "info")
			cfg := Load()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
