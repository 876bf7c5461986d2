package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "wallethub-saga", cfg.BusConsumerGroup)
	assert.Equal(t, 5*time.Second, cfg.OutboxInterval)
	assert.Equal(t, 100, cfg.OutboxBatchSize)
	assert.Equal(t, 25, cfg.OutboxMaxAttempts)
	assert.True(t, cfg.RateLimitEnabled)
	assert.False(t, cfg.CORSEnabled)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, 8081, cfg.MetricsPort)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("OUTBOX_INTERVAL_SECONDS", "1")
	t.Setenv("OUTBOX_MAX_ATTEMPTS", "5")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg := Load()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, time.Second, cfg.OutboxInterval)
	assert.Equal(t, 5, cfg.OutboxMaxAttempts)
	assert.False(t, cfg.RateLimitEnabled)
}

func TestConfig_GetGinMode(t *testing.T) {
	tests := []struct {
		logLevel string
		expected string
	}{
		{"debug", "debug"},
		{"info", "release"},
		{"warn", "release"},
		{"error", "release"},
		{"unknown", "release"},
	}

	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			assert.Equal(t, tt.expected, cfg.GetGinMode())
		})
	}
}
