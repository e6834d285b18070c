package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/knowledge-engine/textstats/internal/config"
)

var envKeys = []string{
	"SERVER_ADDR",
	"SERVER_MAX_BODY_BYTES",
	"STATS_MATCH_MODE",
	"STATS_IDF_MODE",
	"STORAGE_DATA_DIR",
	"FETCHER_TIMEOUT",
	"FETCHER_USER_AGENT",
	"FETCHER_MAX_CONCURRENCY",
	"FETCHER_RESPECT_ROBOTS",
	"LOG_LEVEL",
}

// clearEnv blanks every key Load reads for the duration of the test.
func clearEnv(t *testing.T) {
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaultConfig(t *testing.T) {
	clearEnv(t)

	cfg := config.Load()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 1<<20, cfg.Server.MaxBodyBytes)
	assert.Equal(t, "substring", cfg.Stats.MatchMode)
	assert.Equal(t, "literal", cfg.Stats.IDFMode)
	assert.Equal(t, "./data", cfg.Storage.DataDir)
	assert.Equal(t, 30*time.Second, cfg.Fetcher.Timeout)
	assert.Equal(t, "TextStats/1.0", cfg.Fetcher.UserAgent)
	assert.Equal(t, 4, cfg.Fetcher.MaxConcurrency)
	assert.True(t, cfg.Fetcher.RespectRobots)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfigFromEnv(t *testing.T) {
	clearEnv(t)
	envVars := map[string]string{
		"SERVER_ADDR":             ":9090",
		"STATS_MATCH_MODE":        "token",
		"STATS_IDF_MODE":          "smooth",
		"STORAGE_DATA_DIR":        "/tmp/corpora",
		"FETCHER_TIMEOUT":         "5s",
		"FETCHER_MAX_CONCURRENCY": "8",
		"FETCHER_RESPECT_ROBOTS":  "false",
		"LOG_LEVEL":               "debug",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "token", cfg.Stats.MatchMode)
	assert.Equal(t, "smooth", cfg.Stats.IDFMode)
	assert.Equal(t, "/tmp/corpora", cfg.Storage.DataDir)
	assert.Equal(t, 5*time.Second, cfg.Fetcher.Timeout)
	assert.Equal(t, 8, cfg.Fetcher.MaxConcurrency)
	assert.False(t, cfg.Fetcher.RespectRobots)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestGetStringEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		envValue     string
		defaultValue string
		expected     string
	}{
		{"Existing env var", "TEST_STRING", "test_value", "default", "test_value"},
		{"Empty env var", "EMPTY_VAR", "", "default", "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.envValue)
			assert.Equal(t, tt.expected, config.GetStringEnv(tt.key, tt.defaultValue))
		})
	}
}

func TestGetIntEnv(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue int
		expected     int
	}{
		{"Valid int", "42", 10, 42},
		{"Invalid int", "not_a_number", 10, 10},
		{"Negative int", "-5", 10, -5},
		{"Zero", "0", 10, 0},
		{"Unset", "", 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_INT", tt.envValue)
			assert.Equal(t, tt.expected, config.GetIntEnv("TEST_INT", tt.defaultValue))
		})
	}
}

func TestGetBoolEnv(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue bool
		expected     bool
	}{
		{"True string", "true", false, true},
		{"False string", "false", true, false},
		{"1 (true)", "1", false, true},
		{"0 (false)", "0", true, false},
		{"Invalid bool", "invalid", true, true},
		{"Unset", "", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.envValue)
			assert.Equal(t, tt.expected, config.GetBoolEnv("TEST_BOOL", tt.defaultValue))
		})
	}
}

func TestGetDurationEnv(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue time.Duration
		expected     time.Duration
	}{
		{"Valid duration - seconds", "5s", 1 * time.Second, 5 * time.Second},
		{"Valid duration - combined", "1h30m", 1 * time.Second, 90 * time.Minute},
		{"Invalid duration", "invalid", 5 * time.Second, 5 * time.Second},
		{"Unset", "", 10 * time.Second, 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.envValue)
			assert.Equal(t, tt.expected, config.GetDurationEnv("TEST_DURATION", tt.defaultValue))
		})
	}
}
