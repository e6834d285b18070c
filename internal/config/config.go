package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the configuration for the text statistics service
type Config struct {
	Server  ServerConfig
	Stats   StatsConfig
	Storage StorageConfig
	Fetcher FetcherConfig
	Log     LogConfig
}

// ServerConfig holds HTTP API configuration
type ServerConfig struct {
	Addr         string
	MaxBodyBytes int
}

// StatsConfig selects the TF/IDF semantics
type StatsConfig struct {
	MatchMode string // substring | token
	IDFMode   string // literal | smooth | classic
}

// StorageConfig holds corpus storage configuration
type StorageConfig struct {
	DataDir string
}

// FetcherConfig holds document loading configuration
type FetcherConfig struct {
	Timeout        time.Duration
	UserAgent      string
	MaxConcurrency int
	RespectRobots  bool
}

type LogConfig struct {
	Level string
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         GetStringEnv("SERVER_ADDR", ":8080"),
			MaxBodyBytes: GetIntEnv("SERVER_MAX_BODY_BYTES", 1<<20),
		},
		Stats: StatsConfig{
			MatchMode: GetStringEnv("STATS_MATCH_MODE", "substring"),
			IDFMode:   GetStringEnv("STATS_IDF_MODE", "literal"),
		},
		Storage: StorageConfig{
			DataDir: GetStringEnv("STORAGE_DATA_DIR", "./data"),
		},
		Fetcher: FetcherConfig{
			Timeout:        GetDurationEnv("FETCHER_TIMEOUT", 30*time.Second),
			UserAgent:      GetStringEnv("FETCHER_USER_AGENT", "TextStats/1.0"),
			MaxConcurrency: GetIntEnv("FETCHER_MAX_CONCURRENCY", 4),
			RespectRobots:  GetBoolEnv("FETCHER_RESPECT_ROBOTS", true),
		},
		Log: LogConfig{
			Level: GetStringEnv("LOG_LEVEL", "info"),
		},
	}
}

func GetStringEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
