package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	ImageFetchTimeout  time.Duration
	MaxRequestBodySize int64

	// Decode pipeline
	DecodeEngines []string // priority order

	// Rate limiting
	RateLimitEnabled bool
	CounterBackend   string // "redis" or "memory"
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	DefaultTier      string

	// Optional Azure blob image source
	AzureAccountName string
	AzureAccountKey  string
}

func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// AzureConfigured reports whether blob-storage credentials were supplied.
func (c *Config) AzureConfigured() bool {
	return c.AzureAccountName != "" && c.AzureAccountKey != ""
}

func LoadFromEnv() (*Config, error) {
	// Set defaults
	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		ImageFetchTimeout:  parseDurationOrDefault("IMAGE_FETCH_TIMEOUT", 15*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 10*1024*1024), // 10MB
		DecodeEngines:      []string{"zxing", "quirc"},
		RateLimitEnabled:   parseBoolOrDefault("RATE_LIMIT_ENABLED", true),
		CounterBackend:     getEnvOrDefault("COUNTER_BACKEND", "redis"),
		RedisAddr:          getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:            int(parseIntOrDefault("REDIS_DB", 0)),
		DefaultTier:        getEnvOrDefault("DEFAULT_TIER", "free"),
		AzureAccountName:   getEnvOrDefault("AZURE_ACCOUNT_NAME", ""),
		AzureAccountKey:    getEnvOrDefault("AZURE_ACCOUNT_KEY", ""),
	}

	if cfg.CounterBackend != "redis" && cfg.CounterBackend != "memory" {
		return nil, fmt.Errorf("unsupported counter backend: %s", cfg.CounterBackend)
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
