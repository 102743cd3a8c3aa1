// Package config loads server configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"triage_server/pkg/apperr"
)

// Config holds all server settings.
type Config struct {
	Port           string
	Environment    string
	AllowedOrigins string
	LogLevel       string

	// RedisURL enables persistence of the domain selection and the
	// submit rate limiter. Empty falls back to in-memory equivalents.
	RedisURL string

	// OpenAIAPIKey enables LLM scoring. Empty means keyword-only mode.
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	ScoringTimeout  time.Duration
	AnalyzerWorkers int
	WorkerID        int64

	// RateLimitPerMinute caps complaint submissions per client. Zero
	// disables rate limiting.
	RateLimitPerMinute int
}

// Load reads the configuration from the environment, applying defaults.
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),

		RedisURL: getEnv("REDIS_URL", ""),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", ""),

		ScoringTimeout:  getEnvDuration("SCORING_TIMEOUT", 15*time.Second),
		AnalyzerWorkers: getEnvInt("ANALYZER_WORKERS", 4),
		WorkerID:        int64(getEnvInt("WORKER_ID", 0)),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}
}

// Validate checks settings that would only fail later at runtime.
func (c *Config) Validate() error {
	if c.ScoringTimeout <= 0 {
		return apperr.ConfigError("SCORING_TIMEOUT must be positive")
	}
	if c.AnalyzerWorkers <= 0 {
		return apperr.ConfigError("ANALYZER_WORKERS must be positive")
	}
	if c.WorkerID < 0 || c.WorkerID > 1023 {
		return apperr.ConfigError("WORKER_ID must be in [0, 1023]")
	}
	return nil
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
