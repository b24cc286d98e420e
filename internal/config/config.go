// Package config loads PRD store configuration from the environment
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	DBPath      string
	LogLevel    string
	LogPretty   bool
	MetricsPort int

	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string
}

// Load reads configuration from environment variables, applying defaults for
// optional fields. A .env file in the working directory is loaded first;
// variables already set in the environment take precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBPath:     getEnv("PRDSTORE_DB_PATH", "./data/prdstore"),
		LogLevel:   getEnv("PRDSTORE_LOG_LEVEL", "info"),
		LLMBaseURL: getEnv("LLM_BASE_URL", "http://localhost:8080"),
		LLMModel:   getEnv("LLM_MODEL", "gemini-2.0-flash"),
		LLMAPIKey:  getEnv("LLM_API_KEY", "dummy-key"),
	}

	pretty, err := strconv.ParseBool(getEnv("PRDSTORE_LOG_PRETTY", "true"))
	if err != nil {
		return nil, fmt.Errorf("PRDSTORE_LOG_PRETTY must be a boolean: %w", err)
	}
	cfg.LogPretty = pretty

	port, err := strconv.Atoi(getEnv("PRDSTORE_METRICS_PORT", "9090"))
	if err != nil {
		return nil, fmt.Errorf("PRDSTORE_METRICS_PORT must be an integer: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("PRDSTORE_METRICS_PORT out of range: %d", port)
	}
	cfg.MetricsPort = port

	return cfg, nil
}

// getEnv returns the environment variable value or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
