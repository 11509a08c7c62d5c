// Package config reads the serving binary's settings from the
// environment, with an optional .env file for development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the server that hosts the
// web client. The wasm client itself takes no configuration; it always
// talks to /api on its own origin.
type Config struct {
	Addr       string
	Env        string
	LogLevel   string
	APIBaseURL string
	MockAPI    bool
	MockDBPath string
}

// Load reads configuration from environment variables, applying defaults
// where possible. A missing .env file is not an error.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:       getEnv("HELPDESK_ADDR", ":8000"),
		Env:        getEnv("HELPDESK_ENV", "development"),
		LogLevel:   getEnv("HELPDESK_LOG_LEVEL", "info"),
		APIBaseURL: getEnv("HELPDESK_API_URL", "http://localhost:5000"),
		MockAPI:    getEnvAsBool("HELPDESK_MOCK_API", false),
		MockDBPath: getEnv("HELPDESK_MOCK_DB", "helpdesk-mock.db"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
