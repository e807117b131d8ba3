// Package config provides configuration management for the backend server.
package config

import (
	"os"
	"strconv"
)

// Config holds all configuration for the planner server.
type Config struct {
	// Server configuration
	Port     int
	LogLevel string

	// CORS configuration
	CORSAllowedOrigins string

	// Auth configuration for service-to-service JWTs
	Auth AuthConfig

	// Planning defaults, applied when a request omits them
	Planning PlanningConfig
}

// AuthConfig holds bearer-JWT verification settings.
type AuthConfig struct {
	Issuer   string
	Audience string
	// SigningSecret verifies HMAC-signed tokens; empty disables verification
	// (local/dev only).
	SigningSecret string
	// PlanSignatureSecret verifies the HMAC signature on requests to
	// POST /plans; empty disables signature verification (local/dev only).
	PlanSignatureSecret string
}

// PlanningConfig holds planning defaults. DefaultHeuristic is used by
// POST /plans when a request names no heuristic. MaxExpandedStates and
// MaxSearchTime are loaded from the environment but nothing reads them:
// search runs without a node or time limit.
type PlanningConfig struct {
	DefaultHeuristic  string
	MaxExpandedStates int
	MaxSearchTime     int // seconds
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:               getEnvAsInt("PORT", 8080),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", ""),
		Auth: AuthConfig{
			Issuer:              getEnv("AUTH_ISSUER", "classical-planner"),
			Audience:            getEnv("AUTH_AUDIENCE", "plannerd"),
			SigningSecret:       getEnv("AUTH_SIGNING_SECRET", ""),
			PlanSignatureSecret: getEnv("PLAN_SIGNATURE_SECRET", ""),
		},
		Planning: PlanningConfig{
			DefaultHeuristic:  getEnv("PLANNER_DEFAULT_HEURISTIC", "monotone"),
			MaxExpandedStates: getEnvAsInt("PLANNER_MAX_EXPANDED_STATES", 200000),
			MaxSearchTime:     getEnvAsInt("PLANNER_MAX_SEARCH_SECONDS", 30),
		},
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
