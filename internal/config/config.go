// Package config loads and validates application configuration from environment variables.
// It is read once at startup; nothing else in the service looks at the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values for the API server.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:8000"] (the client dev server).
	CORSOrigins []string

	// JWTSecret verifies the session token cookie. Required.
	JWTSecret string

	// TokenCookie names the cookie carrying the session token. Defaults to "token".
	TokenCookie string

	// GeocodeAPIKey authenticates against the geocoding API. Required.
	GeocodeAPIKey string

	// GeocodeURL is the geocoding endpoint. Defaults to the Google Geocoding API.
	GeocodeURL string

	// GeocodeTimeout bounds a single geocoding call. Defaults to 5s.
	GeocodeTimeout time.Duration

	// CreateRateLimit is the number of segment creations allowed per client
	// IP per minute. Zero disables the limit. Defaults to 30.
	CreateRateLimit int

	// MigrateOnStart applies pending migrations before serving. Defaults to false.
	MigrateOnStart bool
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set and any
// values that fail to parse.
func Load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:8000")),
		TokenCookie: getEnv("TOKEN_COOKIE", "token"),
		GeocodeURL:  getEnv("GEOCODE_URL", "https://maps.googleapis.com/maps/api/geocode/json"),
	}

	var missing, invalid []string

	for _, req := range []struct {
		key string
		dst *string
	}{
		{"DATABASE_URL", &cfg.DatabaseURL},
		{"JWT_SECRET", &cfg.JWTSecret},
		{"GEOCODE_API_KEY", &cfg.GeocodeAPIKey},
	} {
		*req.dst = os.Getenv(req.key)
		if *req.dst == "" {
			missing = append(missing, req.key)
		}
	}

	var err error
	if cfg.GeocodeTimeout, err = time.ParseDuration(getEnv("GEOCODE_TIMEOUT", "5s")); err != nil || cfg.GeocodeTimeout <= 0 {
		invalid = append(invalid, "GEOCODE_TIMEOUT")
	}
	if cfg.CreateRateLimit, err = strconv.Atoi(getEnv("CREATE_RATE_LIMIT", "30")); err != nil || cfg.CreateRateLimit < 0 {
		invalid = append(invalid, "CREATE_RATE_LIMIT")
	}
	if cfg.MigrateOnStart, err = strconv.ParseBool(getEnv("MIGRATE_ON_START", "false")); err != nil {
		invalid = append(invalid, "MIGRATE_ON_START")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
