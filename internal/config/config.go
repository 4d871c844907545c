package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port             int
	Debug            bool
	LogLevel         string
	LogFormat        string
	SecretKey        string // session cookie signing key
	TwitterAPIKey    string // consumer key for the Twitter app
	TwitterAPISecret string // consumer secret for the Twitter app
	CallbackURL      string
	DatabaseURL      string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
		SecretKey:        getEnv("SECRET_KEY", ""),
		TwitterAPIKey:    getEnv("TWITTER_API_KEY", ""),
		TwitterAPISecret: getEnv("TWITTER_API_SECRET", ""),
		CallbackURL:      getEnv("CALLBACK_URL", "http://127.0.0.1:8080/callback"),
		DatabaseURL:      getEnv("DATABASE_URL", "twitter_manager.db"),
	}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	// FLASK_DEBUG is honored as a legacy alias so existing deployments keep working
	debugStr := getEnv("DEBUG", getEnv("FLASK_DEBUG", "false"))
	cfg.Debug = parseBool(debugStr)

	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("SECRET_KEY environment variable must be set for session signing")
	}
	if cfg.TwitterAPIKey == "" || cfg.TwitterAPISecret == "" {
		return nil, fmt.Errorf("TWITTER_API_KEY and TWITTER_API_SECRET environment variables must be set")
	}

	return cfg, nil
}

// IsPostgres reports whether DATABASE_URL points at a PostgreSQL server
// rather than the default file-backed sqlite store.
func (c *Config) IsPostgres() bool {
	return strings.HasPrefix(c.DatabaseURL, "postgres://") ||
		strings.HasPrefix(c.DatabaseURL, "postgresql://")
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// parseBool accepts the usual truthy spellings (1, true, yes, on)
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
