// Package config contains everything related to configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	// Record store connection (Kintone-style API).
	Domain   string
	AppID    string
	APIToken string

	DatabasePath    string
	PlantsPath      string
	LogPath         string
	LogLevel        string
	RefreshInterval time.Duration

	// MockFallback enables generated sample data when the record store
	// is unreachable and the local cache is empty.
	MockFallback bool
}

// Default values
const (
	defaultRefreshInterval = 5 * time.Minute
	defaultLogLevel        = "info"
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	loadDotenv()

	cfg := &Config{
		Domain:          getEnvString("KINTONE_DOMAIN", ""),
		AppID:           getEnvString("KINTONE_APP_ID", ""),
		APIToken:        getEnvString("KINTONE_API_TOKEN", ""),
		DatabasePath:    getEnvString("GGDASH_DB_PATH", getDefaultDatabasePath()),
		PlantsPath:      getEnvString("GGDASH_PLANTS_PATH", getDefaultPlantsPath()),
		LogPath:         getEnvString("GGDASH_LOG_PATH", getDefaultLogPath()),
		LogLevel:        getEnvString("GGDASH_LOG_LEVEL", defaultLogLevel),
		RefreshInterval: getEnvDuration("GGDASH_REFRESH_INTERVAL", defaultRefreshInterval),
		MockFallback:    getEnvBool("GGDASH_MOCK_FALLBACK", true),
	}

	// A missing record store config is allowed: the dashboard still runs
	// from the local cache or mock data. But a partial one is a mistake.
	if cfg.HasRecordStore() {
		if cfg.Domain == "" || cfg.AppID == "" || cfg.APIToken == "" {
			return nil, fmt.Errorf(
				"KINTONE_DOMAIN, KINTONE_APP_ID and KINTONE_API_TOKEN must be set together")
		}
	}

	for _, p := range []string{cfg.DatabasePath, cfg.PlantsPath, cfg.LogPath} {
		if err := ensureDir(filepath.Dir(p)); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// HasRecordStore reports whether any record store setting was provided.
func (c *Config) HasRecordStore() bool {
	return c.Domain != "" || c.AppID != "" || c.APIToken != ""
}

// loadDotenv loads the first .env file found in the search path.
func loadDotenv() {
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "ggdash", ".env"),
			filepath.Join(home, ".ggdash", ".env"),
		)
	}

	// Parent directories (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		parent := filepath.Dir(cwd)
		paths = append(paths, filepath.Join(parent, ".env"))
	}

	return paths
}

// getDefaultDatabasePath returns the default path for the SQLite database.
func getDefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "ggdash.db"
	}
	return filepath.Join(home, ".config", "ggdash", "ggdash.db")
}

// getDefaultPlantsPath returns the default path for the plants roster file.
func getDefaultPlantsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "plants.json"
	}
	return filepath.Join(home, ".config", "ggdash", "plants.json")
}

// getDefaultLogPath returns the default path for the log file.
func getDefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "ggdash.log"
	}
	return filepath.Join(home, ".local", "share", "ggdash", "ggdash.log")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
