// Package config contains everything related to configuration
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	DatabasePath      string
	LogPath           string
	LogLevel          string
	APIKey            string
	APIKeyFile        string
	APIEndpoint       string
	DailyQuotaLimit   int
	CacheTTL          time.Duration
	RequestTimeout    time.Duration
	MaxVideos         int
	RequestsPerSecond float64
	Notifications     bool
}

// Default values
const (
	DefaultDailyQuotaLimit   = 10000
	DefaultCacheTTL          = 30 * time.Minute
	DefaultRequestTimeout    = 30 * time.Second
	DefaultMaxVideos         = 50
	DefaultRequestsPerSecond = 5.0
)

// Load reads configuration from .env files and environment variables.
// A missing API key is not an error: the client degrades to mock data when
// quota is exhausted and reports invalid credentials otherwise.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	envPaths := getEnvPaths()
	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		DatabasePath:      getEnvString("DATABASE_PATH", getDefaultDatabasePath()),
		LogLevel:          getEnvString("LOG_LEVEL", "info"),
		APIKey:            getEnvString("YOUTUBE_API_KEY", ""),
		APIKeyFile:        getEnvString("YOUTUBE_API_KEY_FILE", getDefaultKeyFilePath()),
		APIEndpoint:       getEnvString("YOUTUBE_API_ENDPOINT", ""),
		DailyQuotaLimit:   getEnvInt("DAILY_QUOTA_LIMIT", DefaultDailyQuotaLimit),
		CacheTTL:          getEnvDuration("CACHE_TTL", DefaultCacheTTL),
		RequestTimeout:    getEnvDuration("REQUEST_TIMEOUT", DefaultRequestTimeout),
		MaxVideos:         getEnvInt("MAX_VIDEOS", DefaultMaxVideos),
		RequestsPerSecond: getEnvFloat("API_REQUESTS_PER_SECOND", DefaultRequestsPerSecond),
		Notifications:     getEnvBool("NOTIFICATIONS", true),
	}
	cfg.LogPath = getEnvString("LOG_PATH", filepath.Join(filepath.Dir(cfg.DatabasePath), "chanlyze.log"))

	if cfg.DailyQuotaLimit <= 0 {
		cfg.DailyQuotaLimit = DefaultDailyQuotaLimit
	}
	if cfg.MaxVideos <= 0 || cfg.MaxVideos > 50 {
		cfg.MaxVideos = DefaultMaxVideos
	}

	// Ensure database directory exists
	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}

	return cfg, nil
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
			filepath.Join(home, ".config", "chanlyze", ".env"),
			filepath.Join(home, ".chanlyze", ".env"),
		)
	}

	// Parent directory (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(cwd), ".env"))
	}

	return paths
}

// getDefaultDatabasePath returns the default path for the SQLite database.
func getDefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "chanlyze.db"
	}
	return filepath.Join(home, ".config", "chanlyze", "chanlyze.db")
}

// getDefaultKeyFilePath returns the default location of the optional API key file.
func getDefaultKeyFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "chanlyze", "youtube.key")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvBool accepts 1/0, true/false, yes/no, on/off.
func getEnvBool(key string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
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
