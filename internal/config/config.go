// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Server    ServerConfig
	Dataset   DatasetConfig
	Search    SearchConfig
	Dashboard DashboardConfig
	Export    ExportConfig
	Metrics   MetricsConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Name         string
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 30s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
	CORSOrigins  []string      // Allowed origins for cross-site API access (default: none)
}

// DatasetConfig holds catalog dataset configuration.
type DatasetConfig struct {
	// Path is the CSV file the catalog is loaded from.
	Path string
	// Watch reloads the catalog when the file changes on disk.
	Watch bool
	// SettleDelay is how long the file must stay unchanged before a reload.
	SettleDelay time.Duration
	// StorePath is the SQLite file backing the dataframe. Empty keeps it in memory.
	StorePath string
}

// SearchConfig holds search index configuration.
type SearchConfig struct {
	// IndexPath is the directory holding the bleve index. Empty keeps it in memory.
	IndexPath string
}

// DashboardConfig holds the shape of the dashboard views.
type DashboardConfig struct {
	TrendStartYear int // First release year shown on the release trend (default: 1990)
	TopCountries   int // default: 15
	TopGenres      int // default: 15
	TopPeople      int // Directors and actors (default: 10)
	HistogramBins  int // Movie duration bins (default: 30)
	PreviewRows    int // Rows in the data explorer preview (default: 100)
}

// ExportConfig holds download configuration.
type ExportConfig struct {
	RatePerMinute int // Exports allowed per client per minute (default: 30)
	Burst         int // default: 10
}

// MetricsConfig holds Prometheus configuration.
type MetricsConfig struct {
	Enabled bool // Expose /metrics (default: true)
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	// Define command-line flags.
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")

	// Server flags
	serverName := flag.String("server-name", "", "Name for the server")
	serverPort := flag.String("port", "", "Server port (default: 8080)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 30s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := flag.String("cors-origins", "", "Comma-separated allowed CORS origins")

	// Dataset flags
	datasetPath := flag.String("dataset", "", "Path to the catalog CSV (default: data/netflix_titles.csv)")
	datasetWatch := flag.String("watch", "", "Reload the catalog when the file changes (default: false)")
	settleDelay := flag.String("settle-delay", "", "Quiet period before a changed file is reloaded (default: 500ms)")
	storePath := flag.String("store-path", "", "SQLite file for the dataframe (default: in memory)")
	indexPath := flag.String("index-path", "", "Directory for the search index (default: in memory)")

	// Export flags
	exportRate := flag.String("export-rate", "", "Exports allowed per client per minute (default: 30)")
	metricsEnabled := flag.String("metrics", "", "Expose Prometheus metrics (default: true)")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	// godotenv never overrides variables that are already set.
	_ = godotenv.Load(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Name:        getConfigValue(*serverName, "SERVER_NAME", "FlixLens"),
			Port:        getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			CORSOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ORIGINS", "")),
		},
		Dataset: DatasetConfig{
			Path:      getConfigValue(*datasetPath, "DATASET_PATH", filepath.Join("data", "netflix_titles.csv")),
			Watch:     getBoolConfigValue(*datasetWatch, "DATASET_WATCH", false),
			StorePath: getConfigValue(*storePath, "DATASET_STORE_PATH", ""),
		},
		Search: SearchConfig{
			IndexPath: getConfigValue(*indexPath, "SEARCH_INDEX_PATH", ""),
		},
		Dashboard: DashboardConfig{
			TrendStartYear: getIntConfigValue("", "DASHBOARD_TREND_START_YEAR", 1990),
			TopCountries:   getIntConfigValue("", "DASHBOARD_TOP_COUNTRIES", 15),
			TopGenres:      getIntConfigValue("", "DASHBOARD_TOP_GENRES", 15),
			TopPeople:      getIntConfigValue("", "DASHBOARD_TOP_PEOPLE", 10),
			HistogramBins:  getIntConfigValue("", "DASHBOARD_HISTOGRAM_BINS", 30),
			PreviewRows:    getIntConfigValue("", "DASHBOARD_PREVIEW_ROWS", 100),
		},
		Export: ExportConfig{
			RatePerMinute: getIntConfigValue(*exportRate, "EXPORT_RATE_PER_MINUTE", 30),
			Burst:         getIntConfigValue("", "EXPORT_BURST", 10),
		},
		Metrics: MetricsConfig{
			Enabled: getBoolConfigValue(*metricsEnabled, "METRICS_ENABLED", true),
		},
	}

	var err error
	if cfg.Server.ReadTimeout, err = getDurationConfigValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, fmt.Errorf("invalid read timeout: %w", err)
	}
	if cfg.Server.WriteTimeout, err = getDurationConfigValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "30s"); err != nil {
		return nil, fmt.Errorf("invalid write timeout: %w", err)
	}
	if cfg.Server.IdleTimeout, err = getDurationConfigValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, fmt.Errorf("invalid idle timeout: %w", err)
	}
	if cfg.Dataset.SettleDelay, err = getDurationConfigValue(*settleDelay, "DATASET_SETTLE_DELAY", "500ms"); err != nil {
		return nil, fmt.Errorf("invalid settle delay: %w", err)
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used when nothing is set. Tests and the
// CLI start from it.
func Default() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Server: ServerConfig{
			Name:         "FlixLens",
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Dataset: DatasetConfig{
			Path:        filepath.Join("data", "netflix_titles.csv"),
			SettleDelay: 500 * time.Millisecond,
		},
		Dashboard: DashboardConfig{
			TrendStartYear: 1990,
			TopCountries:   15,
			TopGenres:      15,
			TopPeople:      10,
			HistogramBins:  30,
			PreviewRows:    100,
		},
		Export:  ExportConfig{RatePerMinute: 30, Burst: 10},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Dataset.Path == "" {
		return errors.New("dataset path is required")
	}

	if c.Dashboard.HistogramBins < 1 {
		return fmt.Errorf("invalid histogram bins: %d (must be at least 1)", c.Dashboard.HistogramBins)
	}
	if c.Dashboard.TopCountries < 1 || c.Dashboard.TopGenres < 1 || c.Dashboard.TopPeople < 1 {
		return errors.New("top-N sizes must be at least 1")
	}
	if c.Dashboard.PreviewRows < 0 {
		return fmt.Errorf("invalid preview rows: %d", c.Dashboard.PreviewRows)
	}

	if c.Export.RatePerMinute < 1 || c.Export.Burst < 1 {
		return errors.New("export rate and burst must be at least 1")
	}

	return nil
}

// expandPaths resolves every configured path to an absolute one.
func (c *Config) expandPaths() error {
	var err error
	if c.Dataset.Path, err = expandPath(c.Dataset.Path, ""); err != nil {
		return fmt.Errorf("invalid dataset path: %w", err)
	}
	if c.Dataset.StorePath, err = expandPath(c.Dataset.StorePath, ""); err != nil {
		return fmt.Errorf("invalid store path: %w", err)
	}
	if c.Search.IndexPath, err = expandPath(c.Search.IndexPath, ""); err != nil {
		return fmt.Errorf("invalid index path: %w", err)
	}
	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable (including values loaded from .env).
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// getDurationConfigValue parses a duration from flag, env var, or default.
func getDurationConfigValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	strValue := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(strValue)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", strValue, err)
	}
	return d, nil
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
