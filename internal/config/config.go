// Package config holds the cldb configuration: where the data files live,
// where downloaded pages are cached, and how the fetcher behaves. The
// config file is optional; every field has a working default.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"cldb/internal/fetch"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = ".cldb.yaml"

// Config holds all cldb configuration.
type Config struct {
	// Data file locations.
	Data DataConfig `yaml:"data"`

	// Download cache.
	Cache CacheConfig `yaml:"cache"`

	// Fetcher behavior.
	Fetch FetchConfig `yaml:"fetch"`

	// Logging.
	Logging LoggingConfig `yaml:"logging"`
}

// DataConfig locates the CSV data files.
type DataConfig struct {
	CamerasCSV string `yaml:"cameras_csv"`
	LensesCSV  string `yaml:"lenses_csv"`
}

// CacheConfig configures the download cache.
type CacheConfig struct {
	Dir string `yaml:"dir"`
	TTL string `yaml:"ttl"`
}

// FetchConfig configures the scraper.
type FetchConfig struct {
	Timeout    string `yaml:"timeout"`
	UserAgent  string `yaml:"user_agent"`
	MaxWorkers int    `yaml:"max_workers"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			CamerasCSV: "cameras.csv",
			LensesCSV:  "lenses.csv",
		},
		Cache: CacheConfig{
			Dir: fetch.DefaultCacheDir(),
			TTL: "8h",
		},
		Fetch: FetchConfig{
			Timeout:    "30s",
			UserAgent:  "cldb/1.0 (+https://github.com/cldb/cldb)",
			MaxWorkers: 4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file, falling back to defaults when
// the file does not exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if dir := os.Getenv("CLDB_CACHE_DIR"); dir != "" {
		c.Cache.Dir = dir
	}
	if dir := os.Getenv("CLDB_DATA_DIR"); dir != "" {
		c.Data.CamerasCSV = filepath.Join(dir, "cameras.csv")
		c.Data.LensesCSV = filepath.Join(dir, "lenses.csv")
	}
	if t := os.Getenv("CLDB_HTTP_TIMEOUT"); t != "" {
		c.Fetch.Timeout = t
	}
}

// CacheTTL returns the cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return fetch.DefaultTTL
	}
	return d
}

// FetchTimeout returns the HTTP timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	d, err := time.ParseDuration(c.Fetch.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// DataFiles returns the configured data file paths in check order.
func (c *Config) DataFiles() []string {
	return []string{c.Data.CamerasCSV, c.Data.LensesCSV}
}
