// Package config loads and validates bufwords configuration.
//
// Configuration hierarchy, later layers winning:
//  1. Hardcoded defaults (NewConfig)
//  2. User config ($XDG_CONFIG_HOME/bufwords/config.yaml or ~/.config/bufwords/config.yaml)
//  3. Environment variables (BUFWORDS_*)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete bufwords configuration.
type Config struct {
	Version  int            `yaml:"version" json:"version"`
	Database DatabaseConfig `yaml:"database" json:"database"`
	Ingest   IngestConfig   `yaml:"ingest" json:"ingest"`
	Server   ServerConfig   `yaml:"server" json:"server"`
	Logging  LoggingConfig  `yaml:"logging" json:"logging"`
}

// DatabaseConfig configures the SQLite word index.
type DatabaseConfig struct {
	// Path is the SQLite database file. Empty selects the default
	// ~/.bufwords/words.db. ":memory:" builds a throwaway index.
	Path string `yaml:"path" json:"path"`

	// CacheSizeMB is the SQLite page cache size in MB.
	CacheSizeMB int `yaml:"cache_size_mb" json:"cache_size_mb"`

	// BusyTimeout is how long a connection waits on a locked database,
	// as a duration string (e.g. "5s").
	BusyTimeout string `yaml:"busy_timeout" json:"busy_timeout"`

	// PrefixCacheSize is the number of prefix lookups kept in the LRU
	// cache. Zero disables the cache.
	PrefixCacheSize int `yaml:"prefix_cache_size" json:"prefix_cache_size"`

	// LookupLimit caps rows returned per lookup. Zero means unlimited.
	LookupLimit int `yaml:"lookup_limit" json:"lookup_limit"`
}

// IngestConfig configures token-file ingestion.
type IngestConfig struct {
	// Workers is the number of token files ingested concurrently.
	Workers int `yaml:"workers" json:"workers"`

	// TokenDir is the directory watched for token files.
	TokenDir string `yaml:"token_dir" json:"token_dir"`

	// WatchDebounce is the settle window for file events, as a duration
	// string (e.g. "500ms").
	WatchDebounce string `yaml:"watch_debounce" json:"watch_debounce"`
}

// ServerConfig configures the MCP server.
type ServerConfig struct {
	Transport string `yaml:"transport" json:"transport"`
	LogLevel  string `yaml:"log_level" json:"log_level"`
}

// LoggingConfig configures CLI logging.
type LoggingConfig struct {
	Level     string `yaml:"level" json:"level"`
	MaxSizeMB int    `yaml:"max_size_mb" json:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files" json:"max_files"`
}

// NewConfig returns the default configuration.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Database: DatabaseConfig{
			Path:            DefaultDatabasePath(),
			CacheSizeMB:     64,
			BusyTimeout:     "5s",
			PrefixCacheSize: 512,
			LookupLimit:     0,
		},
		Ingest: IngestConfig{
			Workers:       runtime.NumCPU(),
			TokenDir:      "",
			WatchDebounce: "500ms",
		},
		Server: ServerConfig{
			Transport: "stdio",
			LogLevel:  "debug", // debug by default to aid troubleshooting
		},
		Logging: LoggingConfig{
			Level:     "info",
			MaxSizeMB: 10,
			MaxFiles:  5,
		},
	}
}

// DefaultDatabasePath returns the default word index location.
func DefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".bufwords", "words.db")
	}
	return filepath.Join(home, ".bufwords", "words.db")
}

// GetUserConfigPath returns the path to the user configuration file,
// following the XDG Base Directory specification.
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "bufwords", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "bufwords", "config.yaml")
	}
	return filepath.Join(home, ".config", "bufwords", "config.yaml")
}

// Load builds the effective configuration: defaults, then the user config
// file if present, then environment overrides. The result is validated.
func Load() (*Config, error) {
	cfg := NewConfig()

	path := GetUserConfigPath()
	if _, err := os.Stat(path); err == nil {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads configuration from an explicit file over the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := NewConfig()
	if err := cfg.loadYAML(path); err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies BUFWORDS_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("BUFWORDS_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("BUFWORDS_LOOKUP_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Database.LookupLimit = n
		}
	}
	if v := os.Getenv("BUFWORDS_INGEST_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Ingest.Workers = n
		}
	}
	if v := os.Getenv("BUFWORDS_TOKEN_DIR"); v != "" {
		c.Ingest.TokenDir = v
	}
	if v := os.Getenv("BUFWORDS_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
		c.Server.LogLevel = v
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.Database.CacheSizeMB < 0 {
		return fmt.Errorf("database.cache_size_mb must be >= 0, got %d", c.Database.CacheSizeMB)
	}
	if _, err := time.ParseDuration(c.Database.BusyTimeout); err != nil {
		return fmt.Errorf("database.busy_timeout is not a duration: %w", err)
	}
	if c.Database.PrefixCacheSize < 0 {
		return fmt.Errorf("database.prefix_cache_size must be >= 0, got %d", c.Database.PrefixCacheSize)
	}
	if c.Database.LookupLimit < 0 {
		return fmt.Errorf("database.lookup_limit must be >= 0, got %d", c.Database.LookupLimit)
	}
	if c.Ingest.Workers < 1 {
		return fmt.Errorf("ingest.workers must be >= 1, got %d", c.Ingest.Workers)
	}
	if _, err := time.ParseDuration(c.Ingest.WatchDebounce); err != nil {
		return fmt.Errorf("ingest.watch_debounce is not a duration: %w", err)
	}
	switch c.Server.Transport {
	case "stdio":
	default:
		return fmt.Errorf("server.transport must be stdio, got %q", c.Server.Transport)
	}
	return nil
}

// BusyTimeoutDuration returns the parsed busy timeout.
// Falls back to 5s if the value does not parse (Validate catches this).
func (c *DatabaseConfig) BusyTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.BusyTimeout)
	if err != nil || d < 0 {
		return 5 * time.Second
	}
	return d
}

// WatchDebounceDuration returns the parsed watch debounce window.
// Falls back to 500ms if the value does not parse.
func (c *IngestConfig) WatchDebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.WatchDebounce)
	if err != nil || d < 0 {
		return 500 * time.Millisecond
	}
	return d
}
