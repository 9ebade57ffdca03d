package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/harrison/modelout/internal/models"
)

// DefaultsConfig holds request values used when a flag or query parameter is absent
type DefaultsConfig struct {
	Domain string `yaml:"domain"`
	Format string `yaml:"format"`
}

// HistoryConfig controls the resolution history database
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path"`
}

// ServerConfig controls the HTTP API
type ServerConfig struct {
	Addr        string        `yaml:"addr"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
}

// WatchConfig controls scheduled re-resolution
type WatchConfig struct {
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Config represents modelout configuration options
type Config struct {
	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory where run logs are written; empty disables file logging
	LogDir string `yaml:"log_dir"`

	// Profiles is an HCL file or directory of model profile overrides
	Profiles string `yaml:"profiles"`

	Defaults DefaultsConfig `yaml:"defaults"`
	History  HistoryConfig  `yaml:"history"`
	Server   ServerConfig   `yaml:"server"`
	Watch    WatchConfig    `yaml:"watch"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		LogDir:   ".modelout/logs",
		Defaults: DefaultsConfig{
			Domain: models.DefaultDomain,
			Format: models.FormatNetCDF,
		},
		History: HistoryConfig{
			Enabled: true,
			DBPath:  "",
		},
		Server: ServerConfig{
			Addr:        ":8080",
			ReadTimeout: 30 * time.Second,
		},
		Watch: WatchConfig{
			Interval: time.Minute,
			Timeout:  time.Hour,
		},
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Durations are strings in YAML ("90s", "1h")
	type yamlConfig struct {
		LogLevel string         `yaml:"log_level"`
		LogDir   string         `yaml:"log_dir"`
		Profiles string         `yaml:"profiles"`
		Defaults DefaultsConfig `yaml:"defaults"`
		History  HistoryConfig  `yaml:"history"`
		Server   struct {
			Addr        string `yaml:"addr"`
			ReadTimeout string `yaml:"read_timeout"`
		} `yaml:"server"`
		Watch struct {
			Interval string `yaml:"interval"`
			Timeout  string `yaml:"timeout"`
		} `yaml:"watch"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.LogDir != "" {
		cfg.LogDir = yamlCfg.LogDir
	}
	if yamlCfg.Profiles != "" {
		cfg.Profiles = resolveRelative(filepath.Dir(path), yamlCfg.Profiles)
	}
	if yamlCfg.Defaults.Domain != "" {
		cfg.Defaults.Domain = yamlCfg.Defaults.Domain
	}
	if yamlCfg.Defaults.Format != "" {
		cfg.Defaults.Format = yamlCfg.Defaults.Format
	}
	if yamlCfg.Server.Addr != "" {
		cfg.Server.Addr = yamlCfg.Server.Addr
	}

	durations := []struct {
		key   string
		value string
		dst   *time.Duration
	}{
		{"server.read_timeout", yamlCfg.Server.ReadTimeout, &cfg.Server.ReadTimeout},
		{"watch.interval", yamlCfg.Watch.Interval, &cfg.Watch.Interval},
		{"watch.timeout", yamlCfg.Watch.Timeout, &cfg.Watch.Timeout},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return nil, fmt.Errorf("invalid %s format %q: %w", d.key, d.value, err)
		}
		*d.dst = parsed
	}

	// history.enabled defaults to true, so only an explicit key may turn it off
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err == nil {
		if section, ok := rawMap["history"].(map[string]interface{}); ok {
			if _, exists := section["enabled"]; exists {
				cfg.History.Enabled = yamlCfg.History.Enabled
			}
			if _, exists := section["db_path"]; exists {
				cfg.History.DBPath = yamlCfg.History.DBPath
			}
		}
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .modelout/config.yaml in the specified directory
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, ".modelout", "config.yaml"))
}

func resolveRelative(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// Environment variables that override file values
const (
	EnvLogLevel   = "MODELOUT_LOG_LEVEL"
	EnvLogDir     = "MODELOUT_LOG_DIR"
	EnvProfiles   = "MODELOUT_PROFILES"
	EnvHistoryDB  = "MODELOUT_HISTORY_DB"
	EnvServerAddr = "MODELOUT_SERVER_ADDR"
)

// LoadDotEnv loads KEY=VALUE pairs from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides configuration values from MODELOUT_* environment variables
func (c *Config) ApplyEnv() {
	overrides := []struct {
		key string
		dst *string
	}{
		{EnvLogLevel, &c.LogLevel},
		{EnvLogDir, &c.LogDir},
		{EnvProfiles, &c.Profiles},
		{EnvHistoryDB, &c.History.DBPath},
		{EnvServerAddr, &c.Server.Addr},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.key); ok && v != "" {
			*o.dst = v
		}
	}
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
// This allows CLI flags to take precedence over config file settings
func (c *Config) MergeWithFlags(logLevel *string, logDir *string, profiles *string, historyDB *string) {
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if logDir != nil {
		c.LogDir = *logDir
	}
	if profiles != nil {
		c.Profiles = *profiles
	}
	if historyDB != nil {
		c.History.DBPath = *historyDB
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.Defaults.Domain == "" {
		return fmt.Errorf("defaults.domain cannot be empty")
	}
	if c.Defaults.Format != models.FormatNetCDF && c.Defaults.Format != models.FormatGRIB2 {
		return fmt.Errorf("invalid defaults.format %q, must be one of: %s, %s", c.Defaults.Format, models.FormatNetCDF, models.FormatGRIB2)
	}

	if c.Server.ReadTimeout < 0 {
		return fmt.Errorf("server.read_timeout must be >= 0, got %v", c.Server.ReadTimeout)
	}
	if c.Watch.Interval <= 0 {
		return fmt.Errorf("watch.interval must be > 0, got %v", c.Watch.Interval)
	}
	if c.Watch.Timeout < 0 {
		return fmt.Errorf("watch.timeout must be >= 0, got %v", c.Watch.Timeout)
	}

	return nil
}
