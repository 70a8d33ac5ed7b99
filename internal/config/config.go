package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables overriding the server section
const (
	EnvURL     = "LURE_URL"
	EnvAPIKey  = "LURE_API_KEY"
	EnvProfile = "LURE_PROFILE"
)

// Config represents the CLI configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Profiles ProfilesConfig `yaml:"profiles"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Output   OutputConfig   `yaml:"output"`
	Reports  ReportsConfig  `yaml:"reports"`
	Probe    ProbeConfig    `yaml:"probe"`
}

// ServerConfig describes the platform API
type ServerConfig struct {
	BaseURL            string        `yaml:"base_url"`
	APIKey             string        `yaml:"api_key"`
	Timeout            time.Duration `yaml:"timeout"`
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify"`
	UserAgent          string        `yaml:"user_agent"`
}

// ProfilesConfig locates the saved server profiles
type ProfilesConfig struct {
	Path    string `yaml:"path"`
	Default string `yaml:"default"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// MetricsConfig contains Prometheus metrics settings
type MetricsConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listen_addr"`
	Path       string `yaml:"path"`
}

// OutputConfig controls terminal output and downloads
type OutputConfig struct {
	Color       *bool  `yaml:"color"`
	DownloadDir string `yaml:"download_dir"`
}

// ReportsConfig controls `reports watch`
type ReportsConfig struct {
	WatchInterval time.Duration `yaml:"watch_interval"`
}

// ProbeConfig controls the SMTP probe
type ProbeConfig struct {
	Hostname string        `yaml:"hostname"`
	Timeout  time.Duration `yaml:"timeout"`
}

// DefaultPath returns the config file looked up when none is given
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "lure.yaml"
	}
	return filepath.Join(dir, "lure", "config.yaml")
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return finish(cfg)
}

// LoadOrDefault loads path, or the default config file when path is empty.
// A missing default file is not an error.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}

	path = DefaultPath()
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	return finish(&Config{})
}

func finish(cfg *Config) (*Config, error) {
	cfg.setDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults sets default values for configuration
func (c *Config) setDefaults() {
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}
	if c.Server.UserAgent == "" {
		c.Server.UserAgent = "lure"
	}

	if c.Profiles.Path == "" {
		c.Profiles.Path = filepath.Join(filepath.Dir(DefaultPath()), "profiles.db")
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}

	if c.Metrics.ListenAddr == "" {
		c.Metrics.ListenAddr = "127.0.0.1:9464"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}

	if c.Output.Color == nil {
		color := true
		c.Output.Color = &color
	}
	if c.Output.DownloadDir == "" {
		c.Output.DownloadDir = "."
	}

	if c.Reports.WatchInterval == 0 {
		c.Reports.WatchInterval = 30 * time.Second
	}

	if c.Probe.Hostname == "" {
		hostname, _ := os.Hostname()
		c.Probe.Hostname = hostname
	}
	if c.Probe.Timeout == 0 {
		c.Probe.Timeout = 30 * time.Second
	}
}

// applyEnv overrides the server section and default profile from the environment
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvURL); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.Server.APIKey = v
	}
	if v := os.Getenv(EnvProfile); v != "" {
		c.Profiles.Default = v
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.BaseURL != "" {
		u, err := url.Parse(c.Server.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid server.base_url: %s (must be an http or https URL)", c.Server.BaseURL)
		}
	}
	if c.Server.Timeout < 0 {
		return fmt.Errorf("server.timeout must not be negative")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid logging.level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("invalid logging.format: %s (must be json or text)", c.Logging.Format)
	}

	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with /")
	}

	if c.Reports.WatchInterval < time.Second {
		return fmt.Errorf("reports.watch_interval must be at least 1s")
	}

	return nil
}

// ColorEnabled reports whether styled output is on
func (c *Config) ColorEnabled() bool {
	return c.Output.Color == nil || *c.Output.Color
}

// HasServer reports whether the config carries credentials of its own
func (c *Config) HasServer() bool {
	return c.Server.BaseURL != "" && c.Server.APIKey != ""
}
