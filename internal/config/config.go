package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server         ServerConfig   `toml:"server"`
	Logging        LoggingConfig  `toml:"logging"`
	Reference      ProviderConfig `toml:"reference"`
	FlightTracking ProviderConfig `toml:"flight_tracking"`
	Sessions       SessionsConfig `toml:"sessions"`
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	Host                   string   `toml:"host"`
	Port                   int      `toml:"port"`
	ReadTimeoutSeconds     int      `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds    int      `toml:"write_timeout_seconds"`
	ShutdownTimeoutSeconds int      `toml:"shutdown_timeout_seconds"`
	MaxConnections         int      `toml:"max_connections"` // 0 = unlimited
	CORSAllowedOrigins     []string `toml:"cors_allowed_origins"`
}

// LoggingConfig represents the logging configuration
type LoggingConfig struct {
	Level      string `toml:"level"`  // debug, info, warn, error
	Format     string `toml:"format"` // json, console
	File       string `toml:"file"`   // empty = stdout
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

// ProviderConfig represents one upstream aviation API
type ProviderConfig struct {
	BaseURL               string `toml:"base_url"`
	APIKey                string `toml:"api_key"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"` // 0 = transport default
}

// SessionsConfig represents the per-visitor view state table
type SessionsConfig struct {
	Capacity       int    `toml:"capacity"`
	CookieName     string `toml:"cookie_name"`
	RefreshSeconds int    `toml:"refresh_seconds"` // page refresh interval while loading
}

// RequestTimeout returns the configured upstream timeout
func (p ProviderConfig) RequestTimeout() time.Duration {
	return time.Duration(p.RequestTimeoutSeconds) * time.Second
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// envPrefix is the prefix for environment overrides, e.g. SKYTRACK_REFERENCE_API_KEY
const envPrefix = "SKYTRACK"

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:                   "0.0.0.0",
			Port:                   8080,
			ReadTimeoutSeconds:     15,
			WriteTimeoutSeconds:    30,
			ShutdownTimeoutSeconds: 10,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
			Compress:   true,
		},
		Reference: ProviderConfig{
			BaseURL: "https://api.api-ninjas.com/v1",
		},
		FlightTracking: ProviderConfig{
			BaseURL: "https://api.aviationstack.com/v1",
		},
		Sessions: SessionsConfig{
			Capacity:       1024,
			CookieName:     "skytrack_session",
			RefreshSeconds: 1,
		},
	}
}

// Load reads the TOML file at path over the defaults, then applies environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if strings.TrimSpace(path) != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyEnv overlays SKYTRACK_* environment variables onto cfg
func applyEnv(cfg *Config) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setString := func(key string, dst *string) {
		if s := v.GetString(key); s != "" {
			*dst = s
		}
	}
	setInt := func(key string, dst *int) {
		if v.GetString(key) != "" {
			*dst = v.GetInt(key)
		}
	}

	setString("server.host", &cfg.Server.Host)
	setInt("server.port", &cfg.Server.Port)
	setInt("server.max_connections", &cfg.Server.MaxConnections)

	setString("logging.level", &cfg.Logging.Level)
	setString("logging.format", &cfg.Logging.Format)
	setString("logging.file", &cfg.Logging.File)

	setString("reference.base_url", &cfg.Reference.BaseURL)
	setString("reference.api_key", &cfg.Reference.APIKey)
	setInt("reference.request_timeout_seconds", &cfg.Reference.RequestTimeoutSeconds)

	setString("flight_tracking.base_url", &cfg.FlightTracking.BaseURL)
	setString("flight_tracking.api_key", &cfg.FlightTracking.APIKey)
	setInt("flight_tracking.request_timeout_seconds", &cfg.FlightTracking.RequestTimeoutSeconds)

	setInt("sessions.capacity", &cfg.Sessions.Capacity)
}

// Validate checks the configuration values. API keys are deliberately not
// required here: a missing key is reported when a search is submitted.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.MaxConnections < 0 {
		return fmt.Errorf("server.max_connections must not be negative")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logging.Format)
	}

	for name, p := range map[string]ProviderConfig{
		"reference":       c.Reference,
		"flight_tracking": c.FlightTracking,
	} {
		u, err := url.Parse(p.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s.base_url must be an absolute URL, got %q", name, p.BaseURL)
		}
		if p.RequestTimeoutSeconds < 0 {
			return fmt.Errorf("%s.request_timeout_seconds must not be negative", name)
		}
	}

	if c.Sessions.Capacity <= 0 {
		return fmt.Errorf("sessions.capacity must be greater than 0")
	}
	if strings.TrimSpace(c.Sessions.CookieName) == "" {
		return fmt.Errorf("sessions.cookie_name is required")
	}
	if c.Sessions.RefreshSeconds <= 0 {
		return fmt.Errorf("sessions.refresh_seconds must be greater than 0")
	}

	return nil
}
