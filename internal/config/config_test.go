package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://api.api-ninjas.com/v1", cfg.Reference.BaseURL)
	assert.Equal(t, "https://api.aviationstack.com/v1", cfg.FlightTracking.BaseURL)
	assert.Empty(t, cfg.Reference.APIKey)
	assert.Equal(t, time.Duration(0), cfg.Reference.RequestTimeout())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 9090
cors_allowed_origins = ["https://a.example"]

[logging]
level = "debug"
format = "json"

[reference]
api_key = "file-key"
request_timeout_seconds = 5

[sessions]
capacity = 10
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "file-key", cfg.Reference.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Reference.RequestTimeout())
	assert.Equal(t, 10, cfg.Sessions.Capacity)
	// untouched sections keep their defaults
	assert.Equal(t, "skytrack_session", cfg.Sessions.CookieName)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, `
[reference]
api_key = "file-key"
`)
	t.Setenv("SKYTRACK_REFERENCE_API_KEY", "env-key")
	t.Setenv("SKYTRACK_FLIGHT_TRACKING_API_KEY", "track-key")
	t.Setenv("SKYTRACK_SERVER_PORT", "7000")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Reference.APIKey)
	assert.Equal(t, "track-key", cfg.FlightTracking.APIKey)
	assert.Equal(t, 7000, cfg.Server.Port)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfig(t, `[server`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }},
		{"bad format", func(c *Config) { c.Logging.Format = "text" }},
		{"relative base url", func(c *Config) { c.Reference.BaseURL = "/v1" }},
		{"negative timeout", func(c *Config) { c.FlightTracking.RequestTimeoutSeconds = -1 }},
		{"zero capacity", func(c *Config) { c.Sessions.Capacity = 0 }},
		{"empty cookie", func(c *Config) { c.Sessions.CookieName = " " }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, DefaultConfig().Validate(), "defaults must validate without API keys")
}
