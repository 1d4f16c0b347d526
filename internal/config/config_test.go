package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GROWTHBOARD_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "stdout", cfg.Logging.Output)
	assert.Equal(t, int64(33554432), cfg.Dataset.MaxUploadBytes)
	assert.True(t, cfg.Security.RateLimit.Enabled)
	assert.Equal(t, []string{"http://localhost:8080"}, cfg.Security.AllowedOrigins)
	assert.Equal(t, ":8080", cfg.ListenAddr())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("GROWTHBOARD_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("GROWTHBOARD_SERVER_PORT", "9090")
	t.Setenv("GROWTHBOARD_LOGGING_LEVEL", "debug")
	t.Setenv("GROWTHBOARD_DATASET_VARIABLE_ORDER", "Real GDP,Population")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []string{"Real GDP", "Population"}, cfg.Dataset.VariableOrder)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
dataset:
  path: /data/pwt.csv
  variable_order:
    - Real GDP
    - Population
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))
	t.Setenv("GROWTHBOARD_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/pwt.csv", cfg.Dataset.Path)
	assert.Equal(t, []string{"Real GDP", "Population"}, cfg.Dataset.VariableOrder)
	// Fields the file omits keep their defaults.
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9999
logging:
  level: warn
security:
  rate_limit:
    enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))
	t.Setenv("GROWTHBOARD_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
	// A file value of false beats the enabled-by-default rate limiter.
	assert.False(t, cfg.Security.RateLimit.Enabled)
	// Untouched defaults survive.
	assert.Equal(t, "stdout", cfg.Logging.Output)
	assert.Equal(t, int64(33554432), cfg.Dataset.MaxUploadBytes)
}

func TestLoadEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9999
security:
  rate_limit:
    enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))
	t.Setenv("GROWTHBOARD_CONFIG", path)
	t.Setenv("GROWTHBOARD_SERVER_PORT", "9090")
	t.Setenv("GROWTHBOARD_SECURITY_RATE_LIMIT_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Security.RateLimit.Enabled)
}

func TestLoadInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{{{{ not yaml"), 0644))
	t.Setenv("GROWTHBOARD_CONFIG", path)

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Server:  ServerConfig{Port: 8080},
		Logging: LoggingConfig{Level: "info", Output: "stdout"},
		Dataset: DatasetConfig{MaxUploadBytes: 1024},
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "port zero", mutate: func(c *Config) { c.Server.Port = 0 }},
		{name: "port too high", mutate: func(c *Config) { c.Server.Port = 70000 }},
		{name: "bad logging output", mutate: func(c *Config) { c.Logging.Output = "syslog" }},
		{name: "bad logging level", mutate: func(c *Config) { c.Logging.Level = "verbose" }},
		{name: "non-positive upload limit", mutate: func(c *Config) { c.Dataset.MaxUploadBytes = 0 }},
		{name: "rate limit enabled without rps", mutate: func(c *Config) {
			c.Security.RateLimit = RateLimitConfig{Enabled: true, RPS: 0}
		}},
	}

	require.NoError(t, valid.validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.validate())
		})
	}
}
