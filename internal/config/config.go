package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// envPrefix namespaces all environment overrides, e.g. GROWTHBOARD_SERVER_PORT.
const envPrefix = "GROWTHBOARD"

// Config is the complete application configuration. Values come from the
// optional YAML file first, then environment variables override.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Dataset  DatasetConfig  `yaml:"dataset" envconfig:"DATASET"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stdout"` // stdout | file | both
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/growthboard.log"`
}

// DatasetConfig describes where the growth-accounting table comes from and
// how it is presented.
type DatasetConfig struct {
	// Path, when set, is loaded at startup; uploads replace it for the
	// session. The service also starts empty and waits for an upload.
	Path string `yaml:"path" envconfig:"PATH"`

	// VariableOrder is the canonical display/export ordering of variable
	// names. It is injected configuration: variables missing from this list
	// are excluded from the wide export.
	VariableOrder []string `yaml:"variable_order" envconfig:"VARIABLE_ORDER"`

	// MaxUploadBytes bounds multipart dataset uploads.
	MaxUploadBytes int64 `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" default:"33554432"`
}

// SecurityConfig contains transport hardening configuration.
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"50"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"25"`
}

// Load reads configuration in layers: struct-tag defaults, then the optional
// YAML file (GROWTHBOARD_CONFIG or ./config.yaml), then environment variables
// that are explicitly set.
func Load() (*Config, error) {
	var cfg Config

	// Struct-tag defaults (and env, re-applied after the file below).
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if path := configFilePath(); path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := loadFromFile(path, &cfg); err != nil {
				return nil, fmt.Errorf("load config file %s: %w", path, err)
			}
			// The file overwrote values that also came from the
			// environment; put the explicit env overrides back on top.
			applyEnvOverrides(&cfg)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func configFilePath() string {
	if path := os.Getenv(envPrefix + "_CONFIG"); path != "" {
		return path
	}
	return "config.yaml"
}

// loadFromFile unmarshals the YAML file onto cfg, so keys absent from the
// file keep their current values and present keys win even when they are
// zero values, like rate_limit.enabled: false.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func envSet(key string) bool {
	_, ok := os.LookupEnv(envPrefix + "_" + key)
	return ok
}

// applyEnvOverrides copies fields whose environment variable is present over
// the file-supplied values. envconfig cannot tell a set variable apart from
// a struct-tag default, so presence is checked per key.
func applyEnvOverrides(cfg *Config) {
	var env Config
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return
	}
	if envSet("SERVER_PORT") {
		cfg.Server.Port = env.Server.Port
	}
	if envSet("SERVER_READ_TIMEOUT") {
		cfg.Server.ReadTimeout = env.Server.ReadTimeout
	}
	if envSet("SERVER_WRITE_TIMEOUT") {
		cfg.Server.WriteTimeout = env.Server.WriteTimeout
	}
	if envSet("SERVER_IDLE_TIMEOUT") {
		cfg.Server.IdleTimeout = env.Server.IdleTimeout
	}
	if envSet("SERVER_SHUTDOWN_TIMEOUT") {
		cfg.Server.ShutdownTimeout = env.Server.ShutdownTimeout
	}
	if envSet("LOGGING_LEVEL") {
		cfg.Logging.Level = env.Logging.Level
	}
	if envSet("LOGGING_OUTPUT") {
		cfg.Logging.Output = env.Logging.Output
	}
	if envSet("LOGGING_FILE_PATH") {
		cfg.Logging.FilePath = env.Logging.FilePath
	}
	if envSet("DATASET_PATH") {
		cfg.Dataset.Path = env.Dataset.Path
	}
	if envSet("DATASET_VARIABLE_ORDER") {
		cfg.Dataset.VariableOrder = env.Dataset.VariableOrder
	}
	if envSet("DATASET_MAX_UPLOAD_BYTES") {
		cfg.Dataset.MaxUploadBytes = env.Dataset.MaxUploadBytes
	}
	if envSet("SECURITY_ALLOWED_ORIGINS") {
		cfg.Security.AllowedOrigins = env.Security.AllowedOrigins
	}
	if envSet("SECURITY_RATE_LIMIT_ENABLED") {
		cfg.Security.RateLimit.Enabled = env.Security.RateLimit.Enabled
	}
	if envSet("SECURITY_RATE_LIMIT_RPS") {
		cfg.Security.RateLimit.RPS = env.Security.RateLimit.RPS
	}
	if envSet("SECURITY_RATE_LIMIT_BURST") {
		cfg.Security.RateLimit.Burst = env.Security.RateLimit.Burst
	}
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	switch c.Logging.Output {
	case "stdout", "file", "both":
	default:
		return fmt.Errorf("invalid logging output: %q", c.Logging.Output)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %q", c.Logging.Level)
	}
	if c.Dataset.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive, got %d", c.Dataset.MaxUploadBytes)
	}
	if c.Security.RateLimit.Enabled && c.Security.RateLimit.RPS <= 0 {
		return fmt.Errorf("rate limit rps must be positive, got %f", c.Security.RateLimit.RPS)
	}
	return nil
}

// ListenAddr returns the server bind address.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
