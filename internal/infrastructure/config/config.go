package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// Config holds all supervisor daemon configuration.
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Programs  ProgramsConfig
	Control   ControlConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"5000" toml:"port"`
	Host string `envconfig:"HOST" default:"0.0.0.0" toml:"host"`
}

// StoreConfig holds configuration store persistence settings.
type StoreConfig struct {
	Path string `envconfig:"STORE_PATH" default:"matrix_config.json" toml:"path"`
}

// ProgramsConfig holds program registry settings.
type ProgramsConfig struct {
	// File is an optional YAML registry of program descriptors. When empty,
	// the built-in registry is used.
	File string `envconfig:"PROGRAMS_FILE" default:"" toml:"file"`
	// AutoStart launches the persisted default program on boot.
	AutoStart bool `envconfig:"AUTO_START" default:"true" toml:"auto_start"`
}

// ControlConfig holds loopback control channel settings.
type ControlConfig struct {
	Port    int `envconfig:"CONTROL_PORT" default:"5151" toml:"port"`
	Timeout int `envconfig:"CONTROL_TIMEOUT_SECONDS" default:"5" toml:"timeout_seconds"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" toml:"level"`
	Development bool   `envconfig:"LOG_DEV" default:"false" toml:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100" toml:"requests_per_second"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200" toml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true" toml:"enabled"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile loads environment configuration and overlays a TOML file on top.
// File values win over environment values.
func LoadFile(path string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "5000",
			Host: "0.0.0.0",
		},
		Store: StoreConfig{
			Path: "matrix_config.json",
		},
		Programs: ProgramsConfig{
			AutoStart: true,
		},
		Control: ControlConfig{
			Port:    5151,
			Timeout: 5,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}

// Validate checks configuration values for consistency.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port cannot be empty")
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store path cannot be empty")
	}
	if c.Control.Port <= 0 || c.Control.Port > 65535 {
		return fmt.Errorf("control port out of range: %d", c.Control.Port)
	}
	if c.Control.Timeout <= 0 {
		return fmt.Errorf("control timeout must be positive")
	}
	return nil
}
