package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "matrix_config.json", cfg.Store.Path)
	assert.True(t, cfg.Programs.AutoStart)
	assert.Equal(t, 5151, cfg.Control.Port)
	assert.Equal(t, 5, cfg.Control.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadOrDefault(t *testing.T) {
	cfg := LoadOrDefault()

	assert.NotNil(t, cfg)
	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":                    "8080",
		"HOST":                    "127.0.0.1",
		"STORE_PATH":              "/var/lib/matrixd/config.json",
		"AUTO_START":              "false",
		"CONTROL_PORT":            "6000",
		"CONTROL_TIMEOUT_SECONDS": "3",
		"LOG_LEVEL":               "debug",
		"LOG_DEV":                 "true",
		"RATE_LIMIT_RPS":          "50",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "/var/lib/matrixd/config.json", cfg.Store.Path)
	assert.False(t, cfg.Programs.AutoStart)
	assert.Equal(t, 6000, cfg.Control.Port)
	assert.Equal(t, 3, cfg.Control.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, 50, cfg.RateLimit.RequestsPerSecond)
}

func TestLoadFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matrixd.toml")
	content := `
[server]
port = "9090"

[control]
port = 7000
timeout_seconds = 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	// File values win over environment defaults.
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 7000, cfg.Control.Port)
	assert.Equal(t, 2, cfg.Control.Timeout)
	// Untouched sections keep env/default values.
	assert.Equal(t, "matrix_config.json", cfg.Store.Path)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Control.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Control.Timeout = -1
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Store.Path = ""
	assert.Error(t, cfg.Validate())

	assert.NoError(t, Default().Validate())
}
