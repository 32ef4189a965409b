// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML and TOML loading, defaults, env var expansion, and path resolution

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// useXDG points the XDG base directories at temp dirs for one test.
func useXDG(t *testing.T) (configHome, dataHome string) {
	t.Helper()
	configHome, dataHome = t.TempDir(), t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("XDG_DATA_HOME", dataHome)
	t.Setenv(EnvConfigPath, "")
	xdg.Reload()
	t.Cleanup(xdg.Reload)
	return configHome, dataHome
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "127.0.0.1:8000", cfg.Server.HTTPAddr)
	assert.Equal(t, int64(10485760), cfg.Server.MaxBodyBytes)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Empty(t, cfg.DatabasePath(), "ledger is off by default")
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
server:
  http_addr: "0.0.0.0:9000"
  max_body_bytes: 2048
  read_timeout: "5s"
  write_timeout: "1m"

database:
  path: "./calls.db"

logging:
  level: "debug"
  format: "json"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.HTTPAddr)
	assert.Equal(t, int64(2048), cfg.Server.MaxBodyBytes)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, time.Minute, cfg.Server.WriteTimeout)
	assert.Equal(t, "./calls.db", cfg.DatabasePath())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_TOML(t *testing.T) {
	path := writeConfig(t, "config.toml", `
[server]
http_addr = "localhost:7000"
read_timeout = "10s"

[logging]
level = "warn"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "localhost:7000", cfg.Server.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "config.yaml", "logging:\n  level: error\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, Default().Server, cfg.Server)
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("CRUD_TEST_PORT", "8123")
	t.Setenv("CRUD_TEST_DB", "/tmp/ledger.db")
	path := writeConfig(t, "config.yaml", `
server:
  http_addr: "127.0.0.1:${CRUD_TEST_PORT}"
database:
  path: "${CRUD_TEST_DB}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8123", cfg.Server.HTTPAddr)
	assert.Equal(t, "/tmp/ledger.db", cfg.Database.Path)
}

func TestExpandEnvVars_UnsetBecomesEmpty(t *testing.T) {
	assert.Equal(t, "a--b", expandEnvVars("a-${CRUD_TEST_DEFINITELY_UNSET}-b"))
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"bad yaml", "c.yaml", "server: [", "parsing config file"},
		{"bad toml", "c.toml", "[server\n", "parsing config file"},
		{"bad duration", "c.yaml", "server:\n  read_timeout: soon\n", "read_timeout"},
		{"zero timeout", "c.yaml", "server:\n  write_timeout: 0s\n", "server.write_timeout"},
		{"bad addr", "c.yaml", "server:\n  http_addr: nonsense\n", "server.http_addr"},
		{"empty addr", "c.yaml", "server:\n  http_addr: \"\"\n", "server.http_addr is required"},
		{"bad body limit", "c.yaml", "server:\n  max_body_bytes: 0\n", "max_body_bytes"},
		{"bad level", "c.yaml", "logging:\n  level: chatty\n", "logging.level"},
		{"bad format", "c.yaml", "logging:\n  format: xml\n", "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.file, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestResolvePath_Priority(t *testing.T) {
	configHome, _ := useXDG(t)

	path, explicit := ResolvePath("")
	assert.Equal(t, filepath.Join(configHome, AppName, "config.yaml"), path)
	assert.False(t, explicit)

	t.Setenv(EnvConfigPath, "/etc/crud-mcp.toml")
	path, explicit = ResolvePath("")
	assert.Equal(t, "/etc/crud-mcp.toml", path)
	assert.True(t, explicit)

	path, explicit = ResolvePath("./local.yaml")
	assert.Equal(t, "./local.yaml", path)
	assert.True(t, explicit)
}

func TestLoadResolved_MissingDefaultUsesDefaults(t *testing.T) {
	useXDG(t)

	cfg, path, err := LoadResolved("")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, Default(), cfg)
}

func TestLoadResolved_ReadsDefaultLocation(t *testing.T) {
	configHome, _ := useXDG(t)
	dir := filepath.Join(configHome, AppName)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("logging:\n  level: debug\n"), 0644))

	cfg, path, err := LoadResolved("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), path)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadResolved_MissingExplicitFileFails(t *testing.T) {
	useXDG(t)

	_, _, err := LoadResolved(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestDatabasePath_Default(t *testing.T) {
	_, dataHome := useXDG(t)

	cfg := Default()
	cfg.Database.Path = DefaultDatabase
	assert.Equal(t, filepath.Join(dataHome, AppName, "calls.db"), cfg.DatabasePath())
}
