package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, "http://localhost:8000", cfg.Service.BaseURL)
	assert.Equal(t, 0, cfg.Service.TimeoutSeconds)
	assert.True(t, cfg.Catalog.SyncEnabled())
	assert.False(t, cfg.Catalog.KeepOnDeleteFailure)
	assert.Equal(t, 5, cfg.Notifications.TimeoutSeconds)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "pretty", cfg.Logging.ConsoleStyle)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "loopback", cfg.Server.Bind)
	assert.Equal(t, "scripted", cfg.Server.Responder)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, DefaultServiceURL, cfg.Service.BaseURL)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadValidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	yaml := `
service:
  baseUrl: http://orchestrator.local:9000/
  timeoutSeconds: 30
catalog:
  syncCustomAgents: false
  keepOnDeleteFailure: true
notifications:
  timeoutSeconds: 0
logging:
  level: debug
  consoleStyle: json
hooks:
  agentAdded:
    - command: "cat >> /tmp/added.jsonl"
      timeout: 2000
server:
  port: 9100
  allowedOrigins:
    - http://localhost:3000
  responder: ollama
  ollama:
    model: mistral
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://orchestrator.local:9000", cfg.Service.BaseURL)
	assert.Equal(t, 30, cfg.Service.TimeoutSeconds)
	assert.False(t, cfg.Catalog.SyncEnabled())
	assert.True(t, cfg.Catalog.KeepOnDeleteFailure)
	assert.Equal(t, 0, cfg.Notifications.TimeoutSeconds)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.ConsoleStyle)
	require.Len(t, cfg.Hooks.AgentAdded, 1)
	assert.Equal(t, 2000, cfg.Hooks.AgentAdded[0].Timeout)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "loopback", cfg.Server.Bind)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "ollama", cfg.Server.Responder)
	assert.Equal(t, "mistral", cfg.Server.Ollama.Model)
	assert.Equal(t, "http://localhost:11434", cfg.Server.Ollama.BaseURL)
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	doc := `
[service]
baseUrl = "http://toml-host:8000"

[catalog]
syncCustomAgents = true

[server]
port = 8123
responder = "scripted"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://toml-host:8000", cfg.Service.BaseURL)
	assert.True(t, cfg.Catalog.SyncEnabled())
	assert.Equal(t, 8123, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("service: [unterminated"), 0o600))

	_, err := Load(path)
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Error(), "failed to parse config")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DUGOUT_SERVICE_URL", "http://env-host:7000/")
	t.Setenv("DUGOUT_LOG_LEVEL", "DEBUG")
	t.Setenv("DUGOUT_SERVER_PORT", "7001")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://env-host:7000", cfg.Service.BaseURL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 7001, cfg.Server.Port)
}

func TestEnvOverrides_BadPortIgnored(t *testing.T) {
	t.Setenv("DUGOUT_SERVER_PORT", "not-a-number")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Server.Port)
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("DUGOUT_TEST_HOST", "remote.example")

	assert.Equal(t, "http://remote.example:8000", expandEnvVars("http://${DUGOUT_TEST_HOST}:8000"))
	assert.Equal(t, "${DUGOUT_TEST_UNSET_VAR}", expandEnvVars("${DUGOUT_TEST_UNSET_VAR}"))
	assert.Equal(t, "plain", expandEnvVars("plain"))
}

func TestLoadExpandsReferences(t *testing.T) {
	t.Setenv("DUGOUT_TEST_DB", "/var/lib/dugout.db")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  database: ${DUGOUT_TEST_DB}\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/dugout.db", cfg.Server.Database)
}

func TestRawRoundTrip(t *testing.T) {
	for _, name := range []string{"config.yaml", "config.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)

			raw, err := LoadRaw(path)
			require.NoError(t, err)
			assert.Empty(t, raw)

			Key{"service", "baseUrl"}.Set(raw, "http://saved:8000")
			require.NoError(t, SaveRaw(path, raw))

			cfg, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, "http://saved:8000", cfg.Service.BaseURL)

			again, err := LoadRaw(path)
			require.NoError(t, err)
			val, ok := Key{"service", "baseUrl"}.Get(again)
			assert.True(t, ok)
			assert.Equal(t, "http://saved:8000", val)
		})
	}
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Message: "boom"}
	assert.Equal(t, "config: boom", err.Error())
}
