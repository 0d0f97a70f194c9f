package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notesexport.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_address: "127.0.0.1:9000"
  base_path: "/v1"
  read_timeout: "90s"
  max_body_bytes: 1024
  cors:
    allowed_origins: ["https://*.example.com"]
  tls:
    enabled: true
    cert_file: "/etc/notesexport/tls.crt"
    key_file: "/etc/notesexport/tls.key"
    min_version: "1.3"
    reload_interval: "1m"

storage:
  exports_dir: "/tmp/exports"
  file_mode: "0600"

retention:
  group_by: "day_and_name"
  schedule: "30 2 * * *"

auth:
  token: "s3cret"

telemetry:
  logging:
    level: "debug"
    format: "text"
  tracing:
    enabled: true
    sampler: "always"
    endpoint: "otel-collector:4317"
    insecure: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.ListenAddress)
	assert.Equal(t, "/v1", cfg.Server.BasePath)
	assert.Equal(t, 90*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, int64(1024), cfg.Server.MaxBodyBytes)
	assert.Equal(t, []string{"https://*.example.com"}, cfg.Server.CORS.AllowedOrigins)
	assert.True(t, cfg.Server.TLS.Enabled)
	assert.Equal(t, "1.3", cfg.Server.TLS.MinVersion)
	assert.Equal(t, time.Minute, cfg.Server.TLS.ReloadInterval)
	assert.Equal(t, "/tmp/exports", cfg.Storage.ExportsDir)
	assert.Equal(t, os.FileMode(0o600), cfg.Storage.FilePerm())
	assert.Equal(t, "day_and_name", cfg.Retention.GroupBy)
	assert.Equal(t, "s3cret", cfg.Auth.Token)
	assert.Equal(t, "debug", cfg.Telemetry.Logging.Level)
	assert.Equal(t, "30 2 * * *", cfg.Retention.Schedule)
	assert.True(t, cfg.Telemetry.Tracing.Enabled)
	assert.Equal(t, "always", cfg.Telemetry.Tracing.Sampler)
	assert.Equal(t, "otel-collector:4317", cfg.Telemetry.Tracing.Endpoint)
	assert.True(t, cfg.Telemetry.Tracing.Insecure)
	assert.Equal(t, 10*time.Second, cfg.Telemetry.Tracing.Timeout)
}

func TestLoadConfig_OmittedFieldsKeepDefaults(t *testing.T) {
	path := writeConfig(t, `
storage:
  exports_dir: "data"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultListenAddress, cfg.Server.ListenAddress)
	assert.Equal(t, DefaultBasePath, cfg.Server.BasePath)
	assert.Equal(t, DefaultMaxBodyBytes, cfg.Server.MaxBodyBytes)
	assert.True(t, cfg.Server.CORS.Enabled)
	assert.True(t, cfg.Retention.Enabled)
	assert.True(t, cfg.Auth.Enabled)
	assert.True(t, cfg.Telemetry.Logging.Redact)
	assert.True(t, cfg.Telemetry.Metrics.Enabled)
	assert.True(t, cfg.Telemetry.Health.Enabled)
	assert.Equal(t, os.FileMode(0o644), cfg.Storage.FilePerm())
	assert.Equal(t, os.FileMode(0o755), cfg.Storage.DirPerm())
}

func TestLoadConfig_ExplicitFalseOverridesDefault(t *testing.T) {
	path := writeConfig(t, `
auth:
  enabled: false
retention:
  enabled: false
telemetry:
  metrics:
    enabled: false
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.False(t, cfg.Auth.Enabled)
	assert.False(t, cfg.Retention.Enabled)
	assert.False(t, cfg.Telemetry.Metrics.Enabled)
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_address: ":3001"
  invalid yaml here: [
`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_ValidationFailure(t *testing.T) {
	path := writeConfig(t, `
retention:
  group_by: "week"
telemetry:
  logging:
    level: "verbose"
`)

	_, err := LoadConfig(path)
	require.Error(t, err)

	var validationErr ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Len(t, validationErr.Errors, 2)
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_address: "127.0.0.1:3001"
storage:
  exports_dir: "from-file"
`)

	t.Setenv("NOTESEXPORT_STORAGE_EXPORTS_DIR", "from-env")
	t.Setenv("NOTESEXPORT_SERVER_READ_TIMEOUT", "5m")
	t.Setenv("NOTESEXPORT_SERVER_MAX_BODY_BYTES", "2048")
	t.Setenv("NOTESEXPORT_AUTH_TOKEN", "env-token")
	t.Setenv("NOTESEXPORT_RETENTION_ENABLED", "false")
	t.Setenv("NOTESEXPORT_SERVER_CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("NOTESEXPORT_TELEMETRY_LOGGING_LEVEL", "warn")

	cfg, err := LoadConfigWithEnvOverrides(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Storage.ExportsDir)
	assert.Equal(t, 5*time.Minute, cfg.Server.ReadTimeout)
	assert.Equal(t, int64(2048), cfg.Server.MaxBodyBytes)
	assert.Equal(t, "env-token", cfg.Auth.Token)
	assert.False(t, cfg.Retention.Enabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORS.AllowedOrigins)
	assert.Equal(t, "warn", cfg.Telemetry.Logging.Level)
}

func TestLoadConfigWithEnvOverrides_Port(t *testing.T) {
	tests := []struct {
		name   string
		listen string
		port   string
		want   string
	}{
		{"default address", "", "8080", ":8080"},
		{"keeps host", "127.0.0.1:3001", "4000", "127.0.0.1:4000"},
		{"ipv6 host", "[::1]:3001", "4000", "[::1]:4000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.listen != "" {
				t.Setenv("NOTESEXPORT_SERVER_LISTEN_ADDRESS", tt.listen)
			}
			t.Setenv("PORT", tt.port)

			cfg, err := LoadConfigWithEnvOverrides("")
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Server.ListenAddress)
		})
	}
}

func TestLoadConfigWithEnvOverrides_InvalidEnvValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		field string
	}{
		{"bad duration", "NOTESEXPORT_SERVER_READ_TIMEOUT", "soon", "server.read_timeout"},
		{"bad bool", "NOTESEXPORT_AUTH_ENABLED", "maybe", "auth.enabled"},
		{"bad integer", "NOTESEXPORT_SERVER_MAX_BODY_BYTES", "lots", "server.max_body_bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfigWithEnvOverrides("")
			require.Error(t, err)

			var validationErr ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.Len(t, validationErr.Errors, 1)
			assert.Equal(t, tt.field, validationErr.Errors[0].Field)
		})
	}
}

func TestLoadOptional(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := LoadOptional(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Defaults(), cfg)
	})

	t.Run("existing file is loaded", func(t *testing.T) {
		path := writeConfig(t, "storage:\n  exports_dir: present\n")
		cfg, err := LoadOptional(path)
		require.NoError(t, err)
		assert.Equal(t, "present", cfg.Storage.ExportsDir)
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		path := writeConfig(t, "server: [")
		_, err := LoadOptional(path)
		assert.Error(t, err)
	})
}
