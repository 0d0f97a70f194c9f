package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment variable override.
const EnvPrefix = "NOTESEXPORT_"

// LoadConfig loads configuration from a YAML file at the specified path.
// The file is decoded on top of Defaults, so omitted fields keep their
// default values. The configuration is not modified by environment
// variables; use LoadConfigWithEnvOverrides for that functionality.
func LoadConfig(path string) (*Config, error) {
	cfg, err := decodeFile(path)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention NOTESEXPORT_SECTION_FIELD (e.g., NOTESEXPORT_SERVER_LISTEN_ADDRESS).
// Environment variables always take precedence over file-based configuration.
//
// An empty path skips the file and starts from defaults.
//
// The loading sequence is:
// 1. Start from defaults
// 2. Decode the YAML file over them
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg := Defaults()
	if path != "" {
		var err error
		if cfg, err = decodeFile(path); err != nil {
			return nil, err
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadOptional behaves like LoadConfigWithEnvOverrides but treats a missing
// file as empty. It is used for the default config path, which need not exist.
func LoadOptional(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}
	return LoadConfigWithEnvOverrides(path)
}

func decodeFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Malformed numeric, boolean and duration values are reported rather than
// silently ignored.
func applyEnvOverrides(cfg *Config) error {
	var errs []FieldError
	str := func(name string, dst *string) {
		if val, ok := os.LookupEnv(EnvPrefix + name); ok && val != "" {
			*dst = val
		}
	}
	boolean := func(name, field string, dst *bool) {
		if val, ok := os.LookupEnv(EnvPrefix + name); ok && val != "" {
			b, err := strconv.ParseBool(val)
			if err != nil {
				errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf("invalid boolean %q in %s%s", val, EnvPrefix, name)})
				return
			}
			*dst = b
		}
	}
	duration := func(name, field string, dst *time.Duration) {
		if val, ok := os.LookupEnv(EnvPrefix + name); ok && val != "" {
			d, err := time.ParseDuration(val)
			if err != nil {
				errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf("invalid duration %q in %s%s", val, EnvPrefix, name)})
				return
			}
			*dst = d
		}
	}

	// Server overrides
	str("SERVER_LISTEN_ADDRESS", &cfg.Server.ListenAddress)
	str("SERVER_BASE_PATH", &cfg.Server.BasePath)
	duration("SERVER_READ_TIMEOUT", "server.read_timeout", &cfg.Server.ReadTimeout)
	duration("SERVER_WRITE_TIMEOUT", "server.write_timeout", &cfg.Server.WriteTimeout)
	duration("SERVER_IDLE_TIMEOUT", "server.idle_timeout", &cfg.Server.IdleTimeout)
	duration("SERVER_SHUTDOWN_TIMEOUT", "server.shutdown_timeout", &cfg.Server.ShutdownTimeout)
	if val := os.Getenv(EnvPrefix + "SERVER_MAX_BODY_BYTES"); val != "" {
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			errs = append(errs, FieldError{Field: "server.max_body_bytes", Message: fmt.Sprintf("invalid integer %q", val)})
		} else {
			cfg.Server.MaxBodyBytes = n
		}
	}
	boolean("SERVER_CORS_ENABLED", "server.cors.enabled", &cfg.Server.CORS.Enabled)
	if val := os.Getenv(EnvPrefix + "SERVER_CORS_ALLOWED_ORIGINS"); val != "" {
		cfg.Server.CORS.AllowedOrigins = splitList(val)
	}
	boolean("SERVER_TLS_ENABLED", "server.tls.enabled", &cfg.Server.TLS.Enabled)
	str("SERVER_TLS_CERT_FILE", &cfg.Server.TLS.CertFile)
	str("SERVER_TLS_KEY_FILE", &cfg.Server.TLS.KeyFile)
	str("SERVER_TLS_MIN_VERSION", &cfg.Server.TLS.MinVersion)

	// PORT is honoured for platforms that assign the port through it. It
	// keeps the configured host.
	if port := os.Getenv("PORT"); port != "" {
		host, _, err := net.SplitHostPort(cfg.Server.ListenAddress)
		if err != nil {
			host = ""
		}
		cfg.Server.ListenAddress = net.JoinHostPort(host, port)
	}

	// Storage overrides
	str("STORAGE_EXPORTS_DIR", &cfg.Storage.ExportsDir)
	str("STORAGE_FILE_MODE", &cfg.Storage.FileMode)
	str("STORAGE_DIR_MODE", &cfg.Storage.DirMode)

	// Retention overrides
	boolean("RETENTION_ENABLED", "retention.enabled", &cfg.Retention.Enabled)
	str("RETENTION_GROUP_BY", &cfg.Retention.GroupBy)
	str("RETENTION_SCHEDULE", &cfg.Retention.Schedule)

	// Auth overrides
	boolean("AUTH_ENABLED", "auth.enabled", &cfg.Auth.Enabled)
	str("AUTH_TOKEN", &cfg.Auth.Token)
	str("AUTH_TOKEN_FILE", &cfg.Auth.TokenFile)
	boolean("AUTH_WATCH_TOKEN_FILE", "auth.watch_token_file", &cfg.Auth.WatchTokenFile)

	// Telemetry overrides
	str("TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	str("TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	boolean("TELEMETRY_LOGGING_ADD_SOURCE", "telemetry.logging.add_source", &cfg.Telemetry.Logging.AddSource)
	boolean("TELEMETRY_LOGGING_REDACT", "telemetry.logging.redact", &cfg.Telemetry.Logging.Redact)
	boolean("TELEMETRY_METRICS_ENABLED", "telemetry.metrics.enabled", &cfg.Telemetry.Metrics.Enabled)
	str("TELEMETRY_METRICS_PATH", &cfg.Telemetry.Metrics.Path)
	boolean("TELEMETRY_TRACING_ENABLED", "telemetry.tracing.enabled", &cfg.Telemetry.Tracing.Enabled)
	str("TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
	str("TELEMETRY_TRACING_SAMPLER", &cfg.Telemetry.Tracing.Sampler)
	boolean("TELEMETRY_TRACING_INSECURE", "telemetry.tracing.insecure", &cfg.Telemetry.Tracing.Insecure)
	boolean("TELEMETRY_HEALTH_ENABLED", "telemetry.health.enabled", &cfg.Telemetry.Health.Enabled)

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment override: %w", ValidationError{Errors: errs})
	}
	return nil
}

func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
