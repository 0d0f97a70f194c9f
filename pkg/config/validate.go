package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateStorage(&cfg.Storage)...)
	errs = append(errs, validateRetention(&cfg.Retention)...)
	errs = append(errs, validateAuth(&cfg.Auth)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)
	errs = append(errs, validateRouteConflicts(cfg)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateServer validates HTTP server configuration.
func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	} else if _, _, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: fmt.Sprintf("invalid listen address %q: %v", cfg.ListenAddress, err),
		})
	}

	if !strings.HasPrefix(cfg.BasePath, "/") {
		errs = append(errs, FieldError{
			Field:   "server.base_path",
			Message: "base path must start with /",
		})
	}

	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "read timeout must be positive",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "write timeout must be positive",
		})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.idle_timeout",
			Message: "idle timeout must be positive",
		})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.shutdown_timeout",
			Message: "shutdown timeout must be positive",
		})
	}
	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "max header bytes must be positive",
		})
	}
	if cfg.MaxBodyBytes <= 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_body_bytes",
			Message: "max body bytes must be positive",
		})
	}

	errs = append(errs, validateCORS(&cfg.CORS)...)
	errs = append(errs, validateTLS(&cfg.TLS)...)

	return errs
}

// validateTLS validates TLS configuration. Files are only checked for
// presence in the config; loading them is the TLS package's job.
func validateTLS(cfg *TLSConfig) []FieldError {
	var errs []FieldError

	if cfg.MinVersion != "1.2" && cfg.MinVersion != "1.3" {
		errs = append(errs, FieldError{
			Field:   "server.tls.min_version",
			Message: fmt.Sprintf("unsupported TLS version %q (use 1.2 or 1.3)", cfg.MinVersion),
		})
	}
	if cfg.ReloadInterval < 0 {
		errs = append(errs, FieldError{
			Field:   "server.tls.reload_interval",
			Message: "reload interval must not be negative",
		})
	}

	if !cfg.Enabled {
		return errs
	}

	if cfg.CertFile == "" {
		errs = append(errs, FieldError{
			Field:   "server.tls.cert_file",
			Message: "certificate file is required when TLS is enabled",
		})
	}
	if cfg.KeyFile == "" {
		errs = append(errs, FieldError{
			Field:   "server.tls.key_file",
			Message: "key file is required when TLS is enabled",
		})
	}

	return errs
}

// validateCORS validates CORS configuration.
func validateCORS(cfg *CORSConfig) []FieldError {
	if !cfg.Enabled {
		return nil
	}

	var errs []FieldError

	if cfg.MaxAge < 0 {
		errs = append(errs, FieldError{
			Field:   "server.cors.max_age",
			Message: "max age must be non-negative",
		})
	}

	for i, origin := range cfg.AllowedOrigins {
		if strings.TrimSpace(origin) == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("server.cors.allowed_origins[%d]", i),
				Message: "origin must not be empty",
			})
		}
		if origin == "*" && cfg.AllowCredentials {
			errs = append(errs, FieldError{
				Field:   "server.cors.allow_credentials",
				Message: "credentials cannot be allowed for the wildcard origin",
			})
		}
	}

	return errs
}

// validateStorage validates the exports directory settings.
func validateStorage(cfg *StorageConfig) []FieldError {
	var errs []FieldError

	if cfg.ExportsDir == "" {
		errs = append(errs, FieldError{
			Field:   "storage.exports_dir",
			Message: "exports directory is required",
		})
	}

	for field, mode := range map[string]string{
		"storage.file_mode": cfg.FileMode,
		"storage.dir_mode":  cfg.DirMode,
	} {
		m, err := ParseMode(mode)
		if err != nil || m > 0o777 {
			errs = append(errs, FieldError{
				Field:   field,
				Message: fmt.Sprintf("invalid permission %q: must be octal, e.g. \"0644\"", mode),
			})
		}
	}

	return errs
}

// validateRetention validates retention configuration.
func validateRetention(cfg *RetentionConfig) []FieldError {
	var errs []FieldError

	validGroupBy := map[string]bool{"day": true, "day_and_name": true}
	if !validGroupBy[cfg.GroupBy] {
		errs = append(errs, FieldError{
			Field:   "retention.group_by",
			Message: fmt.Sprintf("invalid group_by %q: must be 'day' or 'day_and_name'", cfg.GroupBy),
		})
	}

	if cfg.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "retention.schedule",
				Message: fmt.Sprintf("invalid cron schedule %q: %v", cfg.Schedule, err),
			})
		}
	}

	return errs
}

// validateAuth validates authentication configuration. An enabled
// configuration without any token source is allowed: requests then fail
// with a server error until a token is provided.
func validateAuth(cfg *AuthConfig) []FieldError {
	var errs []FieldError

	if cfg.Token != "" && cfg.TokenFile != "" {
		errs = append(errs, FieldError{
			Field:   "auth.token_file",
			Message: "token and token_file are mutually exclusive",
		})
	}
	if cfg.WatchTokenFile && cfg.TokenFile == "" {
		errs = append(errs, FieldError{
			Field:   "auth.watch_token_file",
			Message: "watch_token_file requires token_file",
		})
	}

	return errs
}

// validateTelemetry validates telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	// Validate logging level
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	// Validate logging format
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json' or 'text'", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with /",
		})
	}
	for i := 1; i < len(cfg.Metrics.RequestDurationBuckets); i++ {
		if cfg.Metrics.RequestDurationBuckets[i] <= cfg.Metrics.RequestDurationBuckets[i-1] {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.request_duration_buckets",
				Message: "buckets must be in increasing order",
			})
			break
		}
	}

	if cfg.Health.Enabled {
		for field, path := range map[string]string{
			"telemetry.health.liveness_path":  cfg.Health.LivenessPath,
			"telemetry.health.readiness_path": cfg.Health.ReadinessPath,
			"telemetry.health.version_path":   cfg.Health.VersionPath,
		} {
			if !strings.HasPrefix(path, "/") {
				errs = append(errs, FieldError{
					Field:   field,
					Message: "path must start with /",
				})
			}
		}

		if cfg.Health.CheckTimeout < 0 {
			errs = append(errs, FieldError{
				Field:   "telemetry.health.check_timeout",
				Message: "check timeout must be positive",
			})
		}
		if cfg.Health.CheckTimeout > 60*time.Second {
			errs = append(errs, FieldError{
				Field:   "telemetry.health.check_timeout",
				Message: "check timeout exceeds reasonable limit (60s)",
			})
		}
	}

	errs = append(errs, validateTracing(&cfg.Tracing)...)

	return errs
}

// validateTracing validates tracing configuration. Nothing is checked when
// tracing is disabled.
func validateTracing(cfg *TracingConfig) []FieldError {
	var errs []FieldError
	if !cfg.Enabled {
		return nil
	}

	switch cfg.Sampler {
	case "always", "never":
	case "ratio":
		if cfg.SampleRatio < 0 || cfg.SampleRatio > 1 {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.sample_ratio",
				Message: fmt.Sprintf("sample ratio must be between 0.0 and 1.0, got %g", cfg.SampleRatio),
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q: must be 'always', 'never', or 'ratio'", cfg.Sampler),
		})
	}

	if cfg.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "endpoint is required when tracing is enabled",
		})
	}
	if cfg.Timeout < 0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.timeout",
			Message: "timeout must not be negative",
		})
	}

	return errs
}

// validateRouteConflicts rejects operational paths that shadow the export
// routes.
func validateRouteConflicts(cfg *Config) []FieldError {
	var errs []FieldError

	base := strings.TrimRight(cfg.Server.BasePath, "/")
	exportsPrefix := base + "/notes/export"

	check := func(field, path string) {
		if path == exportsPrefix || strings.HasPrefix(path, exportsPrefix+"/") {
			errs = append(errs, FieldError{
				Field:   field,
				Message: fmt.Sprintf("path %q conflicts with the export routes", path),
			})
		}
	}

	if cfg.Telemetry.Metrics.Enabled {
		check("telemetry.metrics.path", cfg.Telemetry.Metrics.Path)
	}
	if cfg.Telemetry.Health.Enabled {
		check("telemetry.health.liveness_path", cfg.Telemetry.Health.LivenessPath)
		check("telemetry.health.readiness_path", cfg.Telemetry.Health.ReadinessPath)
		check("telemetry.health.version_path", cfg.Telemetry.Health.VersionPath)
	}

	return errs
}
