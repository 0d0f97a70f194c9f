package config

import (
	"slices"
	"strings"
	"testing"
	"time"
)

func fieldsOf(err error) []string {
	verr, ok := err.(ValidationError)
	if !ok {
		return nil
	}
	fields := make([]string, 0, len(verr.Errors))
	for _, e := range verr.Errors {
		fields = append(fields, e.Field)
	}
	return fields
}

func TestValidate_ValidConfig(t *testing.T) {
	if err := Validate(Defaults()); err != nil {
		t.Errorf("expected valid config to pass validation, got error: %v", err)
	}
}

func TestValidate_Rules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty listen address", func(c *Config) { c.Server.ListenAddress = "" }, "server.listen_address"},
		{"listen address without port", func(c *Config) { c.Server.ListenAddress = "localhost" }, "server.listen_address"},
		{"relative base path", func(c *Config) { c.Server.BasePath = "api" }, "server.base_path"},
		{"negative read timeout", func(c *Config) { c.Server.ReadTimeout = -time.Second }, "server.read_timeout"},
		{"zero body limit", func(c *Config) { c.Server.MaxBodyBytes = -1 }, "server.max_body_bytes"},
		{"negative cors max age", func(c *Config) { c.Server.CORS.MaxAge = -1 }, "server.cors.max_age"},
		{"blank cors origin", func(c *Config) { c.Server.CORS.AllowedOrigins = []string{" "} }, "server.cors.allowed_origins[0]"},
		{"credentials with wildcard", func(c *Config) { c.Server.CORS.AllowCredentials = true }, "server.cors.allow_credentials"},
		{"tls without cert", func(c *Config) { c.Server.TLS.Enabled = true; c.Server.TLS.KeyFile = "k.pem" }, "server.tls.cert_file"},
		{"tls without key", func(c *Config) { c.Server.TLS.Enabled = true; c.Server.TLS.CertFile = "c.pem" }, "server.tls.key_file"},
		{"old tls version", func(c *Config) { c.Server.TLS.MinVersion = "1.0" }, "server.tls.min_version"},
		{"empty exports dir", func(c *Config) { c.Storage.ExportsDir = "" }, "storage.exports_dir"},
		{"bad file mode", func(c *Config) { c.Storage.FileMode = "rw" }, "storage.file_mode"},
		{"dir mode out of range", func(c *Config) { c.Storage.DirMode = "7777" }, "storage.dir_mode"},
		{"unknown group by", func(c *Config) { c.Retention.GroupBy = "week" }, "retention.group_by"},
		{"bad cron schedule", func(c *Config) { c.Retention.Schedule = "every day" }, "retention.schedule"},
		{"token and token file", func(c *Config) { c.Auth.Token = "a"; c.Auth.TokenFile = "/t" }, "auth.token_file"},
		{"watch without file", func(c *Config) { c.Auth.WatchTokenFile = true }, "auth.watch_token_file"},
		{"bad log level", func(c *Config) { c.Telemetry.Logging.Level = "trace" }, "telemetry.logging.level"},
		{"bad log format", func(c *Config) { c.Telemetry.Logging.Format = "xml" }, "telemetry.logging.format"},
		{"relative metrics path", func(c *Config) { c.Telemetry.Metrics.Path = "metrics" }, "telemetry.metrics.path"},
		{"unordered buckets", func(c *Config) { c.Telemetry.Metrics.RequestDurationBuckets = []float64{1, 0.5} }, "telemetry.metrics.request_duration_buckets"},
		{"unknown sampler", func(c *Config) { c.Telemetry.Tracing.Enabled = true; c.Telemetry.Tracing.Sampler = "sometimes" }, "telemetry.tracing.sampler"},
		{"sample ratio above one", func(c *Config) { c.Telemetry.Tracing.Enabled = true; c.Telemetry.Tracing.SampleRatio = 1.5 }, "telemetry.tracing.sample_ratio"},
		{"tracing without endpoint", func(c *Config) { c.Telemetry.Tracing.Enabled = true; c.Telemetry.Tracing.Endpoint = "" }, "telemetry.tracing.endpoint"},
		{"relative liveness path", func(c *Config) { c.Telemetry.Health.LivenessPath = "health" }, "telemetry.health.liveness_path"},
		{"long check timeout", func(c *Config) { c.Telemetry.Health.CheckTimeout = 2 * time.Minute }, "telemetry.health.check_timeout"},
		{"health path shadows exports", func(c *Config) { c.Telemetry.Health.VersionPath = "/api/notes/export/version" }, "telemetry.health.version_path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation to fail")
			}
			if fields := fieldsOf(err); !slices.Contains(fields, tt.field) {
				t.Errorf("expected error on field %q, got fields %v", tt.field, fields)
			}
		})
	}
}

func TestValidate_DisabledSectionsSkipChecks(t *testing.T) {
	cfg := Defaults()
	cfg.Telemetry.Metrics.Enabled = false
	cfg.Telemetry.Metrics.Path = ""
	cfg.Telemetry.Health.Enabled = false
	cfg.Telemetry.Health.LivenessPath = "nope"
	cfg.Server.CORS.Enabled = false
	cfg.Server.CORS.MaxAge = -5
	cfg.Telemetry.Tracing.Sampler = "sometimes"

	if err := Validate(cfg); err != nil {
		t.Errorf("expected disabled sections to skip validation, got error: %v", err)
	}
}

func TestValidate_AuthWithoutTokenIsAllowed(t *testing.T) {
	cfg := Defaults()
	cfg.Auth.Enabled = true
	if err := Validate(cfg); err != nil {
		t.Errorf("expected auth without token to validate, got error: %v", err)
	}
}

func TestValidate_CronSchedule(t *testing.T) {
	cfg := Defaults()
	cfg.Retention.Schedule = "0 3 * * *"
	if err := Validate(cfg); err != nil {
		t.Errorf("expected cron schedule to validate, got error: %v", err)
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Server.ListenAddress = ""
	cfg.Storage.ExportsDir = ""
	cfg.Retention.GroupBy = "month"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation to fail")
	}
	if fields := fieldsOf(err); len(fields) != 3 {
		t.Errorf("expected 3 errors, got %d: %v", len(fields), fields)
	}
	if !strings.HasPrefix(err.Error(), "configuration validation failed with 3 errors:") {
		t.Errorf("error message should mention multiple errors: %s", err.Error())
	}
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  ValidationError
		want string
	}{
		{
			name: "no errors",
			err:  ValidationError{},
			want: "configuration validation failed",
		},
		{
			name: "single error",
			err:  ValidationError{Errors: []FieldError{{Field: "server.base_path", Message: "base path must start with /"}}},
			want: "configuration validation failed: server.base_path: base path must start with /",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
