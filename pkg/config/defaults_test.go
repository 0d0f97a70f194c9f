package config

import (
	"reflect"
	"slices"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("expected listen address %q, got %q", DefaultListenAddress, cfg.Server.ListenAddress)
	}
	if cfg.Server.BasePath != DefaultBasePath {
		t.Errorf("expected base path %q, got %q", DefaultBasePath, cfg.Server.BasePath)
	}
	if cfg.Server.ReadTimeout != DefaultReadTimeout {
		t.Errorf("expected read timeout %v, got %v", DefaultReadTimeout, cfg.Server.ReadTimeout)
	}
	if cfg.Server.ShutdownTimeout != DefaultShutdownTimeout {
		t.Errorf("expected shutdown timeout %v, got %v", DefaultShutdownTimeout, cfg.Server.ShutdownTimeout)
	}
	if cfg.Server.MaxBodyBytes != 500*1024*1024 {
		t.Errorf("expected max body bytes %d, got %d", 500*1024*1024, cfg.Server.MaxBodyBytes)
	}
	if !slices.Equal(cfg.Server.CORS.AllowedOrigins, []string{"*"}) {
		t.Errorf("expected allowed origins [*], got %v", cfg.Server.CORS.AllowedOrigins)
	}
	wantMethods := []string{"GET", "HEAD", "PUT", "PATCH", "POST", "DELETE"}
	if !slices.Equal(cfg.Server.CORS.AllowedMethods, wantMethods) {
		t.Errorf("expected allowed methods %v, got %v", wantMethods, cfg.Server.CORS.AllowedMethods)
	}
	if cfg.Server.TLS.Enabled {
		t.Error("expected TLS to be disabled by default")
	}
	if cfg.Server.TLS.MinVersion != "1.2" {
		t.Errorf("expected TLS min version 1.2, got %q", cfg.Server.TLS.MinVersion)
	}
	if cfg.Server.TLS.ReloadInterval != 5*time.Minute {
		t.Errorf("expected TLS reload interval 5m, got %v", cfg.Server.TLS.ReloadInterval)
	}
	if cfg.Storage.ExportsDir != DefaultExportsDir {
		t.Errorf("expected exports dir %q, got %q", DefaultExportsDir, cfg.Storage.ExportsDir)
	}
	if cfg.Retention.GroupBy != DefaultRetentionGroupBy {
		t.Errorf("expected group by %q, got %q", DefaultRetentionGroupBy, cfg.Retention.GroupBy)
	}
	if cfg.Retention.Schedule != "" {
		t.Errorf("expected no retention schedule, got %q", cfg.Retention.Schedule)
	}
	if !cfg.Auth.Enabled {
		t.Error("expected auth to be enabled by default")
	}
	if cfg.Auth.Token != "" {
		t.Errorf("expected empty token, got %q", cfg.Auth.Token)
	}
	if cfg.Telemetry.Metrics.Path != DefaultMetricsPath {
		t.Errorf("expected metrics path %q, got %q", DefaultMetricsPath, cfg.Telemetry.Metrics.Path)
	}
	if cfg.Telemetry.Health.LivenessPath != DefaultLivenessPath {
		t.Errorf("expected liveness path %q, got %q", DefaultLivenessPath, cfg.Telemetry.Health.LivenessPath)
	}
	if cfg.Telemetry.Tracing.Enabled {
		t.Error("expected tracing to be disabled by default")
	}
	if cfg.Telemetry.Tracing.Sampler != "ratio" {
		t.Errorf("expected sampler ratio, got %q", cfg.Telemetry.Tracing.Sampler)
	}
	if cfg.Telemetry.Tracing.SampleRatio != 0.1 {
		t.Errorf("expected sample ratio 0.1, got %v", cfg.Telemetry.Tracing.SampleRatio)
	}
	if cfg.Telemetry.Tracing.ServiceName != "notesexport" {
		t.Errorf("expected service name notesexport, got %q", cfg.Telemetry.Tracing.ServiceName)
	}

	if err := Validate(cfg); err != nil {
		t.Fatalf("expected defaults to validate, got error: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	tests := []struct {
		name  string
		input Config
		check func(*testing.T, *Config)
	}{
		{
			name:  "empty config gets all defaults",
			input: Config{},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Server.ListenAddress != DefaultListenAddress {
					t.Errorf("expected listen address %q, got %q", DefaultListenAddress, cfg.Server.ListenAddress)
				}
				if cfg.Storage.ExportsDir != DefaultExportsDir {
					t.Errorf("expected exports dir %q, got %q", DefaultExportsDir, cfg.Storage.ExportsDir)
				}
				if cfg.Storage.DirMode != DefaultDirMode {
					t.Errorf("expected dir mode %q, got %q", DefaultDirMode, cfg.Storage.DirMode)
				}
			},
		},
		{
			name: "set values are preserved",
			input: Config{
				Server:  ServerConfig{ListenAddress: "0.0.0.0:1", BasePath: "/x"},
				Storage: StorageConfig{ExportsDir: "elsewhere", FileMode: "0600"},
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Server.ListenAddress != "0.0.0.0:1" {
					t.Errorf("expected listen address to be preserved, got %q", cfg.Server.ListenAddress)
				}
				if cfg.Server.BasePath != "/x" {
					t.Errorf("expected base path to be preserved, got %q", cfg.Server.BasePath)
				}
				if cfg.Storage.ExportsDir != "elsewhere" {
					t.Errorf("expected exports dir to be preserved, got %q", cfg.Storage.ExportsDir)
				}
				if cfg.Storage.FileMode != "0600" {
					t.Errorf("expected file mode to be preserved, got %q", cfg.Storage.FileMode)
				}
				if cfg.Storage.DirMode != DefaultDirMode {
					t.Errorf("expected dir mode %q, got %q", DefaultDirMode, cfg.Storage.DirMode)
				}
				// Booleans are not touched: false is a valid explicit choice.
				if cfg.Auth.Enabled {
					t.Error("expected auth.enabled to stay false")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.input
			ApplyDefaults(&cfg)
			tt.check(t, &cfg)
		})
	}
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	first := *cfg
	ApplyDefaults(cfg)

	if !reflect.DeepEqual(first, *cfg) {
		t.Errorf("second ApplyDefaults changed the config:\nfirst:  %+v\nsecond: %+v", first, *cfg)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input     string
		want      uint32
		wantError bool
	}{
		{input: "0640", want: 0o640},
		{input: "rw-r--r--", wantError: true},
		{input: "0999", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m, err := ParseMode(tt.input)
			if tt.wantError {
				if err == nil {
					t.Errorf("expected error for %q, got mode %o", tt.input, m)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if uint32(m) != tt.want {
				t.Errorf("expected mode %o, got %o", tt.want, uint32(m))
			}
		})
	}
}
