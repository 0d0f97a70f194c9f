package config

import (
	"os"
	"strconv"
	"time"
)

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = ":3001"
	DefaultBasePath        = "/api"
	DefaultReadTimeout     = 60 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576          // 1MB
	DefaultMaxBodyBytes    = int64(500 << 20) // 500MB

	// CORS defaults
	DefaultCORSEnabled = true

	// TLS defaults
	DefaultTLSMinVersion     = "1.2"
	DefaultTLSReloadInterval = 5 * time.Minute

	// Storage defaults
	DefaultExportsDir = "exports"
	DefaultFileMode   = "0644"
	DefaultDirMode    = "0755"

	// Retention defaults
	DefaultRetentionEnabled = true
	DefaultRetentionGroupBy = "day"

	// Auth defaults
	DefaultAuthEnabled = true

	// Telemetry defaults
	DefaultLoggingLevel   = "info"
	DefaultLoggingFormat  = "json"
	DefaultLoggingRedact  = true
	DefaultMetricsEnabled = true
	DefaultMetricsPath    = "/metrics"
	DefaultMetricsNS      = "notesexport"
	DefaultTracingSampler = "ratio"
	DefaultSampleRatio    = 0.1
	DefaultTracingAddr    = "localhost:4317"
	DefaultTracingTimeout = 10 * time.Second
	DefaultServiceName    = "notesexport"
	DefaultHealthEnabled  = true
	DefaultLivenessPath   = "/health"
	DefaultReadinessPath  = "/ready"
	DefaultVersionPath    = "/version"
	DefaultCheckTimeout   = 5 * time.Second
)

// Defaults returns a configuration with every field set to its default.
// Boolean options that default to true can only be expressed here, so files
// are decoded on top of this value rather than into an empty Config.
func Defaults() *Config {
	cfg := &Config{
		Server: ServerConfig{
			CORS: CORSConfig{Enabled: DefaultCORSEnabled},
			TLS:  TLSConfig{ReloadInterval: DefaultTLSReloadInterval},
		},
		Retention: RetentionConfig{Enabled: DefaultRetentionEnabled},
		Auth:      AuthConfig{Enabled: DefaultAuthEnabled},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{Redact: DefaultLoggingRedact},
			Metrics: MetricsConfig{Enabled: DefaultMetricsEnabled},
			Health:  HealthConfig{Enabled: DefaultHealthEnabled},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.BasePath == "" {
		cfg.Server.BasePath = DefaultBasePath
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Server.TLS.MinVersion == "" {
		cfg.Server.TLS.MinVersion = DefaultTLSMinVersion
	}

	// CORS defaults are permissive; browser clients rely on them
	if len(cfg.Server.CORS.AllowedOrigins) == 0 {
		cfg.Server.CORS.AllowedOrigins = []string{"*"}
	}
	if len(cfg.Server.CORS.AllowedMethods) == 0 {
		cfg.Server.CORS.AllowedMethods = []string{"GET", "HEAD", "PUT", "PATCH", "POST", "DELETE"}
	}
	if len(cfg.Server.CORS.ExposedHeaders) == 0 {
		cfg.Server.CORS.ExposedHeaders = []string{"X-Request-ID"}
	}

	// Storage defaults
	if cfg.Storage.ExportsDir == "" {
		cfg.Storage.ExportsDir = DefaultExportsDir
	}
	if cfg.Storage.FileMode == "" {
		cfg.Storage.FileMode = DefaultFileMode
	}
	if cfg.Storage.DirMode == "" {
		cfg.Storage.DirMode = DefaultDirMode
	}

	// Retention defaults
	if cfg.Retention.GroupBy == "" {
		cfg.Retention.GroupBy = DefaultRetentionGroupBy
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNS
	}
	if len(cfg.Telemetry.Metrics.RequestDurationBuckets) == 0 {
		cfg.Telemetry.Metrics.RequestDurationBuckets = []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30}
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
		if cfg.Telemetry.Tracing.SampleRatio == 0 {
			cfg.Telemetry.Tracing.SampleRatio = DefaultSampleRatio
		}
	}
	if cfg.Telemetry.Tracing.Endpoint == "" {
		cfg.Telemetry.Tracing.Endpoint = DefaultTracingAddr
	}
	if cfg.Telemetry.Tracing.Timeout == 0 {
		cfg.Telemetry.Tracing.Timeout = DefaultTracingTimeout
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultServiceName
	}
	if cfg.Telemetry.Health.LivenessPath == "" {
		cfg.Telemetry.Health.LivenessPath = DefaultLivenessPath
	}
	if cfg.Telemetry.Health.ReadinessPath == "" {
		cfg.Telemetry.Health.ReadinessPath = DefaultReadinessPath
	}
	if cfg.Telemetry.Health.VersionPath == "" {
		cfg.Telemetry.Health.VersionPath = DefaultVersionPath
	}
	if cfg.Telemetry.Health.CheckTimeout == 0 {
		cfg.Telemetry.Health.CheckTimeout = DefaultCheckTimeout
	}
}

// ParseMode parses an octal permission string such as "0644".
func ParseMode(s string) (os.FileMode, error) {
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, err
	}
	return os.FileMode(v), nil
}

// FilePerm returns the parsed export file permission. Call it on validated
// configuration only.
func (c *StorageConfig) FilePerm() os.FileMode {
	m, _ := ParseMode(c.FileMode)
	return m
}

// DirPerm returns the parsed directory permission. Call it on validated
// configuration only.
func (c *StorageConfig) DirPerm() os.FileMode {
	m, _ := ParseMode(c.DirMode)
	return m
}
