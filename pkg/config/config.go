package config

import "time"

// Config is the root configuration structure for the notes export service.
// It is built once at startup and passed explicitly to the components that
// need it; nothing in the export packages reads configuration globally.
type Config struct {
	// Server contains HTTP server configuration including listen address,
	// route prefix, timeouts and body limits.
	Server ServerConfig `yaml:"server"`

	// Storage contains the exports directory and file permissions.
	Storage StorageConfig `yaml:"storage"`

	// Retention controls pruning of past-day exports after each write.
	Retention RetentionConfig `yaml:"retention"`

	// Auth contains bearer token authentication configuration.
	Auth AuthConfig `yaml:"auth"`

	// Telemetry contains configuration for logging, metrics and health checks.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Format: "host:port" (e.g., ":3001", "127.0.0.1:3001").
	// The PORT environment variable replaces the port.
	// Default: ":3001"
	ListenAddress string `yaml:"listen_address"`

	// BasePath is the prefix the export routes are mounted under.
	// Default: "/api"
	BasePath string `yaml:"base_path"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body. Large bundles need a generous value.
	// Default: 60s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response.
	// Default: 60s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits the size of request headers.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// MaxBodyBytes limits the size of an export upload. Larger bodies are
	// rejected with 413.
	// Default: 524288000 (500MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`

	// TLS contains optional TLS termination configuration.
	TLS TLSConfig `yaml:"tls"`
}

// TLSConfig contains TLS configuration for the HTTP server.
type TLSConfig struct {
	// Enabled serves HTTPS instead of plain HTTP.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// CertFile is the path to the PEM-encoded certificate (chain).
	CertFile string `yaml:"cert_file"`

	// KeyFile is the path to the PEM-encoded private key.
	KeyFile string `yaml:"key_file"`

	// MinVersion is the minimum TLS version to accept ("1.2" or "1.3").
	// Default: "1.2"
	MinVersion string `yaml:"min_version"`

	// ReloadInterval is how often the certificate files are checked for
	// changes. Zero disables reloading.
	// Default: 5m
	ReloadInterval time.Duration `yaml:"reload_interval"`
}

// CORSConfig contains CORS (Cross-Origin Resource Sharing) configuration.
type CORSConfig struct {
	// Enabled controls whether CORS headers are sent.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins lists allowed origins. Entries may be glob patterns
	// such as "https://*.example.com"; "*" allows every origin.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods is a list of allowed HTTP methods for CORS requests.
	// Default: ["GET", "HEAD", "PUT", "PATCH", "POST", "DELETE"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is a list of allowed request headers. When empty the
	// headers named in the preflight request are reflected.
	// Default: []
	AllowedHeaders []string `yaml:"allowed_headers"`

	// ExposedHeaders is a list of headers that are exposed to the client.
	// Default: ["X-Request-ID"]
	ExposedHeaders []string `yaml:"exposed_headers"`

	// MaxAge is the maximum age (in seconds) for preflight request cache.
	// Zero omits the header.
	// Default: 0
	MaxAge int `yaml:"max_age"`

	// AllowCredentials controls whether credentials are allowed in CORS
	// requests. It cannot be combined with a "*" origin.
	// Default: false
	AllowCredentials bool `yaml:"allow_credentials"`
}

// StorageConfig contains configuration for the exports directory.
type StorageConfig struct {
	// ExportsDir is the directory export files are written to. Relative
	// paths resolve against the working directory.
	// Default: "exports"
	ExportsDir string `yaml:"exports_dir"`

	// FileMode is the octal permission for export files.
	// Default: "0644"
	FileMode string `yaml:"file_mode"`

	// DirMode is the octal permission used when creating the directory.
	// Default: "0755"
	DirMode string `yaml:"dir_mode"`
}

// RetentionConfig contains configuration for post-write pruning.
type RetentionConfig struct {
	// Enabled controls whether past-day exports are pruned after a write.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// GroupBy selects the retention bucket.
	// Options: "day" (one survivor per day across all node names),
	// "day_and_name" (one survivor per node name per day)
	// Default: "day"
	GroupBy string `yaml:"group_by"`

	// Schedule is an optional cron expression (five fields) for an extra
	// pruning pass independent of writes, e.g. "0 3 * * *". Empty disables
	// the scheduler.
	// Default: ""
	Schedule string `yaml:"schedule"`
}

// AuthConfig contains bearer token authentication configuration.
type AuthConfig struct {
	// Enabled controls whether the export routes require a bearer token.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Token is the shared bearer secret. Prefer TokenFile or the
	// NOTESEXPORT_AUTH_TOKEN environment variable over a literal value.
	Token string `yaml:"token"`

	// TokenFile is a file holding the bearer secret. Surrounding whitespace
	// is ignored.
	TokenFile string `yaml:"token_file"`

	// WatchTokenFile reloads TokenFile when it changes on disk.
	// Default: false
	WatchTokenFile bool `yaml:"watch_token_file"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`

	// Health contains health check configuration.
	Health HealthConfig `yaml:"health"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// Redact masks secrets (tokens, key material, ciphertext) in log
	// attributes.
	// Default: true
	Redact bool `yaml:"redact"`

	// RedactKeys adds attribute keys to the built-in redaction list.
	RedactKeys []string `yaml:"redact_keys"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and served.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "notesexport"
	Namespace string `yaml:"namespace"`

	// RequestDurationBuckets defines histogram buckets for request duration (seconds).
	// Default: [0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30]
	RequestDurationBuckets []float64 `yaml:"request_duration_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether spans are recorded and exported.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	// Default: 0.1
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS towards the collector.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Timeout bounds each export to the collector.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// ServiceName is the service name reported with every span.
	// Default: "notesexport"
	ServiceName string `yaml:"service_name"`
}

// HealthConfig contains health check endpoint configuration.
type HealthConfig struct {
	// Enabled controls whether health check endpoints are served.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// LivenessPath is the path for the liveness endpoint.
	// Default: "/health"
	LivenessPath string `yaml:"liveness_path"`

	// ReadinessPath is the path for the readiness endpoint.
	// Default: "/ready"
	ReadinessPath string `yaml:"readiness_path"`

	// VersionPath is the path for the version information endpoint.
	// Default: "/version"
	VersionPath string `yaml:"version_path"`

	// CheckTimeout is the timeout for individual component health checks.
	// Default: 5s
	CheckTimeout time.Duration `yaml:"check_timeout"`
}
