// Package telemetry groups the observability packages of the export server.
//
// # Components
//
//   - logging: structured slog logging with secret redaction
//   - metrics: Prometheus metrics for exports, pruning and HTTP traffic
//   - tracing: OpenTelemetry tracing exported over OTLP
//   - health: liveness, readiness and version endpoints
//
// # Configuration
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
//	  metrics:
//	    enabled: true
//	    path: "/metrics"
//	  tracing:
//	    enabled: false
//	    sampler: "ratio"
//	    sample_ratio: 0.1
//	  health:
//	    enabled: true
//
// Each package is wired separately by the run command; there is no
// aggregate telemetry object.
package telemetry
