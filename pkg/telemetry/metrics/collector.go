package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"mercator-hq/notesexport/pkg/config"
	"mercator-hq/notesexport/pkg/exports/retention"
)

// Collector is the entry point for all Prometheus metrics of the service.
// It satisfies the export store's Recorder interface and is used by the
// HTTP metrics middleware.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	exportMetrics *ExportMetrics
	httpMetrics   *HTTPMetrics
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "notesexport",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNS
	}
	if len(cfg.RequestDurationBuckets) == 0 {
		cfg.RequestDurationBuckets = prometheus.DefBuckets
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
	}

	c.exportMetrics = NewExportMetrics(cfg, registry)
	c.httpMetrics = NewHTTPMetrics(cfg, registry)

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: cfg.Namespace}),
	)

	return c
}

// Registry returns the registry the collector registers into.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Enabled reports whether metrics are recorded.
func (c *Collector) Enabled() bool {
	return c.config.Enabled
}

// RecordWrite records the outcome of an export write.
//
// Parameters:
//   - status: "success", "invalid" or "error"
//   - bytes: size of the stored document (0 unless successful)
//   - duration: time spent in the write, including pruning
func (c *Collector) RecordWrite(status string, bytes int, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.exportMetrics.RecordWrite(status, bytes, duration)
}

// RecordRead records the outcome of a read operation.
//
// Parameters:
//   - op: "list" or "latest"
//   - status: "success", "not_found" or "error"
//   - duration: time spent in the read
func (c *Collector) RecordRead(op, status string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.exportMetrics.RecordRead(op, status, duration)
}

// RecordPrune records the result of one retention pass.
func (c *Collector) RecordPrune(result retention.Result) {
	if !c.config.Enabled {
		return
	}

	c.exportMetrics.RecordPrune(result)
}

// RecordHTTPRequest records one served HTTP request.
//
// Parameters:
//   - route: the route pattern, not the raw path, to bound cardinality
//   - method: HTTP method
//   - code: response status code
//   - duration: time to serve the request
func (c *Collector) RecordHTTPRequest(route, method string, code int, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.httpMetrics.RecordRequest(route, method, code, duration)
}

// TrackInFlight increments the in-flight gauge and returns a function that
// decrements it.
func (c *Collector) TrackInFlight() func() {
	if !c.config.Enabled {
		return func() {}
	}

	c.httpMetrics.inFlight.Inc()
	return c.httpMetrics.inFlight.Dec
}
