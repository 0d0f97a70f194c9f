package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/notesexport/pkg/config"
	"mercator-hq/notesexport/pkg/exports/retention"
)

// ExportMetrics tracks export store activity.
//
// Metrics:
//   - notesexport_export_writes_total: writes by status
//   - notesexport_export_write_bytes: stored document size
//   - notesexport_export_write_duration_seconds: write duration including pruning
//   - notesexport_export_reads_total: reads by op and status
//   - notesexport_export_read_duration_seconds: read duration by op
//   - notesexport_retention_runs_total: pruning passes
//   - notesexport_retention_files_total: files handled by outcome
//   - notesexport_retention_scanned_files: export files seen by the last pass
//   - notesexport_retention_duration_seconds: pruning pass duration
type ExportMetrics struct {
	writesTotal   *prometheus.CounterVec
	writeBytes    prometheus.Histogram
	writeDuration prometheus.Histogram

	readsTotal   *prometheus.CounterVec
	readDuration *prometheus.HistogramVec

	pruneRuns     prometheus.Counter
	pruneFiles    *prometheus.CounterVec
	pruneScanned  prometheus.Gauge
	pruneDuration prometheus.Histogram
}

// NewExportMetrics creates and registers export metrics with the provided registry.
func NewExportMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ExportMetrics {
	em := &ExportMetrics{
		writesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "export_writes_total",
				Help:      "Total number of export writes by status",
			},
			[]string{"status"},
		),

		writeBytes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "export_write_bytes",
				Help:      "Size of stored export documents in bytes",
				Buckets:   prometheus.ExponentialBuckets(1024, 4, 10), // 1KB to 256MB
			},
		),

		writeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "export_write_duration_seconds",
				Help:      "Duration of export writes including retention in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
		),

		readsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "export_reads_total",
				Help:      "Total number of export reads by operation and status",
			},
			[]string{"op", "status"},
		),

		readDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "export_read_duration_seconds",
				Help:      "Duration of export reads in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
			[]string{"op"},
		),

		pruneRuns: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "retention_runs_total",
				Help:      "Total number of retention passes",
			},
		),

		pruneFiles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "retention_files_total",
				Help:      "Export files handled by retention by outcome",
			},
			[]string{"outcome"},
		),

		pruneScanned: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "retention_scanned_files",
				Help:      "Number of export files seen by the last retention pass",
			},
		),

		pruneDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "retention_duration_seconds",
				Help:      "Duration of retention passes in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
		),
	}

	registry.MustRegister(
		em.writesTotal,
		em.writeBytes,
		em.writeDuration,
		em.readsTotal,
		em.readDuration,
		em.pruneRuns,
		em.pruneFiles,
		em.pruneScanned,
		em.pruneDuration,
	)

	return em
}

// RecordWrite records an export write.
func (em *ExportMetrics) RecordWrite(status string, bytes int, duration time.Duration) {
	em.writesTotal.WithLabelValues(status).Inc()
	em.writeDuration.Observe(duration.Seconds())
	if bytes > 0 {
		em.writeBytes.Observe(float64(bytes))
	}
}

// RecordRead records an export read.
func (em *ExportMetrics) RecordRead(op, status string, duration time.Duration) {
	em.readsTotal.WithLabelValues(op, status).Inc()
	em.readDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordPrune records a retention pass.
func (em *ExportMetrics) RecordPrune(result retention.Result) {
	em.pruneRuns.Inc()
	em.pruneFiles.WithLabelValues("deleted").Add(float64(result.Deleted))
	em.pruneFiles.WithLabelValues("vanished").Add(float64(result.Vanished))
	em.pruneFiles.WithLabelValues("failed").Add(float64(result.Failed))
	em.pruneScanned.Set(float64(result.Scanned))
	em.pruneDuration.Observe(result.Duration.Seconds())
}
