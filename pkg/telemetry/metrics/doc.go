// Package metrics provides Prometheus metrics for the notes export service.
//
// # Overview
//
// The Collector owns a dedicated Prometheus registry and records:
//
//   - Export writes: count by outcome, stored size, duration
//   - Export reads: count by operation and outcome, duration
//   - Retention: pruning passes, files removed or failed, files scanned
//   - HTTP: request count by route, method and status code, duration,
//     requests in flight
//   - Go runtime and process metrics
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	store.SetRecorder(collector)
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
// A disabled collector accepts every call and records nothing.
package metrics
