// Package tracing provides OpenTelemetry tracing for the export server.
//
// Spans are exported over OTLP gRPC. Incoming requests continue the client's
// trace when they carry a W3C traceparent header:
//
//	traceparent: 00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01
//
// # Sampling
//
//   - always: sample all traces (development)
//   - never: sample nothing
//   - ratio: sample a fraction of new traces by trace ID
//
// All samplers respect the parent's sampling decision.
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "exports.write")
//	defer span.End()
//	tracing.SetExportAttributes(span, "laptop", filename)
//
// Span names used by the server:
//
//	HTTP POST /api/notes/export
//	├── exports.write
//	│   └── exports.prune
//	HTTP GET /api/notes/export/node-names
//	└── exports.latest | exports.list
package tracing
