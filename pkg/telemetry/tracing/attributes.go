package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys. HTTP keys follow the OpenTelemetry semantic conventions;
// service-specific keys use the "notesexport." namespace.
const (
	AttrHTTPMethod     = "http.request.method"
	AttrHTTPRoute      = "http.route"
	AttrHTTPStatusCode = "http.response.status_code"
	AttrURLPath        = "url.path"

	AttrRequestID = "notesexport.request_id"
	AttrNodeName  = "notesexport.node_name"
	AttrFile      = "notesexport.file"
	AttrBytes     = "notesexport.bytes"

	AttrPruneScanned = "notesexport.prune.scanned"
	AttrPruneDeleted = "notesexport.prune.deleted"
	AttrPruneFailed  = "notesexport.prune.failed"

	AttrErrorType = "error.type"
)

// SetExportAttributes describes the export a span worked on. Empty values
// are skipped.
func SetExportAttributes(span trace.Span, nodeName, file string) {
	attrs := make([]attribute.KeyValue, 0, 2)
	if nodeName != "" {
		attrs = append(attrs, attribute.String(AttrNodeName, nodeName))
	}
	if file != "" {
		attrs = append(attrs, attribute.String(AttrFile, file))
	}
	span.SetAttributes(attrs...)
}

// SetPruneAttributes records the outcome of a pruning pass.
func SetPruneAttributes(span trace.Span, scanned, deleted, failed int) {
	span.SetAttributes(
		attribute.Int(AttrPruneScanned, scanned),
		attribute.Int(AttrPruneDeleted, deleted),
		attribute.Int(AttrPruneFailed, failed),
	)
}
