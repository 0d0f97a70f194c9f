/*
Package middleware provides the HTTP middleware chain of the notes export
server.

The server applies them outermost first:

	Recovery -> RequestID -> Tracing -> Logging -> CORS -> Metrics -> mux

Recovery turns panics into the JSON 500 body. RequestID stores an ID in the
context for the logging handler. Tracing starts the server span early so
that request logs carry its trace ID. CORS answers preflight requests before the
mux, which would otherwise reject OPTIONS with 405. Metrics wraps the mux
directly so it can label requests with the matched route pattern; Tracing
reads the same pattern, so nothing between it and the mux may replace the
request.
*/
package middleware
