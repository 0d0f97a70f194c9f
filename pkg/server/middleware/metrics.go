package middleware

import (
	"net/http"
	"time"
)

// HTTPRecorder receives per-request measurements.
type HTTPRecorder interface {
	RecordHTTPRequest(route, method string, code int, duration time.Duration)
	TrackInFlight() func()
}

// Metrics records request counts and latencies. Requests are labelled with
// the mux pattern that served them, never the raw path, so arbitrary URLs
// cannot inflate label cardinality. Requests no pattern matched are
// labelled "unmatched".
//
// http.ServeMux records the matched pattern in r.Pattern on the request it
// is given, so Metrics must pass r through to the mux unchanged.
func Metrics(recorder HTTPRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if recorder == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			done := recorder.TrackInFlight()
			defer done()

			start := time.Now()
			rw := newStatusRecorder(w)

			next.ServeHTTP(rw, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			recorder.RecordHTTPRequest(route, r.Method, rw.status, time.Since(start))
		})
	}
}
