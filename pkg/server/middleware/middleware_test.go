package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercator-hq/notesexport/pkg/config"
	"mercator-hq/notesexport/pkg/telemetry/logging"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
})

func defaultCORS(t *testing.T) *CORS {
	t.Helper()
	cfg := config.Defaults().Server.CORS
	c, err := NewCORS(cfg)
	require.NoError(t, err)
	return c
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logging.GetRequestID(r.Context())
	}))

	t.Run("generates an ID when none is provided", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		id := rec.Header().Get(RequestIDHeader)
		assert.Len(t, id, 36)
		assert.Equal(t, id, seen)
	})

	t.Run("reuses the client ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "client-id-1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "client-id-1", rec.Header().Get(RequestIDHeader))
		assert.Equal(t, "client-id-1", seen)
	})

	t.Run("replaces an oversized client ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, string(bytes.Repeat([]byte("x"), 500)))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
	})
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Config{Level: "debug", Format: "json", Writer: &buf})
	require.NoError(t, err)

	handler := RequestID(Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/notes/export/node-names", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &entry))
	assert.Equal(t, "request completed", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, float64(http.StatusNotFound), entry["status"])
	assert.Equal(t, "req-42", entry["request_id"])
	assert.Equal(t, "http", entry["component"])
}

func TestRecovery(t *testing.T) {
	var written error
	writeError := func(w http.ResponseWriter, r *http.Request, err error) {
		written = err
		w.WriteHeader(http.StatusInternalServerError)
	}
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	t.Run("panic becomes a 500", func(t *testing.T) {
		handler := Recovery(logger, writeError)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		assert.NotPanics(t, func() {
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		var panicErr *PanicError
		require.True(t, errors.As(written, &panicErr))
		assert.Equal(t, "boom", panicErr.Value)
	})

	t.Run("abort handler is re-panicked", func(t *testing.T) {
		handler := Recovery(logger, writeError)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic(http.ErrAbortHandler)
		}))

		assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		})
	})

	t.Run("normal requests pass through", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Recovery(logger, writeError)(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestCORS_Defaults(t *testing.T) {
	handler := defaultCORS(t).Handler(okHandler)

	t.Run("simple request gets a wildcard origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/notes/export/node-names", nil)
		req.Header.Set("Origin", "https://notes.example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "X-Request-ID", rec.Header().Get("Access-Control-Expose-Headers"))
	})

	t.Run("preflight reflects requested headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/notes/export", nil)
		req.Header.Set("Origin", "https://notes.example.com")
		req.Header.Set("Access-Control-Request-Method", "POST")
		req.Header.Set("Access-Control-Request-Headers", "authorization,content-type")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET,HEAD,PUT,PATCH,POST,DELETE", rec.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "authorization,content-type", rec.Header().Get("Access-Control-Allow-Headers"))
		assert.Contains(t, rec.Header().Values("Vary"), "Access-Control-Request-Headers")
		assert.Empty(t, rec.Body.String())
	})
}

func TestCORS_OriginPatterns(t *testing.T) {
	c, err := NewCORS(config.CORSConfig{
		Enabled:          true,
		AllowedOrigins:   []string{"https://*.example.com", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		MaxAge:           600,
		AllowCredentials: true,
	})
	require.NoError(t, err)
	handler := c.Handler(okHandler)

	tests := []struct {
		origin  string
		allowed bool
	}{
		{origin: "https://app.example.com", allowed: true},
		{origin: "http://localhost:3000", allowed: true},
		{origin: "https://example.org", allowed: false},
		{origin: "http://app.example.com", allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/api/notes/export", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusNoContent, rec.Code)
			assert.Contains(t, rec.Header().Values("Vary"), "Origin")
			if tt.allowed {
				assert.Equal(t, tt.origin, rec.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
			}
			assert.Equal(t, "Authorization,Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
			assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
			assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}

func TestCORS_Disabled(t *testing.T) {
	c, err := NewCORS(config.CORSConfig{Enabled: false, AllowedOrigins: []string{"*"}})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	c.Handler(okHandler).ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

type recordedRequest struct {
	route  string
	method string
	code   int
}

type fakeHTTPRecorder struct {
	mu       sync.Mutex
	requests []recordedRequest
	inFlight int
	peak     int
}

func (f *fakeHTTPRecorder) RecordHTTPRequest(route, method string, code int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, recordedRequest{route: route, method: method, code: code})
}

func (f *fakeHTTPRecorder) TrackInFlight() func() {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.peak {
		f.peak = f.inFlight
	}
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}
}

func TestMetrics_LabelsWithRoutePattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("GET /items/{id}", okHandler)

	recorder := &fakeHTTPRecorder{}
	handler := Metrics(recorder)(mux)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/42", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope/1", nil))

	require.Len(t, recorder.requests, 2)
	assert.Equal(t, recordedRequest{route: "GET /items/{id}", method: http.MethodGet, code: http.StatusOK}, recorder.requests[0])
	assert.Equal(t, recordedRequest{route: "unmatched", method: http.MethodGet, code: http.StatusNotFound}, recorder.requests[1])
	assert.Equal(t, 1, recorder.peak)
	assert.Equal(t, 0, recorder.inFlight)
}

func TestMetrics_NilRecorder(t *testing.T) {
	rec := httptest.NewRecorder()
	Metrics(nil)(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
