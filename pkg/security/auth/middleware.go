package auth

import (
	"log/slog"
	"net/http"
)

// ErrorWriter renders an authentication failure. The server supplies one
// so that auth failures share the JSON error format of every other route.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Middleware wraps handlers with bearer authentication. A nil authenticator
// disables the check.
func Middleware(a *BearerAuthenticator, writeError ErrorWriter) func(http.Handler) http.Handler {
	logger := slog.Default().With("component", "auth")

	return func(next http.Handler) http.Handler {
		if a == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := a.Authenticate(r.Context(), r); err != nil {
				level := slog.LevelWarn
				if authErr, ok := err.(*AuthError); ok && authErr.StatusCode() >= http.StatusInternalServerError {
					level = slog.LevelError
				}
				logger.Log(r.Context(), level, "request not authenticated",
					"error", err,
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
				)
				writeError(w, r, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
