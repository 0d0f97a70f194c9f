package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"mercator-hq/notesexport/pkg/exports"
	"mercator-hq/notesexport/pkg/security/auth"
)

// Client-facing error messages. Clients match on these strings, so they are
// part of the API.
const (
	MsgInvalidPayload  = "Invalid payload."
	MsgUnauthorized    = "Unauthorized."
	MsgNotFound        = "Export not found."
	MsgPayloadTooLarge = "Payload too large."
	MsgServerError     = "Server error."
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFor maps an error to its HTTP status and client message. Anything
// unrecognised is a server error.
func statusFor(err error) (int, string) {
	var (
		validationErr *exports.ValidationError
		notFoundErr   *exports.NotFoundError
		authErr       *auth.AuthError
		maxBytesErr   *http.MaxBytesError
	)

	switch {
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge, MsgPayloadTooLarge
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, MsgInvalidPayload
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound, MsgNotFound
	case errors.As(err, &authErr):
		if authErr.StatusCode() == http.StatusUnauthorized {
			return http.StatusUnauthorized, MsgUnauthorized
		}
		return http.StatusInternalServerError, MsgServerError
	default:
		return http.StatusInternalServerError, MsgServerError
	}
}

// writeError renders err as a JSON error body. Server errors are logged
// with their cause; the client only sees the generic message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := statusFor(err)

	if code >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
		)
	} else {
		s.logger.DebugContext(r.Context(), "request rejected",
			"error", err,
			"status", code,
		)
	}

	writeJSON(w, code, ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("failed to write response body", "error", err)
	}
}
