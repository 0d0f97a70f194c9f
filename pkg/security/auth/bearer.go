package auth

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"mercator-hq/notesexport/pkg/security/secrets"
)

const bearerPrefix = "Bearer "

// BearerAuthenticator checks the Authorization header against a shared
// secret.
type BearerAuthenticator struct {
	source secrets.Source
}

// NewBearerAuthenticator creates an authenticator backed by source.
func NewBearerAuthenticator(source secrets.Source) *BearerAuthenticator {
	return &BearerAuthenticator{source: source}
}

// Authenticate returns nil when r carries the configured token.
//
// The server-side token is resolved first: without one every request fails
// with ErrNotConfigured, whatever it carries.
func (a *BearerAuthenticator) Authenticate(ctx context.Context, r *http.Request) error {
	if a.source == nil {
		return &AuthError{Reason: ErrNotConfigured}
	}
	expected, err := a.source.Secret(ctx)
	if err != nil {
		return &AuthError{Reason: ErrNotConfigured, Cause: err}
	}

	token, ok := BearerToken(r)
	if !ok {
		return &AuthError{Reason: ErrMissingCredentials}
	}

	if subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
		return &AuthError{Reason: ErrInvalidCredentials}
	}
	return nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is matched exactly, as clients send it.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := header[len(bearerPrefix):]
	if token == "" {
		return "", false
	}
	return token, true
}
