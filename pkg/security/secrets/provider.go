package secrets

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by a Source that has no secret to offer.
var ErrNotConfigured = errors.New("secret is not configured")

// Source supplies the current value of a single secret.
//
// Implementations must be safe for concurrent use. A Source whose backing
// value can change (a watched file) returns the latest value on every call.
type Source interface {
	// Secret returns the current value. It returns an error wrapping
	// ErrNotConfigured when no value is available.
	Secret(ctx context.Context) (string, error)

	// Provider returns the source name ("static", "file").
	Provider() string
}
