package secrets

import "context"

// Static is a Source backed by a fixed value, typically from the config
// file or an environment variable. The empty string is not a secret.
type Static string

// Secret implements Source.
func (s Static) Secret(ctx context.Context) (string, error) {
	if s == "" {
		return "", ErrNotConfigured
	}
	return string(s), nil
}

// Provider implements Source.
func (s Static) Provider() string {
	return "static"
}
