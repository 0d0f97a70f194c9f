package logging

import (
	"log/slog"
	"regexp"
	"strings"
)

// Redacted replaces the value of a sensitive attribute.
const Redacted = "***"

// sensitiveSubstrings mark a key as sensitive wherever they appear in it.
var sensitiveSubstrings = []string{
	"password", "passwd",
	"secret", "token",
	"authorization", "api_key", "apikey",
	"private_key", "privatekey",
	"ciphertext",
}

// sensitiveExact are too short to match as substrings ("iv" would hit
// "active").
var sensitiveExact = []string{"iv", "salt", "auth", "pwd"}

// valuePatterns are masked inside any string value, whatever its key.
var valuePatterns = []struct {
	regex       *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)Bearer\s+[a-zA-Z0-9\-._~+/]+=*`), "Bearer " + Redacted},
	{regexp.MustCompile(`(?i)(password|passwd|pwd|token|secret)[:=]\s*[^\s&]+`), "$1=" + Redacted},
}

// Redactor masks secrets in log attributes.
type Redactor struct {
	keys map[string]struct{}
}

// NewRedactor creates a Redactor with the built-in key list plus extra keys.
func NewRedactor(extraKeys []string) *Redactor {
	r := &Redactor{keys: make(map[string]struct{})}
	for _, k := range sensitiveExact {
		r.keys[k] = struct{}{}
	}
	for _, k := range extraKeys {
		r.keys[strings.ToLower(k)] = struct{}{}
	}
	return r
}

// IsSensitiveKey reports whether values logged under key are masked.
func (r *Redactor) IsSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	if _, ok := r.keys[lowerKey]; ok {
		return true
	}
	for _, s := range sensitiveSubstrings {
		if strings.Contains(lowerKey, s) {
			return true
		}
	}
	return false
}

// RedactString masks bearer tokens and key=value secrets inside s.
func (r *Redactor) RedactString(s string) string {
	if s == "" {
		return s
	}
	for _, p := range valuePatterns {
		s = p.regex.ReplaceAllString(s, p.replacement)
	}
	return s
}

// RedactAttr returns a with sensitive content masked. Groups are walked
// recursively.
func (r *Redactor) RedactAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			out[i] = r.RedactAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}

	if r.IsSensitiveKey(a.Key) {
		return slog.String(a.Key, Redacted)
	}

	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return slog.String(a.Key, r.RedactString(v.String()))
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return slog.String(a.Key, r.RedactString(err.Error()))
		}
	}
	return slog.Attr{Key: a.Key, Value: v}
}
