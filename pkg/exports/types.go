package exports

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Bundle field names as they appear on the wire and on disk.
const (
	FieldVersion    = "version"
	FieldSalt       = "salt"
	FieldIV         = "iv"
	FieldCiphertext = "ciphertext"
	FieldNodeName   = "nodeName"
)

// Bundle is one client-encrypted export. Salt, IV and Ciphertext are opaque
// encoded strings; Version describes the client's envelope format and is kept
// exactly as received.
type Bundle struct {
	Version    json.Number `json:"version"`
	Salt       string      `json:"salt"`
	IV         string      `json:"iv"`
	Ciphertext string      `json:"ciphertext"`
	NodeName   string      `json:"nodeName"`

	// raw is the document the bundle was parsed from. Fields the server does
	// not know about are preserved through it.
	raw json.RawMessage
}

// ParseBundle validates a JSON document and returns the bundle it describes.
//
// The document must be a JSON object whose version is a number and whose
// salt, iv, ciphertext and nodeName are strings. Unknown fields are allowed
// and kept. Any violation is reported as a *ValidationError.
func ParseBundle(data []byte) (*Bundle, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, NewValidationError("", "body must be a JSON object")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, &ValidationError{Message: "malformed JSON", Cause: err}
	}

	b := &Bundle{}

	version, err := numberField(fields, FieldVersion)
	if err != nil {
		return nil, err
	}
	b.Version = version

	for _, f := range []struct {
		name string
		dst  *string
	}{
		{FieldSalt, &b.Salt},
		{FieldIV, &b.IV},
		{FieldCiphertext, &b.Ciphertext},
		{FieldNodeName, &b.NodeName},
	} {
		if err := stringField(fields, f.name, f.dst); err != nil {
			return nil, err
		}
	}

	if err := ValidateNodeName(b.NodeName); err != nil {
		return nil, err
	}

	b.raw = append(json.RawMessage(nil), trimmed...)
	return b, nil
}

// ValidateNodeName rejects names that would escape the exports directory when
// embedded in a filename.
func ValidateNodeName(name string) error {
	if strings.ContainsAny(name, "/\\\x00") {
		return NewValidationError(FieldNodeName, "must not contain path separators")
	}
	return nil
}

// Raw returns the document the bundle was parsed from, or nil for bundles
// built in code.
func (b *Bundle) Raw() json.RawMessage {
	return b.raw
}

// MarshalIndent renders the bundle the way it is stored on disk: the full
// document, indented with two spaces.
func (b *Bundle) MarshalIndent() ([]byte, error) {
	if len(b.raw) == 0 {
		return json.MarshalIndent(b, "", "  ")
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, b.raw, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func numberField(fields map[string]json.RawMessage, name string) (json.Number, error) {
	raw, ok := fields[name]
	if !ok {
		return "", NewValidationError(name, "is required")
	}
	if len(raw) == 0 || (raw[0] != '-' && (raw[0] < '0' || raw[0] > '9')) {
		return "", NewValidationError(name, "must be a number")
	}
	return json.Number(raw), nil
}

func stringField(fields map[string]json.RawMessage, name string, dst *string) error {
	raw, ok := fields[name]
	if !ok {
		return NewValidationError(name, "is required")
	}
	if len(raw) == 0 || raw[0] != '"' {
		return NewValidationError(name, "must be a string")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &ValidationError{Field: name, Message: "must be a string", Cause: err}
	}
	return nil
}

// Clock reports the current instant. The writer and the pruner must share one
// so that "today" means the same day to both.
type Clock func() time.Time
