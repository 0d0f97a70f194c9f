package exports

import "fmt"

// ValidationError reports a bundle that is missing a field or has a field of
// the wrong JSON type. No filesystem work happens once it is returned.
type ValidationError struct {
	Field   string // Offending field, empty when the body itself is unusable
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("field %q: %s", e.Field, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("invalid bundle: %s: %v", msg, e.Cause)
	}
	return "invalid bundle: " + msg
}

// Unwrap returns the underlying cause error.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NotFoundError is returned when no export file exists for a node name.
type NotFoundError struct {
	NodeName string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no export found for node %q", e.NodeName)
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(nodeName string) *NotFoundError {
	return &NotFoundError{NodeName: nodeName}
}

// StorageError represents a failed filesystem operation on the exports directory.
type StorageError struct {
	Op    string // Operation that failed ("mkdir", "write", "read", "list", ...)
	Path  string // File or directory involved
	Cause error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [op=%s, path=%s]: %v", e.Op, e.Path, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(op, path string, cause error) *StorageError {
	return &StorageError{
		Op:    op,
		Path:  path,
		Cause: cause,
	}
}
