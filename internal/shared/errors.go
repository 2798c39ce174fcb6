package shared

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)

// PermissionDenied reports a denied authorization decision. The reason
// distinguishes the failing gate so callers can surface it verbatim.
type PermissionDenied struct {
	Reason string
}

func (e *PermissionDenied) Error() string {
	return e.Reason
}

// Denyf builds a PermissionDenied with a formatted reason.
func Denyf(format string, args ...any) *PermissionDenied {
	return &PermissionDenied{Reason: fmt.Sprintf(format, args...)}
}

// ValidationError reports malformed or missing input on a named field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// NotFound reports a lookup miss for a resource instance.
type NotFound struct {
	Kind string
	ID   string
}

func (e *NotFound) Error() string {
	if e.ID == "" {
		return e.Kind + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// InvariantViolation reports an operation that would break a cross-record
// invariant, such as deleting the active theme.
type InvariantViolation struct {
	Message string
}

func (e *InvariantViolation) Error() string {
	return e.Message
}

// IsDenied reports whether err is a PermissionDenied.
func IsDenied(err error) bool {
	var pd *PermissionDenied
	return errors.As(err, &pd)
}

// IsNotFound reports whether err is a NotFound.
func IsNotFound(err error) bool {
	var nf *NotFound
	return errors.As(err, &nf)
}
