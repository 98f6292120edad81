package model

import (
	"errors"
	"fmt"
)

// Sentinel error kinds shared by the analyzer stages. These allow errors.Is from callers.
var (
	// ErrInvalidInput marks malformed caller-supplied data.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInternalInvariant marks a contract breach between analyzer stages.
	ErrInternalInvariant = errors.New("internal invariant violation")
)

// FieldError pinpoints the offending field of a failed operation.
type FieldError struct {
	Kind   error
	Op     string
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %v: %s", e.Op, e.Kind, e.Reason)
	}
	return fmt.Sprintf("%s: %v: %s: %s", e.Op, e.Kind, e.Field, e.Reason)
}

// Unwrap exposes the sentinel kind.
func (e *FieldError) Unwrap() error { return e.Kind }

// InvalidInput returns an ErrInvalidInput FieldError.
func InvalidInput(op, field, reason string) error {
	return &FieldError{Kind: ErrInvalidInput, Op: op, Field: field, Reason: reason}
}

// InvariantViolation returns an ErrInternalInvariant FieldError.
func InvariantViolation(op, field, reason string) error {
	return &FieldError{Kind: ErrInternalInvariant, Op: op, Field: field, Reason: reason}
}

// IsInvalidInput reports whether err is (or wraps) ErrInvalidInput.
func IsInvalidInput(err error) bool { return errors.Is(err, ErrInvalidInput) }

// IsInternalInvariant reports whether err is (or wraps) ErrInternalInvariant.
func IsInternalInvariant(err error) bool { return errors.Is(err, ErrInternalInvariant) }

// FieldOf returns the offending field of err, or "" when err carries none.
func FieldOf(err error) string {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Field
	}
	return ""
}
