package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrNotAvailable      = errors.New("animal is not available for adoption")
	ErrOutOfStock        = errors.New("product out of stock")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrConflict          = errors.New("status changed concurrently")
	ErrDuplicate         = errors.New("already exists")
)

// ValidationError reports a malformed submitted field. Reason is safe to show to the user.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason) }

func Invalid(field, reason string) error { return &ValidationError{Field: field, Reason: reason} }

// IsValidation reports whether err carries a ValidationError and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// NotificationError wraps a notifier failure. It is logged, never returned to a caller.
type NotificationError struct {
	To  string
	Err error
}

func (e *NotificationError) Error() string { return fmt.Sprintf("notify %s: %v", e.To, e.Err) }
func (e *NotificationError) Unwrap() error { return e.Err }
