package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a malformed or incomplete input document.
	// Not retryable; fails that one record only.
	ErrValidation = errors.New("validation failed")
)

// Validationf wraps ErrValidation with field-level context so callers can
// match with errors.Is while still surfacing a useful message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
