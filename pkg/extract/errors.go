package extract

import (
	"fmt"
)

// Error is an extraction failure: the classification service was reached but
// returned output that could not be normalized into a list of tech labels,
// or the call itself failed. Not retried at this layer; the caller decides
// resilience.
type Error struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("tech extraction: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("tech extraction: %s", e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(message string, cause error) *Error {
	return &Error{Message: message, Cause: cause}
}
