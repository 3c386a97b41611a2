package graph

import (
	"fmt"
)

// WriteError is a store call that failed for a reason other than an
// idempotent-merge conflict. It carries the statement identity, never the
// parameter map, so profile PII stays out of logs and error chains.
type WriteError struct {
	Statement string
	Cause     error
}

// Error implements the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("graph write %s: %v", e.Statement, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *WriteError) Unwrap() error {
	return e.Cause
}
