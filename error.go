package parsec

import (
	"errors"
	"fmt"
)

// Common engine errors
var (
	// ErrNoMatch indicates a driver found no result at all. "No match" is
	// values, not control flow, everywhere inside the engine; only drivers
	// and Required turn emptiness into an error.
	ErrNoMatch = errors.New("parsec: no match")
)

// ParseError is the one user-input-facing failure kind: a required match
// was absent. It carries the 0-based input index recorded when the
// Required wrapper was invoked, before any partial backtracking.
type ParseError struct {
	// Index is the cursor position at the time Required delegated to its
	// inner parser.
	Index int

	// Message is the fixed or lazily computed description, if any.
	Message string

	// Err is the caller-supplied cause, if any.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("parse error at index %d: %s: %v", e.Index, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("parse error at index %d: %s", e.Index, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("parse error at index %d: %v", e.Index, e.Err)
	default:
		return fmt.Sprintf("parse error at index %d", e.Index)
	}
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Err
}
