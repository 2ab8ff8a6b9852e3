package parsec

import (
	"github.com/coregx/parsec/cursor"
)

// Required escalates "no match" into a structured failure. It records the
// cursor's index before delegating; results from the wrapped parser pass
// through unchanged, but zero results raise a *ParseError carrying the
// recorded index and the given message.
//
// This is the only point in the engine where absence of a match becomes an
// exception rather than an empty result sequence. The failure propagates as
// a panic and is recovered by the drivers (First, Each, ...), which return
// it as an error.
func Required[S, R any](p Parser[S, R], message string) Parser[S, R] {
	return RequiredFunc(p, func(index int) error {
		return &ParseError{Index: index, Message: message}
	}).WithName("required")
}

// RequiredMessage is Required with a lazily computed message: fail runs
// only when the wrapped parser yields nothing.
func RequiredMessage[S, R any](p Parser[S, R], message func(index int) string) Parser[S, R] {
	return RequiredFunc(p, func(index int) error {
		return &ParseError{Index: index, Message: message(index)}
	}).WithName("required")
}

// RequiredFunc is Required with a caller-supplied error factory. A factory
// error that is not already a *ParseError is wrapped in one carrying the
// recorded index.
func RequiredFunc[S, R any](p Parser[S, R], fail func(index int) error) Parser[S, R] {
	return Define("required", func(c *cursor.Cursor[S]) Seq[R] {
		return func(yield func(Result[R]) bool) {
			index := c.Index()
			matched := false
			for r := range p.Parse(c) {
				matched = true
				if !yield(r) {
					return
				}
			}
			if !matched {
				err := fail(index)
				if pe, ok := err.(*ParseError); ok {
					panic(pe)
				}
				panic(&ParseError{Index: index, Err: err})
			}
		}
	})
}
