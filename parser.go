package parsec

import (
	"iter"

	"github.com/coregx/parsec/cursor"
)

// Seq is the lazy sequence of results produced by one parser invocation.
// Nothing runs until the consumer pulls; abandoning enumeration stops the
// producer. Results are yielded in the order the contributing sub-parsers
// were tried.
type Seq[R any] = iter.Seq[Result[R]]

// Parser is a named, composable function from a cursor over S to a lazy
// sequence of results over R.
//
// Contract: a parser never changes the position of the cursor it is handed.
// It obtains continuation positions by branching (see cursor.Remainder) and
// closes every branch it opens. This is what lets combinators try a match,
// fail, and retry from the same starting point using a different
// alternative.
type Parser[S, R any] struct {
	name  string
	parse func(*cursor.Cursor[S]) Seq[R]
}

// Define constructs a parser from a cursor-consuming function. The name is
// a diagnostic label only; it carries no semantics.
func Define[S, R any](name string, parse func(*cursor.Cursor[S]) Seq[R]) Parser[S, R] {
	if parse == nil {
		panic("parsec: Define called with a nil parse function")
	}
	return Parser[S, R]{name: name, parse: parse}
}

// Name returns the parser's diagnostic label.
func (p Parser[S, R]) Name() string {
	return p.name
}

// WithName returns a copy of the parser carrying the given label.
func (p Parser[S, R]) WithName(name string) Parser[S, R] {
	p.name = name
	return p
}

// Parse applies the parser at the cursor's current position.
func (p Parser[S, R]) Parse(c *cursor.Cursor[S]) Seq[R] {
	if p.parse == nil {
		panic("parsec: Parse called on the zero Parser")
	}
	return p.parse(c)
}

// Next returns the primitive single-element parser: it matches the next
// input element, whatever it is, with length 1. It yields nothing at the
// end of the sequence. Derived combinators that need raw element access are
// built on it.
func Next[S any]() Parser[S, S] {
	return Define("next", func(c *cursor.Cursor[S]) Seq[S] {
		return func(yield func(Result[S]) bool) {
			if v, ok := c.Peek(); ok {
				yield(Result[S]{Value: v, Length: 1})
			}
		}
	})
}

// NextWhere matches the next input element only if pred accepts it.
func NextWhere[S any](name string, pred func(S) bool) Parser[S, S] {
	return Define(name, func(c *cursor.Cursor[S]) Seq[S] {
		return func(yield func(Result[S]) bool) {
			if v, ok := c.Peek(); ok && pred(v) {
				yield(Result[S]{Value: v, Length: 1})
			}
		}
	})
}

// Return succeeds exactly once with the given value, consuming nothing.
func Return[S, R any](value R) Parser[S, R] {
	return Define("return", func(*cursor.Cursor[S]) Seq[R] {
		return func(yield func(Result[R]) bool) {
			yield(Result[R]{Value: value, Length: 0})
		}
	})
}
