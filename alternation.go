package parsec

import (
	"github.com/coregx/parsec/cursor"
)

// Any tries each alternative in turn at the same position and yields the
// union of all their results, in the order the alternatives were given.
// Ambiguity is preserved: this is not first-match-wins. Wrap the result in
// a determinism-imposing combinator if the grammar requires a single parse.
func Any[S, R any](parsers ...Parser[S, R]) Parser[S, R] {
	return Define("any", func(c *cursor.Cursor[S]) Seq[R] {
		return func(yield func(Result[R]) bool) {
			for _, p := range parsers {
				for r := range p.Parse(c) {
					if !yield(r) {
						return
					}
				}
			}
		}
	})
}

// Not succeeds with a single zero-width match exactly when p yields no
// result at the current position. It consumes nothing; use it for exclusion
// look-ahead such as "any element not opening a group".
func Not[S, R any](p Parser[S, R]) Parser[S, struct{}] {
	return Define("not", func(c *cursor.Cursor[S]) Seq[struct{}] {
		return func(yield func(Result[struct{}]) bool) {
			for r := range p.Parse(c) {
				// Even a speculative match counts as a match; abandon the
				// speculation rather than leave the handle pending.
				if r.IsLookAhead() {
					r.Resolve(false)
				}
				return
			}
			yield(Result[struct{}]{Length: 0})
		}
	})
}

// Optional yields all of p's results; when p yields none, it succeeds once
// with the zero value and length 0.
func Optional[S, R any](p Parser[S, R]) Parser[S, R] {
	return Define("optional", func(c *cursor.Cursor[S]) Seq[R] {
		return func(yield func(Result[R]) bool) {
			matched := false
			for r := range p.Parse(c) {
				matched = true
				if !yield(r) {
					return
				}
			}
			if !matched {
				var zero R
				yield(Result[R]{Value: zero, Length: 0})
			}
		}
	})
}

// Void erases a parser's value type, keeping its match lengths. Use it to
// pass arbitrary parsers where only the consumed span matters, such as
// quantifier separators.
func Void[S, R any](p Parser[S, R]) Parser[S, struct{}] {
	return Define("void", func(c *cursor.Cursor[S]) Seq[struct{}] {
		return func(yield func(Result[struct{}]) bool) {
			for r := range p.Parse(c) {
				out := Result[struct{}]{Length: r.Length, look: r.look}
				if !yield(out) {
					return
				}
			}
		}
	})
}
