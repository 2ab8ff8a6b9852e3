package parsec

import (
	"github.com/coregx/parsec/cursor"
)

// addLengths is the default length selector: the combined span of two
// adjacent matches is the sum of their spans.
func addLengths(first, second int) int {
	return first + second
}

// Bind is sequential composition: for every result of first, the parser
// chosen by selector runs on the remainder cursor positioned after that
// match. The combined value is the second parser's value and the combined
// length is the sum of both lengths. Use BindWith to override either.
func Bind[S, A, B any](first Parser[S, A], selector func(A) Parser[S, B]) Parser[S, B] {
	return BindWith(first, selector,
		func(_ A, b B) B { return b },
		addLengths)
}

// Then runs second after first and combines their values with project.
// It is Bind with a fixed continuation.
func Then[S, A, B, C any](first Parser[S, A], second Parser[S, B], project func(A, B) C) Parser[S, C] {
	return BindWith(first,
		func(A) Parser[S, B] { return second },
		project,
		addLengths)
}

// BindWith is the general form of sequential composition, with an explicit
// result selector and length selector (for cases where the combined span is
// not simply additive, e.g. zero-width assertions over already-counted
// content).
//
// Look-ahead protocol: when a first-parser result is speculative, the
// continuation is explored only to decide its fate. A finalized continuation
// result commits the look-ahead and ends that branch. A continuation result
// that is itself speculative is not yet a success: it is passed downstream,
// and only a downstream commit resolves the upstream look-ahead; an
// abandoned candidate keeps the upstream pending while longer continuations
// are tried. If no continuation ever succeeds, the look-ahead is abandoned
// and the next first-parser result is tried. This is the mechanism by which
// non-greedy quantifiers avoid materializing every possible match.
func BindWith[S, A, B, C any](
	first Parser[S, A],
	selector func(A) Parser[S, B],
	project func(A, B) C,
	combineLengths func(int, int) int,
) Parser[S, C] {
	return Define("bind", func(c *cursor.Cursor[S]) Seq[C] {
		return func(yield func(Result[C]) bool) {
			for ra := range first.Parse(c) {
				rest := c.Remainder(ra.Length)
				second := selector(ra.Value).Parse(rest)

				if ra.IsLookAhead() {
					committed := false
					stopped := false
					for rb := range second {
						out := Result[C]{
							Value:  project(ra.Value, rb.Value),
							Length: combineLengths(ra.Length, rb.Length),
							look:   rb.look,
						}
						if !rb.IsLookAhead() {
							// A finalized continuation decides the
							// speculation; stop producing further
							// continuations for this branch.
							ra.Resolve(true)
							committed = true
							stopped = !yield(out)
							break
						}
						// The continuation is itself speculative: only its
						// downstream fate decides the upstream speculation.
						if !yield(out) {
							stopped = true
							break
						}
						if rb.look.committed() {
							ra.Resolve(true)
							committed = true
							break
						}
						// Abandoned candidate; try the continuation's next
						// offer before giving up on ra.
					}
					if !committed && !stopped {
						ra.Resolve(false)
					}
					rest.Close()
					if stopped {
						return
					}
					// The upstream producer learns the outcome when its next
					// result is requested.
					continue
				}

				for rb := range second {
					out := Result[C]{
						Value:  project(ra.Value, rb.Value),
						Length: combineLengths(ra.Length, rb.Length),
						look:   rb.look,
					}
					if !yield(out) {
						rest.Close()
						return
					}
				}
				rest.Close()
			}
		}
	})
}

// Select projects every result value through the given function, keeping
// lengths and speculation intact.
func Select[S, A, B any](p Parser[S, A], project func(A) B) Parser[S, B] {
	return Define("select", func(c *cursor.Cursor[S]) Seq[B] {
		return func(yield func(Result[B]) bool) {
			for r := range p.Parse(c) {
				out := Result[B]{Value: project(r.Value), Length: r.Length, look: r.look}
				if !yield(out) {
					return
				}
			}
		}
	})
}

// All sequences the given parsers, each continuing from the previous one's
// remainder. The combined value is the flattened, in-order slice of element
// values regardless of how calls are grouped, and the combined length is
// the sum of the components. With no parsers it succeeds once with an empty
// slice and length 0.
func All[S, R any](parsers ...Parser[S, R]) Parser[S, []R] {
	acc := Return[S, []R](nil)
	for _, p := range parsers {
		acc = BindWith(acc,
			func([]R) Parser[S, R] { return p },
			func(values []R, v R) []R {
				// Copy before append: ambiguous continuations must not
				// share accumulator backing arrays.
				out := make([]R, len(values), len(values)+1)
				copy(out, values)
				return append(out, v)
			},
			addLengths)
	}
	return acc.WithName("all")
}
