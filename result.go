package parsec

// Result represents one successful match: a value and the number of input
// elements the match consumed. Zero, one, or many Results may be produced
// by a single parser invocation at a single position; ambiguity is
// first-class, not an error.
//
// A Result may additionally be a look-ahead: a speculative match yielded
// before it is known to be final. The consumer decides its fate by calling
// Resolve exactly once; see IsLookAhead.
type Result[T any] struct {
	// Value is the matched value.
	Value T

	// Length is the number of input elements consumed, >= 0.
	Length int

	look *lookAhead
}

// lookAhead is the deferred outcome slot of a speculative result.
// The producer reads the outcome after yield returns; the consumer must
// resolve before asking for the next result.
type lookAhead struct {
	resolved bool
	ok       bool
}

// newLookAhead returns a speculative Result carrying a fresh outcome slot.
func newLookAhead[T any](value T, length int) Result[T] {
	return Result[T]{Value: value, Length: length, look: &lookAhead{}}
}

// IsLookAhead reports whether this result is speculative. A look-ahead
// result is yielded before the match is known to be final; the consumer
// must call Resolve(true) to commit it or Resolve(false) to abandon it,
// exactly once, before requesting the producer's next result.
func (r Result[T]) IsLookAhead() bool {
	return r.look != nil
}

// Resolve commits (ok == true) or abandons (ok == false) a look-ahead
// result. Panics if the result is not a look-ahead, or if it has already
// been resolved; both are programmer errors, not input errors.
func (r Result[T]) Resolve(ok bool) {
	if r.look == nil {
		panic("parsec: Resolve called on a result that is not a look-ahead")
	}
	if r.look.resolved {
		panic("parsec: look-ahead result resolved twice")
	}
	r.look.resolved = true
	r.look.ok = ok
}

// committed reports whether the consumer resolved the look-ahead as a
// success. An unresolved look-ahead counts as abandoned: the producer keeps
// exploring longer candidates.
func (l *lookAhead) committed() bool {
	return l.resolved && l.ok
}
