// Package parsec provides a parser-combinator engine over arbitrary
// element types.
//
// parsec parses any sequence of elements (bytes, runes, tokens, parsed
// domain objects) by composing small parsers into grammars:
//   - Sequencing and alternation (Bind, All, Any) with ambiguity as
//     first-class data: one invocation may yield many results
//   - Quantifiers (Exactly, AtLeast, NoneOrMore, OneOrMore), greedy and
//     non-greedy, with optional separators
//   - Delimited groups, including the multi-branch ambiguous variant
//   - Required-match escalation into structured errors
//
// Input is consumed through a branching cursor (package cursor) that
// buffers pulled elements, so grammars can backtrack and explore
// alternatives without re-reading the source. Forward-only cursors discard
// elements no live branch can reach, bounding memory by the outstanding
// backtrack distance rather than input length.
//
// Basic usage:
//
//	letter := parsec.NextWhere("letter", unicode.IsLetter)
//	digit := parsec.NextWhere("digit", unicode.IsDigit)
//	word := parsec.OneOrMore(letter)
//
//	value, length, err := parsec.FirstSlice(word, []rune("go1"))
//	// value = ['g','o'], length = 2
//	_ = digit
//
// Evaluation is single-threaded, synchronous, and pull-based: nothing runs
// until a result is requested, and only one logical branch pulls from the
// true source at any instant. A parse invocation and all branches it spawns
// must stay on one goroutine.
package parsec

import (
	"iter"
	"slices"

	"github.com/coregx/parsec/cursor"
)

// First applies p at the start of src and returns the first result's value
// and consumed length. It returns ErrNoMatch when p yields nothing, and the
// *ParseError when a Required wrapper inside the grammar fires. A
// speculative first result is committed.
func First[S, R any](p Parser[S, R], src iter.Seq[S]) (R, int, error) {
	c := cursor.New(src, cursor.DefaultConfig())
	defer c.Close()

	var value R
	length := -1
	if err := capture(func() {
		value, length, _ = firstAt(p, c)
	}); err != nil {
		var zero R
		return zero, -1, err
	}
	if length < 0 {
		var zero R
		return zero, -1, ErrNoMatch
	}
	return value, length, nil
}

// FirstSlice is First over a slice.
func FirstSlice[S, R any](p Parser[S, R], elems []S) (R, int, error) {
	return First(p, slices.Values(elems))
}

// MustFirst is First, panicking on any error. Useful in tests and for
// grammars known to match.
func MustFirst[S, R any](p Parser[S, R], src iter.Seq[S]) (R, int) {
	v, n, err := First(p, src)
	if err != nil {
		panic("parsec: MustFirst: " + err.Error())
	}
	return v, n
}

// Each applies p at the start of src and calls fn for every result, in
// order, until fn returns false or results run out. Every result handed to
// fn is committed first, so a non-greedy producer stops after the first
// result fn receives. Required failures are returned, not panicked.
func Each[S, R any](p Parser[S, R], src iter.Seq[S], fn func(value R, length int) bool) error {
	c := cursor.New(src, cursor.DefaultConfig())
	defer c.Close()
	return capture(func() {
		for r := range p.Parse(c) {
			if r.IsLookAhead() {
				r.Resolve(true)
			}
			if !fn(r.Value, r.Length) {
				return
			}
		}
	})
}

// Results applies p at the start of src and returns the (value, length)
// pairs of all results. Look-ahead results are committed as they are
// yielded. Unlike the other drivers, Required failures propagate as panics
// to the enumerating caller; use Each or First to get them as errors.
func Results[S, R any](p Parser[S, R], src iter.Seq[S]) iter.Seq2[R, int] {
	return func(yield func(R, int) bool) {
		c := cursor.New(src, cursor.DefaultConfig())
		defer c.Close()
		for r := range p.Parse(c) {
			if r.IsLookAhead() {
				r.Resolve(true)
			}
			if !yield(r.Value, r.Length) {
				return
			}
		}
	}
}

// Matches enumerates successive non-overlapping matches of p against the
// given root cursor, taking the first result at each position and skipping
// one element when nothing matches. Zero-width matches still advance by one
// element, guaranteeing progress. The caller owns the cursor: configure it
// forward-only to parse unbounded input in bounded memory, and close it
// when done. Required failures propagate as panics; EachMatch returns them
// as errors instead.
func Matches[S, R any](p Parser[S, R], c *cursor.Cursor[S]) iter.Seq2[R, int] {
	return func(yield func(R, int) bool) {
		for {
			// Gate on an element being present: parsers that match without
			// reading (zero-width) would otherwise never observe the end.
			if _, ok := c.Peek(); !ok {
				return
			}
			v, n, err := firstAt(p, c)
			if err != nil {
				// ErrNoMatch is the only error firstAt returns outside a
				// panic; skip one element and retry.
				c.Move(1)
				continue
			}
			if !yield(v, n) {
				return
			}
			c.Move(max(n, 1))
		}
	}
}

// EachMatch runs Matches over src with the given cursor configuration,
// calling fn for each match and converting Required failures into a
// returned error.
func EachMatch[S, R any](p Parser[S, R], src iter.Seq[S], cfg cursor.Config, fn func(value R, length int) bool) error {
	c := cursor.New(src, cfg)
	defer c.Close()
	return capture(func() {
		for v, n := range Matches(p, c) {
			if !fn(v, n) {
				return
			}
		}
	})
}

// firstAt takes p's first result at the cursor's position, committing it if
// speculative. It does not move the cursor.
func firstAt[S, R any](p Parser[S, R], c *cursor.Cursor[S]) (R, int, error) {
	var value R
	length := -1
	for r := range p.Parse(c) {
		if r.IsLookAhead() {
			r.Resolve(true)
		}
		value = r.Value
		length = r.Length
		break
	}
	if length < 0 {
		var zero R
		return zero, -1, ErrNoMatch
	}
	return value, length, nil
}

// capture converts a *ParseError panic into a returned error; anything else
// keeps propagating.
func capture(f func()) (err error) {
	defer func() {
		if x := recover(); x != nil {
			if pe, ok := x.(*ParseError); ok {
				err = pe
				return
			}
			panic(x)
		}
	}()
	f()
	return nil
}
