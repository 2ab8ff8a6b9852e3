package parsec

import (
	"github.com/coregx/parsec/cursor"
)

// Group matches open, then content, then close, in sequence, and yields
// only content's value. The length is the sum of all three spans.
func Group[S, A, B, C any](open Parser[S, A], content Parser[S, B], close Parser[S, C]) Parser[S, B] {
	openContent := BindWith(open,
		func(A) Parser[S, B] { return content },
		func(_ A, b B) B { return b },
		addLengths)
	return BindWith(openContent,
		func(B) Parser[S, C] { return close },
		func(b B, _ C) B { return b },
		addLengths).WithName("group")
}

// Between matches open, then everything up to the first match of close,
// then close. It yields the raw elements between the delimiters. This is
// the deterministic group form for grammars without an explicit content
// grammar.
func Between[S, A, C any](open Parser[S, A], close Parser[S, C]) Parser[S, []S] {
	return Group(open, untilMatch[S](close), close).WithName("between")
}

// untilMatch deterministically accumulates raw elements up to (and not
// including) the first position where stop matches. It yields nothing when
// the source is exhausted before stop ever matches.
func untilMatch[S, C any](stop Parser[S, C]) Parser[S, []S] {
	return Define("until", func(c *cursor.Cursor[S]) Seq[[]S] {
		return func(yield func(Result[[]S]) bool) {
			b := c.Branch()
			defer b.Close()

			var elems []S
			for {
				if matchesAt(stop, b) {
					yield(Result[[]S]{Value: elems, Length: len(elems)})
					return
				}
				v, ok := b.Next()
				if !ok {
					return
				}
				elems = append(elems, v)
			}
		}
	})
}

// matchesAt reports whether p yields any result at the cursor's position,
// abandoning speculative results rather than leaving them pending.
func matchesAt[S, R any](p Parser[S, R], c *cursor.Cursor[S]) bool {
	for r := range p.Parse(c) {
		if r.IsLookAhead() {
			r.Resolve(false)
		}
		return true
	}
	return false
}

// agStep is one delimiter alternative at a scan position.
type agStep struct {
	length  int
	isClose bool
}

// agState is one exploration branch of an ambiguous group scan: a cursor
// position, the content sink per currently open nesting level (outermost
// first), the results buffered until this branch's nesting closes, and an
// optional delimiter step not yet applied.
type agState[S any] struct {
	cur      *cursor.Cursor[S]
	sinks    [][]S
	consumed int
	buffered []Result[[]S]
	pending  *agStep
}

func (st *agState[S]) fork(pending agStep) *agState[S] {
	sinks := make([][]S, len(st.sinks))
	for i, s := range st.sinks {
		sinks[i] = append([]S(nil), s...)
	}
	return &agState[S]{
		cur:      st.cur.Branch(),
		sinks:    sinks,
		consumed: st.consumed,
		buffered: append([]Result[[]S](nil), st.buffered...),
		pending:  &pending,
	}
}

// AmbiguousGroup matches delimited spans where open and close can
// themselves match ambiguously or nest, and yields every legal nested or
// overlapping span, not just the leftmost-shortest.
//
// Each result's value is the raw content of one span (nested delimiters
// included, the span's own delimiters excluded); its length is the number
// of elements consumed from the invocation position through that span's
// closing delimiter. Results for one top-level open are buffered and
// released only once its nesting fully closes, so a group is never
// reported complete while it is still ambiguous whether it closes at all.
//
// Zero-width delimiter matches are ignored during the scan: they would
// reopen at the same position forever. Only one level of re-entrant
// ambiguity per direction is supported; delimiters whose own ambiguity
// nests arbitrarily deep are outside this combinator's contract.
func AmbiguousGroup[S, A, C any](open Parser[S, A], close Parser[S, C]) Parser[S, []S] {
	return Define("ambiguousGroup", func(c *cursor.Cursor[S]) Seq[[]S] {
		return func(yield func(Result[[]S]) bool) {
			for _, openLen := range matchLengths(open, c) {
				if openLen == 0 {
					continue
				}
				if !scanGroup(c, openLen, open, close, yield) {
					return
				}
			}
		}
	})
}

// scanGroup explores one top-level open match iteratively. It returns
// false when the consumer stopped enumeration.
func scanGroup[S, A, C any](
	c *cursor.Cursor[S],
	openLen int,
	open Parser[S, A],
	close Parser[S, C],
	yield func(Result[[]S]) bool,
) bool {
	initial := &agState[S]{
		cur:      c.Remainder(openLen),
		sinks:    [][]S{nil},
		consumed: openLen,
	}

	// Depth-first worklist; alternatives are pushed in reverse so results
	// come out in the order the contributing delimiters were tried.
	work := []*agState[S]{initial}
	for len(work) > 0 {
		st := work[len(work)-1]
		work = work[:len(work)-1]

		if !advance(st, open, close, &work, yield) {
			for _, pending := range work {
				pending.cur.Close()
			}
			return false
		}
	}
	return true
}

// advance drives one state until it completes, dies, or forks. It returns
// false when the consumer stopped enumeration.
func advance[S, A, C any](
	st *agState[S],
	open Parser[S, A],
	close Parser[S, C],
	work *[]*agState[S],
	yield func(Result[[]S]) bool,
) bool {
	for {
		if st.pending != nil {
			step := *st.pending
			st.pending = nil
			if applyStep(st, step.length, step.isClose) {
				st.cur.Close()
				for _, r := range st.buffered {
					if !yield(r) {
						return false
					}
				}
				return true
			}
			continue
		}

		opens := nonZero(matchLengths(open, st.cur))
		closes := nonZero(matchLengths(close, st.cur))

		if len(opens) == 0 && len(closes) == 0 {
			v, ok := st.cur.Next()
			if !ok {
				// Source exhausted while the group is still open: this
				// branch yields nothing at all.
				st.cur.Close()
				return true
			}
			for i := range st.sinks {
				st.sinks[i] = append(st.sinks[i], v)
			}
			st.consumed++
			continue
		}

		// True ambiguity: every open and close match at this position
		// spawns an independent continuation. The first alternative stays
		// on this state; the rest fork, pushed in reverse so the worklist
		// pops them in trial order.
		steps := make([]agStep, 0, len(opens)+len(closes))
		for _, n := range opens {
			steps = append(steps, agStep{length: n})
		}
		for _, n := range closes {
			steps = append(steps, agStep{length: n, isClose: true})
		}
		for i := len(steps) - 1; i >= 1; i-- {
			*work = append(*work, st.fork(steps[i]))
		}
		st.pending = &steps[0]
	}
}

// applyStep consumes one delimiter match on st. It reports whether the
// state's nesting fully closed.
func applyStep[S any](st *agState[S], length int, isClose bool) bool {
	elems := take(st.cur, length)

	if isClose {
		// Every active sink snapshots one complete result: the close might
		// pair with any open still outstanding.
		for _, sink := range st.sinks {
			st.buffered = append(st.buffered, Result[[]S]{
				Value:  append([]S(nil), sink...),
				Length: st.consumed + length,
			})
		}
		st.sinks = st.sinks[:len(st.sinks)-1]
		for i := range st.sinks {
			st.sinks[i] = append(st.sinks[i], elems...)
		}
		st.consumed += length
		st.cur.Move(length)
		return len(st.sinks) == 0
	}

	// An open is content for every enclosing sink, then starts its own.
	for i := range st.sinks {
		st.sinks[i] = append(st.sinks[i], elems...)
	}
	st.sinks = append(st.sinks, nil)
	st.consumed += length
	st.cur.Move(length)
	return false
}

// matchLengths collects the distinct match lengths of p at the cursor's
// position, in trial order. Speculative results are abandoned.
func matchLengths[S, R any](p Parser[S, R], c *cursor.Cursor[S]) []int {
	var lengths []int
	for r := range p.Parse(c) {
		if r.IsLookAhead() {
			r.Resolve(false)
		}
		seen := false
		for _, n := range lengths {
			if n == r.Length {
				seen = true
				break
			}
		}
		if !seen {
			lengths = append(lengths, r.Length)
		}
	}
	return lengths
}

// nonZero filters out zero-width delimiter matches; consuming nothing at a
// scan position would reopen the same group forever.
func nonZero(lengths []int) []int {
	out := lengths[:0]
	for _, n := range lengths {
		if n > 0 {
			out = append(out, n)
		}
	}
	return out
}

// take reads length elements ahead of the cursor without moving it.
func take[S any](c *cursor.Cursor[S], length int) []S {
	b := c.Branch()
	defer b.Close()
	elems := make([]S, 0, length)
	for range length {
		v, ok := b.Next()
		if !ok {
			break
		}
		elems = append(elems, v)
	}
	return elems
}
