package parsec

import (
	"slices"

	"github.com/coregx/parsec/cursor"
)

// RepeatConfig controls the quantifier engine.
//
// Example:
//
//	// two or more digits, comma separated, as few as the grammar allows
//	p := parsec.Repeat(digit, parsec.RepeatConfig[byte]{
//		Min:       2,
//		Max:       -1,
//		NonGreedy: true,
//		Separator: parsec.Void(comma),
//	})
type RepeatConfig[S any] struct {
	// Min is the minimum number of element matches. The quantifier yields
	// nothing when fewer are found.
	Min int

	// Max is the maximum number of element matches; negative means
	// unbounded.
	Max int

	// NonGreedy switches to speculative matching: every accumulated count
	// >= Min is offered as a look-ahead result (including zero, before any
	// real iteration) so the rest of the grammar decides how many
	// repetitions to take. The quantifier prefers the fewest repetitions
	// consistent with a committed continuation.
	NonGreedy bool

	// Separator, when set, is required between elements but not after the
	// last. A separator match with no following element match is not
	// consumed. Use Void to adapt any parser.
	Separator Parser[S, struct{}]
}

// Exactly matches p exactly n times. Counts of 0 and 1 bypass the general
// loop.
func Exactly[S, R any](p Parser[S, R], n int) Parser[S, []R] {
	return Repeat(p, RepeatConfig[S]{Min: n, Max: n}).WithName("exactly")
}

// AtLeast matches p at least min times, greedily.
func AtLeast[S, R any](p Parser[S, R], min int) Parser[S, []R] {
	return Repeat(p, RepeatConfig[S]{Min: min, Max: -1}).WithName("atLeast")
}

// AtLeastNonGreedy matches p at least min times, preferring the fewest
// repetitions the rest of the grammar accepts.
func AtLeastNonGreedy[S, R any](p Parser[S, R], min int) Parser[S, []R] {
	return Repeat(p, RepeatConfig[S]{Min: min, Max: -1, NonGreedy: true}).WithName("atLeastNonGreedy")
}

// NoneOrMore matches p zero or more times, greedily. It always succeeds
// when p can fail cleanly at the first position.
func NoneOrMore[S, R any](p Parser[S, R]) Parser[S, []R] {
	return AtLeast(p, 0).WithName("noneOrMore")
}

// NoneOrMoreNonGreedy matches p zero or more times, offering the empty
// match first.
func NoneOrMoreNonGreedy[S, R any](p Parser[S, R]) Parser[S, []R] {
	return AtLeastNonGreedy(p, 0).WithName("noneOrMoreNonGreedy")
}

// OneOrMore matches p one or more times, greedily. It fails exactly when p
// fails at the first position.
func OneOrMore[S, R any](p Parser[S, R]) Parser[S, []R] {
	return AtLeast(p, 1).WithName("oneOrMore")
}

// OneOrMoreNonGreedy matches p one or more times, preferring the fewest.
func OneOrMoreNonGreedy[S, R any](p Parser[S, R]) Parser[S, []R] {
	return AtLeastNonGreedy(p, 1).WithName("oneOrMoreNonGreedy")
}

// Repeat is the quantifier engine.
//
// The loop is iterative with a heap-allocated accumulator, so stack depth
// is independent of the repetition count. Ambiguous element (or separator)
// matches within one iteration are resolved by taking the longest match at
// that position; this is a documented simplification, not full per-
// iteration ambiguity. An element that matches with zero width is
// accumulated until Min is satisfied and then ends the loop: consuming
// nothing can never make further progress.
func Repeat[S, R any](p Parser[S, R], cfg RepeatConfig[S]) Parser[S, []R] {
	if cfg.Min < 0 {
		panic("parsec: Repeat with negative Min")
	}
	if cfg.Max >= 0 && cfg.Max < cfg.Min {
		panic("parsec: Repeat with Max below Min")
	}

	// Fast paths: identity and single-match.
	if cfg.Max == 0 && !cfg.NonGreedy {
		return Return[S, []R]([]R{}).WithName("repeat")
	}
	if cfg.Min == 1 && cfg.Max == 1 && !cfg.NonGreedy {
		return repeatOnce(p)
	}

	hasSep := cfg.Separator.parse != nil

	return Define("repeat", func(c *cursor.Cursor[S]) Seq[[]R] {
		return func(yield func(Result[[]R]) bool) {
			b := c.Branch()
			defer b.Close()

			var values []R
			total := 0
			totalLength := 0
			stalled := false

			for {
				if cfg.NonGreedy && total >= cfg.Min {
					// Offer the accumulation so far and let the rest of the
					// grammar decide; a committed continuation ends the
					// quantifier immediately.
					offer := newLookAhead(slices.Clone(values), totalLength)
					if !yield(offer) {
						return
					}
					if offer.look.committed() {
						return
					}
				}
				if cfg.Max >= 0 && total >= cfg.Max {
					break
				}
				if stalled {
					// The element matches with zero width at this position;
					// another iteration would consume nothing, forever.
					break
				}

				step := b
				sepLength := 0
				if hasSep && total > 0 {
					n, ok := longestLength(cfg.Separator.Parse(b))
					if !ok {
						break
					}
					sepLength = n
					step = b.Remainder(n)
				}

				value, length, ok := longestMatch(p.Parse(step))
				if step != b {
					step.Close()
				}
				if !ok {
					// A trailing separator with no following element is not
					// consumed; the accumulation up to the last element
					// stands.
					break
				}

				values = append(values, value)
				total++
				b.Move(sepLength + length)
				totalLength += sepLength + length
				if sepLength+length == 0 && total >= cfg.Min {
					stalled = true
				}
			}

			if !cfg.NonGreedy && total >= cfg.Min {
				yield(Result[[]R]{Value: values, Length: totalLength})
			}
			// Non-greedy: every viable accumulation, including the final
			// one, was already offered as a look-ahead.
		}
	})
}

// repeatOnce forwards single matches wrapped in one-element slices,
// preserving ambiguity and speculation.
func repeatOnce[S, R any](p Parser[S, R]) Parser[S, []R] {
	return Define("repeat", func(c *cursor.Cursor[S]) Seq[[]R] {
		return func(yield func(Result[[]R]) bool) {
			for r := range p.Parse(c) {
				out := Result[[]R]{Value: []R{r.Value}, Length: r.Length, look: r.look}
				if !yield(out) {
					return
				}
			}
		}
	})
}

// longestMatch drains a result sequence and returns the value of the
// longest match. Speculative results are abandoned so their producers keep
// offering longer candidates; their values remain valid accumulations.
func longestMatch[R any](results Seq[R]) (R, int, bool) {
	var best R
	bestLength := -1
	for r := range results {
		if r.IsLookAhead() {
			r.Resolve(false)
		}
		if r.Length > bestLength {
			bestLength = r.Length
			best = r.Value
		}
	}
	return best, bestLength, bestLength >= 0
}

// longestLength is longestMatch for parsers whose value is irrelevant.
func longestLength[R any](results Seq[R]) (int, bool) {
	_, n, ok := longestMatch(results)
	return n, ok
}
