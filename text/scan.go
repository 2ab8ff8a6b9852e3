package text

import (
	"errors"

	"github.com/coregx/parsec"
)

// Match is one unanchored parser match within an input string.
type Match[R any] struct {
	// Value is the matched value.
	Value R

	// Start and End are byte offsets of the consumed span, End exclusive.
	Start, End int
}

// Scan finds the first match of p anywhere in input. When a prefilter is
// given, candidate start positions come from the literal automaton and only
// candidates are verified with the full parser; a nil prefilter scans every
// position. The prefilter must be constructed so that every true match
// starts with one of its literals, or matches will be missed.
func Scan[R any](p Parser[R], prefilter *LiteralSet, input string) (Match[R], bool, error) {
	var found Match[R]
	ok := false
	err := findAll(p, prefilter, input, func(m Match[R]) bool {
		found = m
		ok = true
		return false
	})
	return found, ok, err
}

// FindAll finds every non-overlapping match of p in input, leftmost first,
// using the same candidate strategy as Scan.
func FindAll[R any](p Parser[R], prefilter *LiteralSet, input string) ([]Match[R], error) {
	var out []Match[R]
	err := findAll(p, prefilter, input, func(m Match[R]) bool {
		out = append(out, m)
		return true
	})
	return out, err
}

// findAll drives the candidate-then-verify loop shared by Scan and
// FindAll. Failed candidates advance by one byte; zero-width matches also
// advance by one to guarantee progress.
func findAll[R any](p Parser[R], prefilter *LiteralSet, input string, emit func(Match[R]) bool) error {
	data := []byte(input)
	at := 0
	for at < len(data) {
		start := at
		if prefilter != nil {
			s, _, ok := prefilter.Find(data, at)
			if !ok {
				return nil
			}
			start = s
		}

		value, length, err := parsec.FirstSlice(p, data[start:])
		if err != nil {
			if errors.Is(err, parsec.ErrNoMatch) {
				at = start + 1
				continue
			}
			return err
		}
		if !emit(Match[R]{Value: value, Start: start, End: start + length}) {
			return nil
		}
		at = start + max(length, 1)
	}
	return nil
}
