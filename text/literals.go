package text

import (
	"errors"
	"fmt"
	"sort"

	"github.com/coregx/ahocorasick"
	"github.com/coregx/parsec"
	"github.com/coregx/parsec/cursor"
)

// ErrNoLiterals indicates a literal set was constructed without any
// non-empty literal.
var ErrNoLiterals = errors.New("text: literal set needs at least one non-empty literal")

// LiteralSet is a compiled set of literal strings. Anchored membership
// tests back the Literals parser; unanchored occurrence search, through an
// Aho-Corasick automaton, backs Until and the prefiltered scan drivers.
type LiteralSet struct {
	lits   []string // sorted longest first
	auto   *ahocorasick.Automaton
	maxLen int
}

// NewLiteralSet compiles the given literals. Empty literals are rejected:
// a zero-width occurrence is everywhere and means nothing to scan for.
func NewLiteralSet(lits ...string) (*LiteralSet, error) {
	if len(lits) == 0 {
		return nil, ErrNoLiterals
	}
	sorted := make([]string, len(lits))
	copy(sorted, lits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})

	builder := ahocorasick.NewBuilder()
	maxLen := 0
	for _, lit := range sorted {
		if lit == "" {
			return nil, ErrNoLiterals
		}
		builder.AddPattern([]byte(lit))
		if len(lit) > maxLen {
			maxLen = len(lit)
		}
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("text: building literal automaton: %w", err)
	}
	return &LiteralSet{lits: sorted, auto: auto, maxLen: maxLen}, nil
}

// MustLiteralSet is NewLiteralSet, panicking on error. Useful for literal
// sets known to be valid at compile time.
func MustLiteralSet(lits ...string) *LiteralSet {
	ls, err := NewLiteralSet(lits...)
	if err != nil {
		panic(err.Error())
	}
	return ls
}

// Find returns the leftmost occurrence of any literal in haystack at or
// after the given offset.
func (ls *LiteralSet) Find(haystack []byte, at int) (start, end int, ok bool) {
	if at >= len(haystack) {
		return 0, 0, false
	}
	m := ls.auto.Find(haystack, at)
	if m == nil {
		return 0, 0, false
	}
	return m.Start, m.End, true
}

// MatchesAt returns every literal that is a prefix of window, longest
// first. The window must hold at least MaxLen bytes of context unless the
// input ends earlier.
func (ls *LiteralSet) MatchesAt(window []byte) []string {
	var out []string
	for _, lit := range ls.lits {
		if len(lit) <= len(window) && string(window[:len(lit)]) == lit {
			out = append(out, lit)
		}
	}
	return out
}

// MaxLen returns the length of the longest literal in the set.
func (ls *LiteralSet) MaxLen() int {
	return ls.maxLen
}

// Literals matches any literal of the set anchored at the cursor's
// position. All matching literals are yielded, longest first: ambiguity is
// preserved for the grammar to resolve.
func Literals(lits ...string) Parser[string] {
	ls := MustLiteralSet(lits...)
	return LiteralsOf(ls)
}

// LiteralsOf is Literals over a prebuilt set.
func LiteralsOf(ls *LiteralSet) Parser[string] {
	return parsec.Define("literals", func(c *cursor.Cursor[byte]) parsec.Seq[string] {
		return func(yield func(parsec.Result[string]) bool) {
			window := peekWindow(c, ls.maxLen)
			for _, lit := range ls.MatchesAt(window) {
				if !yield(parsec.Result[string]{Value: lit, Length: len(lit)}) {
					return
				}
			}
		}
	})
}

// untilChunk is how many bytes Until pulls per automaton search. Chunks
// overlap by MaxLen-1 bytes so no occurrence straddles a boundary unseen.
const untilChunk = 256

// Until deterministically matches everything up to the first occurrence of
// any literal in the set, not consuming the occurrence itself. It yields
// nothing when the input ends before any literal occurs. The scan is
// chunked through the automaton, so it works against unbounded input
// without buffering more than the content it returns.
func Until(ls *LiteralSet) Parser[string] {
	return parsec.Define("until", func(c *cursor.Cursor[byte]) parsec.Seq[string] {
		return func(yield func(parsec.Result[string]) bool) {
			b := c.Branch()
			defer b.Close()

			var window []byte
			searched := 0
			for {
				filled := 0
				for filled < untilChunk {
					v, ok := b.Next()
					if !ok {
						break
					}
					window = append(window, v)
					filled++
				}
				if start, _, ok := ls.Find(window, searched); ok {
					yield(parsec.Result[string]{Value: string(window[:start]), Length: start})
					return
				}
				if filled < untilChunk {
					// Source exhausted with no occurrence.
					return
				}
				searched = len(window) - ls.maxLen + 1
				if searched < 0 {
					searched = 0
				}
			}
		}
	})
}

// Delimited matches open, then everything up to the first occurrence of
// close, then close, yielding the content between the delimiters.
func Delimited(open, close string) Parser[string] {
	content := Until(MustLiteralSet(close))
	return parsec.Group(String(open), content, String(close)).WithName("delimited")
}

// peekWindow reads up to n bytes ahead of the cursor without moving it.
func peekWindow(c *cursor.Cursor[byte], n int) []byte {
	b := c.Branch()
	defer b.Close()
	window := make([]byte, 0, n)
	for range n {
		v, ok := b.Next()
		if !ok {
			break
		}
		window = append(window, v)
	}
	return window
}
