package parsec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func digit() Parser[byte, byte] {
	return NextWhere("digit", func(v byte) bool { return v >= '0' && v <= '9' })
}

func TestExactly(t *testing.T) {
	tests := []struct {
		name       string
		count      int
		input      string
		wantValues string
		wantLength int
		wantMatch  bool
	}{
		{"zero is identity", 0, "123", "", 0, true},
		{"zero on empty input", 0, "", "", 0, true},
		{"one", 1, "123", "1", 1, true},
		{"one fails cleanly", 1, "x", "", 0, false},
		{"three", 3, "123", "123", 3, true},
		{"three of four", 3, "1234", "123", 3, true},
		{"too few", 3, "12", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(t, Exactly(digit(), tt.count), tt.input)
			if !tt.wantMatch {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, tt.wantValues, string(got[0].Value))
			assert.Equal(t, tt.wantLength, got[0].Length)
		})
	}
}

func TestExactlyAdditivity(t *testing.T) {
	// Exactly(n) twice in sequence must agree with Exactly(2n) on count and
	// total length.
	input := []byte("12345678")

	composed, composedLen, err := FirstSlice(All(Exactly(digit(), 2), Exactly(digit(), 2)), input)
	require.NoError(t, err)
	single, singleLen, err := FirstSlice(Exactly(digit(), 4), input)
	require.NoError(t, err)

	var flat []byte
	for _, part := range composed {
		flat = append(flat, part...)
	}
	assert.Equal(t, single, flat)
	assert.Equal(t, singleLen, composedLen)
}

func TestNoneOrMore(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantValues string
		wantLength int
	}{
		{"empty input still matches", "", "", 0},
		{"no leading digits still matches", "abc", "", 0},
		{"takes all digits", "123abc", "123", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(t, NoneOrMore(digit()), tt.input)
			require.Len(t, got, 1, "NoneOrMore must always succeed")
			assert.Equal(t, tt.wantValues, string(got[0].Value))
			assert.Equal(t, tt.wantLength, got[0].Length)
		})
	}
}

func TestOneOrMore(t *testing.T) {
	got := collect(t, OneOrMore(digit()), "42x")
	require.Len(t, got, 1)
	assert.Equal(t, "42", string(got[0].Value))

	assert.Empty(t, collect(t, OneOrMore(digit()), "x42"),
		"OneOrMore fails exactly when the element fails at the first position")
}

func TestAtLeastGreedyYieldsSingleMaximalResult(t *testing.T) {
	got := collect(t, AtLeast(digit(), 2), "12345")
	require.Len(t, got, 1)
	assert.Equal(t, "12345", string(got[0].Value))
	assert.Equal(t, 5, got[0].Length)
}

func TestSeparator(t *testing.T) {
	comma := lit(',')
	list := Repeat(digit(), RepeatConfig[byte]{Min: 1, Max: -1, Separator: Void(comma)})

	tests := []struct {
		name       string
		input      string
		wantValues string
		wantLength int
	}{
		{"single element", "7", "7", 1},
		{"list", "1,2,3", "123", 5},
		{"stops at missing separator", "1,23", "12", 3},
		{"trailing separator not consumed", "1,2,", "12", 3},
		{"separator with no element not consumed", "1,x", "1", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(t, list, tt.input)
			require.Len(t, got, 1)
			assert.Equal(t, tt.wantValues, string(got[0].Value))
			assert.Equal(t, tt.wantLength, got[0].Length)
		})
	}
}

func TestNonGreedyOffersEmptyFirst(t *testing.T) {
	got := collect(t, NoneOrMoreNonGreedy(digit()), "12")
	// Unresolved offers are abandoned, so collect sees every candidate.
	require.Len(t, got, 3)
	for i, r := range got {
		assert.True(t, r.IsLookAhead())
		assert.Equal(t, i, r.Length)
		assert.Len(t, r.Value, i)
	}
}

func TestNonGreedyPrefersFewestRepetitions(t *testing.T) {
	a := lit('a')
	b := lit('b')

	// a*?  a+  b  over "aaab": every split with 0..2 prefix repetitions
	// satisfies the grammar; non-greedy must take 0.
	prefix := NoneOrMoreNonGreedy(a)
	suffix := Then(OneOrMore(a), b, func(as []byte, _ byte) int { return len(as) })
	g := Then(prefix, suffix, func(pre []byte, _ int) int { return len(pre) })

	prefixLen, total, err := FirstSlice(g, []byte("aaab"))
	require.NoError(t, err)
	assert.Equal(t, 0, prefixLen, "non-greedy must prefer the fewest repetitions")
	assert.Equal(t, 4, total)
}

func TestNonGreedyTakesJustEnough(t *testing.T) {
	a := lit('a')
	b := lit('b')

	// a*? b over "aaab": only 3 repetitions leave b next.
	g := Then(AtLeastNonGreedy(a, 0), b, func(as []byte, _ byte) int { return len(as) })
	n, total, err := FirstSlice(g, []byte("aaab"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 4, total)
}

func TestNonGreedyRespectsMinimum(t *testing.T) {
	a := lit('a')

	// At least 2 a's, non-greedy, then anything: the count-0 and count-1
	// candidates must never be offered.
	g := Then(AtLeastNonGreedy(a, 2), Next[byte](), func(as []byte, _ byte) int { return len(as) })
	n, _, err := FirstSlice(g, []byte("aaaa"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, _, err = FirstSlice(g, []byte("ab"))
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestAdjacentNonGreedyQuantifiers(t *testing.T) {
	// Two non-greedy quantifiers back to back: the first one's offers are
	// decided by the second one's offers, which are in turn decided by the
	// trailing literal. Committing the outer speculation on a still-
	// speculative continuation would wrongly end exploration here.
	a := lit('a')
	b := lit('b')
	pair := Then(NoneOrMoreNonGreedy(a), NoneOrMoreNonGreedy(b),
		func(as, bs []byte) [2]int { return [2]int{len(as), len(bs)} })
	g := Then(pair, lit('x'), func(counts [2]int, _ byte) [2]int { return counts })

	tests := []struct {
		input  string
		counts [2]int
		total  int
	}{
		{"x", [2]int{0, 0}, 1},
		{"ax", [2]int{1, 0}, 2},
		{"bx", [2]int{0, 1}, 2},
		{"abx", [2]int{1, 1}, 3},
		{"aabbx", [2]int{2, 2}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			counts, total, err := FirstSlice(g, []byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.counts, counts)
			assert.Equal(t, tt.total, total)
		})
	}

	_, _, err := FirstSlice(g, []byte("ba"))
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestRepeatZeroWidthElementTerminates(t *testing.T) {
	// An element that succeeds without consuming must not repeat forever.
	got := collect(t, NoneOrMore(Optional(digit())), "x")
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].Length)

	gotNot := collect(t, NoneOrMore(Not(digit())), "x")
	require.Len(t, gotNot, 1)
	assert.Equal(t, 0, gotNot[0].Length)

	// Non-greedy: the zero-width accumulation is offered once past the
	// stall, then the quantifier stops producing.
	offers := collect(t, NoneOrMoreNonGreedy(Optional(digit())), "x")
	require.Len(t, offers, 2)
	for _, r := range offers {
		assert.Equal(t, 0, r.Length)
	}
}

func TestExactlyZeroWidthElement(t *testing.T) {
	// A bounded count of zero-width matches is still satisfiable.
	got := collect(t, Exactly(Optional(digit()), 3), "x")
	require.Len(t, got, 1)
	assert.Len(t, got[0].Value, 3)
	assert.Equal(t, 0, got[0].Length)
}

func TestRepeatBoundedMax(t *testing.T) {
	got := collect(t, Repeat(digit(), RepeatConfig[byte]{Min: 1, Max: 3}), "12345")
	require.Len(t, got, 1)
	assert.Equal(t, "123", string(got[0].Value))
}

func TestRepeatLongestPerIteration(t *testing.T) {
	// The element parser is ambiguous at each position; each iteration
	// takes the longest match.
	got := collect(t, NoneOrMore(ambig()), "abcd")
	require.Len(t, got, 1)
	assert.Equal(t, []byte{'B', 'B'}, got[0].Value)
	assert.Equal(t, 4, got[0].Length)
}

func TestRepeatMisusePanics(t *testing.T) {
	assert.Panics(t, func() { Repeat(digit(), RepeatConfig[byte]{Min: -1}) })
	assert.Panics(t, func() { Repeat(digit(), RepeatConfig[byte]{Min: 2, Max: 1}) })
}

func TestDeepRepetitionStaysIterative(t *testing.T) {
	// 100k repetitions would overflow the stack if the quantifier
	// recursed per element.
	input := make([]byte, 100_000)
	for i := range input {
		input[i] = '9'
	}
	values, n, err := FirstSlice(OneOrMore(digit()), input)
	require.NoError(t, err)
	assert.Equal(t, len(input), n)
	assert.Len(t, values, len(input))
}
