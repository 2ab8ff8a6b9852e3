package text

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/parsec"
)

func TestRuneWidths(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  rune
		width int
	}{
		{"ascii", "a", 'a', 1},
		{"two bytes", "é", 'é', 2},
		{"three bytes", "世", '世', 3},
		{"four bytes", "𝄞", '𝄞', 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, n, err := parsec.FirstSlice(AnyRune(), []byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
			assert.Equal(t, tt.width, n)
		})
	}
}

func TestInvalidUTF8ConsumedByteByByte(t *testing.T) {
	v, n, err := parsec.FirstSlice(AnyRune(), []byte{0xFF, 'a'})
	require.NoError(t, err)
	assert.Equal(t, utf8.RuneError, v)
	assert.Equal(t, 1, n)
}

func TestRune(t *testing.T) {
	_, _, err := parsec.FirstSlice(Rune('x'), []byte("xy"))
	assert.NoError(t, err)

	_, _, err = parsec.FirstSlice(Rune('x'), []byte("yx"))
	assert.ErrorIs(t, err, parsec.ErrNoMatch)
}

func TestLetterAndDigit(t *testing.T) {
	v, n, err := parsec.FirstSlice(Letter(), []byte("πx"))
	require.NoError(t, err)
	assert.Equal(t, 'π', v)
	assert.Equal(t, 2, n)

	_, _, err = parsec.FirstSlice(Digit(), []byte("x"))
	assert.ErrorIs(t, err, parsec.ErrNoMatch)
}

func TestString(t *testing.T) {
	v, n, err := parsec.FirstSlice(String("let"), []byte("letter"))
	require.NoError(t, err)
	assert.Equal(t, "let", v)
	assert.Equal(t, 3, n)

	_, _, err = parsec.FirstSlice(String("let"), []byte("le"))
	assert.ErrorIs(t, err, parsec.ErrNoMatch)
}

func TestJoin(t *testing.T) {
	word := Join(parsec.All(Letter(), Digit()))
	v, n, err := parsec.FirstSlice(word, []byte("a1rest"))
	require.NoError(t, err)
	assert.Equal(t, "a1", v)
	assert.Equal(t, 2, n)
}

func TestJoinStrings(t *testing.T) {
	p := JoinStrings(parsec.All(String("foo"), String("bar")))
	v, _, err := parsec.FirstSlice(p, []byte("foobar!"))
	require.NoError(t, err)
	assert.Equal(t, "foobar", v)
}

func TestLiteralsYieldsAllPrefixesLongestFirst(t *testing.T) {
	c := NewCursor("abc")
	defer c.Close()

	var got []string
	for r := range Literals("a", "ab").Parse(c) {
		got = append(got, r.Value)
	}
	assert.Equal(t, []string{"ab", "a"}, got)
}

func TestLiteralSetRejectsEmpty(t *testing.T) {
	_, err := NewLiteralSet()
	assert.ErrorIs(t, err, ErrNoLiterals)

	_, err = NewLiteralSet("a", "")
	assert.ErrorIs(t, err, ErrNoLiterals)
}

func TestLiteralSetFind(t *testing.T) {
	ls := MustLiteralSet("na")

	start, end, ok := ls.Find([]byte("banana"), 0)
	require.True(t, ok)
	assert.Equal(t, 2, start, "leftmost occurrence wins")
	assert.Equal(t, 4, end)

	start, _, ok = ls.Find([]byte("banana"), 3)
	require.True(t, ok)
	assert.Equal(t, 4, start)

	_, _, ok = ls.Find([]byte("xyz"), 0)
	assert.False(t, ok)
}

func TestUntil(t *testing.T) {
	stop := MustLiteralSet("<", "&")

	v, n, err := parsec.FirstSlice(Until(stop), []byte("hello <b>"))
	require.NoError(t, err)
	assert.Equal(t, "hello ", v)
	assert.Equal(t, 6, n, "the occurrence itself is not consumed")

	_, _, err = parsec.FirstSlice(Until(stop), []byte("no stops here"))
	assert.ErrorIs(t, err, parsec.ErrNoMatch)
}

func TestUntilAcrossChunkBoundary(t *testing.T) {
	// Place the occurrence so it straddles the internal chunk size.
	pad := make([]byte, untilChunk-1)
	for i := range pad {
		pad[i] = 'x'
	}
	input := append(append([]byte{}, pad...), []byte("ab tail")...)

	v, n, err := parsec.FirstSlice(Until(MustLiteralSet("ab")), input)
	require.NoError(t, err)
	assert.Equal(t, len(pad), n)
	assert.Equal(t, string(pad), v)
}

func TestDelimited(t *testing.T) {
	v, n, err := parsec.FirstSlice(Delimited("<", ">"), []byte("<name> rest"))
	require.NoError(t, err)
	assert.Equal(t, "name", v)
	assert.Equal(t, 6, n)

	_, _, err = parsec.FirstSlice(Delimited("<", ">"), []byte("<name rest"))
	assert.ErrorIs(t, err, parsec.ErrNoMatch)
}

func number() Parser[string] {
	digits := parsec.OneOrMore(parsec.NextWhere("digit",
		func(b byte) bool { return b >= '0' && b <= '9' }))
	return JoinBytes(digits)
}

func TestScan(t *testing.T) {
	m, ok, err := Scan(number(), nil, "x12 y34")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "12", m.Value)
	assert.Equal(t, 1, m.Start)
	assert.Equal(t, 3, m.End)

	_, ok, err = Scan(number(), nil, "none")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFindAll(t *testing.T) {
	got, err := FindAll(number(), nil, "x12 y34")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, Match[string]{Value: "12", Start: 1, End: 3}, got[0])
	assert.Equal(t, Match[string]{Value: "34", Start: 5, End: 7}, got[1])
}

func TestPrefilterAgreesWithFullScan(t *testing.T) {
	digits := MustLiteralSet("0", "1", "2", "3", "4", "5", "6", "7", "8", "9")
	input := "abc 007 def 42, 9"

	plain, err := FindAll(number(), nil, input)
	require.NoError(t, err)
	filtered, err := FindAll(number(), digits, input)
	require.NoError(t, err)
	assert.Equal(t, plain, filtered)
	assert.Len(t, plain, 3)
}

func TestScanRequiredFailureSurfaces(t *testing.T) {
	eq := parsec.NextWhere("equals", func(b byte) bool { return b == '=' })
	grammar := parsec.Then(eq, parsec.Required(number(), "number after '='"),
		func(_ byte, n string) string { return n })

	_, _, err := Scan(grammar, nil, "a =x")
	var pe *parsec.ParseError
	require.ErrorAs(t, err, &pe)
}
