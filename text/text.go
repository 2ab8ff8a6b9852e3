// Package text provides byte-level parsers for textual input: rune and
// string primitives, literal sets backed by an Aho-Corasick automaton, and
// unanchored scanning drivers with literal prefiltering.
//
// Input is a cursor over bytes; rune parsers decode UTF-8 as they match, so
// the same grammar handles ASCII and multi-byte text. Invalid UTF-8 is
// matched byte-by-byte as utf8.RuneError, mirroring how Go's range-over-
// string behaves.
package text

import (
	"unicode"
	"unicode/utf8"

	"github.com/coregx/parsec"
	"github.com/coregx/parsec/cursor"
)

// Parser is a parser over byte input.
type Parser[R any] = parsec.Parser[byte, R]

// NewCursor creates a bidirectional root cursor over the bytes of s.
func NewCursor(s string) *cursor.Cursor[byte] {
	return cursor.FromSlice([]byte(s))
}

// NewByteCursor creates a bidirectional root cursor over b.
func NewByteCursor(b []byte) *cursor.Cursor[byte] {
	return cursor.FromSlice(b)
}

// runeWidth returns the UTF-8 width implied by a leading byte.
func runeWidth(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b&0xE0 == 0xC0:
		return 2
	case b&0xF0 == 0xE0:
		return 3
	case b&0xF8 == 0xF0:
		return 4
	default:
		return 1 // continuation or invalid byte, consume singly
	}
}

// peekRune decodes the rune at the cursor's position without moving it.
func peekRune(c *cursor.Cursor[byte]) (rune, int, bool) {
	b := c.Branch()
	defer b.Close()

	first, ok := b.Next()
	if !ok {
		return 0, 0, false
	}
	if first < utf8.RuneSelf {
		return rune(first), 1, true
	}
	var buf [utf8.UTFMax]byte
	buf[0] = first
	n := 1
	for n < runeWidth(first) {
		v, ok := b.Next()
		if !ok {
			break
		}
		buf[n] = v
		n++
	}
	r, size := utf8.DecodeRune(buf[:n])
	return r, size, true
}

// AnyRune matches the next rune, whatever it is.
func AnyRune() Parser[rune] {
	return RuneWhere("anyRune", func(rune) bool { return true })
}

// RuneWhere matches the next rune if pred accepts it. The length of the
// match is the rune's encoded width in bytes.
func RuneWhere(name string, pred func(rune) bool) Parser[rune] {
	return parsec.Define(name, func(c *cursor.Cursor[byte]) parsec.Seq[rune] {
		return func(yield func(parsec.Result[rune]) bool) {
			if r, size, ok := peekRune(c); ok && pred(r) {
				yield(parsec.Result[rune]{Value: r, Length: size})
			}
		}
	})
}

// Rune matches exactly the given rune.
func Rune(want rune) Parser[rune] {
	return RuneWhere("rune", func(r rune) bool { return r == want })
}

// Letter matches any Unicode letter.
func Letter() Parser[rune] {
	return RuneWhere("letter", unicode.IsLetter)
}

// Digit matches any Unicode decimal digit.
func Digit() Parser[rune] {
	return RuneWhere("digit", unicode.IsDigit)
}

// Whitespace matches any Unicode whitespace rune.
func Whitespace() Parser[rune] {
	return RuneWhere("whitespace", unicode.IsSpace)
}

// String matches the exact byte sequence of lit.
func String(lit string) Parser[string] {
	return parsec.Define("string", func(c *cursor.Cursor[byte]) parsec.Seq[string] {
		return func(yield func(parsec.Result[string]) bool) {
			if hasPrefix(c, lit) {
				yield(parsec.Result[string]{Value: lit, Length: len(lit)})
			}
		}
	})
}

// hasPrefix reports whether the bytes at the cursor's position start with
// lit, without moving the cursor.
func hasPrefix(c *cursor.Cursor[byte], lit string) bool {
	b := c.Branch()
	defer b.Close()
	for i := 0; i < len(lit); i++ {
		v, ok := b.Next()
		if !ok || v != lit[i] {
			return false
		}
	}
	return true
}

// Join converts a rune-slice parser into a string parser.
func Join(p parsec.Parser[byte, []rune]) Parser[string] {
	return parsec.Select(p, func(rs []rune) string { return string(rs) })
}

// JoinStrings concatenates a string-slice parser's values.
func JoinStrings(p parsec.Parser[byte, []string]) Parser[string] {
	return parsec.Select(p, func(ss []string) string {
		n := 0
		for _, s := range ss {
			n += len(s)
		}
		out := make([]byte, 0, n)
		for _, s := range ss {
			out = append(out, s...)
		}
		return string(out)
	})
}

// JoinBytes converts a raw element-slice parser (as produced by Between or
// AmbiguousGroup) into a string parser.
func JoinBytes(p parsec.Parser[byte, []byte]) Parser[string] {
	return parsec.Select(p, func(bs []byte) string { return string(bs) })
}
