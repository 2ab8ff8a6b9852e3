// Package cursor provides a buffered, replayable position pointer over an
// input sequence, supporting branching and controlled truncation.
//
// A Cursor is the input abstraction the combinator engine parses against.
// Combinators must be able to try a match, fail, and retry from the same
// starting point many times during ambiguous or non-greedy exploration.
// Re-pulling from the true source each time would be both incorrect
// (side-effecting sources) and slow, so all cursors branched from one root
// share a single buffer fed by a single pull from the source:
//
//   - Branch creates an independent position over the shared buffer in O(1).
//   - Reading an element that another branch already pulled is served from
//     the buffer without touching the source.
//   - On a forward-only cursor, elements below the minimum position of all
//     live branches are discarded, bounding memory to the maximum
//     outstanding backtrack distance rather than total input length.
//
// Cursors are not safe for concurrent use: a parse invocation and every
// branch it spawns must be confined to one goroutine.
package cursor

import (
	"iter"
	"slices"

	"github.com/coregx/parsec/internal/live"
)

// Config controls cursor behavior.
//
// Example:
//
//	cfg := cursor.DefaultConfig()
//	cfg.ForwardOnly = true // permit buffer truncation
//	c := cursor.New(source, cfg)
type Config struct {
	// ForwardOnly restricts all branches to forward movement and enables
	// truncation of buffered elements no live branch can reach anymore.
	// Default: false (bidirectional, full buffering).
	ForwardOnly bool

	// Capacity is the initial element capacity of the shared buffer.
	// Default: 64
	Capacity int
}

// DefaultConfig returns the default cursor configuration.
func DefaultConfig() Config {
	return Config{Capacity: 64}
}

// buffer is the state shared by all branches of one root cursor: the pull
// from the true source, the buffered elements, and the live branch
// positions that gate truncation.
type buffer[T any] struct {
	next func() (T, bool)
	stop func()

	// elems[i] holds the element at logical index floor+i.
	elems       []T
	floor       int
	terminated  bool
	forwardOnly bool

	live *live.Positions
}

// Cursor represents a position within, and accumulated buffer of, an input
// sequence of T. The zero value is not usable; construct with New,
// FromSlice, or by branching an existing cursor.
type Cursor[T any] struct {
	buf    *buffer[T]
	pos    int
	closed bool
}

// New creates a root cursor over src. The root owns the buffer and the
// pull-from-source iterator; every branch shares them. Close the root (and
// every branch) to release buffered state and stop the pull.
func New[T any](src iter.Seq[T], cfg Config) *Cursor[T] {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = DefaultConfig().Capacity
	}
	next, stop := iter.Pull(src)
	b := &buffer[T]{
		next:        next,
		stop:        stop,
		elems:       make([]T, 0, capacity),
		forwardOnly: cfg.ForwardOnly,
		live:        live.New(),
	}
	b.live.Add(0)
	return &Cursor[T]{buf: b}
}

// FromSlice creates a bidirectional root cursor over the given elements.
func FromSlice[T any](elems []T) *Cursor[T] {
	cfg := DefaultConfig()
	if len(elems) > 0 {
		cfg.Capacity = len(elems)
	}
	return New(slices.Values(elems), cfg)
}

// Index returns the position of the next unread element.
func (c *Cursor[T]) Index() int {
	return c.pos
}

// LatestIndex returns the highest index ever buffered, or -1 if nothing has
// been pulled from the source yet.
func (c *Cursor[T]) LatestIndex() int {
	return c.buf.floor + len(c.buf.elems) - 1
}

// IsForwardOnly reports whether this cursor's position may only increase.
func (c *Cursor[T]) IsForwardOnly() bool {
	return c.buf.forwardOnly
}

// IsSequenceTerminated reports whether the underlying source has been fully
// drained.
func (c *Cursor[T]) IsSequenceTerminated() bool {
	return c.buf.terminated
}

// AtEndOfSequence reports whether the source is drained and the position is
// one past the last element. Termination is observed lazily: it becomes
// true only after some read (Peek, Next, fill) has probed past the last
// element, not at the instant the last element is consumed.
func (c *Cursor[T]) AtEndOfSequence() bool {
	return c.buf.terminated && c.pos == c.LatestIndex()+1
}

// Buffered returns the number of elements currently held in the shared
// buffer. It exists so callers (and tests) can observe the bounded-memory
// guarantee of forward-only cursors.
func (c *Cursor[T]) Buffered() int {
	return len(c.buf.elems)
}

// Branch returns a new cursor at the same position, sharing the buffer.
// Mutations of the branch's position never affect any other branch.
// The branch must be closed to release its claim on buffered elements.
func (c *Cursor[T]) Branch() *Cursor[T] {
	c.ensureOpen()
	c.buf.live.Add(c.pos)
	return &Cursor[T]{buf: c.buf, pos: c.pos}
}

// Move advances the position by count. On a bidirectional cursor a negative
// count retreats; on a forward-only cursor a negative count panics. Moving
// forward may truncate buffered elements no live branch can reach anymore.
func (c *Cursor[T]) Move(count int) {
	c.ensureOpen()
	if count < 0 && c.buf.forwardOnly {
		panic("cursor: cannot move a forward-only cursor backward")
	}
	npos := c.pos + count
	if npos < 0 {
		panic("cursor: cannot move before the start of the sequence")
	}
	if c.buf.terminated && npos > c.LatestIndex()+1 {
		panic("cursor: cannot move past the end of a terminated sequence")
	}
	c.buf.live.Move(c.pos, npos)
	c.pos = npos
	c.buf.truncate()
}

// Remainder returns a new branch positioned length elements after this
// cursor: the cursor "after this match", without disturbing the original.
func (c *Cursor[T]) Remainder(length int) *Cursor[T] {
	b := c.Branch()
	b.Move(length)
	return b
}

// Peek returns the element at the current position without advancing.
// It returns false once the source is exhausted at or before this position.
func (c *Cursor[T]) Peek() (T, bool) {
	c.ensureOpen()
	c.buf.fill(c.pos)
	if c.pos > c.LatestIndex() {
		var zero T
		return zero, false
	}
	return c.buf.elems[c.pos-c.buf.floor], true
}

// Next returns the element at the current position and advances past it.
// It returns false, without advancing, once the source is exhausted.
func (c *Cursor[T]) Next() (T, bool) {
	v, ok := c.Peek()
	if ok {
		c.Move(1)
	}
	return v, ok
}

// Close releases this cursor's claim on the shared buffer, permitting
// truncation of elements only it still required. Closing the last live
// cursor stops the pull from the source and drops the buffer entirely.
// Close is idempotent.
func (c *Cursor[T]) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.buf.live.Remove(c.pos)
	if c.buf.live.Len() == 0 {
		c.buf.stop()
		c.buf.elems = nil
		return
	}
	c.buf.truncate()
}

func (c *Cursor[T]) ensureOpen() {
	if c.closed {
		panic("cursor: use after Close")
	}
}

// fill pulls from the source until the element at index pos is buffered or
// the source terminates.
func (b *buffer[T]) fill(pos int) {
	for !b.terminated && b.floor+len(b.elems)-1 < pos {
		v, ok := b.next()
		if !ok {
			b.terminated = true
			b.stop()
			return
		}
		b.elems = append(b.elems, v)
	}
}

// truncate discards buffered elements below the minimum live position.
// Only forward-only buffers truncate; bidirectional cursors may retreat
// arbitrarily far, so their buffers keep everything.
func (b *buffer[T]) truncate() {
	if !b.forwardOnly {
		return
	}
	minPos, ok := b.live.Min()
	if !ok {
		return
	}
	drop := minPos - b.floor
	if drop <= 0 {
		return
	}
	if drop > len(b.elems) {
		drop = len(b.elems)
	}
	kept := copy(b.elems, b.elems[drop:])
	clear(b.elems[kept:len(b.elems)])
	b.elems = b.elems[:kept]
	b.floor += drop
}
