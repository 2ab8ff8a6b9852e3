// Package live tracks the positions of live cursor branches over a shared
// input buffer, together with the minimum position among them.
//
// The minimum is what bounds buffer truncation: elements below the smallest
// live position can never be read again, so the buffer may discard them.
// Add is O(1); removing the last branch at the current minimum triggers an
// O(branches) rescan.
package live

// Positions is a multiset of branch positions with a tracked minimum.
// It is not safe for concurrent use; a parse invocation and every branch it
// spawns are confined to one goroutine.
type Positions struct {
	counts   map[int]int
	size     int
	min      int
	minValid bool
}

// New creates an empty position multiset.
func New() *Positions {
	return &Positions{counts: make(map[int]int)}
}

// Add records one more live branch at pos.
func (p *Positions) Add(pos int) {
	p.counts[pos]++
	p.size++
	if !p.minValid || pos < p.min {
		p.min = pos
		p.minValid = true
	}
}

// Remove drops one live branch at pos.
// Panics if no live branch is recorded at pos.
func (p *Positions) Remove(pos int) {
	n, ok := p.counts[pos]
	if !ok {
		panic("live: Remove of position with no live branch")
	}
	if n == 1 {
		delete(p.counts, pos)
	} else {
		p.counts[pos] = n - 1
	}
	p.size--
	if p.size == 0 {
		p.minValid = false
		return
	}
	if pos == p.min && p.counts[pos] == 0 {
		p.rescan()
	}
}

// Move relocates one live branch from one position to another.
// Panics if no live branch is recorded at from.
func (p *Positions) Move(from, to int) {
	p.Remove(from)
	p.Add(to)
}

// Min returns the smallest live position.
// The second return value is false when no branches are live.
func (p *Positions) Min() (int, bool) {
	if !p.minValid {
		return 0, false
	}
	return p.min, true
}

// Len returns the number of live branches.
func (p *Positions) Len() int {
	return p.size
}

func (p *Positions) rescan() {
	first := true
	for pos := range p.counts {
		if first || pos < p.min {
			p.min = pos
			first = false
		}
	}
	p.minValid = !first
}
