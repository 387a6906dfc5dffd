// Package arena provides the flat scalar storage shared by every node of an
// expression graph.
//
// An Arena owns exactly two slices: one for values and one for adjoints.
// Nodes never allocate; at bind time each node receives a View, an offset
// pair into the arena, carved out by advancing a Cursor:
//
//	a := arena.New(arena.SizePack{Values: 5, Adjoints: 4})
//	c := a.Cursor()
//	leaf, c := c.Take(arena.VectorShape(4), true)  // 4 values, 4 adjoints
//	root, c := c.Take(arena.ScalarShape(), false)  // 1 value, no adjoint
package arena

import (
	"fmt"

	"github.com/gomlx/exceptions"
)

// SizePack counts value and adjoint slots.
type SizePack struct {
	Values   int
	Adjoints int
}

// Add returns the slot-wise sum of two packs.
func (p SizePack) Add(other SizePack) SizePack {
	return SizePack{Values: p.Values + other.Values, Adjoints: p.Adjoints + other.Adjoints}
}

// IsZero reports whether the pack needs no storage at all.
func (p SizePack) IsZero() bool {
	return p.Values == 0 && p.Adjoints == 0
}

// String implements fmt.Stringer.
func (p SizePack) String() string {
	return fmt.Sprintf("{values: %d, adjoints: %d}", p.Values, p.Adjoints)
}

// Arena is one contiguous value buffer plus one contiguous adjoint buffer.
type Arena struct {
	values   []float64
	adjoints []float64
	gen      uint64 // Bumped whenever leaf values are overwritten.
}

// New allocates an arena holding exactly size slots.
func New(size SizePack) *Arena {
	if size.Values < 0 || size.Adjoints < 0 {
		exceptions.Panicf("arena: negative size %s", size)
	}
	return &Arena{
		values:   make([]float64, size.Values),
		adjoints: make([]float64, size.Adjoints),
	}
}

// Size returns the number of slots the arena holds.
func (a *Arena) Size() SizePack {
	return SizePack{Values: len(a.values), Adjoints: len(a.adjoints)}
}

// Values returns the whole value buffer.
func (a *Arena) Values() []float64 {
	return a.values
}

// Adjoints returns the whole adjoint buffer.
func (a *Arena) Adjoints() []float64 {
	return a.adjoints
}

// ZeroAdjoints clears every adjoint slot.
// Adjoints accumulate, so this must run before each backward pass.
func (a *Arena) ZeroAdjoints() {
	clear(a.adjoints)
}

// Generation counts the leaf writes made through Touch. Nodes that cache
// state in Forward record it and compare it again in Backward.
func (a *Arena) Generation() uint64 {
	return a.gen
}

// Touch marks every cached forward state in the arena as stale.
func (a *Arena) Touch() {
	a.gen++
}

// Cursor returns a cursor positioned at the start of the arena.
func (a *Arena) Cursor() Cursor {
	return Cursor{arena: a}
}

// Cursor is a position inside an arena. Taking a slice returns a new cursor
// advanced past it; the receiver is left untouched.
type Cursor struct {
	arena *Arena
	val   int
	adj   int
}

// Arena returns the arena the cursor walks.
func (c Cursor) Arena() *Arena {
	return c.arena
}

// Offset returns the current value and adjoint offsets.
func (c Cursor) Offset() SizePack {
	return SizePack{Values: c.val, Adjoints: c.adj}
}

// Remaining returns how many slots are still free after the cursor.
func (c Cursor) Remaining() SizePack {
	if c.arena == nil {
		return SizePack{}
	}
	return SizePack{Values: len(c.arena.values) - c.val, Adjoints: len(c.arena.adjoints) - c.adj}
}

// Take carves a view of the given shape out of the arena. With withAdjoint
// false the view gets no adjoint slots and the adjoint offset does not move.
func (c Cursor) Take(shape Shape, withAdjoint bool) (View, Cursor) {
	if c.arena == nil {
		exceptions.Panicf("arena: Take on a cursor without arena")
	}
	n := shape.Size()
	need := SizePack{Values: n}
	if withAdjoint {
		need.Adjoints = n
	}
	rem := c.Remaining()
	if need.Values > rem.Values || need.Adjoints > rem.Adjoints {
		exceptions.Panicf("arena: %s needs %s but only %s remain", shape, need, rem)
	}

	v := View{
		arena:  c.arena,
		valOff: c.val,
		adjOff: c.adj,
		shape:  shape,
		hasAdj: withAdjoint,
		bound:  true,
	}
	c.val += need.Values
	c.adj += need.Adjoints
	return v, c
}
