// Package autodiff evaluates expression graphs in reverse mode.
//
// A Graph is the caller-owned evaluation context: it sizes the expression,
// allocates one arena, binds every node to it, and then runs forward and
// backward passes any number of times.
//
// Usage:
//
//	x, _ := expr.Vector([]float64{3, 5, 5, 2})
//	g, err := autodiff.NewGraph(expr.Max(x))
//	if err != nil { ... }
//	value := g.Autodiff()  // forward, then backward seeded with 1.0
//	grad := x.Adjoint()    // [0, 1, 0, 0]
package autodiff

import (
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"

	"github.com/born-ml/adarena/internal/arena"
	"github.com/born-ml/adarena/internal/expr"
)

// Graph owns the arena of one expression and tracks its evaluation state.
type Graph struct {
	root      expr.Node
	arena     *arena.Arena
	forwarded bool   // Whether Forward ran since construction or the last Reset.
	gen       uint64 // Arena generation seen by the last Forward.
	unit      [1]float64
}

// NewGraph validates the expression rooted at root, allocates its arena and
// binds every node. Nodes cannot be shared between graphs, except constants.
func NewGraph(root expr.Node) (*Graph, error) {
	if root == nil {
		return nil, errors.New("graph: nil root")
	}
	if err := expr.Validate(root); err != nil {
		return nil, errors.Wrap(err, "graph")
	}

	a := arena.New(expr.RequiredSize(root))
	end := expr.Bind(root, a.Cursor())
	if rem := end.Remaining(); !rem.IsZero() {
		exceptions.Panicf("graph: %s arena slots left unbound", rem)
	}
	return &Graph{root: root, arena: a}, nil
}

// Root returns the expression the graph evaluates.
func (g *Graph) Root() expr.Node {
	return g.root
}

// Arena returns the arena backing the graph.
func (g *Graph) Arena() *arena.Arena {
	return g.arena
}

// Size returns the number of arena slots the graph uses.
func (g *Graph) Size() arena.SizePack {
	return g.arena.Size()
}

// Forward evaluates the expression and returns the root's value slots.
func (g *Graph) Forward() []float64 {
	out := g.root.Forward()
	g.forwarded = true
	g.gen = g.arena.Generation()
	return out
}

// Value evaluates a scalar expression and returns its value.
func (g *Graph) Value() float64 {
	if !g.root.Shape().IsScalar() {
		exceptions.Panicf("graph: Value on a %s root", g.root.Shape())
	}
	return g.Forward()[0]
}

// Backward zeroes every adjoint and propagates seed from the root.
// Without a seed a scalar root is seeded with 1.0.
// It panics if Forward has not run since the last Reset or since a leaf
// value was changed with Set.
func (g *Graph) Backward(seed ...float64) {
	if !g.forwarded {
		exceptions.Panicf("graph: Backward called before Forward")
	}
	if g.gen != g.arena.Generation() {
		exceptions.Panicf("graph: leaf values changed since the last Forward")
	}
	if len(seed) == 0 {
		if !g.root.Shape().IsScalar() {
			exceptions.Panicf("graph: a %s root needs an explicit seed", g.root.Shape())
		}
		g.unit[0] = 1
		seed = g.unit[:]
	}
	g.arena.ZeroAdjoints()
	g.root.Backward(seed)
}

// Autodiff runs Forward then Backward and returns the root's value slots.
func (g *Graph) Autodiff(seed ...float64) []float64 {
	out := g.Forward()
	g.Backward(seed...)
	return out
}

// Reset marks the forward state stale. Leaf writes made through Var.Set are
// detected without it; Reset covers writes made directly to value slots.
func (g *Graph) Reset() {
	g.forwarded = false
}

// TryForward is Forward returning precondition violations as errors.
func (g *Graph) TryForward() (out []float64, err error) {
	err = Try(func() { out = g.Forward() })
	return out, err
}

// TryBackward is Backward returning precondition violations as errors.
func (g *Graph) TryBackward(seed ...float64) error {
	return Try(func() { g.Backward(seed...) })
}

// Try runs fn and converts a panic raised inside it into an error.
func Try(fn func()) error {
	return exceptions.TryCatch[error](fn)
}
