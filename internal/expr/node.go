// Package expr defines reverse-mode expression nodes that evaluate against a
// shared arena.
//
// Every node implements the Node protocol:
//   - Shape/Inputs: structure of the expression graph
//   - SingleSize/BindSelf: the node's own arena slots and how it receives them
//   - Forward: evaluate inputs first, then the node itself
//   - Backward: push a seed shaped like the node's output down to its inputs
//
// Leaves (Var) accumulate seeds into their adjoint slots. Interior nodes never
// accumulate; they only turn their seed into seeds for their inputs.
//
// Supported nodes:
//   - Var: input leaf with value and (optional) adjoint storage
//   - Constant: fixed value, no storage, Backward is a no-op
//   - MaxNode: maximum element, gradient routed to the first argmax
//   - SumNode, ProdNode: sum and product of all elements
//   - ElemNode: one element of its input as a scalar
//   - Unary: elementwise Exp, Log
//   - Binary: elementwise Add, Sub, Mul with scalar broadcasting
package expr

import (
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"

	"github.com/born-ml/adarena/internal/arena"
)

// Build-time errors.
var (
	ErrShapeMismatch    = errors.New("shape mismatch")
	ErrUnsupportedInput = errors.New("unsupported input")
)

// Node is a differentiable expression bound to arena storage.
type Node interface {
	// Shape returns the shape of the node's output.
	Shape() arena.Shape

	// Inputs returns the direct children of the node.
	Inputs() []Node

	// SingleSize returns the slots this node needs for itself, children excluded.
	// Values is either 0 or Shape().Size(); Adjoints is either 0 or Shape().Size().
	SingleSize() arena.SizePack

	// BindSelf hands the node its own slice of the arena. Called once, after
	// all inputs have been bound.
	BindSelf(v arena.View)

	// Forward evaluates the inputs and then the node, returning its value slots.
	Forward() []float64

	// Backward propagates seed = dL/d(output) to the inputs.
	// len(seed) must equal Shape().Size().
	Backward(seed []float64)
}

// base carries the arena view every storage-owning node embeds.
type base struct {
	view arena.View
}

func (b *base) bind(name string, v arena.View) {
	if b.view.Bound() {
		exceptions.Panicf("%s: already bound to an arena", name)
	}
	b.view = v
}

// View returns the node's arena view (unbound before Bind).
func (b *base) View() arena.View {
	return b.view
}

func checkSeed(name string, n Node, seed []float64) {
	if want := n.Shape().Size(); len(seed) != want {
		exceptions.Panicf("%s: backward seed has %d slots, want %d", name, len(seed), want)
	}
}

// at reads element i of vals, broadcasting a single-slot value.
func at(vals []float64, i int) float64 {
	if len(vals) == 1 {
		return vals[0]
	}
	return vals[i]
}
