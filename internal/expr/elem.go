package expr

import (
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"

	"github.com/born-ml/adarena/internal/arena"
)

// ElemNode selects one element of its input as a scalar. It owns no arena
// slots: Forward returns a window onto the input's value slots.
type ElemNode struct {
	input   Node
	index   int
	scratch []float64
}

// Elem returns element i of x, row-major for matrices. Constants are folded.
func Elem(x Node, i int) (Node, error) {
	if x == nil {
		return nil, errors.Wrap(ErrUnsupportedInput, "elem: nil input")
	}
	if n := x.Shape().Size(); i < 0 || i >= n {
		return nil, errors.Wrapf(ErrShapeMismatch, "elem: index %d out of range for %s", i, x.Shape())
	}
	if c, ok := x.(*Constant); ok {
		return Const(c.values[i]), nil
	}
	return &ElemNode{input: x, index: i}, nil
}

// Index returns the selected linear index.
func (e *ElemNode) Index() int {
	return e.index
}

// Shape implements Node.
func (e *ElemNode) Shape() arena.Shape {
	return arena.ScalarShape()
}

// Inputs implements Node.
func (e *ElemNode) Inputs() []Node {
	return []Node{e.input}
}

// SingleSize implements Node.
func (e *ElemNode) SingleSize() arena.SizePack {
	return arena.SizePack{}
}

// BindSelf implements Node. An element view has nothing to bind.
func (e *ElemNode) BindSelf(arena.View) {
	exceptions.Panicf("elem: holds no arena storage")
}

// Forward implements Node.
func (e *ElemNode) Forward() []float64 {
	in := e.input.Forward()
	return in[e.index : e.index+1 : e.index+1]
}

// Backward implements Node. A Var input receives the seed at the selected
// position directly; any other input gets a one-hot seed.
func (e *ElemNode) Backward(seed []float64) {
	checkSeed("elem", e, seed)
	if v, ok := e.input.(*Var); ok {
		v.accumulateAt(e.index, seed[0])
		return
	}
	n := e.input.Shape().Size()
	if cap(e.scratch) < n {
		e.scratch = make([]float64, n)
	}
	e.scratch = e.scratch[:n]
	clear(e.scratch)
	e.scratch[e.index] = seed[0]
	e.input.Backward(e.scratch)
}
