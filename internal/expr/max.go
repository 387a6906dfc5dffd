package expr

import (
	"github.com/gomlx/exceptions"
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/adarena/internal/arena"
)

// MaxNode reduces its input to the maximum element.
//
// Forward:
//
//	output = max(input)
//
// Backward:
//   - The whole seed goes to the argmax position recorded by the last Forward
//   - Panics if a leaf was Set since that Forward
//   - Every other position receives zero
//   - Ties resolve to the first occurrence in row-major order
//
// Example:
//
//	Input:  [[1, 9],  Output: 9  Input Grad: [[0, seed],
//	         [7, 2]]                          [0, 0]]
//
// The node stores only its scalar value; it needs no adjoint slot because
// it never accumulates.
type MaxNode struct {
	base
	input Node

	// Cached by Forward, consumed by Backward.
	rows      int
	cols      int
	argmax    int    // Linear row-major index.
	gen       uint64 // Arena generation seen by the last Forward.
	evaluated bool

	scratch []float64
}

func newMaxNode(input Node) *MaxNode {
	return &MaxNode{input: input}
}

// Input returns the reduced expression.
func (m *MaxNode) Input() Node {
	return m.input
}

// Shape implements Node.
func (m *MaxNode) Shape() arena.Shape {
	return arena.ScalarShape()
}

// Inputs implements Node.
func (m *MaxNode) Inputs() []Node {
	return []Node{m.input}
}

// SingleSize implements Node.
func (m *MaxNode) SingleSize() arena.SizePack {
	return arena.SizePack{Values: 1}
}

// BindSelf implements Node.
func (m *MaxNode) BindSelf(v arena.View) {
	m.bind("max", v)
}

// Forward implements Node.
func (m *MaxNode) Forward() []float64 {
	res := m.input.Forward()
	shape := m.input.Shape()

	switch shape.Kind {
	case arena.Scalar:
		m.rows, m.cols = 1, 1
		m.argmax = 0
	case arena.Vector:
		m.rows, m.cols = len(res), 1
		m.argmax = floats.MaxIdx(res)
	case arena.Matrix:
		m.rows, m.cols = shape.Rows, shape.Cols
		m.argmax = floats.MaxIdx(res)
	default:
		exceptions.Panicf("max: unsupported input shape %s", shape)
	}

	out := m.view.Value()
	out[0] = res[m.argmax]
	m.gen = m.view.Arena().Generation()
	m.evaluated = true
	return out
}

// Backward implements Node.
func (m *MaxNode) Backward(seed []float64) {
	checkSeed("max", m, seed)
	if !m.evaluated {
		exceptions.Panicf("max: Backward called before Forward")
	}
	if m.gen != m.view.Arena().Generation() {
		exceptions.Panicf("max: leaf values changed since the last Forward")
	}

	if m.input.Shape().IsScalar() {
		m.input.Backward(seed)
		return
	}

	n := m.rows * m.cols
	if cap(m.scratch) < n {
		m.scratch = make([]float64, n)
	}
	m.scratch = m.scratch[:n]
	clear(m.scratch)
	m.scratch[m.argmax] = seed[0]
	m.input.Backward(m.scratch)
}

// Index returns the linear row-major argmax from the last Forward.
func (m *MaxNode) Index() int {
	if !m.evaluated {
		exceptions.Panicf("max: Index called before Forward")
	}
	return m.argmax
}

// Argmax decodes the last argmax into (row, col). Vectors report col 0.
func (m *MaxNode) Argmax() (row, col int) {
	idx := m.Index()
	return idx / m.cols, idx % m.cols
}
