package expr

import (
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/adarena/internal/arena"
)

// SumNode reduces its input to the sum of all elements.
// Backward broadcasts the seed to every input position.
type SumNode struct {
	base
	input   Node
	scratch []float64
}

// Sum returns the sum of all elements of x. Constants are folded.
func Sum(x Node) Node {
	if c, ok := x.(*Constant); ok {
		if c.Shape().IsScalar() {
			return c
		}
		return Const(floats.Sum(c.Values()))
	}
	return &SumNode{input: x}
}

// Shape implements Node.
func (s *SumNode) Shape() arena.Shape {
	return arena.ScalarShape()
}

// Inputs implements Node.
func (s *SumNode) Inputs() []Node {
	return []Node{s.input}
}

// SingleSize implements Node.
func (s *SumNode) SingleSize() arena.SizePack {
	return arena.SizePack{Values: 1}
}

// BindSelf implements Node.
func (s *SumNode) BindSelf(v arena.View) {
	s.bind("sum", v)
}

// Forward implements Node.
func (s *SumNode) Forward() []float64 {
	out := s.view.Value()
	out[0] = floats.Sum(s.input.Forward())
	return out
}

// Backward implements Node.
func (s *SumNode) Backward(seed []float64) {
	checkSeed("sum", s, seed)
	n := s.input.Shape().Size()
	if n == 1 {
		s.input.Backward(seed)
		return
	}
	if cap(s.scratch) < n {
		s.scratch = make([]float64, n)
	}
	s.scratch = s.scratch[:n]
	for i := range s.scratch {
		s.scratch[i] = seed[0]
	}
	s.input.Backward(s.scratch)
}
