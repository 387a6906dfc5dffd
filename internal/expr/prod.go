package expr

import (
	"github.com/gomlx/exceptions"
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/adarena/internal/arena"
)

// ProdNode reduces its input to the product of all elements.
//
// Backward sends seed * prod(x[j], j != i) to position i. The partial
// products are built from prefix and suffix products, so zeros in the
// input are handled exactly.
type ProdNode struct {
	base
	input   Node
	in      []float64 // Input values from the last Forward.
	scratch []float64
}

// Prod returns the product of all elements of x. Constants are folded.
func Prod(x Node) Node {
	if c, ok := x.(*Constant); ok {
		if c.Shape().IsScalar() {
			return c
		}
		return Const(floats.Prod(c.Values()))
	}
	return &ProdNode{input: x}
}

// Shape implements Node.
func (p *ProdNode) Shape() arena.Shape {
	return arena.ScalarShape()
}

// Inputs implements Node.
func (p *ProdNode) Inputs() []Node {
	return []Node{p.input}
}

// SingleSize implements Node.
func (p *ProdNode) SingleSize() arena.SizePack {
	return arena.SizePack{Values: 1}
}

// BindSelf implements Node.
func (p *ProdNode) BindSelf(v arena.View) {
	p.bind("prod", v)
}

// Forward implements Node.
func (p *ProdNode) Forward() []float64 {
	p.in = p.input.Forward()
	out := p.view.Value()
	out[0] = floats.Prod(p.in)
	return out
}

// Backward implements Node.
func (p *ProdNode) Backward(seed []float64) {
	checkSeed("prod", p, seed)
	if p.in == nil {
		exceptions.Panicf("prod: Backward called before Forward")
	}
	in := p.in
	n := len(in)
	if n == 1 {
		p.input.Backward(seed)
		return
	}
	if cap(p.scratch) < n {
		p.scratch = make([]float64, n)
	}
	p.scratch = p.scratch[:n]

	suffix := 1.0
	for i := n - 1; i >= 0; i-- {
		p.scratch[i] = suffix
		suffix *= in[i]
	}
	prefix := seed[0]
	for i := 0; i < n; i++ {
		p.scratch[i] *= prefix
		prefix *= in[i]
	}
	p.input.Backward(p.scratch)
}
