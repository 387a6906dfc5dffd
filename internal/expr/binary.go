package expr

import (
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/adarena/internal/arena"
)

type binaryOp int

const (
	opAdd binaryOp = iota
	opSub
	opMul
)

func (op binaryOp) String() string {
	switch op {
	case opAdd:
		return "add"
	case opSub:
		return "sub"
	default:
		return "mul"
	}
}

func (op binaryOp) apply(a, b float64) float64 {
	switch op {
	case opAdd:
		return a + b
	case opSub:
		return a - b
	default:
		return a * b
	}
}

// Binary applies an elementwise operation to two inputs of equal shape, or
// to a scalar and a shaped input (the scalar is broadcast).
//
// Gradients:
//
//	Add: d(a+b)/da = 1, d(a+b)/db = 1
//	Sub: d(a-b)/da = 1, d(a-b)/db = -1
//	Mul: d(a*b)/da = b, d(a*b)/db = a
//
// A broadcast scalar input receives the sum of its per-element seeds.
type Binary struct {
	base
	op     binaryOp
	a, b   Node
	shape  arena.Shape
	av, bv []float64 // Input values from the last Forward.
	red    [1]float64
}

// Add returns a + b.
func Add(a, b Node) (Node, error) {
	return newBinary(opAdd, a, b)
}

// Sub returns a - b.
func Sub(a, b Node) (Node, error) {
	return newBinary(opSub, a, b)
}

// Mul returns a * b elementwise.
func Mul(a, b Node) (Node, error) {
	return newBinary(opMul, a, b)
}

func newBinary(op binaryOp, a, b Node) (Node, error) {
	if a == nil || b == nil {
		return nil, errors.Wrapf(ErrUnsupportedInput, "%s: nil operand", op)
	}
	shape, err := broadcastShape(a.Shape(), b.Shape())
	if err != nil {
		return nil, errors.Wrap(err, op.String())
	}

	ca, aConst := a.(*Constant)
	cb, bConst := b.(*Constant)
	if aConst && bConst {
		vals := make([]float64, shape.Size())
		for i := range vals {
			vals[i] = op.apply(at(ca.values, i), at(cb.values, i))
		}
		return &Constant{shape: shape, values: vals}, nil
	}
	return &Binary{op: op, a: a, b: b, shape: shape}, nil
}

// broadcastShape returns the output shape of an elementwise operation.
func broadcastShape(a, b arena.Shape) (arena.Shape, error) {
	switch {
	case a.Equal(b):
		return a, nil
	case a.IsScalar():
		return b, nil
	case b.IsScalar():
		return a, nil
	default:
		return arena.Shape{}, errors.Wrapf(ErrShapeMismatch, "%s vs %s", a, b)
	}
}

// Shape implements Node.
func (n *Binary) Shape() arena.Shape {
	return n.shape
}

// Inputs implements Node.
func (n *Binary) Inputs() []Node {
	return []Node{n.a, n.b}
}

// SingleSize implements Node.
func (n *Binary) SingleSize() arena.SizePack {
	size := n.shape.Size()
	return arena.SizePack{Values: size, Adjoints: size}
}

// BindSelf implements Node.
func (n *Binary) BindSelf(v arena.View) {
	n.bind(n.op.String(), v)
}

// Forward implements Node.
func (n *Binary) Forward() []float64 {
	n.av = n.a.Forward()
	n.bv = n.b.Forward()
	out := n.view.Value()
	for i := range out {
		out[i] = n.op.apply(at(n.av, i), at(n.bv, i))
	}
	return out
}

// Backward implements Node. The adjoint slots are reused as the seed buffer
// for a, then for b, once a's subtree has finished with it.
func (n *Binary) Backward(seed []float64) {
	checkSeed(n.op.String(), n, seed)
	if n.av == nil {
		exceptions.Panicf("%s: Backward called before Forward", n.op)
	}
	n.propagate(n.a, seed, true)
	n.propagate(n.b, seed, false)
}

func (n *Binary) propagate(input Node, seed []float64, left bool) {
	if IsConstant(input) {
		return
	}
	buf := n.view.Adjoint()
	for i, s := range seed {
		buf[i] = s * n.partial(i, left)
	}
	if input.Shape().Size() == 1 && len(buf) > 1 {
		n.red[0] = floats.Sum(buf)
		input.Backward(n.red[:])
		return
	}
	input.Backward(buf)
}

// partial returns d(out[i])/d(a[i]) when left, d(out[i])/d(b[i]) otherwise.
func (n *Binary) partial(i int, left bool) float64 {
	switch n.op {
	case opAdd:
		return 1
	case opSub:
		if left {
			return 1
		}
		return -1
	default:
		if left {
			return at(n.bv, i)
		}
		return at(n.av, i)
	}
}
