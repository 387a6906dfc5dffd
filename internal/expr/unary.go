package expr

import (
	"math"

	"github.com/gomlx/exceptions"

	"github.com/born-ml/adarena/internal/arena"
)

type unaryOp int

const (
	opExp unaryOp = iota
	opLog
)

func (op unaryOp) String() string {
	if op == opExp {
		return "exp"
	}
	return "log"
}

func (op unaryOp) apply(x float64) float64 {
	if op == opExp {
		return math.Exp(x)
	}
	return math.Log(x)
}

// derivative returns dy/dx given the input x and output y.
func (op unaryOp) derivative(x, y float64) float64 {
	if op == opExp {
		return y
	}
	return 1 / x
}

// Unary applies an elementwise function.
//
// The node owns value slots for its output and adjoint slots it uses as the
// seed buffer for its input:
//
//	Exp: d(exp(x))/dx = exp(x)
//	Log: d(log(x))/dx = 1/x
type Unary struct {
	base
	op    unaryOp
	input Node
	in    []float64 // Input values from the last Forward.
}

// Exp returns exp(x) elementwise. Constants are folded.
func Exp(x Node) Node {
	return newUnary(opExp, x)
}

// Log returns log(x) elementwise. Constants are folded.
func Log(x Node) Node {
	return newUnary(opLog, x)
}

func newUnary(op unaryOp, x Node) Node {
	if c, ok := x.(*Constant); ok {
		vals := make([]float64, len(c.values))
		for i, v := range c.values {
			vals[i] = op.apply(v)
		}
		return &Constant{shape: c.shape, values: vals}
	}
	return &Unary{op: op, input: x}
}

// Shape implements Node.
func (u *Unary) Shape() arena.Shape {
	return u.input.Shape()
}

// Inputs implements Node.
func (u *Unary) Inputs() []Node {
	return []Node{u.input}
}

// SingleSize implements Node.
func (u *Unary) SingleSize() arena.SizePack {
	n := u.input.Shape().Size()
	return arena.SizePack{Values: n, Adjoints: n}
}

// BindSelf implements Node.
func (u *Unary) BindSelf(v arena.View) {
	u.bind(u.op.String(), v)
}

// Forward implements Node.
func (u *Unary) Forward() []float64 {
	u.in = u.input.Forward()
	out := u.view.Value()
	for i, x := range u.in {
		out[i] = u.op.apply(x)
	}
	return out
}

// Backward implements Node.
func (u *Unary) Backward(seed []float64) {
	checkSeed(u.op.String(), u, seed)
	if u.in == nil {
		exceptions.Panicf("%s: Backward called before Forward", u.op)
	}
	out := u.view.Value()
	buf := u.view.Adjoint()
	for i, s := range seed {
		buf[i] = s * u.op.derivative(u.in[i], out[i])
	}
	u.input.Backward(buf)
}
