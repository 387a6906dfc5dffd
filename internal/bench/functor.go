// Package bench drives expression graphs the way an AD benchmark harness
// does: build a functor over an input vector, time forward/backward pairs,
// and compare the gradient against a closed form.
package bench

import (
	"math"
	"math/rand/v2"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/adarena/internal/expr"
)

// Functor is a scalar function of a vector with a known gradient.
type Functor interface {
	// Name identifies the functor in reports.
	Name() string

	// Fill writes a deterministic test input into x.
	Fill(x []float64)

	// Build expresses the function as a node tree over x.
	Build(x *expr.Var) (expr.Node, error)

	// Value computes the function directly.
	Value(x []float64) float64

	// Derivative writes the closed-form gradient into grad.
	Derivative(x, grad []float64)
}

// fillSeed fixes the input stream so every run sees the same vectors.
const fillSeed = 0x5eed

// fillUniform writes values drawn uniformly from [lo, hi).
func fillUniform(x []float64, lo, hi float64) {
	r := rand.New(rand.NewPCG(fillSeed, uint64(len(x))))
	for i := range x {
		x[i] = lo + (hi-lo)*r.Float64()
	}
}

// SumFunc is f(x) = sum(x).
type SumFunc struct{}

// Name implements Functor.
func (SumFunc) Name() string { return "sum" }

// Fill implements Functor.
func (SumFunc) Fill(x []float64) { fillUniform(x, -1, 1) }

// Build implements Functor.
func (SumFunc) Build(x *expr.Var) (expr.Node, error) {
	return expr.Sum(x), nil
}

// Value implements Functor.
func (SumFunc) Value(x []float64) float64 { return floats.Sum(x) }

// Derivative implements Functor.
func (SumFunc) Derivative(_, grad []float64) {
	for i := range grad {
		grad[i] = 1
	}
}

// SumIterFunc is f(x) = sum(x), built as a chain of scalar additions over
// the elements of x.
type SumIterFunc struct {
	SumFunc
}

// Name implements Functor.
func (SumIterFunc) Name() string { return "sum_iter" }

// Build implements Functor.
func (SumIterFunc) Build(x *expr.Var) (expr.Node, error) {
	return chainElems(x, expr.Add, "sum_iter")
}

// ProdFunc is f(x) = prod(x). The gradient is prod(x) / x[i].
type ProdFunc struct{}

// Name implements Functor.
func (ProdFunc) Name() string { return "prod" }

// Fill implements Functor. Values stay close to 1 so the product neither
// overflows nor underflows at the largest sweep sizes.
func (ProdFunc) Fill(x []float64) { fillUniform(x, 0.99, 1.01) }

// Build implements Functor.
func (ProdFunc) Build(x *expr.Var) (expr.Node, error) {
	return expr.Prod(x), nil
}

// Value implements Functor.
func (ProdFunc) Value(x []float64) float64 { return floats.Prod(x) }

// Derivative implements Functor.
func (ProdFunc) Derivative(x, grad []float64) {
	p := floats.Prod(x)
	for i, v := range x {
		grad[i] = p / v
	}
}

// ProdIterFunc is f(x) = prod(x), built as a chain of scalar products over
// the elements of x.
type ProdIterFunc struct {
	ProdFunc
}

// Name implements Functor.
func (ProdIterFunc) Name() string { return "prod_iter" }

// Build implements Functor.
func (ProdIterFunc) Build(x *expr.Var) (expr.Node, error) {
	return chainElems(x, expr.Mul, "prod_iter")
}

// chainElems folds op over the elements of x from left to right.
func chainElems(x *expr.Var, op func(a, b expr.Node) (expr.Node, error), name string) (expr.Node, error) {
	acc, err := expr.Elem(x, 0)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	for i := 1; i < x.Shape().Size(); i++ {
		e, err := expr.Elem(x, i)
		if err != nil {
			return nil, errors.Wrap(err, name)
		}
		if acc, err = op(acc, e); err != nil {
			return nil, errors.Wrap(err, name)
		}
	}
	return acc, nil
}

// MaxFunc is f(x) = max(x). The gradient is 1 at the first argmax.
type MaxFunc struct{}

// Name implements Functor.
func (MaxFunc) Name() string { return "max" }

// Fill implements Functor.
func (MaxFunc) Fill(x []float64) { fillUniform(x, -1, 1) }

// Build implements Functor.
func (MaxFunc) Build(x *expr.Var) (expr.Node, error) {
	return expr.Max(x), nil
}

// Value implements Functor.
func (MaxFunc) Value(x []float64) float64 { return floats.Max(x) }

// Derivative implements Functor.
func (MaxFunc) Derivative(x, grad []float64) {
	clear(grad)
	grad[floats.MaxIdx(x)] = 1
}

// LogSumExpFunc is f(x) = log(sum(exp(x))), built in the overflow-safe form
// max(x) + log(sum(exp(x - max(x)))). The gradient is softmax(x).
type LogSumExpFunc struct{}

// Name implements Functor.
func (LogSumExpFunc) Name() string { return "log_sum_exp" }

// Fill implements Functor.
func (LogSumExpFunc) Fill(x []float64) { fillUniform(x, -1, 1) }

// Build implements Functor.
func (LogSumExpFunc) Build(x *expr.Var) (expr.Node, error) {
	m := expr.Max(x)
	shifted, err := expr.Sub(x, m)
	if err != nil {
		return nil, errors.Wrap(err, "log_sum_exp")
	}
	return expr.Add(m, expr.Log(expr.Sum(expr.Exp(shifted))))
}

// Value implements Functor.
func (LogSumExpFunc) Value(x []float64) float64 { return floats.LogSumExp(x) }

// Derivative implements Functor.
func (LogSumExpFunc) Derivative(x, grad []float64) {
	lse := floats.LogSumExp(x)
	for i, v := range x {
		grad[i] = math.Exp(v - lse)
	}
}

// NormalLogPDFFunc is the log density of x under N(Mu, Sigma^2), summed
// over the elements of x.
type NormalLogPDFFunc struct {
	Mu    float64
	Sigma float64
}

// NewNormalLogPDFFunc returns the functor with the standard benchmark
// parameters.
func NewNormalLogPDFFunc() NormalLogPDFFunc {
	return NormalLogPDFFunc{Mu: -0.56, Sigma: 1.37}
}

// Name implements Functor.
func (NormalLogPDFFunc) Name() string { return "normal_log_pdf" }

// Fill implements Functor.
func (NormalLogPDFFunc) Fill(x []float64) { fillUniform(x, -1, 1) }

// Build implements Functor.
func (f NormalLogPDFFunc) Build(x *expr.Var) (expr.Node, error) {
	n := float64(x.Shape().Size())
	centered, err := expr.Sub(x, expr.Const(f.Mu))
	if err != nil {
		return nil, errors.Wrap(err, "normal_log_pdf")
	}
	z, err := expr.Mul(centered, expr.Const(1/f.Sigma))
	if err != nil {
		return nil, errors.Wrap(err, "normal_log_pdf")
	}
	sq, err := expr.Mul(z, z)
	if err != nil {
		return nil, errors.Wrap(err, "normal_log_pdf")
	}
	quad, err := expr.Mul(expr.Sum(sq), expr.Const(-0.5))
	if err != nil {
		return nil, errors.Wrap(err, "normal_log_pdf")
	}
	return expr.Sub(quad, expr.Const(n*f.normalizer()))
}

// Value implements Functor.
func (f NormalLogPDFFunc) Value(x []float64) float64 {
	var quad float64
	for _, v := range x {
		z := (v - f.Mu) / f.Sigma
		quad += z * z
	}
	return -0.5*quad - float64(len(x))*f.normalizer()
}

// Derivative implements Functor.
func (f NormalLogPDFFunc) Derivative(x, grad []float64) {
	for i, v := range x {
		grad[i] = -(v - f.Mu) / (f.Sigma * f.Sigma)
	}
}

func (f NormalLogPDFFunc) normalizer() float64 {
	return math.Log(f.Sigma) + 0.5*math.Log(2*math.Pi)
}

// Functors returns every registered functor keyed by name. Functors that
// need dot or matrix products (regression, matrix_product,
// stochastic_volatility) have no node to build on and are not provided.
func Functors() map[string]Functor {
	all := []Functor{
		SumFunc{}, SumIterFunc{}, ProdFunc{}, ProdIterFunc{},
		MaxFunc{}, LogSumExpFunc{}, NewNormalLogPDFFunc(),
	}
	out := make(map[string]Functor, len(all))
	for _, f := range all {
		out[f.Name()] = f
	}
	return out
}
