package expr

import (
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/adarena/internal/arena"
)

// Var is an input leaf. Until it is bound the Var keeps its initial value
// in memory of its own; after binding the value lives in the arena and the
// initial copy is dropped.
type Var struct {
	base
	shape  arena.Shape
	init   []float64
	frozen bool
}

// Scalar creates a scalar input.
func Scalar(v float64) *Var {
	return &Var{shape: arena.ScalarShape(), init: []float64{v}}
}

// Vector creates a vector input holding a copy of values.
func Vector(values []float64) (*Var, error) {
	return newVar(arena.VectorShape(len(values)), values)
}

// Matrix creates a rows x cols input from row-major values.
func Matrix(rows, cols int, values []float64) (*Var, error) {
	return newVar(arena.MatrixShape(rows, cols), values)
}

// MatrixFrom creates a matrix input holding a copy of m.
func MatrixFrom(m mat.Matrix) (*Var, error) {
	r, c := m.Dims()
	return newVar(arena.MatrixShape(r, c), rowMajor(m))
}

func newVar(shape arena.Shape, values []float64) (*Var, error) {
	if err := shape.Validate(); err != nil {
		return nil, errors.Wrap(err, "var")
	}
	if len(values) != shape.Size() {
		return nil, errors.Wrapf(ErrShapeMismatch, "var: %d values for %s", len(values), shape)
	}
	return &Var{shape: shape, init: append([]float64(nil), values...)}, nil
}

// Freeze drops the adjoint storage of the Var: it still feeds values into
// the graph but receives no gradient. Must be called before binding.
func (v *Var) Freeze() *Var {
	if v.view.Bound() {
		exceptions.Panicf("var: Freeze after Bind")
	}
	v.frozen = true
	return v
}

// Frozen reports whether the Var carries no adjoint storage.
func (v *Var) Frozen() bool {
	return v.frozen
}

// Shape implements Node.
func (v *Var) Shape() arena.Shape {
	return v.shape
}

// Inputs implements Node.
func (v *Var) Inputs() []Node {
	return nil
}

// SingleSize implements Node.
func (v *Var) SingleSize() arena.SizePack {
	n := v.shape.Size()
	if v.frozen {
		return arena.SizePack{Values: n}
	}
	return arena.SizePack{Values: n, Adjoints: n}
}

// BindSelf implements Node. The initial value is copied into the arena.
func (v *Var) BindSelf(view arena.View) {
	v.bind("var", view)
	copy(view.Value(), v.init)
	v.init = nil
}

// Value returns the current value slots. Writes through the returned slice
// are not tracked; use Set so Backward can detect stale forward state.
func (v *Var) Value() []float64 {
	if !v.view.Bound() {
		return v.init
	}
	return v.view.Value()
}

// Adjoint returns the accumulated gradient. It panics for a frozen or
// unbound Var.
func (v *Var) Adjoint() []float64 {
	return v.view.Adjoint()
}

// Set overwrites the value. The shape of a bound Var cannot change.
func (v *Var) Set(values []float64) error {
	if len(values) != v.shape.Size() {
		return errors.Wrapf(ErrShapeMismatch, "var: set %d values on %s", len(values), v.shape)
	}
	copy(v.Value(), values)
	v.touch()
	return nil
}

// SetScalar overwrites the value of a scalar Var.
func (v *Var) SetScalar(x float64) {
	if !v.shape.IsScalar() {
		exceptions.Panicf("var: SetScalar on %s", v.shape)
	}
	v.Value()[0] = x
	v.touch()
}

// touch invalidates the forward state cached by nodes sharing the arena.
func (v *Var) touch() {
	if a := v.view.Arena(); a != nil {
		a.Touch()
	}
}

// Forward implements Node.
func (v *Var) Forward() []float64 {
	return v.view.Value()
}

// Backward implements Node: the seed is added into the adjoint.
func (v *Var) Backward(seed []float64) {
	checkSeed("var", v, seed)
	if v.frozen {
		return
	}
	adj := v.view.Adjoint()
	for i, s := range seed {
		adj[i] += s
	}
}

// accumulateAt adds s into adjoint slot i.
func (v *Var) accumulateAt(i int, s float64) {
	if v.frozen {
		return
	}
	v.view.Adjoint()[i] += s
}

// rowMajor copies m into a fresh row-major slice.
func rowMajor(m mat.Matrix) []float64 {
	r, c := m.Dims()
	out := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out = append(out, m.At(i, j))
		}
	}
	return out
}
