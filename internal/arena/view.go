package arena

import (
	"github.com/gomlx/exceptions"
	"gonum.org/v1/gonum/mat"
)

// View is a non-owning window over a node's value slots and, optionally,
// its adjoint slots. Both windows have Shape().Size() elements.
//
// The zero View is unbound; any access to its storage panics.
type View struct {
	arena  *Arena
	valOff int
	adjOff int
	shape  Shape
	hasAdj bool
	bound  bool
}

// Shape returns the shape of the viewed storage.
func (v View) Shape() Shape {
	return v.shape
}

// Arena returns the arena the view points into, nil when unbound.
func (v View) Arena() *Arena {
	return v.arena
}

// Bound reports whether the view points into an arena.
func (v View) Bound() bool {
	return v.bound
}

// HasAdjoint reports whether adjoint slots were carved for this view.
func (v View) HasAdjoint() bool {
	return v.bound && v.hasAdj
}

// Value returns the mutable value slots, row-major for matrices.
func (v View) Value() []float64 {
	if !v.bound {
		exceptions.Panicf("arena: value access on an unbound view")
	}
	n := v.shape.Size()
	return v.arena.values[v.valOff : v.valOff+n : v.valOff+n]
}

// Adjoint returns the mutable adjoint slots.
// It panics when the view was bound without adjoint storage.
func (v View) Adjoint() []float64 {
	if !v.HasAdjoint() {
		exceptions.Panicf("arena: adjoint access on a %s view with no adjoint storage", v.shape)
	}
	n := v.shape.Size()
	return v.arena.adjoints[v.adjOff : v.adjOff+n : v.adjOff+n]
}

// Scalar returns the first value slot.
func (v View) Scalar() float64 {
	return v.Value()[0]
}

// Vec returns a gonum vector aliasing the value slots.
func (v View) Vec() *mat.VecDense {
	return mat.NewVecDense(v.shape.Size(), v.Value())
}

// Dense returns a gonum matrix aliasing the value slots.
// Vectors are returned as n x 1 matrices.
func (v View) Dense() *mat.Dense {
	return mat.NewDense(v.shape.Rows, v.shape.Cols, v.Value())
}

// AdjVec returns a gonum vector aliasing the adjoint slots.
func (v View) AdjVec() *mat.VecDense {
	return mat.NewVecDense(v.shape.Size(), v.Adjoint())
}

// AdjDense returns a gonum matrix aliasing the adjoint slots.
func (v View) AdjDense() *mat.Dense {
	return mat.NewDense(v.shape.Rows, v.shape.Cols, v.Adjoint())
}
