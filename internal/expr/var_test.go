package expr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/adarena/internal/arena"
	"github.com/born-ml/adarena/internal/expr"
)

func TestVar_ValueMovesIntoArena(t *testing.T) {
	values := []float64{1, 2, 3}
	x, err := expr.Vector(values)
	require.NoError(t, err)
	values[0] = 100
	assert.Equal(t, []float64{1, 2, 3}, x.Value(), "constructor copies")

	a := bindAll(t, x)
	assert.Equal(t, []float64{1, 2, 3}, a.Values())

	x.Value()[1] = 7
	assert.Equal(t, 7.0, a.Values()[1])
}

func TestVar_Set(t *testing.T) {
	x, err := expr.Vector([]float64{1, 2})
	require.NoError(t, err)
	bindAll(t, x)

	require.NoError(t, x.Set([]float64{3, 4}))
	assert.Equal(t, []float64{3, 4}, x.Forward())

	err = x.Set([]float64{1, 2, 3})
	assert.True(t, errors.Is(err, expr.ErrShapeMismatch))

	s := expr.Scalar(1)
	s.SetScalar(2)
	assert.Equal(t, []float64{2}, s.Value())
	assert.Panics(t, func() { x.SetScalar(1) })
}

func TestVar_InvalidConstruction(t *testing.T) {
	_, err := expr.Vector(nil)
	assert.True(t, errors.Is(err, arena.ErrInvalidShape))

	_, err = expr.Matrix(2, 2, []float64{1, 2, 3})
	assert.True(t, errors.Is(err, expr.ErrShapeMismatch))

	_, err = expr.Matrix(0, 2, nil)
	assert.True(t, errors.Is(err, arena.ErrInvalidShape))
}

func TestVar_MatrixFrom(t *testing.T) {
	x, err := expr.MatrixFrom(mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6}).T())
	require.NoError(t, err)
	assert.Equal(t, arena.MatrixShape(3, 2), x.Shape())
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, x.Value())
}

func TestVar_Frozen(t *testing.T) {
	x, err := expr.Vector([]float64{1, 5, 2})
	require.NoError(t, err)
	x.Freeze()
	m := expr.Max(x)

	assert.Equal(t, arena.SizePack{Values: 4}, expr.RequiredSize(m))
	bindAll(t, m)

	assert.Equal(t, 5.0, m.Forward()[0])
	assert.NotPanics(t, func() { m.Backward([]float64{1}) })
	assert.Panics(t, func() { x.Adjoint() })
	assert.Panics(t, func() { x.Freeze() }, "freezing after bind")
}

func TestVar_UnboundForwardPanics(t *testing.T) {
	x := expr.Scalar(1)
	assert.Panics(t, func() { x.Forward() })
	assert.Panics(t, func() { x.Adjoint() })
}
