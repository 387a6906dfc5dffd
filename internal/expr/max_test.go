package expr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/adarena/internal/arena"
	"github.com/born-ml/adarena/internal/expr"
)

// bindAll sizes root, allocates a fresh arena and binds root to it.
func bindAll(t *testing.T, root expr.Node) *arena.Arena {
	t.Helper()
	a := arena.New(expr.RequiredSize(root))
	end := expr.Bind(root, a.Cursor())
	require.True(t, end.Remaining().IsZero(), "binder left %s unused", end.Remaining())
	return a
}

func TestMax_VectorUniqueMaximum(t *testing.T) {
	values := []float64{0.5, -2, 4.25, 3, 1}
	for _, seed := range []float64{1, 0.5, -3} {
		x, err := expr.Vector(values)
		require.NoError(t, err)
		m := expr.Max(x)
		bindAll(t, m)

		out := m.Forward()
		require.Len(t, out, 1)
		assert.Equal(t, 4.25, out[0])

		m.Backward([]float64{seed})
		assert.Equal(t, []float64{0, 0, seed, 0, 0}, x.Adjoint())
	}
}

func TestMax_TiesGoToFirstOccurrence(t *testing.T) {
	x, err := expr.Vector([]float64{3, 5, 5, 2})
	require.NoError(t, err)
	m := expr.Max(x).(*expr.MaxNode)
	bindAll(t, m)

	assert.Equal(t, 5.0, m.Forward()[0])
	assert.Equal(t, 1, m.Index())

	m.Backward([]float64{1})
	assert.Equal(t, []float64{0, 1, 0, 0}, x.Adjoint())
}

func TestMax_ScalarIsIdentity(t *testing.T) {
	x := expr.Scalar(-1.5)
	m := expr.Max(x).(*expr.MaxNode)
	bindAll(t, m)

	assert.Equal(t, -1.5, m.Forward()[0])
	assert.Equal(t, 0, m.Index())

	m.Backward([]float64{2.5})
	assert.Equal(t, []float64{2.5}, x.Adjoint())
}

func TestMax_MatrixRowMajor(t *testing.T) {
	x, err := expr.Matrix(2, 2, []float64{1, 9, 7, 2})
	require.NoError(t, err)
	m := expr.Max(x).(*expr.MaxNode)
	bindAll(t, m)

	assert.Equal(t, 9.0, m.Forward()[0])
	row, col := m.Argmax()
	assert.Equal(t, 0, row)
	assert.Equal(t, 1, col)

	m.Backward([]float64{2})
	assert.Equal(t, []float64{0, 2, 0, 0}, x.Adjoint())
	assert.True(t, mat.Equal(mat.NewDense(2, 2, []float64{0, 2, 0, 0}), x.View().AdjDense()))
}

func TestMax_MatrixTieIsLowestRowMajorIndex(t *testing.T) {
	// Column-major order would pick (1, 0) first.
	x, err := expr.Matrix(2, 3, []float64{
		0, 0, 8,
		8, 0, 0,
	})
	require.NoError(t, err)
	m := expr.Max(x).(*expr.MaxNode)
	bindAll(t, m)

	m.Forward()
	row, col := m.Argmax()
	assert.Equal(t, [2]int{0, 2}, [2]int{row, col})
}

func TestMax_BackwardBeforeForwardPanics(t *testing.T) {
	x, err := expr.Vector([]float64{1, 2})
	require.NoError(t, err)
	m := expr.Max(x).(*expr.MaxNode)
	bindAll(t, m)

	assert.Panics(t, func() { m.Backward([]float64{1}) })
	assert.Panics(t, func() { m.Argmax() })
	assert.Equal(t, []float64{0, 0}, x.Adjoint(), "nothing was propagated")
}

func TestMax_BackwardSeedLengthPanics(t *testing.T) {
	x, err := expr.Vector([]float64{1, 2})
	require.NoError(t, err)
	m := expr.Max(x)
	bindAll(t, m)
	m.Forward()

	assert.Panics(t, func() { m.Backward([]float64{1, 1}) })
}

func TestMax_RepeatedEvaluationIsStable(t *testing.T) {
	x, err := expr.Vector([]float64{4, -1, 6, 6})
	require.NoError(t, err)
	m := expr.Max(x)
	ar := bindAll(t, m)

	var values [2]float64
	var adjoints [2][]float64
	for i := range values {
		ar.ZeroAdjoints()
		values[i] = m.Forward()[0]
		m.Backward([]float64{1})
		adjoints[i] = append([]float64(nil), x.Adjoint()...)
	}
	assert.Equal(t, values[0], values[1])
	assert.Equal(t, adjoints[0], adjoints[1])
	assert.Equal(t, []float64{0, 0, 1, 0}, adjoints[1])
}

func TestMax_AdjointAccumulatesWithoutZeroing(t *testing.T) {
	x, err := expr.Vector([]float64{1, 3})
	require.NoError(t, err)
	m := expr.Max(x)
	bindAll(t, m)

	m.Forward()
	m.Backward([]float64{1})
	m.Backward([]float64{1})
	assert.Equal(t, []float64{0, 2}, x.Adjoint())
}

func TestMax_FollowsNewLeafValues(t *testing.T) {
	x, err := expr.Vector([]float64{1, 3, 2})
	require.NoError(t, err)
	m := expr.Max(x)
	ar := bindAll(t, m)

	m.Forward()
	require.NoError(t, x.Set([]float64{9, 3, 2}))
	assert.Equal(t, 9.0, m.Forward()[0])

	ar.ZeroAdjoints()
	m.Backward([]float64{1})
	assert.Equal(t, []float64{1, 0, 0}, x.Adjoint())
}

func TestMax_BackwardAfterSetPanics(t *testing.T) {
	x, err := expr.Vector([]float64{3, 5, 5, 2})
	require.NoError(t, err)
	m := expr.Max(x)
	ar := bindAll(t, m)

	m.Forward()
	require.NoError(t, x.Set([]float64{1, 0, -4, 8}))
	assert.Panics(t, func() { m.Backward([]float64{1}) })
	assert.Equal(t, []float64{0, 0, 0, 0}, x.Adjoint())

	m.Forward()
	ar.ZeroAdjoints()
	m.Backward([]float64{1})
	assert.Equal(t, []float64{0, 0, 0, 1}, x.Adjoint())
}

func TestMax_RequiredSize(t *testing.T) {
	for _, n := range []int{1, 4, 128} {
		x, err := expr.Vector(make([]float64, n))
		require.NoError(t, err)
		m := expr.Max(x)

		want := arena.SizePack{Values: n + 1, Adjoints: n}
		assert.Equal(t, want, expr.RequiredSize(m))
		assert.Equal(t, arena.SizePack{Values: 1}, m.SingleSize())

		a := bindAll(t, m)
		assert.Equal(t, want, a.Size())
	}
}

func TestMax_ChildBoundBeforeParent(t *testing.T) {
	x, err := expr.Vector([]float64{2, 8, 4})
	require.NoError(t, err)
	m := expr.Max(x)
	a := bindAll(t, m)

	m.Forward()
	assert.Equal(t, []float64{2, 8, 4, 8}, a.Values(), "leaf slots come first, then the max slot")
}
