// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package autodiff_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/adarena/autodiff"
)

func TestMax_EndToEnd(t *testing.T) {
	x, err := autodiff.Vector([]float64{3, 5, 5, 2})
	require.NoError(t, err)
	g, err := autodiff.NewGraph(autodiff.Max(x))
	require.NoError(t, err)

	assert.Equal(t, []float64{5}, g.Autodiff())
	assert.Equal(t, []float64{0, 1, 0, 0}, x.Adjoint())
}

func TestManualArena(t *testing.T) {
	x, err := autodiff.MatrixFrom(mat.NewDense(2, 2, []float64{1, 9, 7, 2}))
	require.NoError(t, err)
	root := autodiff.Max(x)

	size := autodiff.RequiredSize(root)
	assert.Equal(t, autodiff.SizePack{Values: 5, Adjoints: 4}, size)

	a := autodiff.NewArena(size)
	left := autodiff.Bind(root, a)
	assert.True(t, left.IsZero())

	assert.Equal(t, []float64{9}, root.Forward())
	a.ZeroAdjoints()
	root.Backward([]float64{2})
	assert.Equal(t, []float64{0, 2, 0, 0}, x.Adjoint())

	row, col := root.(*autodiff.MaxNode).Argmax()
	assert.Equal(t, 0, row)
	assert.Equal(t, 1, col)
}

func TestConstantFolding(t *testing.T) {
	m, err := autodiff.MaxOf([]float64{1, 4, 2})
	require.NoError(t, err)
	c, ok := m.(*autodiff.Constant)
	require.True(t, ok)
	assert.Equal(t, 4.0, c.Scalar())
	assert.True(t, autodiff.RequiredSize(m).IsZero())
}

func TestErrors(t *testing.T) {
	_, err := autodiff.Vector(nil)
	assert.True(t, errors.Is(err, autodiff.ErrInvalidShape))

	a, err := autodiff.Vector([]float64{1, 2})
	require.NoError(t, err)
	b, err := autodiff.Vector([]float64{1, 2, 3})
	require.NoError(t, err)
	_, err = autodiff.Add(a, b)
	assert.True(t, errors.Is(err, autodiff.ErrShapeMismatch))

	g, err := autodiff.NewGraph(autodiff.Max(a))
	require.NoError(t, err)
	assert.Error(t, g.TryBackward())
	assert.Error(t, autodiff.Try(func() { autodiff.Scalar(1).Freeze().Adjoint() }))
}

func TestProdAndElem(t *testing.T) {
	x, err := autodiff.Vector([]float64{2, 3, 4})
	require.NoError(t, err)
	first, err := autodiff.Elem(x, 0)
	require.NoError(t, err)
	root, err := autodiff.Add(autodiff.Prod(x), first)
	require.NoError(t, err)
	g, err := autodiff.NewGraph(root)
	require.NoError(t, err)

	assert.Equal(t, []float64{26}, g.Autodiff())
	assert.Equal(t, []float64{13, 8, 6}, x.Adjoint())
}
