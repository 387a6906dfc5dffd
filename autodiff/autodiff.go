// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package autodiff

import (
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/adarena/internal/arena"
	"github.com/born-ml/adarena/internal/autodiff"
	"github.com/born-ml/adarena/internal/expr"
)

// Storage types.
type (
	// Shape describes a scalar, vector or matrix.
	Shape = arena.Shape

	// SizePack counts value and adjoint slots.
	SizePack = arena.SizePack

	// Arena is the flat storage shared by every node of a graph.
	Arena = arena.Arena

	// View is a node's window into the arena.
	View = arena.View
)

// Node types.
type (
	// Node is a differentiable expression.
	Node = expr.Node

	// Var is an input leaf.
	Var = expr.Var

	// Constant is a fixed value with no arena storage.
	Constant = expr.Constant

	// MaxNode is the maximum-element reduction.
	MaxNode = expr.MaxNode

	// Graph evaluates one expression against its own arena.
	Graph = autodiff.Graph
)

// Errors returned while building expressions.
var (
	ErrInvalidShape     = arena.ErrInvalidShape
	ErrShapeMismatch    = expr.ErrShapeMismatch
	ErrUnsupportedInput = expr.ErrUnsupportedInput
)

// ScalarShape returns the shape of a single value.
func ScalarShape() Shape { return arena.ScalarShape() }

// VectorShape returns the shape of a vector of length n.
func VectorShape(n int) Shape { return arena.VectorShape(n) }

// MatrixShape returns the shape of a rows x cols matrix.
func MatrixShape(rows, cols int) Shape { return arena.MatrixShape(rows, cols) }

// Scalar creates a scalar input.
func Scalar(v float64) *Var { return expr.Scalar(v) }

// Vector creates a vector input.
func Vector(values []float64) (*Var, error) { return expr.Vector(values) }

// Matrix creates a matrix input from row-major values.
func Matrix(rows, cols int, values []float64) (*Var, error) {
	return expr.Matrix(rows, cols, values)
}

// MatrixFrom creates a matrix input from a gonum matrix.
func MatrixFrom(m mat.Matrix) (*Var, error) { return expr.MatrixFrom(m) }

// Const creates a scalar constant.
func Const(v float64) *Constant { return expr.Const(v) }

// ConstVector creates a vector constant.
func ConstVector(values []float64) (*Constant, error) { return expr.ConstVector(values) }

// ConstMatrix creates a matrix constant from row-major values.
func ConstMatrix(rows, cols int, values []float64) (*Constant, error) {
	return expr.ConstMatrix(rows, cols, values)
}

// AsNode converts a Node, float64, []float64 or gonum matrix into a Node.
func AsNode(v any) (Node, error) { return expr.AsNode(v) }

// Max returns the maximum element of x, folding constants.
func Max(x Node) Node { return expr.Max(x) }

// MaxOf converts v with AsNode and returns its maximum.
func MaxOf(v any) (Node, error) { return expr.MaxOf(v) }

// Sum returns the sum of all elements of x.
func Sum(x Node) Node { return expr.Sum(x) }

// Prod returns the product of all elements of x.
func Prod(x Node) Node { return expr.Prod(x) }

// Elem returns element i of x as a scalar, row-major for matrices.
func Elem(x Node, i int) (Node, error) { return expr.Elem(x, i) }

// Exp returns exp(x) elementwise.
func Exp(x Node) Node { return expr.Exp(x) }

// Log returns log(x) elementwise.
func Log(x Node) Node { return expr.Log(x) }

// Add returns a + b, broadcasting a scalar operand.
func Add(a, b Node) (Node, error) { return expr.Add(a, b) }

// Sub returns a - b, broadcasting a scalar operand.
func Sub(a, b Node) (Node, error) { return expr.Sub(a, b) }

// Mul returns a * b elementwise, broadcasting a scalar operand.
func Mul(a, b Node) (Node, error) { return expr.Mul(a, b) }

// RequiredSize returns the arena size needed by the expression.
func RequiredSize(root Node) SizePack { return expr.RequiredSize(root) }

// NewArena allocates an arena of the given size.
func NewArena(size SizePack) *Arena { return arena.New(size) }

// Bind binds the expression into a, starting at the beginning of the arena.
// It returns the slots left over.
func Bind(root Node, a *Arena) SizePack {
	return expr.Bind(root, a.Cursor()).Remaining()
}

// NewGraph sizes, allocates and binds the expression rooted at root.
func NewGraph(root Node) (*Graph, error) { return autodiff.NewGraph(root) }

// Try runs fn and returns a panic raised inside it as an error.
func Try(fn func()) error { return autodiff.Try(fn) }
