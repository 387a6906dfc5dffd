// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides arena-backed reverse-mode automatic differentiation.
//
// # Overview
//
// Expressions are trees (or DAGs) of nodes built from inputs and constants.
// A Graph sizes the expression once, allocates a single arena for every
// node's values and adjoints, binds each node to its own slice, and then
// runs forward/backward passes any number of times without allocating.
//
// # Basic Usage
//
//	import "github.com/born-ml/adarena/autodiff"
//
//	func main() {
//	    x, _ := autodiff.Vector([]float64{3, 5, 5, 2})
//	    g, _ := autodiff.NewGraph(autodiff.Max(x))
//
//	    value := g.Autodiff()  // [5]
//	    grad := x.Adjoint()    // [0, 1, 0, 0]: ties go to the first maximum
//	}
//
// # Constants
//
// Operations on constants are folded at build time and take no arena slots:
//
//	c, _ := autodiff.ConstVector([]float64{1, 4, 2})
//	m := autodiff.Max(c)  // *autodiff.Constant holding 4
//
// # Errors
//
// Shape errors are returned when a node is built. Precondition violations
// (Backward before Forward, adjoint access on a frozen input, binding a node
// twice) panic; use Graph.TryForward, Graph.TryBackward or Try to turn them
// into errors.
package autodiff
