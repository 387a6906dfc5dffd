package expr

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Max returns the maximum element of x.
//
// A scalar constant is returned unchanged and a shaped constant is folded
// into a new scalar constant; neither takes arena slots. Any other input is
// wrapped in a MaxNode, evaluated lazily. A nil x yields a node that
// Validate rejects.
func Max(x Node) Node {
	if c, ok := x.(*Constant); ok {
		if c.Shape().IsScalar() {
			return c
		}
		return Const(floats.Max(c.Values()))
	}
	return newMaxNode(x)
}

// MaxOf converts v with AsNode and returns its maximum.
func MaxOf(v any) (Node, error) {
	n, err := AsNode(v)
	if err != nil {
		return nil, errors.Wrap(err, "max")
	}
	return Max(n), nil
}

// AsNode turns v into a Node. Nodes are returned as is; raw values become
// constants:
//   - float64: scalar
//   - []float64: vector
//   - *mat.VecDense: vector
//   - mat.Matrix: matrix
func AsNode(v any) (Node, error) {
	switch x := v.(type) {
	case Node:
		return x, nil
	case float64:
		return Const(x), nil
	case []float64:
		return constNode(ConstVector(x))
	case *mat.VecDense:
		vals := make([]float64, x.Len())
		for i := range vals {
			vals[i] = x.AtVec(i)
		}
		return constNode(ConstVector(vals))
	case mat.Matrix:
		return constNode(ConstFrom(x))
	default:
		return nil, errors.Wrapf(ErrUnsupportedInput, "%T", v)
	}
}

// constNode keeps a failed constructor from yielding a typed-nil Node.
func constNode(c *Constant, err error) (Node, error) {
	if err != nil {
		return nil, err
	}
	return c, nil
}
