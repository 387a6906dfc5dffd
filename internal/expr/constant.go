package expr

import (
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/adarena/internal/arena"
)

// Constant is a fixed value. It takes no arena slots, can be shared between
// graphs, and ignores any seed it receives.
type Constant struct {
	shape  arena.Shape
	values []float64
}

// Const creates a scalar constant.
func Const(v float64) *Constant {
	return &Constant{shape: arena.ScalarShape(), values: []float64{v}}
}

// ConstVector creates a vector constant holding a copy of values.
func ConstVector(values []float64) (*Constant, error) {
	return newConstant(arena.VectorShape(len(values)), values)
}

// ConstMatrix creates a rows x cols constant from row-major values.
func ConstMatrix(rows, cols int, values []float64) (*Constant, error) {
	return newConstant(arena.MatrixShape(rows, cols), values)
}

// ConstFrom creates a constant holding a copy of m.
func ConstFrom(m mat.Matrix) (*Constant, error) {
	r, c := m.Dims()
	return newConstant(arena.MatrixShape(r, c), rowMajor(m))
}

func newConstant(shape arena.Shape, values []float64) (*Constant, error) {
	if err := shape.Validate(); err != nil {
		return nil, errors.Wrap(err, "constant")
	}
	if len(values) != shape.Size() {
		return nil, errors.Wrapf(ErrShapeMismatch, "constant: %d values for %s", len(values), shape)
	}
	return &Constant{shape: shape, values: append([]float64(nil), values...)}, nil
}

// IsConstant reports whether n is a Constant.
func IsConstant(n Node) bool {
	_, ok := n.(*Constant)
	return ok
}

// Values returns the constant's values. Callers must not modify them.
func (c *Constant) Values() []float64 {
	return c.values
}

// Scalar returns the value of a scalar constant.
func (c *Constant) Scalar() float64 {
	if !c.shape.IsScalar() {
		exceptions.Panicf("constant: Scalar on %s", c.shape)
	}
	return c.values[0]
}

// Shape implements Node.
func (c *Constant) Shape() arena.Shape {
	return c.shape
}

// Inputs implements Node.
func (c *Constant) Inputs() []Node {
	return nil
}

// SingleSize implements Node.
func (c *Constant) SingleSize() arena.SizePack {
	return arena.SizePack{}
}

// BindSelf implements Node. A constant has nothing to bind.
func (c *Constant) BindSelf(arena.View) {
	exceptions.Panicf("constant: holds no arena storage")
}

// Forward implements Node.
func (c *Constant) Forward() []float64 {
	return c.values
}

// Backward implements Node. It is a no-op.
func (c *Constant) Backward([]float64) {}
