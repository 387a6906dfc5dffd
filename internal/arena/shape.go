package arena

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidShape is returned when a shape has a non-positive extent.
var ErrInvalidShape = errors.New("invalid shape")

// Kind tags the variant of a Shape.
type Kind int

// Supported shape kinds.
const (
	Scalar Kind = iota
	Vector
	Matrix
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case Vector:
		return "vector"
	case Matrix:
		return "matrix"
	default:
		return "unknown"
	}
}

// Shape describes how many scalar slots a node occupies.
//
// A vector of length n is stored as Rows=n, Cols=1. A matrix is stored
// row-major, so element (i, j) lives at linear index i*Cols + j.
type Shape struct {
	Kind Kind
	Rows int
	Cols int
}

// ScalarShape returns the shape of a single value.
func ScalarShape() Shape {
	return Shape{Kind: Scalar, Rows: 1, Cols: 1}
}

// VectorShape returns the shape of a column vector of length n.
func VectorShape(n int) Shape {
	return Shape{Kind: Vector, Rows: n, Cols: 1}
}

// MatrixShape returns the shape of a rows x cols matrix.
func MatrixShape(rows, cols int) Shape {
	return Shape{Kind: Matrix, Rows: rows, Cols: cols}
}

// Size returns the number of scalar slots: 1, n or rows*cols.
func (s Shape) Size() int {
	if s.Kind == Scalar {
		return 1
	}
	return s.Rows * s.Cols
}

// IsScalar reports whether the shape holds a single value.
func (s Shape) IsScalar() bool {
	return s.Kind == Scalar
}

// Validate checks that every extent is positive.
func (s Shape) Validate() error {
	switch s.Kind {
	case Scalar:
		return nil
	case Vector:
		if s.Rows <= 0 || s.Cols != 1 {
			return errors.Wrapf(ErrInvalidShape, "vector length %d (must be > 0)", s.Rows)
		}
		return nil
	case Matrix:
		if s.Rows <= 0 || s.Cols <= 0 {
			return errors.Wrapf(ErrInvalidShape, "matrix %dx%d (dimensions must be > 0)", s.Rows, s.Cols)
		}
		return nil
	default:
		return errors.Wrapf(ErrInvalidShape, "unknown kind %d", int(s.Kind))
	}
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	return s.Kind == other.Kind && s.Rows == other.Rows && s.Cols == other.Cols
}

// String implements fmt.Stringer.
func (s Shape) String() string {
	switch s.Kind {
	case Scalar:
		return "scalar"
	case Vector:
		return fmt.Sprintf("vector(%d)", s.Rows)
	case Matrix:
		return fmt.Sprintf("matrix(%d,%d)", s.Rows, s.Cols)
	default:
		return "unknown"
	}
}
