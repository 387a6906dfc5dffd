package bench

import (
	"log"
	"math"
)

// DefaultTolerance is the absolute error allowed between a computed and a
// closed-form gradient.
const DefaultTolerance = 1e-8

// Mismatch describes the first gradient entry outside tolerance.
// Index is -1 when the two gradients differ in length.
type Mismatch struct {
	Index    int
	Actual   float64
	Expected float64
	AbsErr   float64
}

// CompareGradient returns the first entry whose absolute error exceeds tol.
// The boolean is true when every entry is within tolerance.
func CompareGradient(actual, expected []float64, tol float64) (Mismatch, bool) {
	if len(actual) != len(expected) {
		return Mismatch{Index: -1}, false
	}
	for i := range actual {
		diff := math.Abs(actual[i] - expected[i])
		if diff > tol || math.IsNaN(diff) {
			return Mismatch{Index: i, Actual: actual[i], Expected: expected[i], AbsErr: diff}, false
		}
	}
	return Mismatch{}, true
}

// CheckGradient compares actual with expected and logs a warning naming the
// first bad index. A mismatch is reported, never fatal.
func CheckGradient(actual, expected []float64, name string, tol float64, logger *log.Logger) bool {
	m, ok := CompareGradient(actual, expected, tol)
	if ok {
		return true
	}
	if logger == nil {
		logger = log.Default()
	}
	if m.Index < 0 {
		logger.Printf("WARNING (%s) gradient length %d, want %d", name, len(actual), len(expected))
		return false
	}
	logger.Printf("WARNING (%s) MAX ABS ERROR PROP: index %d -- %g (%g vs %g)",
		name, m.Index, m.AbsErr, m.Actual, m.Expected)
	return false
}
