package bench

import (
	"log"
	"math"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/born-ml/adarena/internal/arena"
	"github.com/born-ml/adarena/internal/autodiff"
	"github.com/born-ml/adarena/internal/expr"
	"github.com/born-ml/adarena/internal/parallel"
)

// MaxSizeIter is the largest input size of the default sweep.
const MaxSizeIter = 128000

// Config controls a benchmark sweep.
type Config struct {
	MinSize    int     // Smallest input length.
	MaxSize    int     // Largest input length (always included).
	Multiplier int     // Growth factor between consecutive sizes.
	Iterations int     // Forward/backward pairs timed per size.
	Tolerance  float64 // Absolute gradient tolerance.

	Parallel parallel.Config // Sizes run concurrently; each owns its graph.
	Logger   *log.Logger     // Receives gradient warnings.
}

// DefaultConfig sweeps powers of two from 1 to MaxSizeIter.
func DefaultConfig() Config {
	return Config{
		MinSize:    1,
		MaxSize:    MaxSizeIter,
		Multiplier: 2,
		Iterations: 10,
		Tolerance:  DefaultTolerance,
		Parallel:   parallel.Sequential(),
		Logger:     log.New(os.Stderr, "adbench: ", log.LstdFlags),
	}
}

// Validate checks the sweep bounds.
func (c Config) Validate() error {
	switch {
	case c.MinSize < 1:
		return errors.Errorf("min size %d (must be >= 1)", c.MinSize)
	case c.MaxSize < c.MinSize:
		return errors.Errorf("max size %d below min size %d", c.MaxSize, c.MinSize)
	case c.Multiplier < 2:
		return errors.Errorf("multiplier %d (must be >= 2)", c.Multiplier)
	case c.Iterations < 1:
		return errors.Errorf("iterations %d (must be >= 1)", c.Iterations)
	}
	return nil
}

// Sizes lists MinSize, MinSize*Multiplier, ... up to and including MaxSize.
func (c Config) Sizes() []int {
	var sizes []int
	for n := c.MinSize; n < c.MaxSize; n *= c.Multiplier {
		sizes = append(sizes, n)
	}
	return append(sizes, c.MaxSize)
}

// Result is the outcome of one functor at one input size.
type Result struct {
	Functor    string
	N          int
	Value      float64
	Arena      arena.SizePack
	Iterations int
	Elapsed    time.Duration
	GradientOK bool
	ValueOK    bool
	Mismatch   Mismatch
}

// PerIteration returns the mean time of one forward/backward pair.
func (r Result) PerIteration() time.Duration {
	if r.Iterations == 0 {
		return 0
	}
	return r.Elapsed / time.Duration(r.Iterations)
}

// Run builds f over an input of length n, times cfg.Iterations
// forward/backward pairs on one bound graph and checks the gradient.
func Run(f Functor, n int, cfg Config) (Result, error) {
	x := make([]float64, n)
	f.Fill(x)

	v, err := expr.Vector(x)
	if err != nil {
		return Result{}, errors.Wrapf(err, "%s(n=%d)", f.Name(), n)
	}
	root, err := f.Build(v)
	if err != nil {
		return Result{}, errors.Wrapf(err, "%s(n=%d)", f.Name(), n)
	}
	g, err := autodiff.NewGraph(root)
	if err != nil {
		return Result{}, errors.Wrapf(err, "%s(n=%d)", f.Name(), n)
	}

	res := Result{Functor: f.Name(), N: n, Arena: g.Size(), Iterations: cfg.Iterations}
	start := time.Now()
	for i := 0; i < cfg.Iterations; i++ {
		res.Value = g.Autodiff()[0]
	}
	res.Elapsed = time.Since(start)

	expected := make([]float64, n)
	f.Derivative(x, expected)
	res.Mismatch, res.GradientOK = CompareGradient(v.Adjoint(), expected, cfg.Tolerance)
	if !res.GradientOK {
		CheckGradient(v.Adjoint(), expected, f.Name(), cfg.Tolerance, cfg.Logger)
	}

	want := f.Value(x)
	res.ValueOK = math.Abs(res.Value-want) <= cfg.Tolerance*math.Max(1, math.Abs(want))
	if !res.ValueOK && cfg.Logger != nil {
		cfg.Logger.Printf("WARNING (%s) value %g, want %g at n=%d", f.Name(), res.Value, want, n)
	}
	return res, nil
}

// Sweep runs f at every size of cfg.Sizes. Results keep the size order.
func Sweep(f Functor, cfg Config) ([]Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "sweep")
	}
	sizes := cfg.Sizes()
	results := make([]Result, len(sizes))
	errs := make([]error, len(sizes))

	parallel.Each(len(sizes), func(i int) {
		results[i], errs[i] = Run(f, sizes[i], cfg)
	}, cfg.Parallel)

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
