package spectral

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/scent/genemat"
)

// Sentinel errors for the dominant-eigenvalue estimate.
var (
	// ErrDomain is returned when the dominant eigenvalue is not strictly
	// positive, making log(λ₁) undefined.
	ErrDomain = errors.New("spectral: dominant eigenvalue is not positive")

	// ErrNotConverged is returned when power iteration fails to reach the
	// configured tolerance within MaxIter sweeps.
	ErrNotConverged = errors.New("spectral: power iteration did not converge")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("spectral: invalid option supplied")
)

// Defaults for the power iteration.
const (
	// DefaultTolerance is the relative convergence threshold on successive
	// Rayleigh-quotient estimates.
	DefaultTolerance = 1e-12

	// DefaultMaxIter caps the number of power-iteration sweeps.
	DefaultMaxIter = 10_000

	// shift is the positive diagonal offset that guarantees strict
	// dominance of λ₁+shift; it is subtracted back before the logarithm.
	shift = 1.0
)

// Option configures MaxEntropy via functional arguments.
type Option func(*Options)

// Options holds the effective power-iteration configuration.
type Options struct {
	// Tol is the relative convergence tolerance (> 0).
	Tol float64

	// MaxIter caps iteration count (> 0).
	MaxIter int

	// internal error recorded during option parsing
	err error
}

// DefaultOptions returns Options with DefaultTolerance and DefaultMaxIter.
func DefaultOptions() Options {
	return Options{Tol: DefaultTolerance, MaxIter: DefaultMaxIter}
}

// WithTolerance sets the relative convergence tolerance.
// Non-positive or non-finite values surface as ErrOptionViolation.
func WithTolerance(tol float64) Option {
	return func(o *Options) {
		if tol <= 0 || math.IsNaN(tol) || math.IsInf(tol, 0) {
			o.err = fmt.Errorf("%w: tolerance must be positive and finite (%g)", ErrOptionViolation, tol)
			return
		}
		o.Tol = tol
	}
}

// WithMaxIter caps the number of sweeps. Non-positive values surface as
// ErrOptionViolation.
func WithMaxIter(n int) Option {
	return func(o *Options) {
		if n <= 0 {
			o.err = fmt.Errorf("%w: MaxIter must be positive (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxIter = n
	}
}

// MaxEntropy returns log(λ₁) for the interaction graph's adjacency matrix,
// where λ₁ is the largest-magnitude eigenvalue. The graph is expected to be
// connected with at least one edge (the contract of reduce.Reduce); an
// edgeless or degenerate input yields ErrDomain.
func MaxEntropy(graph *genemat.Matrix, opts ...Option) (float64, error) {
	if graph == nil {
		return 0, genemat.ErrNilMatrix
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return 0, o.err
	}

	lambda, err := dominantEigenvalue(graph.Dense(), o)
	if err != nil {
		return 0, err
	}
	if lambda <= 0 {
		return 0, fmt.Errorf("%w: λ₁ = %g", ErrDomain, lambda)
	}

	return math.Log(lambda), nil
}

// dominantEigenvalue runs power iteration on a + shift·I with a uniform
// start vector and returns the Rayleigh-quotient estimate minus the shift.
func dominantEigenvalue(a *mat.Dense, o Options) (float64, error) {
	n, _ := a.Dims()
	if n == 0 {
		return 0, fmt.Errorf("%w: empty matrix", ErrDomain)
	}

	// Uniform, deterministic start vector of unit L2 norm.
	x := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		x.SetVec(i, 1/math.Sqrt(float64(n)))
	}
	y := mat.NewVecDense(n, nil)

	var prev float64
	for iter := 0; iter < o.MaxIter; iter++ {
		// y = (A + shift·I)·x
		y.MulVec(a, x)
		y.AddScaledVec(y, shift, x)

		norm := mat.Norm(y, 2)
		if norm == 0 {
			// A uniform vector annihilated by A+I cannot occur for a valid
			// adjacency, but an all-zero matrix with shift could in theory
			// only via cancellation; treat as degenerate.
			return 0, fmt.Errorf("%w: iteration collapsed to zero", ErrDomain)
		}
		y.ScaleVec(1/norm, y)

		// With x of unit norm, ‖(A+cI)x‖ converges to λ₁+c as x aligns
		// with the Perron vector.
		lambda := norm - shift
		if iter > 0 && math.Abs(lambda-prev) <= o.Tol*math.Max(1, math.Abs(lambda)) {
			return lambda, nil
		}
		prev = lambda
		x.CopyVec(y)
	}

	return 0, fmt.Errorf("%w: after %d iterations (tol %g)", ErrNotConverged, o.MaxIter, o.Tol)
}
