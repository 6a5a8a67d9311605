// SPDX-License-Identifier: MIT

// Package genemat: sentinel errors and functional options for gene-indexed
// matrix construction. All validation failures surface as these sentinels
// (possibly wrapped with context); tests match them via errors.Is.
package genemat

import "errors"

// Sentinel errors for gene-indexed matrix construction and re-indexing.
var (
	// ErrNilMatrix is returned when a nil *mat.Dense or nil receiver is used.
	ErrNilMatrix = errors.New("genemat: nil matrix")

	// ErrDimensionMismatch is returned when the identifier sequence length
	// does not equal the labeled matrix dimension.
	ErrDimensionMismatch = errors.New("genemat: gene count does not match matrix dimension")

	// ErrDuplicateGene is returned when the identifier sequence repeats a gene.
	ErrDuplicateGene = errors.New("genemat: duplicate gene identifier")

	// ErrUnknownGene is returned when Select references an absent gene.
	ErrUnknownGene = errors.New("genemat: unknown gene identifier")

	// ErrAsymmetry is returned when an interaction matrix is not symmetric
	// within the configured epsilon.
	ErrAsymmetry = errors.New("genemat: interaction matrix is not symmetric within eps")

	// ErrNegativeValue is returned when an interaction matrix holds a
	// negative entry (edge weights must be non-negative).
	ErrNegativeValue = errors.New("genemat: negative interaction weight")

	// ErrNaNInf is returned when a NaN or ±Inf value fails validation.
	ErrNaNInf = errors.New("genemat: NaN or Inf encountered")

	// ErrBadTriplet is returned when a COO triplet indexes out of range.
	ErrBadTriplet = errors.New("genemat: triplet index out of range")
)

// DefaultEpsilon is the symmetry tolerance used by NewInteraction unless
// overridden with WithEpsilon.
const DefaultEpsilon = 1e-9

// Option configures matrix validation via functional arguments.
type Option func(*Options)

// Options holds the effective validation configuration.
type Options struct {
	// Eps is the non-negative tolerance for symmetry checks.
	Eps float64

	// internal error recorded during option parsing
	err error
}

// DefaultOptions returns Options with DefaultEpsilon and no recorded error.
func DefaultOptions() Options {
	return Options{Eps: DefaultEpsilon}
}

// WithEpsilon sets the symmetry tolerance. A negative value is recorded and
// surfaced as an error by the constructor.
func WithEpsilon(eps float64) Option {
	return func(o *Options) {
		if eps < 0 {
			o.err = errors.New("genemat: epsilon must be non-negative")
			return
		}
		o.Eps = eps
	}
}

// Triplet is one COO entry (Row, Col, Weight) for sparse ingestion.
type Triplet struct {
	Row, Col int
	Weight   float64
}
