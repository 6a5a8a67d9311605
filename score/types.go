// Package score: PPI dataset enumeration, functional options and sentinel
// errors for the end-to-end pipeline.
package score

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/katalvlaran/scent/batch"
	"github.com/katalvlaran/scent/genemat"
)

// Sentinel errors for pipeline entry validation.
var (
	// ErrUnknownPPI is returned for a dataset name outside the supported
	// enumeration.
	ErrUnknownPPI = errors.New("score: unknown PPI dataset")

	// ErrNilLoader is returned when ScoreNamed has no GraphLoader to
	// resolve the dataset with.
	ErrNilLoader = errors.New("score: nil graph loader")
)

// PPI names one of the supported protein-protein interaction datasets.
type PPI int

const (
	// PPIScent is the SCENT interactome.
	PPIScent PPI = iota

	// PPIInbio is the InBio Map interactome.
	PPIInbio

	// PPIBiogrid is the BioGRID interactome.
	PPIBiogrid

	// PPIHuri is the Human Reference Interactome.
	PPIHuri
)

// ppiNames maps PPI values to their canonical names.
var ppiNames = map[PPI]string{
	PPIScent:   "scent",
	PPIInbio:   "inbio",
	PPIBiogrid: "biogrid",
	PPIHuri:    "huri",
}

// String returns the canonical dataset name.
func (p PPI) String() string {
	if name, ok := ppiNames[p]; ok {
		return name
	}

	return fmt.Sprintf("PPI(%d)", int(p))
}

// ParsePPI converts a case-insensitive dataset name into a PPI.
// Returns ErrUnknownPPI for anything outside scent/inbio/biogrid/huri.
func ParsePPI(name string) (PPI, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "scent":
		return PPIScent, nil
	case "inbio":
		return PPIInbio, nil
	case "biogrid":
		return PPIBiogrid, nil
	case "huri":
		return PPIHuri, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPPI, name)
	}
}

// GraphLoader resolves a PPI dataset name into its interaction matrix.
// Storage format and location are the caller's concern.
type GraphLoader func(ppi PPI) (*genemat.Matrix, error)

// DefaultArtifactPrefixes are the gene-name stems dropped before reduction:
// ribosomal (RPS/RPL) and mitochondrial (MT) genes dominate raw counts
// without carrying signaling information.
var DefaultArtifactPrefixes = []string{"RPS", "RPL", "MT"}

// Option configures the pipeline via functional arguments.
type Option func(*Options)

// Options holds the effective pipeline configuration.
type Options struct {
	// System selects the compute-unit kind; default SystemAuto.
	System batch.System

	// Capacity, when non-nil, bypasses probing (required for TPU).
	Capacity *batch.Capacity

	// BatchSize, when > 0, bypasses the memory heuristic.
	BatchSize int

	// Overhead is the reserved free-memory fraction, default 0.3.
	Overhead float64

	// Serialize forces eager materialization of the sample stream even on
	// backends that could consume it lazily.
	Serialize bool

	// ArtifactPrefixes are gene-name stems dropped before reduction; empty
	// disables filtering.
	ArtifactPrefixes []string

	// Progress is invoked once per outer batch step.
	Progress batch.ProgressFunc

	// Logger receives run milestones; defaults to zap.NewNop().
	Logger *zap.Logger

	// internal error recorded during option parsing
	err error
}

// DefaultOptions returns Options with AUTO system resolution, the default
// overhead ratio and artifact filter, and a no-op logger.
func DefaultOptions() Options {
	return Options{
		System:           batch.SystemAuto,
		Overhead:         batch.DefaultOverheadRatio,
		ArtifactPrefixes: append([]string(nil), DefaultArtifactPrefixes...),
		Logger:           zap.NewNop(),
	}
}

// WithSystem selects the compute-unit kind.
func WithSystem(s batch.System) Option {
	return func(o *Options) { o.System = s }
}

// WithCapacity supplies an explicit Capacity, skipping the live probe.
func WithCapacity(c batch.Capacity) Option {
	return func(o *Options) { o.Capacity = &c }
}

// WithBatchSize bypasses the heuristic with an explicit per-worker batch
// size. Non-positive values surface as batch.ErrBadBatchSize.
func WithBatchSize(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.err = fmt.Errorf("%w: got %d", batch.ErrBadBatchSize, n)
			return
		}
		o.BatchSize = n
	}
}

// WithOverheadRatio reserves the given fraction of free memory as headroom.
// Values outside (0, 1) surface as batch.ErrBadOverhead.
func WithOverheadRatio(r float64) Option {
	return func(o *Options) {
		if r <= 0 || r >= 1 {
			o.err = fmt.Errorf("%w: got %g", batch.ErrBadOverhead, r)
			return
		}
		o.Overhead = r
	}
}

// WithSerialize forces eager materialization of the sample stream.
func WithSerialize() Option {
	return func(o *Options) { o.Serialize = true }
}

// WithArtifactPrefixes replaces the artifact-gene filter stems.
func WithArtifactPrefixes(prefixes ...string) Option {
	return func(o *Options) { o.ArtifactPrefixes = prefixes }
}

// WithoutArtifactFilter disables artifact-gene filtering entirely.
func WithoutArtifactFilter() Option {
	return func(o *Options) { o.ArtifactPrefixes = nil }
}

// WithProgress registers a per-step progress callback.
func WithProgress(fn batch.ProgressFunc) Option {
	return func(o *Options) {
		if fn != nil {
			o.Progress = fn
		}
	}
}

// WithLogger attaches a structured logger for run milestones.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}
