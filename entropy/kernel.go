package entropy

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Sentinel errors for kernel construction and scoring.
var (
	// ErrShapeMismatch is returned when an expression vector or batch does
	// not match the adjacency dimension.
	ErrShapeMismatch = errors.New("entropy: expression width does not match graph dimension")

	// ErrBadNormalizer is returned when the maximum-entropy divisor is not
	// strictly positive and finite.
	ErrBadNormalizer = errors.New("entropy: max entropy must be positive and finite")

	// ErrNonSquare is returned when the adjacency matrix is not square.
	ErrNonSquare = errors.New("entropy: adjacency matrix is not square")

	// ErrNilGraph is returned when a nil adjacency is supplied.
	ErrNilGraph = errors.New("entropy: adjacency matrix is nil")
)

// Kernel holds the run-constant inputs of entropy scoring: the adjacency
// matrix and the maximum-entropy normalizer. It is immutable after New and
// safe to share across workers.
type Kernel struct {
	graph      *mat.Dense
	g          int // node count
	maxEntropy float64
}

// New builds a Kernel over a square adjacency and a positive normalizer.
// The adjacency is aliased, not copied; callers must not mutate it during a
// run (it is a read-only constant shared by all workers).
// Returns ErrNilGraph, ErrNonSquare or ErrBadNormalizer.
func New(graph *mat.Dense, maxEntropy float64) (*Kernel, error) {
	if graph == nil {
		return nil, ErrNilGraph
	}
	r, c := graph.Dims()
	if r != c {
		return nil, fmt.Errorf("%w: %dx%d", ErrNonSquare, r, c)
	}
	if maxEntropy <= 0 || math.IsNaN(maxEntropy) || math.IsInf(maxEntropy, 0) {
		return nil, fmt.Errorf("%w: %g", ErrBadNormalizer, maxEntropy)
	}

	return &Kernel{graph: graph, g: r, maxEntropy: maxEntropy}, nil
}

// Genes returns the node count G of the adjacency.
func (k *Kernel) Genes() int { return k.g }

// MaxEntropy returns the normalizing constant.
func (k *Kernel) MaxEntropy() float64 { return k.maxEntropy }

// Score computes one normalized entropy value per row of batch (B × G).
// Output order matches row order. Returns ErrShapeMismatch when the batch
// width differs from G.
func (k *Kernel) Score(batch *mat.Dense) ([]float64, error) {
	if batch == nil {
		return nil, fmt.Errorf("%w: nil batch", ErrShapeMismatch)
	}
	rows, cols := batch.Dims()
	if cols != k.g {
		return nil, fmt.Errorf("%w: batch is %dx%d, graph is %dx%d", ErrShapeMismatch, rows, cols, k.g, k.g)
	}

	out := make([]float64, rows)
	s := k.NewScorer()
	for b := 0; b < rows; b++ {
		out[b] = s.ScoreRow(batch.RawRowView(b))
	}

	return out, nil
}

// ScoreOne treats x as a batch of size one and returns its score.
// Returns ErrShapeMismatch when len(x) differs from G.
func (k *Kernel) ScoreOne(x []float64) (float64, error) {
	if len(x) != k.g {
		return 0, fmt.Errorf("%w: vector has %d genes, graph has %d", ErrShapeMismatch, len(x), k.g)
	}

	return k.NewScorer().ScoreRow(x), nil
}

// Scorer carries the per-worker scratch of the kernel. A Scorer is not safe
// for concurrent use; give each goroutine its own via Kernel.NewScorer.
type Scorer struct {
	k *Kernel

	// scratch, reused across rows
	propagated []float64 // (A·x)[j]
	local      []float64 // per-node entropy H[j]
}

// NewScorer allocates scratch buffers bound to the kernel's dimension.
func (k *Kernel) NewScorer() *Scorer {
	return &Scorer{
		k:          k,
		propagated: make([]float64, k.g),
		local:      make([]float64, k.g),
	}
}

// ScoreRow scores a single expression vector of length G. The caller must
// guarantee len(x) == Genes(); Score and ScoreOne validate on its behalf.
func (s *Scorer) ScoreRow(x []float64) float64 {
	var (
		k    = s.k
		g    = k.g
		raw  = k.graph.RawMatrix()
		prop = s.propagated
		h    = s.local
	)

	// propagated = A·x. Row-major walk keeps this cache-friendly; A is
	// symmetric, so the row view doubles as the column view below.
	for i := 0; i < g; i++ {
		row := raw.Data[i*raw.Stride : i*raw.Stride+g]
		var sum float64
		for j, a := range row {
			sum += a * x[j]
		}
		prop[i] = sum
	}

	// Local entropy per node j. The column sum of the weighted adjacency is
	// x[j]·prop[j]; when it is zero the column is all-zero and H[j] ≡ 0.
	// Otherwise P[i,j] = A[i,j]·x[i] / prop[j] (the x[j] factor cancels).
	for j := 0; j < g; j++ {
		if x[j] == 0 || prop[j] == 0 {
			h[j] = 0
			continue
		}
		col := raw.Data[j*raw.Stride : j*raw.Stride+g] // row j == column j
		inv := 1 / prop[j]
		var hj float64
		for i, a := range col {
			p := a * x[i] * inv
			if p > 0 {
				hj -= p * math.Log(p)
			}
		}
		h[j] = hj
	}

	// Stationary weighting π ∝ x ⊙ (A·x) over the unweighted graph.
	var total float64
	for j := 0; j < g; j++ {
		total += x[j] * prop[j]
	}
	if total == 0 {
		// Zero diffusion mass: every π[j] is zero by convention, so the
		// weighted sum — and the score — is exactly zero.
		return 0
	}

	var acc float64
	for j := 0; j < g; j++ {
		acc += x[j] * prop[j] * h[j]
	}

	return acc / total / k.maxEntropy
}
