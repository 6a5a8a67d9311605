// SPDX-License-Identifier: MIT

package genemat

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a gene-indexed numeric matrix: a dense matrix whose columns are
// labeled by an ordered, unique gene-identifier sequence. A square Matrix
// built with NewInteraction labels rows with the same sequence and is
// interpreted as an undirected graph's adjacency matrix.
//
// A Matrix is immutable after construction: Select, DropPrefixes and friends
// return new matrices and never touch the receiver.
type Matrix struct {
	data   *mat.Dense
	genes  []string
	index  map[string]int
	square bool // rows share the gene labeling (interaction matrix)
}

// New builds a measurement matrix (samples × genes). The gene sequence must
// be unique and its length must equal the column count.
// Returns ErrNilMatrix, ErrDimensionMismatch or ErrDuplicateGene.
func New(genes []string, data *mat.Dense) (*Matrix, error) {
	if data == nil {
		return nil, ErrNilMatrix
	}
	_, c := data.Dims()
	if len(genes) != c {
		return nil, fmt.Errorf("%w: %d genes vs %d columns", ErrDimensionMismatch, len(genes), c)
	}
	idx, err := buildIndex(genes)
	if err != nil {
		return nil, err
	}

	return &Matrix{data: data, genes: cloneGenes(genes), index: idx}, nil
}

// NewInteraction builds an interaction (adjacency) matrix (genes × genes).
// On top of New's checks it requires a square shape, finite entries,
// non-negative weights, and symmetry within the configured epsilon.
// Returns ErrNilMatrix, ErrDimensionMismatch, ErrDuplicateGene, ErrNaNInf,
// ErrNegativeValue or ErrAsymmetry.
func NewInteraction(genes []string, data *mat.Dense, opts ...Option) (*Matrix, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if data == nil {
		return nil, ErrNilMatrix
	}
	r, c := data.Dims()
	if r != c {
		return nil, fmt.Errorf("%w: %dx%d is not square", ErrDimensionMismatch, r, c)
	}
	if len(genes) != c {
		return nil, fmt.Errorf("%w: %d genes vs %d columns", ErrDimensionMismatch, len(genes), c)
	}
	idx, err := buildIndex(genes)
	if err != nil {
		return nil, err
	}
	if err = validateAdjacency(data, o.Eps); err != nil {
		return nil, err
	}

	return &Matrix{data: data, genes: cloneGenes(genes), index: idx, square: true}, nil
}

// FromTriplets builds an interaction matrix from sparse COO triplets over
// len(genes) nodes. Each triplet is mirrored to keep the result symmetric;
// the diagonal is left untouched by mirroring (a loop is written once).
// Returns ErrBadTriplet for out-of-range indices, plus NewInteraction errors.
func FromTriplets(genes []string, triplets []Triplet, opts ...Option) (*Matrix, error) {
	n := len(genes)
	if n == 0 {
		return nil, fmt.Errorf("%w: no genes", ErrDimensionMismatch)
	}
	dense := mat.NewDense(n, n, nil)
	for _, t := range triplets {
		if t.Row < 0 || t.Row >= n || t.Col < 0 || t.Col >= n {
			return nil, fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrBadTriplet, t.Row, t.Col, n, n)
		}
		dense.Set(t.Row, t.Col, t.Weight)
		if t.Row != t.Col {
			dense.Set(t.Col, t.Row, t.Weight)
		}
	}

	return NewInteraction(genes, dense, opts...)
}

// Genes returns a copy of the ordered gene-identifier sequence.
func (m *Matrix) Genes() []string { return cloneGenes(m.genes) }

// Gene returns the identifier labeling column i.
func (m *Matrix) Gene(i int) string { return m.genes[i] }

// Index returns the column position of gene, and whether it is present.
func (m *Matrix) Index(gene string) (int, bool) {
	i, ok := m.index[gene]
	return i, ok
}

// Dims returns the matrix shape (rows, cols).
func (m *Matrix) Dims() (int, int) { return m.data.Dims() }

// At returns the value at (i, j).
func (m *Matrix) At(i, j int) float64 { return m.data.At(i, j) }

// Square reports whether rows share the gene labeling (interaction matrix).
func (m *Matrix) Square() bool { return m.square }

// Dense exposes the underlying dense storage. Callers must treat it as
// read-only; mutating it breaks the immutability contract.
func (m *Matrix) Dense() *mat.Dense { return m.data }

// Row returns row i without copying. The slice aliases internal storage and
// must be treated as read-only.
func (m *Matrix) Row(i int) []float64 { return m.data.RawRowView(i) }

// Select returns a new Matrix restricted to exactly the given genes, in the
// given order. For a square interaction matrix both axes are restricted; for
// a measurement matrix only the column axis is.
// Returns ErrUnknownGene if any requested gene is absent.
func (m *Matrix) Select(genes []string) (*Matrix, error) {
	if m == nil || m.data == nil {
		return nil, ErrNilMatrix
	}
	cols := make([]int, len(genes))
	for k, g := range genes {
		i, ok := m.index[g]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownGene, g)
		}
		cols[k] = i
	}

	rows, _ := m.data.Dims()
	idx, err := buildIndex(genes)
	if err != nil {
		return nil, err
	}

	if m.square {
		out := mat.NewDense(len(genes), len(genes), nil)
		for a, i := range cols {
			for b, j := range cols {
				out.Set(a, b, m.data.At(i, j))
			}
		}

		return &Matrix{data: out, genes: cloneGenes(genes), index: idx, square: true}, nil
	}

	out := mat.NewDense(rows, len(genes), nil)
	for r := 0; r < rows; r++ {
		src := m.data.RawRowView(r)
		dst := out.RawRowView(r)
		for k, j := range cols {
			dst[k] = src[j]
		}
	}

	return &Matrix{data: out, genes: cloneGenes(genes), index: idx}, nil
}

// DropPrefixes returns a new Matrix without any gene whose identifier starts
// with one of the given prefixes. Relative gene order is preserved. With no
// prefixes (or none matching) the receiver's content is copied unchanged.
func (m *Matrix) DropPrefixes(prefixes ...string) (*Matrix, error) {
	if m == nil || m.data == nil {
		return nil, ErrNilMatrix
	}
	kept := make([]string, 0, len(m.genes))
	for _, g := range m.genes {
		drop := false
		for _, p := range prefixes {
			if p != "" && strings.HasPrefix(g, p) {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, g)
		}
	}

	return m.Select(kept)
}

// buildIndex maps genes to positions, rejecting duplicates.
func buildIndex(genes []string) (map[string]int, error) {
	idx := make(map[string]int, len(genes))
	for i, g := range genes {
		if _, seen := idx[g]; seen {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateGene, g)
		}
		idx[g] = i
	}

	return idx, nil
}

// validateAdjacency enforces finite, non-negative, symmetric-within-eps data.
func validateAdjacency(data *mat.Dense, eps float64) error {
	n, _ := data.Dims()
	for i := 0; i < n; i++ {
		row := data.RawRowView(i)
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: at (%d,%d)", ErrNaNInf, i, j)
			}
			if v < 0 {
				return fmt.Errorf("%w: %g at (%d,%d)", ErrNegativeValue, v, i, j)
			}
			if j > i && math.Abs(v-data.At(j, i)) > eps {
				return fmt.Errorf("%w: at (%d,%d)", ErrAsymmetry, i, j)
			}
		}
	}

	return nil
}

// cloneGenes copies the identifier sequence so callers cannot alias it.
func cloneGenes(genes []string) []string {
	out := make([]string, len(genes))
	copy(out, genes)

	return out
}
