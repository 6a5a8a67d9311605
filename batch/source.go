package batch

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Source is a finite, restartable producer of sample rows. Row may be
// called out of order and more than once; the returned slice is read-only
// and only valid until the next call for the same index.
type Source interface {
	// Len returns the number of samples.
	Len() int

	// Width returns the gene count of every row.
	Width() int

	// Row returns sample i as a read-only vector of Width values.
	Row(i int) []float64
}

// MatrixSource reads rows straight from a materialized dense matrix.
type MatrixSource struct {
	m *mat.Dense
}

// NewMatrixSource wraps an in-memory matrix as a Source.
func NewMatrixSource(m *mat.Dense) (*MatrixSource, error) {
	if m == nil {
		return nil, ErrNilSource
	}

	return &MatrixSource{m: m}, nil
}

// Len returns the row count.
func (s *MatrixSource) Len() int {
	r, _ := s.m.Dims()
	return r
}

// Width returns the column count.
func (s *MatrixSource) Width() int {
	_, c := s.m.Dims()
	return c
}

// Row returns row i without copying.
func (s *MatrixSource) Row(i int) []float64 { return s.m.RawRowView(i) }

// FuncSource produces rows lazily, generator-style: At is invoked on demand
// and may decompress, page in, or synthesize the row. At must be safe for
// concurrent calls with distinct indices when used with a parallel plan.
type FuncSource struct {
	// N is the sample count.
	N int

	// W is the gene count of every row.
	W int

	// At returns sample i.
	At func(i int) []float64
}

// Len returns the sample count.
func (s *FuncSource) Len() int { return s.N }

// Width returns the gene count.
func (s *FuncSource) Width() int { return s.W }

// Row returns sample i via At.
func (s *FuncSource) Row(i int) []float64 { return s.At(i) }

// Materialize eagerly copies every row of src into a single in-memory
// matrix and returns it wrapped as a MatrixSource. Execution backends that
// cannot consume a lazy sequence (TPU-like accelerators) require this; for
// others it trades memory for row re-read speed.
func Materialize(src Source) (*MatrixSource, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	n, w := src.Len(), src.Width()
	if n == 0 || w == 0 {
		return nil, fmt.Errorf("%w: cannot materialize %dx%d source", ErrBadShape, n, w)
	}

	out := mat.NewDense(n, w, nil)
	for i := 0; i < n; i++ {
		row := src.Row(i)
		if len(row) != w {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrBadShape, i, len(row), w)
		}
		copy(out.RawRowView(i), row)
	}

	return NewMatrixSource(out)
}
