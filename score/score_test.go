package score_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/scent/batch"
	"github.com/katalvlaran/scent/genemat"
	"github.com/katalvlaran/scent/reduce"
	"github.com/katalvlaran/scent/score"
)

// k4Genes label the 4-node complete test graph.
var k4Genes = []string{"EGFR", "KRAS", "MYC", "TP53"}

// k4 builds the complete unweighted interaction graph over k4Genes.
func k4(t *testing.T) *genemat.Matrix {
	t.Helper()
	data := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if i != j {
				data.Set(i, j, 1)
			}
		}
	}
	g, err := genemat.NewInteraction(k4Genes, data)
	require.NoError(t, err)

	return g
}

// measurementOf builds a measurement matrix over k4Genes from row data.
func measurementOf(t *testing.T, rows ...[]float64) *genemat.Matrix {
	t.Helper()
	flat := make([]float64, 0, len(rows)*4)
	for _, r := range rows {
		flat = append(flat, r...)
	}
	m, err := genemat.New(k4Genes, mat.NewDense(len(rows), 4, flat))
	require.NoError(t, err)

	return m
}

// testCapacity pins scoring to an in-test CPU capacity so no live memory
// probe runs.
func testCapacity(workers int) score.Option {
	free := make([]uint64, workers)
	for i := range free {
		free[i] = 1 << 30
	}

	return score.WithCapacity(batch.Capacity{
		System: batch.SystemCPU, Workers: workers, FreeBytes: free,
	})
}

// TestScore_UniformIsMaximal verifies the maximal case: uniform
// expression over the symmetric complete graph scores ≈ 1.0.
func TestScore_UniformIsMaximal(t *testing.T) {
	got, err := score.Score(context.Background(),
		measurementOf(t, []float64{1, 1, 1, 1}), k4(t), testCapacity(1))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 1.0, got[0], 1e-9)
}

// TestScore_ConcentrationLowersEntropy verifies concentrated expression
// scores below the uniform case.
func TestScore_ConcentrationLowersEntropy(t *testing.T) {
	got, err := score.Score(context.Background(),
		measurementOf(t,
			[]float64{1, 1, 1, 1},
			[]float64{1, 0, 0, 0},
		), k4(t), testCapacity(1))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Less(t, got[1], got[0])
}

// TestScore_RowPermutation verifies permutation equivariance: permuted
// input rows yield identically permuted outputs.
func TestScore_RowPermutation(t *testing.T) {
	a := measurementOf(t,
		[]float64{1, 1, 1, 1},
		[]float64{3, 1, 1, 1},
		[]float64{0.5, 2, 0, 7},
	)
	b := measurementOf(t,
		[]float64{0.5, 2, 0, 7},
		[]float64{1, 1, 1, 1},
		[]float64{3, 1, 1, 1},
	)

	sa, err := score.Score(context.Background(), a, k4(t), testCapacity(1))
	require.NoError(t, err)
	sb, err := score.Score(context.Background(), b, k4(t), testCapacity(1))
	require.NoError(t, err)

	assert.Equal(t, sa[0], sb[1])
	assert.Equal(t, sa[1], sb[2])
	assert.Equal(t, sa[2], sb[0])
}

// TestScore_WorkerInvariance verifies parallel capacity does not change
// ordered results.
func TestScore_WorkerInvariance(t *testing.T) {
	rows := make([][]float64, 23)
	for i := range rows {
		rows[i] = []float64{float64(i % 5), float64((i * 3) % 7), 1, float64(i % 2)}
	}
	meas := measurementOf(t, rows...)

	serial, err := score.Score(context.Background(), meas, k4(t), testCapacity(1))
	require.NoError(t, err)
	parallel, err := score.Score(context.Background(), meas, k4(t), testCapacity(3), score.WithBatchSize(4))
	require.NoError(t, err)

	assert.Equal(t, serial, parallel)
}

// TestScore_EmptyIntersection verifies disjoint gene sets surface
// reduce.ErrEmptyIntersection.
func TestScore_EmptyIntersection(t *testing.T) {
	other, err := genemat.New([]string{"W", "X", "Y", "Z"}, mat.NewDense(1, 4, []float64{1, 1, 1, 1}))
	require.NoError(t, err)

	_, err = score.Score(context.Background(), other, k4(t), testCapacity(1))
	assert.ErrorIs(t, err, reduce.ErrEmptyIntersection)
}

// TestScore_ArtifactFilter verifies artifact-prefixed genes are excluded
// from scoring even when the graph knows them.
func TestScore_ArtifactFilter(t *testing.T) {
	genes := []string{"EGFR", "KRAS", "MYC", "RPS4"}
	data := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if i != j {
				data.Set(i, j, 1)
			}
		}
	}
	graph, err := genemat.NewInteraction(genes, data)
	require.NoError(t, err)
	meas, err := genemat.New(genes, mat.NewDense(1, 4, []float64{1, 1, 1, 1}))
	require.NoError(t, err)

	// With the default filter, RPS4 is dropped: the run reduces to K₃.
	filtered, err := score.Score(context.Background(), meas, graph, testCapacity(1))
	require.NoError(t, err)
	unfiltered, err := score.Score(context.Background(), meas, graph, testCapacity(1),
		score.WithoutArtifactFilter())
	require.NoError(t, err)

	require.Len(t, filtered, 1)
	require.Len(t, unfiltered, 1)
	assert.InDelta(t, 1.0, filtered[0], 1e-9, "uniform expression stays maximal on K₃")
	assert.InDelta(t, 1.0, unfiltered[0], 1e-9)
}

// TestScore_OptionViolations verifies bad explicit settings fail before any
// computation.
func TestScore_OptionViolations(t *testing.T) {
	meas := measurementOf(t, []float64{1, 1, 1, 1})

	_, err := score.Score(context.Background(), meas, k4(t), score.WithBatchSize(0))
	assert.ErrorIs(t, err, batch.ErrBadBatchSize)

	_, err = score.Score(context.Background(), meas, k4(t), score.WithOverheadRatio(0))
	assert.ErrorIs(t, err, batch.ErrBadOverhead)
}

// TestScore_SerializeMatchesLazy verifies the eager feeding path scores
// identically to the default.
func TestScore_SerializeMatchesLazy(t *testing.T) {
	meas := measurementOf(t,
		[]float64{1, 2, 3, 4},
		[]float64{4, 3, 2, 1},
	)

	lazy, err := score.Score(context.Background(), meas, k4(t), testCapacity(2))
	require.NoError(t, err)
	eager, err := score.Score(context.Background(), meas, k4(t), testCapacity(2), score.WithSerialize())
	require.NoError(t, err)

	assert.Equal(t, lazy, eager)
}

// TestParsePPI covers the dataset enumeration.
func TestParsePPI(t *testing.T) {
	for name, want := range map[string]score.PPI{
		"scent": score.PPIScent, "INBIO": score.PPIInbio,
		"BioGRID": score.PPIBiogrid, " huri ": score.PPIHuri,
	} {
		got, err := score.ParsePPI(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := score.ParsePPI("string-db")
	assert.ErrorIs(t, err, score.ErrUnknownPPI)
}

// TestScoreNamed verifies loader wiring and its failure modes.
func TestScoreNamed(t *testing.T) {
	meas := measurementOf(t, []float64{1, 1, 1, 1})
	graph := k4(t)

	var loaded score.PPI = -1
	loader := func(p score.PPI) (*genemat.Matrix, error) {
		loaded = p
		return graph, nil
	}

	got, err := score.ScoreNamed(context.Background(), meas, score.PPIBiogrid, loader, testCapacity(1))
	require.NoError(t, err)
	assert.Equal(t, score.PPIBiogrid, loaded)
	assert.Len(t, got, 1)

	_, err = score.ScoreNamed(context.Background(), meas, score.PPI(99), loader)
	assert.ErrorIs(t, err, score.ErrUnknownPPI)

	_, err = score.ScoreNamed(context.Background(), meas, score.PPIScent, nil)
	assert.ErrorIs(t, err, score.ErrNilLoader)

	boom := errors.New("h5ad missing")
	_, err = score.ScoreNamed(context.Background(), meas, score.PPIScent,
		func(score.PPI) (*genemat.Matrix, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
}

// TestScore_CancelledContext verifies cancellation propagates from the
// runner.
func TestScore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := score.Score(ctx, measurementOf(t, []float64{1, 1, 1, 1}), k4(t), testCapacity(1))
	assert.ErrorIs(t, err, context.Canceled)
}
