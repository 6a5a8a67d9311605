package score

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/scent/batch"
	"github.com/katalvlaran/scent/entropy"
	"github.com/katalvlaran/scent/genemat"
	"github.com/katalvlaran/scent/reduce"
	"github.com/katalvlaran/scent/spectral"
)

// Score computes one normalized signaling-entropy value per sample of meas
// over the interaction graph, in exactly the input sample order.
//
// Pipeline: drop artifact genes → reduce both inputs to the shared largest
// connected component → estimate maximum entropy → probe capacity and plan
// batches → run the kernel across workers. All resources are scoped to the
// call. Inputs are never mutated.
func Score(ctx context.Context, meas, graph *genemat.Matrix, opts ...Option) ([]float64, error) {
	if meas == nil || graph == nil {
		return nil, genemat.ErrNilMatrix
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	// Stage 1: artifact-gene filtering on the measurement side; reduction
	// removes the matching graph genes via the intersection.
	if len(o.ArtifactPrefixes) > 0 {
		filtered, err := meas.DropPrefixes(o.ArtifactPrefixes...)
		if err != nil {
			return nil, fmt.Errorf("score: artifact filter: %w", err)
		}
		meas = filtered
	}

	// Stage 2: shared, connected gene set.
	measR, graphR, err := reduce.Reduce(meas, graph)
	if err != nil {
		return nil, err
	}
	nSamples, nGenes := measR.Dims()
	o.Logger.Info("reduced to shared connected gene set",
		zap.Int("samples", nSamples), zap.Int("genes", nGenes))

	// Stage 3: the normalizing constant for this topology.
	maxEnt, err := spectral.MaxEntropy(graphR)
	if err != nil {
		return nil, err
	}

	kernel, err := entropy.New(graphR.Dense(), maxEnt)
	if err != nil {
		return nil, err
	}

	// Stage 4: capacity and plan.
	capacity, err := resolveCapacity(o)
	if err != nil {
		return nil, err
	}
	planOpts := []batch.Option{batch.WithOverheadRatio(o.Overhead), batch.WithLogger(o.Logger)}
	if o.BatchSize > 0 {
		planOpts = append(planOpts, batch.WithBatchSize(o.BatchSize))
	}
	plan, err := batch.NewPlan(nSamples, nGenes, nGenes, capacity, planOpts...)
	if err != nil {
		return nil, err
	}

	// Stage 5: sample feeding. TPU-like backends cannot consume a lazy
	// sequence; Serialize forces the same eager path everywhere else.
	var src batch.Source
	src, err = batch.NewMatrixSource(measR.Dense())
	if err != nil {
		return nil, err
	}
	if o.Serialize || capacity.System == batch.SystemTPU {
		if src, err = batch.Materialize(src); err != nil {
			return nil, err
		}
	}

	// Stage 6: synchronous dispatch-and-join across workers.
	runnerOpts := []batch.Option{batch.WithLogger(o.Logger)}
	if o.Progress != nil {
		runnerOpts = append(runnerOpts, batch.WithProgress(o.Progress))
	}
	runner, err := batch.NewRunner(kernel, runnerOpts...)
	if err != nil {
		return nil, err
	}

	return runner.Run(ctx, src, plan)
}

// ScoreNamed resolves one of the supported PPI datasets through the loader
// and delegates to Score. Returns ErrUnknownPPI for a name outside the
// enumeration and ErrNilLoader when no loader is supplied.
func ScoreNamed(ctx context.Context, meas *genemat.Matrix, ppi PPI, load GraphLoader, opts ...Option) ([]float64, error) {
	if _, ok := ppiNames[ppi]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPPI, int(ppi))
	}
	if load == nil {
		return nil, ErrNilLoader
	}

	graph, err := load(ppi)
	if err != nil {
		return nil, fmt.Errorf("score: load %s interactome: %w", ppi, err)
	}

	return Score(ctx, meas, graph, opts...)
}

// resolveCapacity returns the explicit Capacity when one was supplied and
// probes the selected system otherwise.
func resolveCapacity(o Options) (batch.Capacity, error) {
	if o.Capacity != nil {
		return *o.Capacity, nil
	}

	return batch.Probe(o.System, batch.WithLogger(o.Logger))
}
