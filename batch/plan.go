package batch

import (
	"fmt"
	"math"
)

// Plan is the resolved execution shape of a run: per-worker batch size,
// worker count and execution mode. Plans are derived fresh per run and
// never persisted.
type Plan struct {
	// BatchSize is the per-worker sample count per outer step.
	BatchSize int

	// Workers is the number of parallel compute units.
	Workers int

	// Mode is Sequential for one worker, DataParallel otherwise.
	Mode Mode
}

// Span returns the number of samples one outer step covers.
func (p Plan) Span() int { return p.BatchSize * p.Workers }

// Steps returns how many outer steps a run over n samples takes.
func (p Plan) Steps(n int) int {
	if n <= 0 || p.Span() <= 0 {
		return 0
	}

	return (n + p.Span() - 1) / p.Span()
}

// validate rejects malformed plans before execution.
func (p Plan) validate() error {
	if p.BatchSize < 1 || p.Workers < 1 {
		return fmt.Errorf("%w: batch %d × workers %d", ErrBadBatchSize, p.BatchSize, p.Workers)
	}

	return nil
}

// NewPlan derives the batch size and worker count for scoring nSamples
// vectors against a rows × cols adjacency under the given capacity.
//
// The heuristic charges each in-flight sample scratchTensors G×G float64
// working tensors and picks the largest power of two whose total footprint
// fits within (1 - overhead) of the scarcest unit's free memory. An
// explicit WithBatchSize bypasses the heuristic entirely.
//
// A capacity with no workers degrades to a single worker. When even one
// sample does not fit, NewPlan fails with ErrResourceExhausted carrying the
// attempted configuration.
func NewPlan(nSamples, rows, cols int, capacity Capacity, opts ...Option) (Plan, error) {
	o := gatherOptions(opts...)
	if o.err != nil {
		return Plan{}, o.err
	}
	if nSamples < 0 || rows < 1 || cols < 1 {
		return Plan{}, fmt.Errorf("%w: %d samples over %dx%d graph", ErrBadShape, nSamples, rows, cols)
	}

	workers := capacity.Workers
	if workers < 1 {
		workers = 1
	}
	mode := Sequential
	if workers > 1 {
		mode = DataParallel
	}

	if o.BatchSize > 0 {
		return Plan{BatchSize: o.BatchSize, Workers: workers, Mode: mode}, nil
	}

	footprint := uint64(scratchTensors) * bytesPerValue * uint64(rows) * uint64(cols)
	usable := uint64(float64(capacity.MinFree()) * (1 - o.Overhead))
	if usable < footprint {
		return Plan{}, fmt.Errorf(
			"%w: per-sample footprint %d B exceeds usable %d B (free %d B, overhead %.2f, graph %dx%d, system %s)",
			ErrResourceExhausted, footprint, usable, capacity.MinFree(), o.Overhead, rows, cols, capacity.System,
		)
	}

	batch := 1 << int(math.Floor(math.Log2(float64(usable)/float64(footprint))))

	return Plan{BatchSize: batch, Workers: workers, Mode: mode}, nil
}
