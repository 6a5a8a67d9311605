package batch

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/scent/entropy"
)

// Runner drives repeated kernel invocations over a sample source according
// to a Plan. The kernel's adjacency and normalizer are read-only constants
// shared by all workers; the only mutable shared state is the output
// buffer, and workers write disjoint ranges of it.
type Runner struct {
	kernel *entropy.Kernel
	opts   Options
}

// NewRunner binds a Runner to an entropy kernel.
func NewRunner(kernel *entropy.Kernel, opts ...Option) (*Runner, error) {
	if kernel == nil {
		return nil, entropy.ErrNilGraph
	}
	o := gatherOptions(opts...)
	if o.err != nil {
		return nil, o.err
	}

	return &Runner{kernel: kernel, opts: o}, nil
}

// Run scores every sample of src and returns one entropy value per sample,
// in exactly the input order, regardless of worker count.
//
// Execution is synchronous dispatch-and-join: each outer step covers
// plan.Span() consecutive samples, splits them into per-worker contiguous
// sub-batches, and waits for all workers before the next step begins.
// Progress ticks once per outer step. Cancellation via ctx is honored
// between steps, never mid-step.
func (r *Runner) Run(ctx context.Context, src Source, plan Plan) ([]float64, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	if err := plan.validate(); err != nil {
		return nil, err
	}
	if src.Width() != r.kernel.Genes() {
		return nil, fmt.Errorf("%w: source width %d, graph %d",
			entropy.ErrShapeMismatch, src.Width(), r.kernel.Genes())
	}
	if ctx == nil {
		ctx = context.Background()
	}

	n := src.Len()
	out := make([]float64, n)
	if n == 0 {
		return out, nil
	}

	steps := plan.Steps(n)
	start := time.Now()
	r.opts.Logger.Info("entropy run planned",
		zap.Int("samples", n),
		zap.Int("workers", plan.Workers),
		zap.Int("batch_size", plan.BatchSize),
		zap.String("mode", plan.Mode.String()),
		zap.Int("steps", steps),
	)

	// One scorer per worker, reused across steps: scratch lives exactly as
	// long as the run and is released with it.
	scorers := make([]*entropy.Scorer, plan.Workers)
	for w := range scorers {
		scorers[w] = r.kernel.NewScorer()
	}

	span := plan.Span()
	for step := 0; step < steps; step++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		lo := step * span
		hi := min(lo+span, n)

		if plan.Mode == Sequential || plan.Workers == 1 {
			scoreRange(scorers[0], src, out, lo, hi)
		} else {
			var g errgroup.Group
			for w := 0; w < plan.Workers; w++ {
				wlo := lo + w*plan.BatchSize
				whi := min(wlo+plan.BatchSize, hi)
				if wlo >= whi {
					break
				}
				scorer := scorers[w]
				g.Go(func() error {
					scoreRange(scorer, src, out, wlo, whi)
					return nil
				})
			}
			// Barrier: all workers finish the step before results advance.
			if err := g.Wait(); err != nil {
				return nil, err
			}
		}

		if r.opts.Progress != nil {
			r.opts.Progress(step+1, steps)
		}
		r.opts.Logger.Debug("batch step complete",
			zap.Int("step", step+1), zap.Int("scored", hi))
	}

	r.opts.Logger.Info("entropy run complete",
		zap.Int("samples", n), zap.Duration("elapsed", time.Since(start)))

	return out, nil
}

// scoreRange scores samples [lo, hi) into out with one worker's scorer.
func scoreRange(s *entropy.Scorer, src Source, out []float64, lo, hi int) {
	for i := lo; i < hi; i++ {
		out[i] = s.ScoreRow(src.Row(i))
	}
}
