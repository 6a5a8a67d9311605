// Package batch: systems, execution modes, sentinel errors and functional
// options shared by capacity probing, planning and the runner.
package batch

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Sentinel errors for planning and execution.
var (
	// ErrUnknownSystem is returned for a system name outside CPU/GPU/TPU/AUTO.
	ErrUnknownSystem = errors.New("batch: unknown system")

	// ErrBadBatchSize is returned for a non-positive explicit batch size or
	// a malformed plan.
	ErrBadBatchSize = errors.New("batch: batch size must be >= 1")

	// ErrBadOverhead is returned when the memory-overhead ratio falls
	// outside the open interval (0, 1).
	ErrBadOverhead = errors.New("batch: overhead ratio must be in (0, 1)")

	// ErrBadShape is returned for non-positive graph dimensions or a
	// negative sample count.
	ErrBadShape = errors.New("batch: invalid shape")

	// ErrResourceExhausted is returned when not even a single sample fits
	// within the usable memory of the scarcest compute unit.
	ErrResourceExhausted = errors.New("batch: no viable batch size fits available memory")

	// ErrExplicitCapacity is returned when probing a system whose memory
	// cannot be inspected (TPU); callers must construct a Capacity by hand.
	ErrExplicitCapacity = errors.New("batch: system memory cannot be probed; provide Capacity explicitly")

	// ErrNilSource is returned when the runner receives a nil sample source.
	ErrNilSource = errors.New("batch: nil sample source")
)

// System selects the kind of compute unit a run targets.
type System int

const (
	// SystemCPU computes on the host with a single worker.
	SystemCPU System = iota

	// SystemGPU distributes across all visible GPUs.
	SystemGPU

	// SystemTPU targets an accelerator that requires materialized input and
	// explicit capacity.
	SystemTPU

	// SystemAuto resolves to GPU when one is available, else CPU.
	SystemAuto
)

// systemNames maps System values to their canonical names.
var systemNames = map[System]string{
	SystemCPU:  "CPU",
	SystemGPU:  "GPU",
	SystemTPU:  "TPU",
	SystemAuto: "AUTO",
}

// String returns the canonical system name.
func (s System) String() string {
	if name, ok := systemNames[s]; ok {
		return name
	}

	return fmt.Sprintf("System(%d)", int(s))
}

// ParseSystem converts a case-insensitive name into a System.
// Returns ErrUnknownSystem for anything outside CPU/GPU/TPU/AUTO.
func ParseSystem(name string) (System, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "CPU":
		return SystemCPU, nil
	case "GPU":
		return SystemGPU, nil
	case "TPU":
		return SystemTPU, nil
	case "AUTO":
		return SystemAuto, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSystem, name)
	}
}

// Mode tags how a plan executes: sequentially on one worker, or
// data-parallel across several. Both implement the same run contract.
type Mode int

const (
	// Sequential runs every batch on a single worker.
	Sequential Mode = iota

	// DataParallel splits each outer batch evenly across workers with a
	// barrier per step.
	DataParallel
)

// String returns the mode name.
func (m Mode) String() string {
	if m == DataParallel {
		return "data-parallel"
	}

	return "sequential"
}

// Defaults for planning.
const (
	// DefaultOverheadRatio is the fraction of free memory kept as headroom
	// when sizing batches automatically.
	DefaultOverheadRatio = 0.3

	// DefaultTPUWorkers is the worker count assumed for a TPU system, whose
	// cores are not enumerable from the host.
	DefaultTPUWorkers = 8

	// bytesPerValue is the storage cost of one float64 matrix entry.
	bytesPerValue = 8

	// scratchTensors is the number of G×G-equivalent working tensors the
	// kernel memory model charges per in-flight sample.
	scratchTensors = 4
)

// ProgressFunc receives (completedSteps, totalSteps) after each outer batch
// step. One tick covers workers × batchSize samples.
type ProgressFunc func(done, total int)

// Option configures probing, planning and the runner.
type Option func(*Options)

// Options holds the effective configuration after applying setters.
type Options struct {
	// BatchSize, when > 0, bypasses the memory heuristic.
	BatchSize int

	// Overhead is the reserved fraction of free memory, default 0.3.
	Overhead float64

	// Progress is invoked once per outer step; nil disables reporting.
	Progress ProgressFunc

	// Logger receives plan and step milestones; defaults to zap.NewNop().
	Logger *zap.Logger

	// memory probes, injectable for tests
	cpuFree func() (uint64, error)
	gpuFree func() ([]uint64, error)

	// internal error recorded during option parsing
	err error
}

// DefaultOptions returns Options with the documented defaults and live
// memory probes.
func DefaultOptions() Options {
	return Options{
		Overhead: DefaultOverheadRatio,
		Logger:   zap.NewNop(),
		cpuFree:  cpuFreeMemory,
		gpuFree:  gpuFreeMemory,
	}
}

// WithBatchSize bypasses the heuristic with an explicit per-worker batch
// size. Non-positive values surface as ErrBadBatchSize.
func WithBatchSize(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.err = fmt.Errorf("%w: got %d", ErrBadBatchSize, n)
			return
		}
		o.BatchSize = n
	}
}

// WithOverheadRatio reserves the given fraction of free memory as headroom.
// Values outside (0, 1) surface as ErrBadOverhead.
func WithOverheadRatio(r float64) Option {
	return func(o *Options) {
		if r <= 0 || r >= 1 {
			o.err = fmt.Errorf("%w: got %g", ErrBadOverhead, r)
			return
		}
		o.Overhead = r
	}
}

// WithProgress registers a per-step progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(o *Options) {
		if fn != nil {
			o.Progress = fn
		}
	}
}

// WithLogger attaches a structured logger for plan and step milestones.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithCPUProbe replaces the host free-memory probe (tests, containers with
// cgroup limits).
func WithCPUProbe(fn func() (uint64, error)) Option {
	return func(o *Options) {
		if fn != nil {
			o.cpuFree = fn
		}
	}
}

// WithGPUProbe replaces the per-GPU free-memory probe.
func WithGPUProbe(fn func() ([]uint64, error)) Option {
	return func(o *Options) {
		if fn != nil {
			o.gpuFree = fn
		}
	}
}

// gatherOptions resolves setters against defaults.
func gatherOptions(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
