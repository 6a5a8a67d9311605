package batch

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"
)

// Capacity describes the compute units a run may use: their kind, count and
// per-unit free memory. The scarcest unit bounds the batch size — a batch
// that fits the largest unit but not the smallest fails under real load.
type Capacity struct {
	// System is the resolved compute-unit kind (never SystemAuto).
	System System

	// Workers is the number of parallel units (>= 1).
	Workers int

	// FreeBytes holds free memory per unit, one entry per worker.
	FreeBytes []uint64
}

// MinFree returns the free memory of the scarcest unit, or 0 when no unit
// reported any.
func (c Capacity) MinFree() uint64 {
	var minFree uint64
	for i, f := range c.FreeBytes {
		if i == 0 || f < minFree {
			minFree = f
		}
	}

	return minFree
}

// Probe inspects the requested system and returns its live Capacity.
//
// SystemAuto resolves to GPU when at least one is visible, else CPU.
// SystemGPU with no visible GPUs degrades to CPU — a designed fallback, not
// an error. SystemTPU cannot be probed from the host and returns
// ErrExplicitCapacity; construct the Capacity by hand (DefaultTPUWorkers
// cores is the conventional layout).
func Probe(system System, opts ...Option) (Capacity, error) {
	o := gatherOptions(opts...)
	if o.err != nil {
		return Capacity{}, o.err
	}

	return probe(system, o)
}

func probe(system System, o Options) (Capacity, error) {
	switch system {
	case SystemAuto:
		if free, err := o.gpuFree(); err == nil && len(free) > 0 {
			return Capacity{System: SystemGPU, Workers: len(free), FreeBytes: free}, nil
		}

		return probe(SystemCPU, o)

	case SystemGPU:
		free, err := o.gpuFree()
		if err != nil || len(free) == 0 {
			o.Logger.Warn("no usable GPU, falling back to CPU", zap.Error(err))

			return probe(SystemCPU, o)
		}

		return Capacity{System: SystemGPU, Workers: len(free), FreeBytes: free}, nil

	case SystemCPU:
		free, err := o.cpuFree()
		if err != nil {
			return Capacity{}, fmt.Errorf("batch: probe host memory: %w", err)
		}

		return Capacity{System: SystemCPU, Workers: 1, FreeBytes: []uint64{free}}, nil

	case SystemTPU:
		return Capacity{}, fmt.Errorf("%w: %s", ErrExplicitCapacity, system)

	default:
		return Capacity{}, fmt.Errorf("%w: %d", ErrUnknownSystem, int(system))
	}
}

// cpuFreeMemory reports the host's free physical memory.
func cpuFreeMemory() (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}

	return vm.Free, nil
}

// gpuFreeMemory reports free memory per visible GPU by querying nvidia-smi,
// one MiB value per line.
func gpuFreeMemory() ([]uint64, error) {
	out, err := exec.Command(
		"nvidia-smi", "--query-gpu=memory.free", "--format=csv,noheader,nounits",
	).Output()
	if err != nil {
		return nil, fmt.Errorf("batch: nvidia-smi: %w", err)
	}

	var free []uint64
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		mib, err := strconv.ParseUint(line, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("batch: parse nvidia-smi output %q: %w", line, err)
		}
		free = append(free, mib*1024*1024)
	}

	return free, nil
}
