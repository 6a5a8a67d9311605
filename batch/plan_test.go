package batch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/scent/batch"
)

// capOf builds a Capacity over explicit per-unit free-memory figures.
func capOf(system batch.System, free ...uint64) batch.Capacity {
	return batch.Capacity{System: system, Workers: len(free), FreeBytes: free}
}

// TestParseSystem covers the full enum plus rejection of unknown names.
func TestParseSystem(t *testing.T) {
	for name, want := range map[string]batch.System{
		"CPU": batch.SystemCPU, "gpu": batch.SystemGPU,
		"Tpu": batch.SystemTPU, " auto ": batch.SystemAuto,
	} {
		got, err := batch.ParseSystem(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := batch.ParseSystem("QPU")
	assert.ErrorIs(t, err, batch.ErrUnknownSystem)
}

// TestNewPlan_PowerOfTwoWithinBudget verifies the planner sizing rule: the
// chosen batch size is a power of two and its footprint never exceeds
// (1 - overhead) × available memory on the scarcest unit.
func TestNewPlan_PowerOfTwoWithinBudget(t *testing.T) {
	const rows, cols = 100, 100
	footprint := uint64(4 * 8 * rows * cols)

	for _, free := range []uint64{
		footprint * 2, footprint * 3, footprint * 100, footprint*64 + 123, 1 << 30,
	} {
		plan, err := batch.NewPlan(1000, rows, cols, capOf(batch.SystemCPU, free))
		require.NoError(t, err, "free=%d", free)

		assert.Positive(t, plan.BatchSize)
		assert.Zero(t, plan.BatchSize&(plan.BatchSize-1), "batch %d must be a power of two", plan.BatchSize)

		usable := uint64(float64(free) * (1 - batch.DefaultOverheadRatio))
		assert.LessOrEqual(t, uint64(plan.BatchSize)*footprint, usable,
			"free=%d batch=%d", free, plan.BatchSize)
		// Largest such power of two: doubling must overflow the budget.
		assert.Greater(t, uint64(2*plan.BatchSize)*footprint, usable)
	}
}

// TestNewPlan_ScarcestUnitConstrains verifies the smallest unit bounds the
// batch even when larger units are present.
func TestNewPlan_ScarcestUnitConstrains(t *testing.T) {
	const rows, cols = 10, 10
	footprint := uint64(4 * 8 * rows * cols)

	big, small := footprint*1000, footprint*4
	plan, err := batch.NewPlan(100, rows, cols, capOf(batch.SystemGPU, big, small, big))
	require.NoError(t, err)

	usableSmall := uint64(float64(small) * (1 - batch.DefaultOverheadRatio))
	assert.LessOrEqual(t, uint64(plan.BatchSize)*footprint, usableSmall)
	assert.Equal(t, 3, plan.Workers)
	assert.Equal(t, batch.DataParallel, plan.Mode)
}

// TestNewPlan_ResourceExhausted verifies the minimum-batch failure mode.
func TestNewPlan_ResourceExhausted(t *testing.T) {
	_, err := batch.NewPlan(10, 1000, 1000, capOf(batch.SystemCPU, 1024))
	assert.ErrorIs(t, err, batch.ErrResourceExhausted)
}

// TestNewPlan_ExplicitBatchSize verifies WithBatchSize bypasses the
// heuristic and skips the memory check entirely.
func TestNewPlan_ExplicitBatchSize(t *testing.T) {
	plan, err := batch.NewPlan(10, 1000, 1000, capOf(batch.SystemCPU, 1), batch.WithBatchSize(7))
	require.NoError(t, err)
	assert.Equal(t, 7, plan.BatchSize)
	assert.Equal(t, batch.Sequential, plan.Mode)
}

// TestNewPlan_OptionViolations verifies invalid explicit settings surface
// as their sentinels before any computation.
func TestNewPlan_OptionViolations(t *testing.T) {
	c := capOf(batch.SystemCPU, 1<<30)

	_, err := batch.NewPlan(10, 4, 4, c, batch.WithBatchSize(0))
	assert.ErrorIs(t, err, batch.ErrBadBatchSize)

	_, err = batch.NewPlan(10, 4, 4, c, batch.WithOverheadRatio(1.5))
	assert.ErrorIs(t, err, batch.ErrBadOverhead)

	_, err = batch.NewPlan(-1, 4, 4, c)
	assert.ErrorIs(t, err, batch.ErrBadShape)

	_, err = batch.NewPlan(10, 0, 4, c)
	assert.ErrorIs(t, err, batch.ErrBadShape)
}

// TestNewPlan_ZeroWorkersDegradesToOne verifies the single-worker fallback.
func TestNewPlan_ZeroWorkersDegradesToOne(t *testing.T) {
	c := batch.Capacity{System: batch.SystemCPU, Workers: 0, FreeBytes: []uint64{1 << 30}}

	plan, err := batch.NewPlan(10, 4, 4, c)
	require.NoError(t, err)
	assert.Equal(t, 1, plan.Workers)
	assert.Equal(t, batch.Sequential, plan.Mode)
}

// TestPlan_Steps verifies outer-step arithmetic including the tail step.
func TestPlan_Steps(t *testing.T) {
	p := batch.Plan{BatchSize: 4, Workers: 2}

	assert.Equal(t, 8, p.Span())
	assert.Equal(t, 0, p.Steps(0))
	assert.Equal(t, 1, p.Steps(8))
	assert.Equal(t, 2, p.Steps(9))
	assert.Equal(t, 13, p.Steps(100))
}

// TestProbe_InjectedProbers verifies Auto/GPU resolution and the CPU
// fallback without touching real hardware.
func TestProbe_InjectedProbers(t *testing.T) {
	gpu := batch.WithGPUProbe(func() ([]uint64, error) { return []uint64{2 << 30, 1 << 30}, nil })
	cpu := batch.WithCPUProbe(func() (uint64, error) { return 8 << 30, nil })

	got, err := batch.Probe(batch.SystemAuto, gpu, cpu)
	require.NoError(t, err)
	assert.Equal(t, batch.SystemGPU, got.System)
	assert.Equal(t, 2, got.Workers)
	assert.Equal(t, uint64(1<<30), got.MinFree())

	noGPU := batch.WithGPUProbe(func() ([]uint64, error) { return nil, nil })
	got, err = batch.Probe(batch.SystemAuto, noGPU, cpu)
	require.NoError(t, err)
	assert.Equal(t, batch.SystemCPU, got.System)
	assert.Equal(t, 1, got.Workers)
	assert.Equal(t, uint64(8<<30), got.MinFree())

	got, err = batch.Probe(batch.SystemGPU, noGPU, cpu)
	require.NoError(t, err)
	assert.Equal(t, batch.SystemCPU, got.System, "GPU probe without GPUs degrades to CPU")

	_, err = batch.Probe(batch.SystemTPU)
	assert.ErrorIs(t, err, batch.ErrExplicitCapacity)
}
