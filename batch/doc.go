// Package batch plans and drives the data-parallel execution of the entropy
// kernel over a sample stream.
//
// What:
//
//   - System: the compute-unit selector {CPU, GPU, TPU, Auto}; Auto resolves
//     to GPU when one is present, else CPU.
//   - Probe: live free-memory capacity per compute unit (gopsutil for CPU,
//     nvidia-smi for GPUs); the unit with the least free memory is the
//     limiting constraint.
//   - NewPlan: the batch-size heuristic — the largest power of two whose
//     per-sample footprint (four G×G float64 working tensors) fits within
//     (1 - overhead) of the scarcest unit's free memory.
//   - Source: a finite, restartable producer of sample rows; MatrixSource
//     reads a materialized matrix, FuncSource reads lazily. Materialize
//     converts any Source into an eager matrix for backends (TPU-like) that
//     cannot consume a lazy sequence.
//   - Runner: synchronous dispatch-and-join. Each outer step covers
//     workers × batchSize consecutive samples, splits them evenly across
//     workers, waits on the barrier, and only then moves on. Workers write
//     disjoint output ranges, so results are always in input order — for
//     one worker or many.
//
// Cancellation is cooperative and happens only between outer steps; a step
// is an atomic, synchronous unit of work.
//
// Failure policy: a missing GPU degrades to CPU (designed fallback, not an
// error); a plan that cannot fit even one sample in memory fails with
// ErrResourceExhausted carrying the attempted configuration.
//
// Errors:
//
//   - ErrUnknownSystem: system name outside {CPU, GPU, TPU, AUTO}.
//   - ErrBadBatchSize: non-positive explicit batch size or plan.
//   - ErrBadOverhead: overhead ratio outside (0, 1).
//   - ErrBadShape: non-positive graph dimensions or negative sample count.
//   - ErrResourceExhausted: no viable batch size fits available memory.
//   - ErrExplicitCapacity: TPU memory cannot be probed; supply a Capacity.
package batch
