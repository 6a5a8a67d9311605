// Package score wires the full signaling-entropy pipeline: artifact-gene
// filtering, graph reduction, maximum-entropy estimation, batch planning
// and parallel kernel execution — one normalized score per input sample,
// in input order.
//
// What:
//
//   - Score runs the pipeline over a measurement matrix and an interaction
//     graph already in memory.
//   - ScoreNamed resolves one of the supported PPI datasets (scent, inbio,
//     biogrid, huri) through a caller-supplied GraphLoader first; dataset
//     storage and parsing stay outside this library.
//
// Resource scope:
//
//   - Every run acquires its own capacity probe, plan, kernel and worker
//     scratch, and releases all of it on every exit path — normal, error or
//     cancellation. Nothing global survives a run.
//
// Errors bubble up from the stages unchanged (reduce.ErrEmptyIntersection,
// spectral.ErrDomain, batch.ErrResourceExhausted, ...) plus:
//
//   - ErrUnknownPPI: dataset name outside the supported enumeration.
//   - ErrNilLoader: ScoreNamed called without a GraphLoader.
package score
