// Package scent computes signaling (transcriptome) entropy: a per-sample
// scalar that measures the diffusion randomness of an expression-weighted
// random walk over a fixed protein-protein interaction (PPI) graph.
//
// 🚀 What is scent?
//
//	A batchable, data-parallel scoring library that brings together:
//		• genemat/  — gene-indexed matrices (expression × genes, PPI adjacency)
//		• reduce/   — intersection + largest-connected-component reduction
//		• spectral/ — maximum entropy from the graph's dominant eigenvalue
//		• entropy/  — the batched Markov-chain entropy kernel
//		• batch/    — memory-aware batch planning and parallel execution
//		• score/    — end-to-end orchestration, one score per sample
//
// ✨ Why choose scent?
//
//   - Deterministic — identical ordered output for 1 or N workers
//   - Memory-aware — power-of-two batch sizing from live free-memory probes
//   - Graceful numerics — zero columns and zero samples score 0, never NaN
//   - Extensible — functional options, injectable probers and graph loaders
//
// Typical flow:
//
//	meas, ppi → reduce.Reduce → spectral.MaxEntropy → batch.NewPlan
//	          → batch.Runner.Run(entropy kernel) → []float64, one per sample
//
// Low scores indicate concentrated, low-entropy signaling states; high
// scores indicate near-uniform diffusion over the interaction topology.
//
//	go get github.com/katalvlaran/scent
package scent
