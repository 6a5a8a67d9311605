// Package entropy implements the batched Markov-chain signaling-entropy
// kernel: one normalized entropy score per expression vector over a fixed
// interaction adjacency.
//
// What, per sample x over adjacency A (G × G):
//
//  1. Edge weighting: w[i,j] = A[i,j]·x[i]·x[j].
//  2. Column-stochastic normalization: P[i,j] = w[i,j] / Σᵢ w[i,j], with an
//     all-zero column yielding a zero column (never NaN).
//  3. Local entropy per node j: H[j] = -Σᵢ P[i,j]·log P[i,j], with
//     0·log 0 ≡ 0.
//  4. Stationary weighting over the *unweighted* graph: π ∝ x ⊙ (A·x),
//     normalized to sum 1; an all-zero weighting yields all-zero π.
//  5. Raw entropy Σⱼ π[j]·H[j], divided by the graph's maximum entropy.
//
// The per-sample weighted adjacency is never materialized: by symmetry of A
// the j-th column sum is x[j]·(A·x)[j], so each sample costs O(G²) time and
// O(G) scratch. Single-sample and batched paths share one code path, so
// they agree bit-for-bit.
//
// Numeric degeneracies (zero columns, zero samples) are not errors — they
// resolve to zero contributions by definition and never produce NaN.
//
// Concurrency: a Kernel is immutable and safe for concurrent use; each
// goroutine should score through its own Scorer, which carries reusable
// scratch buffers.
//
// Errors:
//
//   - ErrShapeMismatch: batch width differs from the adjacency dimension.
//   - ErrBadNormalizer: maximum entropy is not positive and finite.
package entropy
