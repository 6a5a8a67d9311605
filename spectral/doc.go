// Package spectral computes the theoretical maximum entropy of an
// interaction graph: the natural logarithm of the adjacency matrix's
// dominant eigenvalue.
//
// What:
//
//   - MaxEntropy runs a shifted power iteration on a connected, symmetric,
//     non-negative adjacency matrix and returns log(λ₁).
//
// Why:
//
//   - log(λ₁) bounds the signaling-entropy measure for the topology; the
//     kernel divides raw entropies by it to land scores in [0, ~1].
//
// Method:
//
//   - For a connected non-negative symmetric matrix, Perron–Frobenius
//     guarantees λ₁ is real, simple and ≥ |λᵢ| for all i. A positive
//     diagonal shift makes λ₁+c strictly dominant even on bipartite
//     topologies (where -λ₁ ties in magnitude), so plain power iteration
//     with a uniform start vector converges deterministically.
//
// Complexity: O(k·G²) time for k iterations on a G-node dense adjacency,
// O(G) extra memory.
//
// Errors:
//
//   - ErrDomain: the dominant eigenvalue is not strictly positive, so the
//     logarithm is undefined (edgeless or degenerate input).
//   - ErrNotConverged: the iteration did not reach tolerance within the
//     configured iteration cap.
package spectral
