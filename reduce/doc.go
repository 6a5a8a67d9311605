// Package reduce restricts a measurement matrix and an interaction graph to
// a shared, connected gene set — the preprocessing contract required before
// entropy scoring.
//
// What:
//
//   - Reduce intersects the two gene-identifier sequences (ascending order),
//     restricts both matrices to the intersection, extracts the largest
//     connected component of the restricted graph, and re-indexes both
//     matrices to that component's genes, again in ascending order.
//
// Why:
//
//   - The dominant-eigenvalue / stationary-distribution theory behind the
//     entropy score is defined only for irreducible (connected) graphs, and
//     the kernel requires both inputs to share one gene ordering.
//
// Determinism:
//
//   - Output gene order is ascending lexical order, independent of input
//     order. When several components tie for the maximum size, the component
//     containing the lexicographically smallest gene wins.
//
// Properties:
//
//   - Idempotent: reducing an already-reduced pair changes nothing.
//   - The returned graph is a single connected component.
//
// Complexity: O(S·G + E) time, O(G + E) extra memory, for S samples,
// G intersected genes and E edges.
//
// Errors:
//
//   - ErrEmptyIntersection: the gene sets share no identifiers.
//   - ErrNoEdges: the restricted graph has no edges, so no component exists.
package reduce
