// SPDX-License-Identifier: MIT

// Package genemat provides gene-indexed matrices: a dense numeric matrix
// (gonum mat.Dense) paired with an ordered, unique sequence of gene
// identifiers labeling its columns — and, for square interaction matrices,
// its rows as well.
//
// What:
//
//   - Matrix wraps *mat.Dense with a gene-identifier index.
//   - New builds a measurement matrix (samples × genes).
//   - NewInteraction builds a symmetric, non-negative adjacency matrix
//     (genes × genes) and validates it within a configurable epsilon.
//   - FromTriplets ingests sparse COO data into an interaction matrix.
//   - Select / DropPrefixes produce re-indexed copies; nothing is mutated
//     in place after construction.
//
// Why:
//
//   - Entropy scoring needs the expression matrix and the PPI adjacency to
//     share one gene ordering; carrying identifiers with the values makes
//     reduction and re-indexing safe and reproducible.
//
// Errors:
//
//   - ErrNilMatrix: nil *mat.Dense or nil *Matrix receiver.
//   - ErrDimensionMismatch: identifier count differs from matrix dimension.
//   - ErrDuplicateGene: identifier sequence contains a repeated gene.
//   - ErrUnknownGene: Select referenced a gene absent from the matrix.
//   - ErrAsymmetry: interaction matrix violates symmetry within eps.
//   - ErrNegativeValue: interaction matrix holds a negative entry.
//   - ErrNaNInf: a NaN or ±Inf value was encountered during validation.
package genemat
