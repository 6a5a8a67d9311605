package reduce

import (
	"errors"
	"fmt"
	"sort"

	"github.com/katalvlaran/scent/genemat"
)

// Sentinel errors for graph/measurement reduction.
var (
	// ErrEmptyIntersection is returned when the measurement and the graph
	// share no gene identifiers.
	ErrEmptyIntersection = errors.New("reduce: no shared gene identifiers")

	// ErrNoEdges is returned when the intersected interaction graph has no
	// edges, leaving no connected component to select.
	ErrNoEdges = errors.New("reduce: interaction graph has no edges")

	// ErrNotInteraction is returned when the graph argument is not a square
	// gene × gene interaction matrix.
	ErrNotInteraction = errors.New("reduce: graph is not an interaction matrix")
)

// Reduce restricts meas (samples × genes) and graph (genes × genes) to their
// shared gene set and then to the largest connected component of the graph,
// returning re-indexed copies that share identical ascending gene order.
// Inputs are never mutated.
//
// Returns ErrEmptyIntersection when no genes are shared, ErrNoEdges when the
// intersected graph has no edges, and ErrNotInteraction for a non-square
// graph argument.
func Reduce(meas, graph *genemat.Matrix) (*genemat.Matrix, *genemat.Matrix, error) {
	if meas == nil || graph == nil {
		return nil, nil, genemat.ErrNilMatrix
	}
	if !graph.Square() {
		return nil, nil, ErrNotInteraction
	}

	// Stage 1: ascending intersection of the two identifier sequences.
	shared := intersect(meas.Genes(), graph.Genes())
	if len(shared) == 0 {
		return nil, nil, ErrEmptyIntersection
	}

	// Stage 2: restrict both matrices to the intersection.
	subGraph, err := graph.Select(shared)
	if err != nil {
		return nil, nil, fmt.Errorf("reduce: restrict graph: %w", err)
	}

	// Stage 3: largest connected component of the restricted graph.
	component, err := largestComponent(subGraph)
	if err != nil {
		return nil, nil, err
	}
	sort.Strings(component)

	// Stage 4: final re-index of both matrices to the component's genes.
	outGraph, err := subGraph.Select(component)
	if err != nil {
		return nil, nil, fmt.Errorf("reduce: restrict graph to component: %w", err)
	}
	outMeas, err := meas.Select(component)
	if err != nil {
		return nil, nil, fmt.Errorf("reduce: restrict measurement to component: %w", err)
	}

	return outMeas, outGraph, nil
}

// intersect returns the sorted set intersection of two identifier sequences.
func intersect(a, b []string) []string {
	inA := make(map[string]struct{}, len(a))
	for _, g := range a {
		inA[g] = struct{}{}
	}
	var shared []string
	for _, g := range b {
		if _, ok := inA[g]; ok {
			shared = append(shared, g)
		}
	}
	sort.Strings(shared)

	return shared
}

// largestComponent finds connected components of the non-zero structure of
// graph via BFS and returns the gene identifiers of the largest one.
// Nodes without any incident edge form no component, matching the edge-list
// graph construction of the reference preprocessing. Ties on size are broken
// toward the component holding the lexicographically smallest gene; gene
// order within the intersection is already ascending, so the first maximal
// component encountered wins.
func largestComponent(graph *genemat.Matrix) ([]string, error) {
	n, _ := graph.Dims()

	// Adjacency lists over non-zero entries (symmetric, diagonal ignored).
	adj := make([][]int, n)
	hasEdge := false
	for i := 0; i < n; i++ {
		row := graph.Row(i)
		for j, w := range row {
			if j != i && w != 0 {
				adj[i] = append(adj[i], j)
				hasEdge = true
			}
		}
	}
	if !hasEdge {
		return nil, ErrNoEdges
	}

	seen := make([]bool, n)
	var best []int
	for s := 0; s < n; s++ {
		if seen[s] || len(adj[s]) == 0 {
			continue
		}
		// BFS to collect component
		queue := []int{s}
		seen[s] = true
		var comp []int
		for qi := 0; qi < len(queue); qi++ {
			u := queue[qi]
			comp = append(comp, u)
			for _, v := range adj[u] {
				if !seen[v] {
					seen[v] = true
					queue = append(queue, v)
				}
			}
		}
		if len(comp) > len(best) {
			best = comp
		}
	}

	genes := make([]string, len(best))
	for k, i := range best {
		genes[k] = graph.Gene(i)
	}

	return genes, nil
}
