package umbrella

import (
	"github.com/creatorlens/topic-engine/internal/core/vecmath"
)

// Graph is an undirected similarity graph over canonical topics. An edge
// exists between nodes i and j iff their cosine similarity meets the
// threshold; there are no self-loops. The full similarity matrix is retained
// because density clustering and coherence scoring need sub-threshold values
// too.
type Graph struct {
	n         int
	adj       [][]int
	weights   [][]float64
	sim       [][]float64
	edgeCount int
	threshold float64
}

// BuildGraph computes the pairwise similarity matrix over the embeddings and
// thresholds it at tau into an adjacency structure.
func BuildGraph(embeds [][]float32, tau float64) *Graph {
	n := len(embeds)

	g := &Graph{
		n:         n,
		adj:       make([][]int, n),
		weights:   make([][]float64, n),
		sim:       make([][]float64, n),
		threshold: tau,
	}

	for i := range g.sim {
		g.sim[i] = make([]float64, n)
		g.sim[i][i] = 1
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			s := vecmath.Cosine(embeds[i], embeds[j])
			g.sim[i][j] = s
			g.sim[j][i] = s

			if s >= tau {
				g.adj[i] = append(g.adj[i], j)
				g.adj[j] = append(g.adj[j], i)
				g.weights[i] = append(g.weights[i], s)
				g.weights[j] = append(g.weights[j], s)
				g.edgeCount++
			}
		}
	}

	return g
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return g.n
}

// EdgeCount returns the number of threshold-passing edges, for diagnostics.
func (g *Graph) EdgeCount() int {
	return g.edgeCount
}

// Neighbors returns the adjacency list of node i.
func (g *Graph) Neighbors(i int) []int {
	return g.adj[i]
}

// Similarity returns the raw cosine similarity between nodes i and j.
func (g *Graph) Similarity(i, j int) float64 {
	return g.sim[i][j]
}

// totalEdgeWeight sums the weight of every edge once.
func (g *Graph) totalEdgeWeight() float64 {
	total := 0.0

	for i := range g.adj {
		for _, w := range g.weights[i] {
			total += w
		}
	}

	return total / 2
}

// nodeStrength is the summed weight of edges incident to node i.
func (g *Graph) nodeStrength(i int) float64 {
	strength := 0.0

	for _, w := range g.weights[i] {
		strength += w
	}

	return strength
}
