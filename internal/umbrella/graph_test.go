package umbrella

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// vec builds a small embedding literal.
func vec(vals ...float32) []float32 { return vals }

func TestBuildGraphThreshold(t *testing.T) {
	// cos(a,b) ~= 0.85, both orthogonal to c.
	embeds := [][]float32{
		vec(1, 0, 0),
		vec(0.85, 0.527, 0),
		vec(0, 0, 1),
	}

	g := BuildGraph(embeds, 0.7)

	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 1, g.EdgeCount())
	assert.Equal(t, []int{1}, g.Neighbors(0))
	assert.Equal(t, []int{0}, g.Neighbors(1))
	assert.Empty(t, g.Neighbors(2))
	assert.InDelta(t, 0.85, g.Similarity(0, 1), 0.01)
	assert.InDelta(t, 1.0, g.Similarity(2, 2), 1e-9)
}

func TestBuildGraphHigherThresholdDropsEdge(t *testing.T) {
	// Same pair as above at tau=0.9: similarity 0.85 no longer qualifies.
	embeds := [][]float32{
		vec(1, 0, 0),
		vec(0.85, 0.527, 0),
	}

	g := BuildGraph(embeds, 0.9)

	assert.Equal(t, 0, g.EdgeCount())
	assert.Empty(t, g.Neighbors(0))
}

func TestBuildGraphNoSelfLoops(t *testing.T) {
	embeds := [][]float32{vec(1, 0), vec(1, 0), vec(1, 0)}

	g := BuildGraph(embeds, 0.7)

	assert.Equal(t, 3, g.EdgeCount(), "three pairs, no self loops")

	for i := 0; i < 3; i++ {
		assert.NotContains(t, g.Neighbors(i), i)
	}
}

func TestBuildGraphEmpty(t *testing.T) {
	g := BuildGraph(nil, 0.7)

	assert.Equal(t, 0, g.NodeCount())
	assert.Equal(t, 0, g.EdgeCount())
}
