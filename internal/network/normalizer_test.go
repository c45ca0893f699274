package network

import (
	"testing"

	"mapmatch/internal/geo"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func straightSection(t *testing.T, g *Graph, points []orb.Point) []int {
	t.Helper()

	ids := make([]int, len(points))
	for i, p := range points {
		heading := 0.0
		if i > 0 {
			heading = geo.Heading(points[i-1], p)
		}
		ids[i] = g.AddVertex(p, heading, 30, 1, "sec", false)
		if i > 0 {
			g.AddEdge(ids[i-1], ids[i], geo.RealDistance(points[i-1], p))
		}
	}
	g.SetSection("sec", ids)

	return ids
}

func TestSplitEdgesInsertsIntermediateVertices(t *testing.T) {
	g := NewGraph()
	points := []orb.Point{{-118.30, 34.00}, {-118.20, 34.00}}
	ids := straightSection(t, g, points)

	totalBefore, _ := g.EdgeWeight(ids[0], ids[1])
	require.Greater(t, totalBefore, 1000.0)

	NewNormalizer(g).SplitEdges(1000)

	section, ok := g.Section("sec")
	require.True(t, ok)
	assert.Greater(t, len(section), 2, "splitting a long edge should add intermediate vertices")

	// every edge along the rebuilt section should now be <= 1000 ft (within
	// floating point rounding of the ceil-based segment count)
	for i := 0; i < len(section)-1; i++ {
		w, ok := g.EdgeWeight(section[i], section[i+1])
		require.True(t, ok)
		assert.LessOrEqual(t, w, 1000.0+1e-6)
	}
}

func TestMergeEdgesGreedyCollapsesShortCollinearRun(t *testing.T) {
	g := NewGraph()
	points := []orb.Point{
		{-118.3000, 34.00},
		{-118.2999, 34.00},
		{-118.2998, 34.00},
		{-118.2997, 34.00},
	}
	ids := straightSection(t, g, points)

	n := NewNormalizer(g)
	toAdd, toRemove := n.MergeEdges(ids, 100000, 90, true)

	require.Len(t, toAdd, 1, "collinear short edges within budget should merge into one")
	assert.Equal(t, ids[0], toAdd[0].source)
	assert.Equal(t, ids[len(ids)-1], toAdd[0].target)
	assert.ElementsMatch(t, ids[1:len(ids)-1], toRemove)
}

func TestMergeEdgesRespectsDistanceBudget(t *testing.T) {
	g := NewGraph()
	points := []orb.Point{{-118.30, 34.00}, {-118.20, 34.00}, {-118.10, 34.00}}
	ids := straightSection(t, g, points)

	n := NewNormalizer(g)
	toAdd, toRemove := n.MergeEdges(ids, 1000, 90, true)

	assert.Len(t, toAdd, 2, "edges exceeding the distance budget must not merge")
	assert.Empty(t, toRemove)
}

func TestEqualizeNodeDensityReindexes(t *testing.T) {
	g := NewGraph()
	points := []orb.Point{
		{-118.3000, 34.00},
		{-118.2999, 34.00},
		{-118.2998, 34.00},
	}
	straightSection(t, g, points)

	n := NewNormalizer(g)
	remaining := n.EqualizeNodeDensity(100000, 90, true)

	assert.Equal(t, 2, remaining)

	section, ok := g.Section("sec")
	require.True(t, ok)
	assert.Len(t, section, 2)
}
