package network

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func chainGraph() (*Graph, []int) {
	g := NewGraph()
	ids := make([]int, 4)
	for i := range ids {
		ids[i] = g.AddVertex(orb.Point{float64(i), 0}, 0, 30, 1, "sec", false)
	}
	g.AddEdge(ids[0], ids[1], 10)
	g.AddEdge(ids[1], ids[2], 15)
	g.AddEdge(ids[2], ids[3], 5)
	// a longer alternate path to make sure Dijkstra picks the cheap one
	g.AddEdge(ids[0], ids[3], 1000)

	return g, ids
}

func TestShortestDistance(t *testing.T) {
	g, ids := chainGraph()

	assert.InDelta(t, 30, g.ShortestDistance(ids[0], ids[3]), 1e-9)
	assert.InDelta(t, shortDistance, g.ShortestDistance(ids[1], ids[1]), 1e-12)
}

func TestShortestDistanceUnreachable(t *testing.T) {
	g := NewGraph()
	a := g.AddVertex(orb.Point{0, 0}, 0, 30, 1, "sec", false)
	b := g.AddVertex(orb.Point{1, 1}, 0, 30, 1, "sec", false)

	assert.True(t, math.IsInf(g.ShortestDistance(a, b), 1))
}

func TestShortestVertexPath(t *testing.T) {
	g, ids := chainGraph()

	path := g.ShortestVertexPath(ids[0], ids[3])
	assert.Equal(t, []int{ids[0], ids[1], ids[2], ids[3]}, path)
}
