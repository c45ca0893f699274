package network

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphAddVertexAndEdge(t *testing.T) {
	g := NewGraph()

	a := g.AddVertex(orb.Point{0, 0}, 0, 30, 1, "sec-1", false)
	b := g.AddVertex(orb.Point{0, 1}, 0, 30, 1, "sec-1", false)
	g.AddEdge(a, b, 100)

	assert.Equal(t, 2, g.NumVertices())
	require.Len(t, g.Neighbors(a), 1)
	assert.Equal(t, b, g.Neighbors(a)[0].To)
	assert.InDelta(t, 100, g.Neighbors(a)[0].Weight, 1e-9)
}

func TestGraphRequireSectionErrors(t *testing.T) {
	g := NewGraph()

	_, err := g.RequireSection("missing")
	assert.ErrorContains(t, err, "UnknownSection")

	g.SetSection("empty", nil)
	_, err = g.RequireSection("empty")
	assert.ErrorContains(t, err, "EmptySection")
}

func TestGraphReindexDropsRemovedVertices(t *testing.T) {
	g := NewGraph()
	a := g.AddVertex(orb.Point{0, 0}, 0, 30, 1, "sec-1", false)
	b := g.AddVertex(orb.Point{0, 1}, 0, 30, 1, "sec-1", false)
	c := g.AddVertex(orb.Point{0, 2}, 0, 30, 1, "sec-1", false)
	g.AddEdge(a, b, 10)
	g.AddEdge(b, c, 10)
	g.SetSection("sec-1", []int{a, b, c})

	mapping := []int{0, -1, 1}
	g.Reindex(mapping,
		[]orb.Point{g.Location[a], g.Location[c]},
		[]float64{g.Heading[a], g.Heading[c]},
		[]float64{g.SpeedLimit[a], g.SpeedLimit[c]},
		[]float64{g.Width[a], g.Width[c]},
		[]string{g.OwnerID[a], g.OwnerID[c]},
		[]bool{g.IsJunction[a], g.IsJunction[c]},
	)

	assert.Equal(t, 2, g.NumVertices())
	assert.Empty(t, g.Neighbors(0))

	ids, ok := g.Section("sec-1")
	require.True(t, ok)
	assert.Equal(t, []int{0, 1}, ids)
}
