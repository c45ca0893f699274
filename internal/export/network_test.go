package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapmatch/internal/network"
)

func twoVertexGraph() *network.Graph {
	g := network.NewGraph()
	a := g.AddVertex(orb.Point{0, 0}, 90, 30, 12, "sec", false)
	b := g.AddVertex(orb.Point{0.001, 0}, 90, 30, 12, "sec", false)
	g.AddEdge(a, b, 10)

	return g
}

func TestWriteNodesWritesOneRowPerVertex(t *testing.T) {
	g := twoVertexGraph()

	var buf bytes.Buffer
	require.NoError(t, WriteNodes(&buf, g))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,lon,lat,speed,heading", lines[0])
}

func TestWriteEdgesWritesOneRowPerEdge(t *testing.T) {
	g := twoVertexGraph()

	var buf bytes.Buffer
	require.NoError(t, WriteEdges(&buf, g))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "lon1,lat1,lon2,lat2,weight,line_geom", lines[0])
	assert.Contains(t, lines[1], "LineString")
}
