package network

import (
	"github.com/paulmach/orb"

	domainerrors "mapmatch/internal/domain/errors"
)

// Edge is one directed connection out of a vertex. Weight is the real_distance
// (feet) between the two vertex locations for shape-point edges, or zero for
// junction-turn edges; see builder.go.
type Edge struct {
	To     int
	Weight float64
}

// Graph is a directed weighted graph over road-network vertices. Per-vertex
// attributes are stored as parallel slices indexed by vertex id, following
// the same layout as the junction/section "numEntrances"/"numExits" parallel
// arrays in the wire documents (§3) — a vertex id is a plain slice index,
// never boxed in a struct, so bulk reindexing (see Reindex) only needs to
// permute slices.
type Graph struct {
	Location    []orb.Point
	Heading     []float64
	SpeedLimit  []float64
	Width       []float64
	OwnerID     []string
	IsJunction  []bool
	adjacency   [][]Edge
	sectionsIdx SectionIndex
}

// SectionIndex maps a section id to the ordered list of vertex ids that make
// up its shape, in the order the shape points were supplied (§3).
type SectionIndex map[string][]int

// NewGraph returns an empty graph ready for AddVertex/AddEdge calls.
func NewGraph() *Graph {
	return &Graph{sectionsIdx: make(SectionIndex)}
}

// AddVertex appends a new vertex and returns its id.
func (g *Graph) AddVertex(loc orb.Point, heading, speedLimit, width float64, ownerID string, isJunction bool) int {
	id := len(g.Location)

	g.Location = append(g.Location, loc)
	g.Heading = append(g.Heading, heading)
	g.SpeedLimit = append(g.SpeedLimit, speedLimit)
	g.Width = append(g.Width, width)
	g.OwnerID = append(g.OwnerID, ownerID)
	g.IsJunction = append(g.IsJunction, isJunction)
	g.adjacency = append(g.adjacency, nil)

	return id
}

// AddEdge adds a directed edge u->v with the given weight. Parallel edges are
// allowed (a junction may have more than one turn onto the same section).
func (g *Graph) AddEdge(u, v int, weight float64) {
	g.adjacency[u] = append(g.adjacency[u], Edge{To: v, Weight: weight})
}

// Neighbors returns the outgoing edges of vertex u.
func (g *Graph) Neighbors(u int) []Edge {
	return g.adjacency[u]
}

// EdgeWeight returns the weight of the edge u->v and whether it exists. If
// more than one parallel edge exists between u and v, the first is returned.
func (g *Graph) EdgeWeight(u, v int) (float64, bool) {
	for _, e := range g.adjacency[u] {
		if e.To == v {
			return e.Weight, true
		}
	}

	return 0, false
}

// RemoveEdge removes the first edge u->v found. It is a no-op if no such
// edge exists.
func (g *Graph) RemoveEdge(u, v int) {
	edges := g.adjacency[u]
	for i, e := range edges {
		if e.To == v {
			g.adjacency[u] = append(edges[:i], edges[i+1:]...)
			return
		}
	}
}

// SetSection replaces the vertex sequence stored for section.
func (g *Graph) SetSection(section string, vertices []int) {
	g.sectionsIdx[section] = vertices
}

// NumVertices returns the number of vertices currently in the graph.
func (g *Graph) NumVertices() int {
	return len(g.Location)
}

// AppendSectionVertex records that vertex id belongs to section, at the next
// position in that section's shape order.
func (g *Graph) AppendSectionVertex(section string, id int) {
	g.sectionsIdx[section] = append(g.sectionsIdx[section], id)
}

// Section returns the ordered vertex ids making up section, and whether the
// section is known to the index.
func (g *Graph) Section(section string) ([]int, bool) {
	ids, ok := g.sectionsIdx[section]
	return ids, ok
}

// SectionIndexSnapshot exposes the underlying section-to-vertex-ids map, not
// a copy. Reindex replaces that map wholesale.
func (g *Graph) SectionIndexSnapshot() SectionIndex {
	return g.sectionsIdx
}

// RequireSection returns the vertex ids for section, or an UnknownSection /
// EmptySection MatchError per §7.
func (g *Graph) RequireSection(section string) ([]int, error) {
	ids, ok := g.sectionsIdx[section]
	if !ok {
		return nil, domainerrors.New(domainerrors.KindUnknownSection, "section not found: "+section)
	}
	if len(ids) == 0 {
		return nil, domainerrors.New(domainerrors.KindEmptySection, "section has no shape points: "+section)
	}

	return ids, nil
}

// Reindex rebuilds the graph after vertex ids have been permuted or removed.
// mapping[oldID] gives the new id, or -1 if the vertex was deleted. Edges and
// the section index are rewritten in place; deleted vertices' edges are
// dropped entirely.
func (g *Graph) Reindex(mapping []int, newLocation []orb.Point, newHeading, newSpeedLimit, newWidth []float64, newOwnerID []string, newIsJunction []bool) {
	newAdjacency := make([][]Edge, len(newLocation))

	for oldID, edges := range g.adjacency {
		newFrom := mapping[oldID]
		if newFrom < 0 {
			continue
		}

		for _, e := range edges {
			newTo := mapping[e.To]
			if newTo < 0 {
				continue
			}

			newAdjacency[newFrom] = append(newAdjacency[newFrom], Edge{To: newTo, Weight: e.Weight})
		}
	}

	newSections := make(SectionIndex, len(g.sectionsIdx))
	for section, ids := range g.sectionsIdx {
		remapped := make([]int, 0, len(ids))
		for _, id := range ids {
			if newID := mapping[id]; newID >= 0 {
				remapped = append(remapped, newID)
			}
		}
		newSections[section] = remapped
	}

	g.Location = newLocation
	g.Heading = newHeading
	g.SpeedLimit = newSpeedLimit
	g.Width = newWidth
	g.OwnerID = newOwnerID
	g.IsJunction = newIsJunction
	g.adjacency = newAdjacency
	g.sectionsIdx = newSections
}
