package network

import (
	"mapmatch/internal/geo"

	"github.com/paulmach/orb"
)

// Builder constructs a Graph from junction and section documents, mirroring
// the original TrafficNetwork constructor: sections are built lazily as
// their owning junctions are visited, entrance/exit junction vertices are
// appended/prepended to each section, and turns connect the last vertex of
// one section to the first vertex of another with a zero-weight edge.
type Builder struct {
	graph    *Graph
	sections map[string][]int
}

// NewBuilder returns a Builder ready to consume documents via Build.
func NewBuilder() *Builder {
	return &Builder{graph: NewGraph(), sections: make(map[string][]int)}
}

// Build constructs the full graph from the junction and section documents,
// in the order the original network builder does: for every junction, build
// (or look up) each exit and entrance section, attach the junction vertex,
// then wire all of the junction's turns.
func (b *Builder) Build(junctions *JunctionsDocument, sections *SectionsDocument) (*Graph, error) {
	for _, junction := range junctions.Junctions {
		for _, exitID := range junction.Exits {
			section, err := b.sectionFor(exitID, sections)
			if err != nil {
				return nil, err
			}
			b.addExit(section, junction)
		}

		for _, entranceID := range junction.Entrances {
			section, err := b.sectionFor(entranceID, sections)
			if err != nil {
				return nil, err
			}
			b.addEntrance(section, junction)
		}

		for _, turn := range junction.Turns {
			if err := b.connect(turn.OriginSectionID, turn.DestinationSectionID); err != nil {
				return nil, err
			}
		}
	}

	for id, verts := range b.sections {
		for _, v := range verts {
			b.graph.AppendSectionVertex(id, v)
		}
	}

	return b.graph, nil
}

// sectionFor returns the vertex sequence for sectionID, building it from the
// document the first time it's referenced and caching the result on
// subsequent lookups from other junctions (the same section has an entrance
// junction and an exit junction, visited independently).
func (b *Builder) sectionFor(sectionID string, sections *SectionsDocument) ([]int, error) {
	if existing, ok := b.sections[sectionID]; ok {
		return existing, nil
	}

	doc, ok := sections.Sections[sectionID]
	if !ok {
		return nil, newUnknownSection(sectionID)
	}
	if len(doc.Shape) == 0 {
		return nil, newEmptySection(sectionID)
	}

	verts := b.buildSection(doc)
	b.sections[sectionID] = verts

	return verts, nil
}

// buildSection materializes one section's shape points as graph vertices,
// wiring consecutive points with real-distance-weighted edges. Each point
// after the first takes its document heading, or the bearing from the
// previous point when the document gives none. The first point takes its
// document heading or 0; addExit overwrites it with the bearing from the
// exit junction when one is attached.
func (b *Builder) buildSection(doc SectionDocument) []int {
	width := RoadTypeWidthWeight[doc.Type] * float64(doc.NumLanes)

	verts := make([]int, 0, len(doc.Shape))

	for i, sp := range doc.Shape {
		loc := orb.Point{sp.Lon, sp.Lat}

		heading := 0.0
		if i > 0 {
			prevLoc := orb.Point{doc.Shape[i-1].Lon, doc.Shape[i-1].Lat}
			heading = HeadingOrComputed(sp.Heading, geo.Heading(prevLoc, loc))
		} else if sp.Heading != nil {
			heading = *sp.Heading
		}

		v := b.graph.AddVertex(loc, heading, doc.SpeedMPH, width, doc.SectionID, false)
		verts = append(verts, v)

		if i > 0 {
			prev := verts[i-1]
			weight := geo.RealDistance(b.graph.Location[prev], loc)
			b.graph.AddEdge(prev, v, weight)
		}
	}

	return verts
}

// addEntrance appends a junction vertex to the end of section, representing
// departure from the section into the junction. The junction vertex inherits
// speed/width from the section's last vertex and takes the bearing from that
// vertex to the junction as its heading; the last vertex keeps its own.
func (b *Builder) addEntrance(section []int, junction JunctionDocument) {
	prev := section[len(section)-1]
	junctionLoc := orb.Point{junction.Geolocation.Lon, junction.Geolocation.Lat}

	heading := geo.Heading(b.graph.Location[prev], junctionLoc)

	jv := b.graph.AddVertex(junctionLoc, heading, b.graph.SpeedLimit[prev], b.graph.Width[prev], junction.JunctionID, true)

	weight := geo.RealDistance(b.graph.Location[prev], junctionLoc)
	b.graph.AddEdge(prev, jv, weight)

	section = append(section, jv)
	b.sections[b.graph.OwnerID[prev]] = section
}

// addExit prepends a junction vertex to the beginning of section,
// representing departure from the junction into the section.
func (b *Builder) addExit(section []int, junction JunctionDocument) {
	next := section[0]
	junctionLoc := orb.Point{junction.Geolocation.Lon, junction.Geolocation.Lat}

	b.graph.Heading[next] = geo.Heading(junctionLoc, b.graph.Location[next])

	jv := b.graph.AddVertex(junctionLoc, b.graph.Heading[next], b.graph.SpeedLimit[next], b.graph.Width[next], junction.JunctionID, true)

	weight := geo.RealDistance(junctionLoc, b.graph.Location[next])
	b.graph.AddEdge(jv, next, weight)

	section = append([]int{jv}, section...)
	b.sections[b.graph.OwnerID[next]] = section
}

// connect wires a zero-weight edge from the last vertex of origin to the
// first vertex of destination, representing a turn between two sections that
// meet at the same junction.
func (b *Builder) connect(originID, destinationID string) error {
	origin, ok := b.sections[originID]
	if !ok {
		return newUnknownSection(originID)
	}

	destination, ok := b.sections[destinationID]
	if !ok {
		return newUnknownSection(destinationID)
	}

	b.graph.AddEdge(origin[len(origin)-1], destination[0], 0)

	return nil
}
