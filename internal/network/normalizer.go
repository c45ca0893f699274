package network

import (
	"math"

	"mapmatch/internal/geo"

	"github.com/paulmach/orb"
)

// Normalizer equalizes vertex density across a built Graph: long edges are
// split into evenly spaced segments, and short collinear runs are merged
// back into single edges, following NetworkBuilder's own split_edges /
// merge_edges / equalize_node_density sequence.
type Normalizer struct {
	graph *Graph
}

// NewNormalizer wraps graph for density equalization.
func NewNormalizer(graph *Graph) *Normalizer {
	return &Normalizer{graph: graph}
}

// SplitEdges inserts intermediate vertices along every edge whose weight
// exceeds dmax, spacing the new points evenly along the original edge's
// bearing. New vertices inherit the target vertex's attributes, unless the
// target is a junction vertex, in which case they inherit the source's.
func (n *Normalizer) SplitEdges(dmax float64) {
	g := n.graph

	for section, vertices := range cloneSectionIndex(g.sectionsIdx) {
		current := make([]int, 0, len(vertices))

		for _, source := range vertices {
			current = append(current, source)

			for _, edge := range append([]Edge(nil), g.Neighbors(source)...) {
				if edge.Weight <= dmax {
					continue
				}

				target := edge.To
				g.RemoveEdge(source, target)

				segments := int(math.Ceil(edge.Weight / dmax))
				segmentLength := edge.Weight / float64(segments)

				bearing := g.Heading[target]
				currentPoint := g.Location[source]
				previous := source

				propertySource := target
				if g.IsJunction[target] {
					propertySource = source
				}

				// k segments need only k-1 new interior vertices: source and
				// target already exist, so the loop stops one short and the
				// final edge below closes the span at target directly.
				for i := 0; i < segments-1; i++ {
					currentPoint = geo.OffsetPoint(currentPoint, segmentLength, bearing)

					v := g.AddVertex(currentPoint, bearing, g.SpeedLimit[propertySource], g.Width[propertySource], g.OwnerID[propertySource], false)
					current = append(current, v)

					g.AddEdge(previous, v, segmentLength)
					previous = v
				}

				g.AddEdge(previous, target, segmentLength)
			}
		}

		g.SetSection(section, current)
	}
}

// mergedEdge is a candidate compound edge spanning from source to target,
// carrying the vertices it would remove if applied.
type mergedEdge struct {
	source, target int
	weight         float64
	removed        []int
}

// MergeEdges collapses runs of short, nearly-collinear edges within section
// into single compound edges, using the greedy partition by default. The DP
// partition (greedy=false) is reached only through the build command's
// --greedy=false flag; the match and batch commands always merge greedily.
func (n *Normalizer) MergeEdges(section []int, dmax, amax float64, greedy bool) ([]mergedEdge, []int) {
	if len(section) < 2 {
		return nil, nil
	}

	edges := make([]mergedEdge, 0, len(section)-1)
	for i := 0; i < len(section)-1; i++ {
		u, v := section[i], section[i+1]
		w, _ := n.graph.EdgeWeight(u, v)
		edges = append(edges, mergedEdge{source: u, target: v, weight: w})
	}

	if greedy {
		return n.greedyPartition(edges, dmax, amax)
	}

	toAdd, toRemove := n.dpPartition(edges, dmax, amax)

	return toAdd, toRemove
}

func (n *Normalizer) permissible(e1, e2 mergedEdge, dmax, amax float64) bool {
	if e1.target != e2.source {
		return false
	}

	totalLength := e1.weight + e2.weight
	if totalLength >= dmax {
		return false
	}

	return math.Abs(spanAngleDelta(n.graph, e1, e2)) < amax
}

// spanAngleDelta sums the signed angle_delta across every adjacent heading
// pair in the compound span e1⊕e2, skipping the first pair (the turn at
// e1.source), matching original_source/constructNetwork.py's
// total_edge_angle: signed deltas can cancel across an S-curve, so the
// caller takes the absolute value of the total, not a sum of absolutes.
func spanAngleDelta(g *Graph, e1, e2 mergedEdge) float64 {
	span := make([]int, 0, len(e1.removed)+len(e2.removed)+3)
	span = append(span, e1.source)
	span = append(span, e1.removed...)
	span = append(span, e1.target)
	span = append(span, e2.removed...)
	span = append(span, e2.target)

	var total float64
	for i := 1; i+1 < len(span); i++ {
		total += geo.AngleDelta(g.Heading[span[i]], g.Heading[span[i+1]])
	}

	return total
}

func mergeTwo(e1, e2 mergedEdge) mergedEdge {
	return mergedEdge{
		source:  e1.source,
		target:  e2.target,
		weight:  e1.weight + e2.weight,
		removed: append(append([]int(nil), e1.removed...), append([]int{e1.target}, e2.removed...)...),
	}
}

// greedyPartition walks edges left to right, merging each edge into the
// running compound edge while permissible, and starting a new compound edge
// otherwise. Grounded on the original's greedy_partition.
func (n *Normalizer) greedyPartition(edges []mergedEdge, dmax, amax float64) ([]mergedEdge, []int) {
	current := edges[0]
	var toAdd []mergedEdge
	var toRemove []int

	for _, edge := range edges[1:] {
		if n.permissible(current, edge, dmax, amax) {
			toRemove = append(toRemove, edge.source)
			current = mergeTwo(current, edge)
		} else {
			toAdd = append(toAdd, current)
			current = edge
		}
	}

	toAdd = append(toAdd, current)

	return toAdd, toRemove
}

// dpPartition finds the partition of edges into the fewest compound edges,
// by exhaustively choosing at each step whether to merge the first two edges
// or keep them separate. Exponential in the worst case; no test calls it.
func (n *Normalizer) dpPartition(edges []mergedEdge, dmax, amax float64) ([]mergedEdge, []int) {
	if len(edges) == 0 {
		return nil, nil
	}
	if len(edges) == 1 {
		return []mergedEdge{edges[0]}, nil
	}

	skipAdd, skipRemove := n.dpPartition(edges[1:], dmax, amax)
	skipAdd = append([]mergedEdge{edges[0]}, skipAdd...)

	var mergeAdd []mergedEdge
	var mergeRemove []int
	if n.permissible(edges[0], edges[1], dmax, amax) {
		merged := mergeTwo(edges[0], edges[1])
		rest := append([]mergedEdge{merged}, edges[2:]...)
		mergeAdd, mergeRemove = n.dpPartition(rest, dmax, amax)
		mergeRemove = append([]int{edges[1].source}, mergeRemove...)
	} else {
		mergeAdd, mergeRemove = skipAdd, skipRemove
	}

	if len(mergeAdd) < len(skipAdd) {
		return mergeAdd, mergeRemove
	}

	return skipAdd, skipRemove
}

// EqualizeNodeDensity runs SplitEdges followed by a MergeEdges pass over
// every section, then reindexes the graph to drop the vertices that were
// merged away. It returns the number of vertices remaining.
func (n *Normalizer) EqualizeNodeDensity(dmax, amax float64, greedy bool) int {
	g := n.graph

	n.SplitEdges(dmax)

	verticesToRemove := make(map[int]bool)
	var edgesToAdd []mergedEdge

	for section, vertices := range cloneSectionIndex(g.sectionsIdx) {
		toAdd, toRemove := n.MergeEdges(vertices, dmax, amax, greedy)
		edgesToAdd = append(edgesToAdd, toAdd...)

		removedSet := make(map[int]bool, len(toRemove))
		for _, v := range toRemove {
			removedSet[v] = true
			verticesToRemove[v] = true
		}

		remaining := make([]int, 0, len(vertices))
		for _, v := range vertices {
			if !removedSet[v] {
				remaining = append(remaining, v)
			}
		}
		g.SetSection(section, remaining)
	}

	for _, e := range edgesToAdd {
		g.AddEdge(e.source, e.target, e.weight)
	}

	return n.reindex(verticesToRemove)
}

// reindex drops the vertices in toRemove and compacts all vertex ids,
// mirroring graph_tool's remove_vertex-triggered reindex in the original.
func (n *Normalizer) reindex(toRemove map[int]bool) int {
	g := n.graph

	mapping := make([]int, g.NumVertices())
	newLocation := make([]orb.Point, 0, g.NumVertices())
	newHeading := make([]float64, 0, g.NumVertices())
	newSpeedLimit := make([]float64, 0, g.NumVertices())
	newWidth := make([]float64, 0, g.NumVertices())
	newOwnerID := make([]string, 0, g.NumVertices())
	newIsJunction := make([]bool, 0, g.NumVertices())

	next := 0
	for old := 0; old < g.NumVertices(); old++ {
		if toRemove[old] {
			mapping[old] = -1
			continue
		}

		mapping[old] = next
		next++

		newLocation = append(newLocation, g.Location[old])
		newHeading = append(newHeading, g.Heading[old])
		newSpeedLimit = append(newSpeedLimit, g.SpeedLimit[old])
		newWidth = append(newWidth, g.Width[old])
		newOwnerID = append(newOwnerID, g.OwnerID[old])
		newIsJunction = append(newIsJunction, g.IsJunction[old])
	}

	g.Reindex(mapping, newLocation, newHeading, newSpeedLimit, newWidth, newOwnerID, newIsJunction)

	return next
}

func cloneSectionIndex(idx SectionIndex) SectionIndex {
	out := make(SectionIndex, len(idx))
	for k, v := range idx {
		out[k] = append([]int(nil), v...)
	}

	return out
}
