// Package synth generates artificial probe trips by walking a built network
// and perturbing the true path with random positional and heading noise,
// grounded on original_source/util/artificial_paths.py's generate_path. It
// builds a realistic trip without a real GPS log; no package outside its own
// tests imports it.
package synth

import (
	"math/rand"

	"mapmatch/internal/geo"
	"mapmatch/internal/match"
	"mapmatch/internal/network"
)

// Options controls artificial path generation, mirroring generate_path's
// keyword arguments.
type Options struct {
	MinPathLengthFeet   float64
	MaxPathLengthFeet   float64
	MaxOffsetFeet       float64
	MaxOffsetHeadingDeg float64
	OmitFactor          int
}

// DefaultOptions mirrors generate_path's Python defaults, converted from the
// original's implicit foot units.
func DefaultOptions() Options {
	return Options{
		MinPathLengthFeet:   30000,
		MaxPathLengthFeet:   75000,
		MaxOffsetFeet:       200,
		MaxOffsetHeadingDeg: 25,
		OmitFactor:          1,
	}
}

// Path pairs the true (noise-free) vertex walk with the noisy probe
// observations derived from it.
type Path struct {
	TrueVertices []int
	Noisy        []match.Observation
	True         []match.Observation
}

// Generate walks graph from a random origin, extending the walk with further
// random hops until it reaches opts.MinPathLengthFeet, then trims it to
// opts.MaxPathLengthFeet if it overshot. Every sampled vertex is then moved
// up to opts.MaxOffsetFeet in a random direction, and its heading jittered by
// up to ±opts.MaxOffsetHeadingDeg, to build the noisy observation sequence;
// opts.OmitFactor keeps only every nth vertex, simulating sparse sampling.
func Generate(graph *network.Graph, rng *rand.Rand, opts Options) Path {
	n := graph.NumVertices()

	origin := rng.Intn(n)
	dest := randomOtherVertex(rng, n, origin)
	path := graph.ShortestVertexPath(origin, dest)

	length := pathLength(graph, path)
	for length < opts.MinPathLengthFeet && len(path) > 0 {
		last := path[len(path)-1]
		next := randomOtherVertex(rng, n, last)
		continuation := graph.ShortestVertexPath(last, next)
		if len(continuation) <= 1 {
			break
		}
		path = append(path, continuation[1:]...)
		length += pathLength(graph, continuation)
	}

	if length > opts.MaxPathLengthFeet && len(path) > 1 {
		approxNodeDist := length / float64(len(path))
		trim := int(((length - opts.MaxPathLengthFeet) + approxNodeDist - 1) / approxNodeDist)
		if trim >= len(path) {
			trim = len(path) - 1
		}
		path = path[:len(path)-trim]
	}

	omit := opts.OmitFactor
	if omit < 1 || omit > len(path) {
		omit = 1
	}

	sampled := make([]int, 0, len(path)/omit+1)
	for i := 0; i < len(path); i += omit {
		sampled = append(sampled, path[i])
	}

	trueObs := make([]match.Observation, len(sampled))
	noisyObs := make([]match.Observation, len(sampled))

	for i, v := range sampled {
		trueObs[i] = match.Observation{
			Location: graph.Location[v],
			Bearing:  graph.Heading[v],
			Speed:    graph.SpeedLimit[v],
		}

		offsetDistance := rng.Float64() * opts.MaxOffsetFeet
		offsetBearing := rng.Float64() * 359
		noisyLocation := geo.OffsetPoint(graph.Location[v], offsetDistance, offsetBearing)

		headingNoise := (rng.Float64()*2 - 1) * opts.MaxOffsetHeadingDeg
		noisyHeading := normalizeHeading(graph.Heading[v] + headingNoise)

		noisyObs[i] = match.Observation{
			Location: noisyLocation,
			Bearing:  noisyHeading,
			Speed:    graph.SpeedLimit[v],
		}
	}

	return Path{TrueVertices: sampled, Noisy: noisyObs, True: trueObs}
}

func randomOtherVertex(rng *rand.Rand, n, exclude int) int {
	if n <= 1 {
		return exclude
	}
	for {
		v := rng.Intn(n)
		if v != exclude {
			return v
		}
	}
}

func pathLength(graph *network.Graph, path []int) float64 {
	total := 0.0
	for i := 0; i+1 < len(path); i++ {
		total += geo.RealDistance(graph.Location[path[i]], graph.Location[path[i+1]])
	}

	return total
}

func normalizeHeading(h float64) float64 {
	for h < 0 {
		h += 360
	}
	for h >= 360 {
		h -= 360
	}

	return h
}
