// Package match implements the candidate scorer and Viterbi route solver
// that turn a sequence of noisy probe observations into the most plausible
// path through a road network graph.
package match

import "github.com/paulmach/orb"

// Observation is one noisy GPS fix in a trip, carrying the vehicle's
// instantaneous heading in degrees clockwise from true north.
type Observation struct {
	Location orb.Point
	Bearing  float64
	Speed    float64
}

// ScoreMap maps a candidate vertex id to its emission probability for one
// observation.
type ScoreMap map[int]float64

// KNN looks up up to k nearest graph vertex ids to a raw coordinate. Bound
// to a *spatial.MTree query by the caller (see driver.go); kept as a func
// type here so scorer.go and viterbi.go never import internal/spatial
// directly.
type KNN func(location orb.Point, k int) []int
