package match

import (
	"math"

	"mapmatch/internal/geo"
	"mapmatch/internal/network"
)

// DefaultK is the default number of nearest candidates considered per
// observation, per spec.md §4.4.
const DefaultK = 20

// Score computes the emission-probability map for observation i of
// observations, by querying knn for the K nearest vertex ids to the
// observation's location and scoring each surviving candidate against
// graph's heading/width/location attributes.
//
// heading_term = 1 + cos(radians(bearing - candidate_heading)), range [0, 2].
// distance_term = 1 / ln(e + real_distance(observation, candidate)).
// raw = (heading_term * distance_term)^2.
// Candidates on a zero-width (non-drivable) vertex are discarded outright.
// The result is normalized so its values sum to 1; if every raw score is
// zero (or there are no surviving candidates), the result is empty.
func Score(observations []Observation, i int, knn KNN, graph *network.Graph, k int) ScoreMap {
	p := observations[i]
	candidates := knn(p.Location, k)

	raw := make(map[int]float64, len(candidates))
	sum := 0.0

	for _, c := range candidates {
		if graph.Width[c] == 0 {
			continue
		}

		headingTerm := 1 + math.Cos((p.Bearing-graph.Heading[c])*math.Pi/180)
		distance := geo.RealDistance(p.Location, graph.Location[c])
		distanceTerm := 1 / math.Log(math.E+distance)

		r := math.Pow(headingTerm*distanceTerm, 2)
		raw[c] = r
		sum += r
	}

	if sum == 0 {
		return ScoreMap{}
	}

	scores := make(ScoreMap, len(raw))
	for c, r := range raw {
		scores[c] = r / sum
	}

	return scores
}
