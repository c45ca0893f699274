package match

import (
	"container/heap"
	"math"
	"sort"

	domainerrors "mapmatch/internal/domain/errors"
	"mapmatch/internal/network"
)

// transitionWeight is the HMM transition weight from vertex a to vertex b,
// per spec.md §4.5: 1 / (1 + shortest_distance(a, b))^1.5.
func transitionWeight(graph *network.Graph, a, b int) float64 {
	d := graph.ShortestDistance(a, b)
	return 1 / math.Pow(1+d, 1.5)
}

type subpath struct {
	path []int
	pr   float64
}

// Solve runs the classical Viterbi algorithm over scores (one ScoreMap per
// observation) and returns the most probable vertex path, per spec.md §4.5.
// Candidate ids are iterated in ascending order at every step so that ties
// resolve deterministically to the lowest id, matching §5's ordering
// contract.
func Solve(graph *network.Graph, scores []ScoreMap) ([]int, error) {
	if len(scores) == 0 {
		return nil, domainerrors.New(domainerrors.KindNoCandidates, "no observations to match")
	}
	if len(scores[0]) == 0 {
		return nil, domainerrors.New(domainerrors.KindNoCandidates, "no candidates for first observation")
	}

	active := make(map[int]*subpath, len(scores[0]))
	for _, c := range sortedKeys(scores[0]) {
		active[c] = &subpath{path: []int{c}, pr: scores[0][c]}
	}

	for i := 1; i < len(scores); i++ {
		if len(scores[i]) == 0 {
			return nil, domainerrors.New(domainerrors.KindNoCandidates, "no candidates for observation")
		}

		next := make(map[int]*subpath, len(scores[i]))

		for _, b := range sortedKeys(scores[i]) {
			emission := scores[i][b]

			var best *subpath
			bestScore := -1.0

			for _, a := range sortedKeys(scoreMapOf(active)) {
				sp := active[a]
				if len(sp.path) == 0 {
					continue
				}

				candidateScore := sp.pr * emission * transitionWeight(graph, sp.path[len(sp.path)-1], b)
				if candidateScore > bestScore {
					bestScore = candidateScore
					best = sp
				}
			}

			if best == nil || bestScore <= 0 {
				next[b] = &subpath{path: nil, pr: 0}
				continue
			}

			extension := graph.ShortestVertexPath(best.path[len(best.path)-1], b)
			var newPath []int
			if len(extension) > 1 {
				newPath = append(append([]int(nil), best.path...), extension[1:]...)
			} else {
				newPath = append([]int(nil), best.path...)
			}

			next[b] = &subpath{path: newPath, pr: bestScore}
		}

		total := 0.0
		for _, sp := range next {
			total += sp.pr
		}
		if total == 0 {
			return nil, domainerrors.New(domainerrors.KindLatticeDeadEnd, "all cumulative paths reached zero probability")
		}
		for _, sp := range next {
			sp.pr /= total
		}

		active = next
	}

	var best *subpath
	for _, c := range sortedKeys(scoreMapOf(active)) {
		sp := active[c]
		if best == nil || sp.pr > best.pr {
			best = sp
		}
	}

	if best == nil || len(best.path) == 0 {
		return nil, domainerrors.New(domainerrors.KindLatticeDeadEnd, "no surviving path at final observation")
	}

	return best.path, nil
}

func sortedKeys(m ScoreMap) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	return keys
}

func scoreMapOf(active map[int]*subpath) ScoreMap {
	m := make(ScoreMap, len(active))
	for k := range active {
		m[k] = 0
	}

	return m
}

// beamEntry is one active subpath in the optimized best-first Viterbi, kept
// in a max-heap ordered by probability (implemented as a min-heap over the
// negated score, matching the original's negate-for-min-heap trick).
type beamEntry struct {
	negScore float64
	length   int
	path     []int
	index    int
}

type beamHeap []*beamEntry

func (h beamHeap) Len() int            { return len(h) }
func (h beamHeap) Less(i, j int) bool  { return h[i].negScore < h[j].negScore }
func (h beamHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *beamHeap) Push(x any) {
	e := x.(*beamEntry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *beamHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]

	return e
}

// SolveOptimized runs the best-first (beam) variant of Viterbi: only the
// single most probable active subpath is extended at each step, worst-case
// identical to classical Viterbi but frequently much faster in practice.
func SolveOptimized(graph *network.Graph, scores []ScoreMap) ([]int, error) {
	if len(scores) == 0 || len(scores[0]) == 0 {
		return nil, domainerrors.New(domainerrors.KindNoCandidates, "no candidates for first observation")
	}

	h := &beamHeap{}
	heap.Init(h)
	for _, c := range sortedKeys(scores[0]) {
		heap.Push(h, &beamEntry{negScore: -scores[0][c], length: 1, path: []int{c}})
	}

	for h.Len() > 0 {
		best := heap.Pop(h).(*beamEntry)
		if best.length == len(scores) {
			return best.path, nil
		}

		candidateMap := scores[best.length]
		if len(candidateMap) == 0 {
			return nil, domainerrors.New(domainerrors.KindNoCandidates, "no candidates for observation")
		}

		var extended *beamEntry
		bestScore := math.Inf(1)

		for _, c := range sortedKeys(candidateMap) {
			distance := 1 + graph.ShortestDistance(best.path[len(best.path)-1], c)
			score := -best.negScore * candidateMap[c] / math.Pow(distance, 1.5)

			if -score < bestScore {
				bestScore = -score

				extension := graph.ShortestVertexPath(best.path[len(best.path)-1], c)
				var newPath []int
				if len(extension) > 1 {
					newPath = append(append([]int(nil), best.path...), extension[1:]...)
				} else {
					newPath = append([]int(nil), best.path...)
				}

				extended = &beamEntry{negScore: -score, length: best.length + 1, path: newPath}
			}
		}

		heap.Push(h, extended)
		normalizeBeam(h)
	}

	return nil, domainerrors.New(domainerrors.KindLatticeDeadEnd, "beam search exhausted without a complete path")
}

func normalizeBeam(h *beamHeap) {
	total := 0.0
	for _, e := range *h {
		total += -e.negScore
	}
	if total == 0 {
		return
	}
	for _, e := range *h {
		e.negScore = e.negScore / total
	}
	heap.Init(h)
}

// SimpleArgmax independently picks the single highest-scoring candidate per
// observation, ignoring connectivity entirely. An observation with no
// surviving candidates fails with NoCandidates rather than emitting a
// sentinel vertex id, matching Solve/SolveOptimized's failure contract.
func SimpleArgmax(scores []ScoreMap) ([]int, error) {
	path := make([]int, len(scores))
	for i, s := range scores {
		if len(s) == 0 {
			if i == 0 {
				return nil, domainerrors.New(domainerrors.KindNoCandidates, "no candidates for first observation")
			}
			return nil, domainerrors.New(domainerrors.KindNoCandidates, "no candidates for observation")
		}

		best := -1
		bestScore := -1.0
		for _, c := range sortedKeys(s) {
			if s[c] > bestScore {
				bestScore = s[c]
				best = c
			}
		}
		path[i] = best
	}

	return path, nil
}

const (
	weightedNeighborDiscount  = 0.5
	weightedNeighborThreshold = 0.125
)

// WeightedNeighborScores reweights every observation's scores by a
// geometric discount of nearby observations' scores for the same candidate,
// per spec.md §4.5's weighted-neighbor evaluator: a candidate at observation
// i gains delta^j * scores[i+j][candidate] (and the symmetric i-j term) for
// every j >= 1 where delta^j is at or above threshold (j = 1..3 with the
// constants below).
func WeightedNeighborScores(scores []ScoreMap) []ScoreMap {
	maxJ := int(math.Log(weightedNeighborThreshold) / math.Log(weightedNeighborDiscount))

	result := make([]ScoreMap, len(scores))
	for i, s := range scores {
		merged := make(ScoreMap, len(s))
		for c, v := range s {
			merged[c] = v
		}
		result[i] = merged
	}

	for i := range scores {
		for j := 1; j <= maxJ; j++ {
			weight := math.Pow(weightedNeighborDiscount, float64(j))

			if i-j >= 0 {
				for c, v := range scores[i-j] {
					if _, ok := result[i][c]; ok {
						result[i][c] += v * weight
					}
				}
			}
			if i+j < len(scores) {
				for c, v := range scores[i+j] {
					if _, ok := result[i][c]; ok {
						result[i][c] += v * weight
					}
				}
			}
		}
	}

	return result
}

// WeightedNeighborArgmax applies WeightedNeighborScores then picks the
// highest-scoring candidate per observation.
func WeightedNeighborArgmax(scores []ScoreMap) ([]int, error) {
	return SimpleArgmax(WeightedNeighborScores(scores))
}
