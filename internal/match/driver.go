package match

import (
	"context"
	"log/slog"
	"sync"

	domainerrors "mapmatch/internal/domain/errors"
	"mapmatch/internal/geo"
	"mapmatch/internal/network"
	"mapmatch/internal/spatial"

	"github.com/paulmach/orb"
)

// Evaluator selects the algorithm MatchDriver.Match uses to turn a
// sequence of per-observation ScoreMaps into a single vertex path.
type Evaluator string

const (
	EvaluatorClassicalViterbi Evaluator = "classical"
	EvaluatorOptimizedViterbi Evaluator = "optimized"
	EvaluatorWeightedNeighbor Evaluator = "weighted_neighbor"
	EvaluatorSimpleArgmax     Evaluator = "simple_argmax"
)

// Config holds the Scorer/Solver tuning parameters, the same ones
// config.MatchConfig and config.BatchConfig carry; the CLI fills it from
// command-line flags.
type Config struct {
	K             int
	Evaluator     Evaluator
	MinTripLength int
	BatchWorkers  int
}

// DefaultConfig returns the spec's default scorer/solver parameters.
func DefaultConfig() Config {
	return Config{K: DefaultK, Evaluator: EvaluatorClassicalViterbi, MinTripLength: 2, BatchWorkers: 8}
}

// Driver orchestrates the full match pipeline: build the spatial index over
// a normalized graph's vertices, score each observation of a trip against
// its K nearest candidates, then solve for the most probable vertex path.
type Driver struct {
	graph  *network.Graph
	index  *spatial.MTree
	config Config
	logger *slog.Logger
}

// NewDriver builds the spatial index from graph's vertex locations (real
// distance in feet as the metric) and returns a ready Driver.
func NewDriver(graph *network.Graph, config Config, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}

	index := spatial.New(func(a, b int) float64 {
		return geo.RealDistance(graph.Location[a], graph.Location[b])
	})

	ids := make([]int, graph.NumVertices())
	for i := range ids {
		ids[i] = i
	}
	index.AddAll(ids)

	return &Driver{graph: graph, index: index, config: config, logger: logger}
}

// knn adapts the driver's MTree to the KNN signature scorer.go expects,
// honoring the redesign note that queries pass coordinates directly rather
// than installing a transient vertex in the graph.
func (d *Driver) knn(location orb.Point, k int) []int {
	return d.index.Search(func(id int) float64 {
		return geo.RealDistance(location, d.graph.Location[id])
	}, k)
}

// Match runs the scorer over every observation then solves the resulting
// lattice with the driver's configured evaluator, returning the matched
// vertex path.
func (d *Driver) Match(trip []Observation) ([]int, error) {
	path, _, err := d.MatchDetailed(trip)
	return path, err
}

// Scores runs the scorer over every observation of trip against the
// driver's spatial index, without solving the lattice. Exposed for
// inspection per the per-observation candidate score output (§4).
func (d *Driver) Scores(trip []Observation) []ScoreMap {
	scores := make([]ScoreMap, len(trip))
	for i := range trip {
		scores[i] = Score(trip, i, d.knn, d.graph, d.config.K)
	}

	return scores
}

// MatchDetailed is Match plus the per-observation score maps the solver
// consumed, so a caller can pair each observation with its own best-scoring
// candidate (e.g. for a per-observation export row) independently of which
// vertex the solved route happens to pass through at that step.
func (d *Driver) MatchDetailed(trip []Observation) ([]int, []ScoreMap, error) {
	if len(trip) < d.config.MinTripLength {
		return nil, nil, domainerrors.New(domainerrors.KindShortTrip, "trip shorter than minimum match length")
	}

	scores := d.Scores(trip)

	var (
		path []int
		err  error
	)
	switch d.config.Evaluator {
	case EvaluatorOptimizedViterbi:
		path, err = SolveOptimized(d.graph, scores)
	case EvaluatorWeightedNeighbor:
		path, err = WeightedNeighborArgmax(scores)
	case EvaluatorSimpleArgmax:
		path, err = SimpleArgmax(scores)
	default:
		path, err = Solve(d.graph, scores)
	}

	return path, scores, err
}

// Trip is a named probe sequence, as grouped by internal/probe.
type Trip struct {
	ID           string
	Observations []Observation
}

// BatchResult pairs a trip id with its match outcome.
type BatchResult struct {
	TripID string
	Path   []int
	Err    error
}

// BatchProcess matches every trip concurrently using a bounded worker pool,
// grounded on ch.Engine.OneToMany's routeWithWorkerPool: a jobs channel, a
// fixed number of workers, and a results channel drained after all workers
// finish. A per-trip failure is logged and does not stop the batch.
func (d *Driver) BatchProcess(ctx context.Context, trips []Trip) []BatchResult {
	results := make([]BatchResult, len(trips))

	workerCount := d.config.BatchWorkers
	if workerCount <= 0 {
		workerCount = 1
	}
	if workerCount > len(trips) {
		workerCount = len(trips)
	}
	if workerCount == 0 {
		return results
	}

	type job struct {
		idx  int
		trip Trip
	}

	jobs := make(chan job, len(trips))
	resultsCh := make(chan struct {
		idx int
		res BatchResult
	}, len(trips))

	var wg sync.WaitGroup
	for w := 0; w < workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if ctx.Err() != nil {
					return
				}

				path, err := d.Match(j.trip.Observations)
				if err != nil {
					d.logger.Warn("trip match failed",
						"trip_id", j.trip.ID,
						"observation_count", len(j.trip.Observations),
						"error", err)
				} else {
					d.logger.Info("trip matched",
						"trip_id", j.trip.ID,
						"observation_count", len(j.trip.Observations),
						"candidate_count", len(path))
				}

				resultsCh <- struct {
					idx int
					res BatchResult
				}{idx: j.idx, res: BatchResult{TripID: j.trip.ID, Path: path, Err: err}}
			}
		}()
	}

	go func() {
		for i, t := range trips {
			jobs <- job{idx: i, trip: t}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	for r := range resultsCh {
		results[r.idx] = r.res
	}

	return results
}
