package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/paulmach/orb"

	"mapmatch/internal/errors"
	"mapmatch/internal/export"
	"mapmatch/internal/match"
	"mapmatch/internal/network"
	"mapmatch/internal/probe"
)

func handleMatch(flags *mapmatchFlags, logger *slog.Logger) error {
	if err := flags.Match.cmd.Parse(os.Args[2:]); err != nil {
		return errors.Wrap(err, "failed to parse match flags")
	}

	f := flags.Match
	if *f.junctions == "" || *f.sections == "" || *f.probe == "" {
		return errors.New("--junctions, --sections and --probe are required for match command")
	}

	graph, err := buildNetwork(*f.junctions, *f.sections, *f.dmax, *f.amax, true)
	if err != nil {
		return err
	}

	records, err := probe.LoadFile(*f.probe)
	if err != nil {
		return errors.Wrap(err, "load probe file")
	}

	trips := probe.GroupByTripRecords(records)
	if len(trips) == 0 {
		return errors.New("probe file contains no observations")
	}
	trip := trips[0].Trip

	driver := match.NewDriver(graph, match.Config{
		K:             *f.k,
		Evaluator:     match.Evaluator(*f.evaluator),
		MinTripLength: *f.minTripLength,
	}, logger)

	path, scores, err := driver.MatchDetailed(trip.Observations)
	if err != nil {
		return errors.Wrap(err, "match trip")
	}

	if err := os.MkdirAll(*f.out, 0o755); err != nil {
		return errors.Wrap(err, "create output directory")
	}

	matchRows, err := matchRowsFromTrip(trip.Observations, scores, graph, trips[0].Records)
	if err != nil {
		return errors.Wrap(err, "build match-export rows")
	}
	if err := export.WriteMatchFile(filepath.Join(*f.out, "match.csv"), matchRows); err != nil {
		return errors.Wrap(err, "write match.csv")
	}

	pathRows := export.PathRowsFromVertexIDs(path,
		func(id int) orb.Point { return graph.Location[id] },
		func(id int) string { return graph.OwnerID[id] },
	)
	if err := export.WritePathFile(filepath.Join(*f.out, "path.csv"), pathRows); err != nil {
		return errors.Wrap(err, "write path.csv")
	}

	fmt.Printf("matched trip %q: %d observations, %d-vertex path\n", trip.ID, len(trip.Observations), len(path))

	return nil
}

// matchRowsFromTrip pairs each observation with the highest-scoring
// candidate from its own ScoreMap (independent of which vertex the solved
// route happens to pass through at that step), per the match-export CSV's
// per-observation schema (§6).
func matchRowsFromTrip(observations []match.Observation, scores []match.ScoreMap, graph *network.Graph, records []probe.Record) ([]export.MatchRow, error) {
	winners, err := match.SimpleArgmax(scores)
	if err != nil {
		return nil, errors.Wrap(err, "select per-observation candidates")
	}

	rows := make([]export.MatchRow, 0, len(observations))
	for i, obs := range observations {
		if i >= len(winners) {
			break
		}

		c := winners[i]

		row := export.MatchRow{
			GPSLocation:   obs.Location,
			GPSHeading:    obs.Bearing,
			MatchLocation: graph.Location[c],
			MatchHeading:  graph.Heading[c],
			Score:         scores[i][c],
		}
		if i < len(records) {
			row.Timestamp = records[i].SampleDate.Format(time.RFC3339)
		}

		rows = append(rows, row)
	}

	return rows, nil
}
