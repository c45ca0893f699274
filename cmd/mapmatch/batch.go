package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"mapmatch/internal/errors"
	"mapmatch/internal/export"
	"mapmatch/internal/match"
	"mapmatch/internal/probe"
)

func handleBatch(ctx context.Context, flags *mapmatchFlags, logger *slog.Logger) error {
	if err := flags.Batch.cmd.Parse(os.Args[2:]); err != nil {
		return errors.Wrap(err, "failed to parse batch flags")
	}

	f := flags.Batch
	if *f.junctions == "" || *f.sections == "" || *f.probeDir == "" {
		return errors.New("--junctions, --sections and --probe-dir are required for batch command")
	}

	graph, err := buildNetwork(*f.junctions, *f.sections, *f.dmax, *f.amax, true)
	if err != nil {
		return err
	}

	records, err := loadProbeRecords(*f.probeDir)
	if err != nil {
		return err
	}

	trips := probe.GroupByTrip(records)
	if len(trips) == 0 {
		return errors.New("probe source contains no observations")
	}

	driver := match.NewDriver(graph, match.Config{
		K:             *f.k,
		Evaluator:     match.Evaluator(*f.evaluator),
		MinTripLength: *f.minTripLength,
		BatchWorkers:  *f.workers,
	}, logger)

	if err := os.MkdirAll(*f.out, 0o755); err != nil {
		return errors.Wrap(err, "create output directory")
	}

	results := driver.BatchProcess(ctx, trips)

	var succeeded, failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "trip %q failed: %v\n", r.TripID, r.Err)
			continue
		}

		pathRows := export.PathRowsFromVertexIDs(r.Path,
			func(id int) orb.Point { return graph.Location[id] },
			func(id int) string { return graph.OwnerID[id] },
		)

		name := sanitizeTripFilename(r.TripID)
		if err := export.WritePathFile(filepath.Join(*f.out, name+".csv"), pathRows); err != nil {
			return errors.Wrapf(err, "write path csv for trip %q", r.TripID)
		}

		succeeded++
	}

	fmt.Printf("batch complete: %d trips matched, %d failed\n", succeeded, failed)

	return nil
}

// loadProbeRecords accepts either a single multi-trip probe CSV or a
// directory of probe CSVs (one or more trips each), concatenating every
// record found.
func loadProbeRecords(path string) ([]probe.Record, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "stat probe source")
	}

	if !info.IsDir() {
		return probe.LoadFile(path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, errors.Wrap(err, "read probe directory")
	}

	var records []probe.Record
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}

		fileRecords, err := probe.LoadFile(filepath.Join(path, entry.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, "load probe file %q", entry.Name())
		}

		records = append(records, fileRecords...)
	}

	return records, nil
}

// sanitizeTripFilename turns a trip id into a safe filename. Probe sources
// with no TRIP_ID column group into a single anonymous trip (per
// probe.GroupByTrip); that trip gets a fresh uuid rather than a fixed name,
// so re-running batch against the same --out directory never clobbers a
// previous anonymous trip's export.
func sanitizeTripFilename(tripID string) string {
	if tripID == "" {
		return uuid.NewString()
	}

	replacer := strings.NewReplacer("/", "_", "\\", "_", " ", "_")
	return replacer.Replace(tripID)
}
