// Package probe reads raw GPS probe observations from CSV files and groups
// them into per-vehicle trips, grounded on
// internal/infra/routing/loader.CSVLoader's read-and-parse shape.
package probe

import (
	"encoding/csv"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"

	"mapmatch/internal/match"
)

// header columns, per spec.md §6's probe-data CSV schema.
const (
	colSampleDate = "SAMPLE_DATE"
	colSpeed      = "SPEED"
	colLon        = "LON"
	colLat        = "LAT"
	colHeading    = "HEADING"
	colTripID     = "TRIP_ID"
)

// Record is one raw probe sample, prior to per-trip grouping.
type Record struct {
	TripID     string
	SampleDate time.Time
	Observation match.Observation
}

// LoadFile reads a probe CSV from path and returns its records in file
// order. TRIP_ID defaults to the empty string when the column is absent,
// so single-trip files group into one trip under GroupByTrip.
func LoadFile(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer file.Close()

	return Load(file)
}

// Load reads probe records from r, per spec.md §6: SAMPLE_DATE, SPEED, LON,
// LAT, HEADING, and an optional TRIP_ID.
func Load(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	for _, required := range []string{colSampleDate, colSpeed, colLon, colLat, colHeading} {
		if _, ok := col[required]; !ok {
			return nil, errors.Errorf("probe csv missing required column %q", required)
		}
	}
	tripIDIdx, hasTripID := col[colTripID]

	var records []Record
	lineNum := 1

	for {
		row, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, errors.WithStack(readErr)
		}
		lineNum++

		rec, parseErr := parseRecord(row, col, tripIDIdx, hasTripID, lineNum)
		if parseErr != nil {
			return nil, parseErr
		}

		records = append(records, rec)
	}

	return records, nil
}

func parseRecord(row []string, col map[string]int, tripIDIdx int, hasTripID bool, lineNum int) (Record, error) {
	sampleDate, err := time.Parse(time.RFC3339, row[col[colSampleDate]])
	if err != nil {
		return Record{}, errors.Wrapf(err, "probe csv line %d: bad SAMPLE_DATE", lineNum)
	}

	speed, err := strconv.ParseFloat(row[col[colSpeed]], 64)
	if err != nil {
		return Record{}, errors.Wrapf(err, "probe csv line %d: bad SPEED", lineNum)
	}

	lon, err := strconv.ParseFloat(row[col[colLon]], 64)
	if err != nil {
		return Record{}, errors.Wrapf(err, "probe csv line %d: bad LON", lineNum)
	}

	lat, err := strconv.ParseFloat(row[col[colLat]], 64)
	if err != nil {
		return Record{}, errors.Wrapf(err, "probe csv line %d: bad LAT", lineNum)
	}

	heading, err := strconv.ParseFloat(row[col[colHeading]], 64)
	if err != nil {
		return Record{}, errors.Wrapf(err, "probe csv line %d: bad HEADING", lineNum)
	}

	var tripID string
	if hasTripID {
		tripID = row[tripIDIdx]
	}

	return Record{
		TripID:     tripID,
		SampleDate: sampleDate,
		Observation: match.Observation{
			Location: orb.Point{lon, lat},
			Bearing:  heading,
			Speed:    speed,
		},
	}, nil
}

// TripRecords pairs a grouped match.Trip with its originating Records, sorted
// the same way as Trip.Observations, so a caller needing the original
// SAMPLE_DATE per observation (e.g. for a match-export timestamp column) can
// pair them back up by index.
type TripRecords struct {
	Trip    match.Trip
	Records []Record
}

// GroupByTrip buckets records by TripID and sorts each trip's observations by
// SampleDate, returning match.Trip values ready for MatchDriver.Match or
// MatchDriver.BatchProcess. Trip order in the result follows each trip's
// first appearance in records.
func GroupByTrip(records []Record) []match.Trip {
	grouped := GroupByTripRecords(records)

	trips := make([]match.Trip, len(grouped))
	for i, g := range grouped {
		trips[i] = g.Trip
	}

	return trips
}

// GroupByTripRecords is GroupByTrip, additionally returning each trip's
// underlying Records in the same sorted order as its Observations.
func GroupByTripRecords(records []Record) []TripRecords {
	order := make([]string, 0)
	byTrip := make(map[string][]Record)

	for _, rec := range records {
		if _, ok := byTrip[rec.TripID]; !ok {
			order = append(order, rec.TripID)
		}
		byTrip[rec.TripID] = append(byTrip[rec.TripID], rec)
	}

	grouped := make([]TripRecords, 0, len(order))
	for _, tripID := range order {
		recs := byTrip[tripID]
		sort.SliceStable(recs, func(i, j int) bool {
			return recs[i].SampleDate.Before(recs[j].SampleDate)
		})

		observations := make([]match.Observation, len(recs))
		for i, rec := range recs {
			observations[i] = rec.Observation
		}

		grouped = append(grouped, TripRecords{
			Trip:    match.Trip{ID: tripID, Observations: observations},
			Records: recs,
		})
	}

	return grouped
}
