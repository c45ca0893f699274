// Package export writes match results and inferred paths to the CSV schemas
// spec.md §6 defines, grounded on original_source/util/export.py's generic
// header-plus-dictionary CSV writer shape.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/paulmach/go.geojson"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// matchHeader is the match-export CSV schema, per spec.md §6.
var matchHeader = []string{
	"gps_lon", "gps_lat", "gps_heading",
	"match_lon", "match_lat", "match_heading",
	"timestamp", "score", "gps_point", "match_point", "line_geom",
}

// pathHeader is the path-export CSV schema, per spec.md §6.
var pathHeader = []string{"lon1", "lat1", "id1", "lon2", "lat2", "id2", "line_geom"}

// MatchRow is one matched observation, ready to serialize as a row of the
// match-export CSV.
type MatchRow struct {
	GPSLocation   orb.Point
	GPSHeading    float64
	MatchLocation orb.Point
	MatchHeading  float64
	Timestamp     string
	Score         float64
}

// PathRow is one consecutive vertex pair of an inferred path, ready to
// serialize as a row of the path-export CSV.
type PathRow struct {
	Location1 orb.Point
	ID1       string
	Location2 orb.Point
	ID2       string
}

func lineString(a, b orb.Point) (string, error) {
	geom := geojson.NewLineStringGeometry([][]float64{{a[0], a[1]}, {b[0], b[1]}})

	data, err := geom.MarshalJSON()
	if err != nil {
		return "", errors.WithStack(err)
	}

	return string(data), nil
}

func pointString(p orb.Point) string {
	return fmt.Sprintf("%f,%f", p[0], p[1])
}

// WriteMatchFile writes rows to path in the match-export CSV schema.
func WriteMatchFile(path string, rows []MatchRow) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.WithStack(err)
	}
	defer file.Close()

	return WriteMatch(file, rows)
}

// WriteMatch writes rows to w in the match-export CSV schema.
func WriteMatch(w io.Writer, rows []MatchRow) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(matchHeader); err != nil {
		return errors.WithStack(err)
	}

	for _, row := range rows {
		geom, err := lineString(row.GPSLocation, row.MatchLocation)
		if err != nil {
			return err
		}

		record := []string{
			fmt.Sprintf("%f", row.GPSLocation[0]),
			fmt.Sprintf("%f", row.GPSLocation[1]),
			fmt.Sprintf("%f", row.GPSHeading),
			fmt.Sprintf("%f", row.MatchLocation[0]),
			fmt.Sprintf("%f", row.MatchLocation[1]),
			fmt.Sprintf("%f", row.MatchHeading),
			row.Timestamp,
			fmt.Sprintf("%f", row.Score),
			pointString(row.GPSLocation),
			pointString(row.MatchLocation),
			geom,
		}

		if err := writer.Write(record); err != nil {
			return errors.WithStack(err)
		}
	}

	writer.Flush()
	return errors.WithStack(writer.Error())
}

// WritePathFile writes rows to path in the path-export CSV schema.
func WritePathFile(path string, rows []PathRow) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.WithStack(err)
	}
	defer file.Close()

	return WritePath(file, rows)
}

// WritePath writes rows to w in the path-export CSV schema.
func WritePath(w io.Writer, rows []PathRow) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(pathHeader); err != nil {
		return errors.WithStack(err)
	}

	for _, row := range rows {
		geom, err := lineString(row.Location1, row.Location2)
		if err != nil {
			return err
		}

		record := []string{
			fmt.Sprintf("%f", row.Location1[0]),
			fmt.Sprintf("%f", row.Location1[1]),
			row.ID1,
			fmt.Sprintf("%f", row.Location2[0]),
			fmt.Sprintf("%f", row.Location2[1]),
			row.ID2,
			geom,
		}

		if err := writer.Write(record); err != nil {
			return errors.WithStack(err)
		}
	}

	writer.Flush()
	return errors.WithStack(writer.Error())
}

// PathRowsFromVertexIDs builds PathRow values for every consecutive pair in
// path, looking up each vertex's location via locate and a stable id via
// idOf.
func PathRowsFromVertexIDs(path []int, locate func(int) orb.Point, idOf func(int) string) []PathRow {
	if len(path) < 2 {
		return nil
	}

	rows := make([]PathRow, 0, len(path)-1)
	for i := 0; i+1 < len(path); i++ {
		rows = append(rows, PathRow{
			Location1: locate(path[i]),
			ID1:       idOf(path[i]),
			Location2: locate(path[i+1]),
			ID2:       idOf(path[i+1]),
		})
	}

	return rows
}
