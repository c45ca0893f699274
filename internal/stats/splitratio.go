// Package stats computes path-exit vs. path-continuation statistics over a
// directory of path-export CSVs, grounded on
// original_source/split_ratio/reader.py: for a given entrance/exit section
// pair, count how many trips that pass through the entrance section also
// pass through the exit section.
package stats

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// id1/id2 are the path-export CSV columns holding the two vertex ids of
// each row (§6).
const (
	colID1 = "id1"
	colID2 = "id2"
)

// SplitRatio is the outcome of analyzing one directory of path-export CSVs
// against an entrance/exit pair.
type SplitRatio struct {
	TotalThroughEntrance int
	Exited               int
	Continued            int
}

// Ratio returns the fraction of trips through the entrance that also reached
// the exit. Returns 0 when no trip passed through the entrance.
func (s SplitRatio) Ratio() float64 {
	if s.TotalThroughEntrance == 0 {
		return 0
	}

	return float64(s.Exited) / float64(s.TotalThroughEntrance)
}

// AnalyzeDir reads every *.csv file directly under dir as a path-export file
// and classifies it by whether its vertex-id set contains entranceID and
// exitID, per reader.py's directory scan.
func AnalyzeDir(dir string, entranceID, exitID string) (SplitRatio, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return SplitRatio{}, errors.WithStack(err)
	}

	var result SplitRatio

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".csv" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		file, err := os.Open(path)
		if err != nil {
			return SplitRatio{}, errors.WithStack(err)
		}

		nodes, err := readNodeSet(file)
		file.Close()
		if err != nil {
			return SplitRatio{}, errors.Wrapf(err, "reading %s", path)
		}

		if !nodes[entranceID] {
			continue
		}

		result.TotalThroughEntrance++
		if nodes[exitID] {
			result.Exited++
		} else {
			result.Continued++
		}
	}

	return result, nil
}

func readNodeSet(r io.Reader) (map[string]bool, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	id1Idx, ok1 := col[colID1]
	id2Idx, ok2 := col[colID2]
	if !ok1 || !ok2 {
		return nil, errors.Errorf("path-export csv missing %q/%q columns", colID1, colID2)
	}

	nodes := make(map[string]bool)

	for {
		row, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, errors.WithStack(readErr)
		}

		nodes[row[id1Idx]] = true
		nodes[row[id2Idx]] = true
	}

	return nodes, nil
}
