package stats

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestAnalyzeDirClassifiesExitedAndContinued(t *testing.T) {
	dir := t.TempDir()

	// trip 1: passes through entrance and exit -> exited
	writeCSV(t, dir, "trip1_path.csv", "lon1,lat1,id1,lon2,lat2,id2,line_geom\n0,0,A,0,0,B,\n0,0,B,0,0,EXIT,\n")
	// trip 2: passes through entrance only -> continued
	writeCSV(t, dir, "trip2_path.csv", "lon1,lat1,id1,lon2,lat2,id2,line_geom\n0,0,A,0,0,C,\n0,0,C,0,0,D,\n")
	// trip 3: never touches entrance -> ignored
	writeCSV(t, dir, "trip3_path.csv", "lon1,lat1,id1,lon2,lat2,id2,line_geom\n0,0,X,0,0,Y,\n")

	result, err := AnalyzeDir(dir, "A", "EXIT")
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalThroughEntrance)
	assert.Equal(t, 1, result.Exited)
	assert.Equal(t, 1, result.Continued)
	assert.InDelta(t, 0.5, result.Ratio(), 1e-9)
}

func TestSplitRatioZeroTripsHasZeroRatio(t *testing.T) {
	var s SplitRatio
	assert.Equal(t, 0.0, s.Ratio())
}

func TestAnalyzeDirIgnoresNonCSVFiles(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "notes.txt", "hello")
	writeCSV(t, dir, "trip_path.csv", "lon1,lat1,id1,lon2,lat2,id2,line_geom\n0,0,A,0,0,EXIT,\n")

	result, err := AnalyzeDir(dir, "A", "EXIT")
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalThroughEntrance)
	assert.Equal(t, 1, result.Exited)
}
