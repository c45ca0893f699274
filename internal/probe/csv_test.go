package probe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `SAMPLE_DATE,SPEED,LON,LAT,HEADING,TRIP_ID
2026-01-01T00:00:02Z,12.5,-122.1,37.4,90,trip-a
2026-01-01T00:00:00Z,10.0,-122.0,37.3,88,trip-a
2026-01-01T00:00:01Z,15.0,-121.9,37.5,10,trip-b
`

func TestLoadParsesRows(t *testing.T) {
	records, err := Load(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "trip-a", records[0].TripID)
	assert.InDelta(t, -122.1, records[0].Observation.Location[0], 1e-9)
	assert.InDelta(t, 37.4, records[0].Observation.Location[1], 1e-9)
	assert.InDelta(t, 90, records[0].Observation.Bearing, 1e-9)
	assert.InDelta(t, 12.5, records[0].Observation.Speed, 1e-9)
}

func TestLoadRejectsMissingColumn(t *testing.T) {
	_, err := Load(strings.NewReader("SPEED,LON,LAT,HEADING\n1,2,3,4\n"))
	assert.Error(t, err)
}

func TestGroupByTripOrdersByDateWithinTrip(t *testing.T) {
	records, err := Load(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	trips := GroupByTrip(records)
	require.Len(t, trips, 2)

	tripA := trips[0]
	assert.Equal(t, "trip-a", tripA.ID)
	require.Len(t, tripA.Observations, 2)
	// the 00:00:00 sample must sort before the 00:00:02 sample despite
	// appearing second in the file.
	assert.InDelta(t, 88, tripA.Observations[0].Bearing, 1e-9)
	assert.InDelta(t, 90, tripA.Observations[1].Bearing, 1e-9)

	tripB := trips[1]
	assert.Equal(t, "trip-b", tripB.ID)
	assert.Len(t, tripB.Observations, 1)
}

func TestGroupByTripRecordsKeepsRecordsAlignedWithObservations(t *testing.T) {
	records, err := Load(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	grouped := GroupByTripRecords(records)
	require.Len(t, grouped, 2)

	tripA := grouped[0]
	require.Len(t, tripA.Records, len(tripA.Trip.Observations))
	for i, rec := range tripA.Records {
		assert.Equal(t, rec.Observation, tripA.Trip.Observations[i])
	}
	assert.Equal(t, "2026-01-01T00:00:00Z", tripA.Records[0].SampleDate.Format("2006-01-02T15:04:05Z"))
}

func TestGroupByTripDefaultsMissingTripIDToEmptyString(t *testing.T) {
	records, err := Load(strings.NewReader("SAMPLE_DATE,SPEED,LON,LAT,HEADING\n2026-01-01T00:00:00Z,1,0,0,0\n"))
	require.NoError(t, err)

	trips := GroupByTrip(records)
	require.Len(t, trips, 1)
	assert.Equal(t, "", trips[0].ID)
}
