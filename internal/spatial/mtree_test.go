package spatial

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// grid of points at integer (x, 0) coordinates, distance is |x_i - x_j|.
func gridDistance(points []float64) DistanceFunc {
	return func(a, b int) float64 {
		return math.Abs(points[a] - points[b])
	}
}

func TestMTreeAddAllAndSize(t *testing.T) {
	points := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19}
	tree := New(gridDistance(points))

	ids := make([]int, len(points))
	for i := range points {
		ids[i] = i
	}
	tree.AddAll(ids)

	assert.Equal(t, len(points), tree.Size())
}

func TestMTreeSearchReturnsNearestSorted(t *testing.T) {
	points := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19}
	tree := New(gridDistance(points))

	ids := make([]int, len(points))
	for i := range points {
		ids[i] = i
	}
	tree.AddAll(ids)

	query := func(id int) float64 {
		return math.Abs(points[id] - 9.4)
	}

	results := tree.Search(query, 3)
	require.Len(t, results, 3)

	// nearest to 9.4 should be 9 (0.4), then 10 (0.6), then 8 (1.4)
	assert.Equal(t, 9, results[0])
	assert.Equal(t, 10, results[1])

	var prevDist float64 = -1
	for _, id := range results {
		d := query(id)
		assert.GreaterOrEqual(t, d, prevDist)
		prevDist = d
	}
}

func TestMTreeSearchLimitExceedsSize(t *testing.T) {
	points := []float64{0, 5, 10}
	tree := New(gridDistance(points))
	tree.AddAll([]int{0, 1, 2})

	results := tree.Search(func(id int) float64 { return math.Abs(points[id] - 4) }, 10)
	assert.Len(t, results, 3)
}

func TestMTreeEmptySearch(t *testing.T) {
	tree := New(gridDistance(nil))
	results := tree.Search(func(int) float64 { return 0 }, 5)
	assert.Nil(t, results)
}
