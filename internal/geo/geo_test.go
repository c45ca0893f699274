package geo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestRealDistance(t *testing.T) {
	d := RealDistance(orb.Point{-118.121438, 34.179766}, orb.Point{-118.118132, 34.179786})
	assert.GreaterOrEqual(t, d, 995.0)
	assert.LessOrEqual(t, d, 1000.0)
}

func TestRealDistanceSymmetric(t *testing.T) {
	a := orb.Point{-118.121438, 34.179766}
	b := orb.Point{-118.118132, 34.179786}
	assert.InDelta(t, RealDistance(a, b), RealDistance(b, a), 1e-9)
}

func TestHeadingNorthAndEast(t *testing.T) {
	origin := orb.Point{0, 0}
	north := orb.Point{0, 1}
	east := orb.Point{1, 0}

	assert.InDelta(t, 0, Heading(origin, north), 0.5)
	assert.InDelta(t, 90, Heading(origin, east), 0.5)
}

func TestHeadingReciprocal(t *testing.T) {
	a := orb.Point{-118.3, 34.0}
	b := orb.Point{-118.1, 34.2}

	forward := Heading(a, b)
	backward := Heading(b, a)

	diff := forward - 180
	if diff < 0 {
		diff += 360
	}
	assert.InDelta(t, diff, backward, 0.5)
}

func TestAngleDelta(t *testing.T) {
	assert.InDelta(t, 20, AngleDelta(350, 10), 1e-9)
	assert.InDelta(t, -20, AngleDelta(10, 350), 1e-9)
}

func TestAngleDeltaIdentityAndAntisymmetry(t *testing.T) {
	assert.Equal(t, 0.0, AngleDelta(123.4, 123.4))
	assert.InDelta(t, -AngleDelta(10, 200), AngleDelta(200, 10), 1e-9)
}

func TestAngleDeltaDomain(t *testing.T) {
	for _, pair := range [][2]float64{{0, 180}, {0, 179}, {0, -179}} {
		d := AngleDelta(pair[0], pair[1])
		assert.True(t, d > -180 && d <= 180, "angle delta %v out of domain: %v", pair, d)
	}
}

func TestOffsetPointRoundTrip(t *testing.T) {
	p := orb.Point{-118.25, 34.05}
	moved := OffsetPoint(p, 1000, 90)
	back := OffsetPoint(moved, 1000, 270)

	assert.InDelta(t, p[0], back[0], 1e-4)
	assert.InDelta(t, p[1], back[1], 1e-4)
}

func TestOffsetPointDistanceMatches(t *testing.T) {
	p := orb.Point{-118.25, 34.05}
	moved := OffsetPoint(p, 450, 30)
	d := RealDistance(p, moved)
	assert.InDelta(t, 450, d, 1.0)
}
