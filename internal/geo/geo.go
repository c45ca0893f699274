// Package geo implements the geographic primitives shared by every core
// component: great-circle distance, forward azimuth, signed angular delta,
// and great-circle point projection. Units are feet and degrees throughout,
// matching the probe and network data (§3 of the specification).
package geo

import (
	"math"

	"github.com/paulmach/orb"
)

const (
	earthRadiusKM = 6378.1
	kmToFeet      = 3280.84
)

// Point is a [lon, lat] pair in WGS-84 degrees, optionally carrying a bearing
// in degrees clockwise from true north. orb.Point supplies the underlying
// [2]float64 and its x=lon, y=lat convention; Point adds the bearing field
// the network and scorer need.
type Point struct {
	orb.Point
	Bearing float64
}

// NewPoint builds a Point from longitude/latitude degrees.
func NewPoint(lon, lat float64) Point {
	return Point{Point: orb.Point{lon, lat}}
}

// Lon returns the longitude in degrees.
func (p Point) Lon() float64 { return p.Point[0] }

// Lat returns the latitude in degrees.
func (p Point) Lat() float64 { return p.Point[1] }

// RealDistance returns the Haversine great-circle distance between a and b in
// feet, using the Earth radius the specification fixes (6378.1 km — see
// spec.md's Open Questions; the alternate 6373 km found in some source copies
// is not used).
func RealDistance(a, b orb.Point) float64 {
	lon1, lat1 := a[0]*math.Pi/180, a[1]*math.Pi/180
	lon2, lat2 := b[0]*math.Pi/180, b[1]*math.Pi/180

	deltaLat := lat2 - lat1
	deltaLon := lon2 - lon1

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKM * c * kmToFeet
}

// Heading returns the initial bearing (forward azimuth), in degrees clockwise
// from true north and normalized to [0, 360), for travel from origin to dest.
func Heading(origin, dest orb.Point) float64 {
	originLon, originLat := origin[0]*math.Pi/180, origin[1]*math.Pi/180
	destLon, destLat := dest[0]*math.Pi/180, dest[1]*math.Pi/180

	y := math.Sin(destLon-originLon) * math.Cos(destLat)
	x := math.Cos(originLat)*math.Sin(destLat) -
		math.Sin(originLat)*math.Cos(destLat)*math.Cos(destLon-originLon)

	bearing := math.Atan2(y, x) * 180 / math.Pi

	return math.Mod(bearing+360, 360)
}

// AngleDelta returns the signed minimum rotation from a1 to a2, clockwise
// positive, with domain (-180, 180]. This is the authoritative, signed
// definition per spec.md §3 — the unsigned min() found in some copies of the
// original source is not used.
func AngleDelta(a1, a2 float64) float64 {
	delta := math.Mod(a2-a1, 360)
	if delta <= -180 {
		delta += 360
	} else if delta > 180 {
		delta -= 360
	}

	return delta
}

// OffsetPoint returns the point distanceFeet away from p in direction
// bearingDeg, computed via the standard great-circle direct-projection
// formula (destination point given distance and bearing from a start point).
func OffsetPoint(p orb.Point, distanceFeet, bearingDeg float64) orb.Point {
	bearing := bearingDeg * math.Pi / 180
	distanceKM := distanceFeet / kmToFeet
	angularDistance := distanceKM / earthRadiusKM

	lat1 := p[1] * math.Pi / 180
	lon1 := p[0] * math.Pi / 180

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(angularDistance) +
		math.Cos(lat1)*math.Sin(angularDistance)*math.Cos(bearing))
	lon2 := lon1 + math.Atan2(
		math.Sin(bearing)*math.Sin(angularDistance)*math.Cos(lat1),
		math.Cos(angularDistance)-math.Sin(lat1)*math.Sin(lat2),
	)

	return orb.Point{lon2 * 180 / math.Pi, lat2 * 180 / math.Pi}
}
