// Package geo holds the great-circle helpers used to weight border edges.
package geo

import (
	"math"

	"github.com/golang/geo/s2"
)

// EarthRadiusKm is the mean Earth radius used for all distances.
const EarthRadiusKm = 6371.0

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64
	Lng float64
}

// PointFromSlice converts a dataset [lat, lng] pair. It reports false when the
// slice does not hold exactly two finite values inside the valid ranges.
func PointFromSlice(latlng []float64) (Point, bool) {
	if len(latlng) != 2 {
		return Point{}, false
	}
	p := Point{Lat: latlng[0], Lng: latlng[1]}
	return p, p.Valid()
}

// Valid reports whether p is a usable coordinate.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lng, 0) {
		return false
	}
	return p.latLng().IsValid()
}

func (p Point) latLng() s2.LatLng {
	return s2.LatLngFromDegrees(p.Lat, p.Lng)
}

// Haversine returns the great-circle distance between a and b in kilometers.
// s2.LatLng.Distance evaluates the haversine formula on the unit sphere.
func Haversine(a, b Point) float64 {
	return a.latLng().Distance(b.latLng()).Radians() * EarthRadiusKm
}
