// Package geo contains pure geographic computation helpers. No I/O; every
// function is deterministic for identical inputs.
package geo

import (
	"math"

	"transferhub/internal/types"
)

const (
	earthRadiusKm = 6371.0
	// KmPerMile converts statute miles to kilometres.
	KmPerMile = 1.609344
	// MilesPerKm converts kilometres to statute miles.
	MilesPerKm = 0.621371
)

// Unit selects the distance unit returned by Haversine.
type Unit string

const (
	Kilometers Unit = "km"
	Miles      Unit = "mi"
)

// Haversine returns the great-circle distance between two points in the
// requested unit.
func Haversine(a, b types.Point, unit Unit) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	km := earthRadiusKm * c
	if unit == Miles {
		return km * MilesPerKm
	}
	return km
}

// PointInPolygon reports whether p lies inside the ring using a ray cast
// along constant latitude. The ring is treated as closed; a trailing repeat
// of the first vertex is allowed but not required.
func PointInPolygon(p types.Point, ring []types.Point) bool {
	if len(ring) < 3 {
		return false
	}
	inside := false
	j := len(ring) - 1
	for i := 0; i < len(ring); i++ {
		vi, vj := ring[i], ring[j]
		if (vi.Lng > p.Lng) != (vj.Lng > p.Lng) {
			cross := (vj.Lat-vi.Lat)*(p.Lng-vi.Lng)/(vj.Lng-vi.Lng) + vi.Lat
			if p.Lat < cross {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// Centroid returns the vertex-averaged centroid of the ring. A closing
// vertex equal to the first is ignored so it does not double-count.
func Centroid(ring []types.Point) types.Point {
	n := len(ring)
	if n == 0 {
		return types.Point{}
	}
	if n > 1 && ring[0] == ring[n-1] {
		ring = ring[:n-1]
		n--
	}
	var lat, lng float64
	for _, v := range ring {
		lat += v.Lat
		lng += v.Lng
	}
	return types.Point{Lat: lat / float64(n), Lng: lng / float64(n)}
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
