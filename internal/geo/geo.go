package geo

import "math"

const earthRadiusMeters = 6371000.0

// Default sampling parameters for commute-scale routes: interpolate every
// 200m, then thin out points closer than 500m to each other.
const (
	DefaultSampleIntervalMeters = 200.0
	DefaultMinSpacingMeters     = 500.0
)

// Coordinate is a geographic position (WGS 84). Immutable value type.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Distance returns the great-circle distance between a and b in meters
// (haversine formula).
func Distance(a, b Coordinate) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

// SamplePath produces an ordered, thinned-out sequence of coordinates along
// the straight line from start to end. Interpolation is linear in
// latitude/longitude, a deliberate approximation that holds up at
// commute-scale distances. The result always starts at start and keeps a
// subsequent point only if it is at least minSpacingMeters away from the
// last kept one, so the end point may be dropped on very short routes.
func SamplePath(start, end Coordinate, intervalMeters, minSpacingMeters float64) []Coordinate {
	total := Distance(start, end)
	n := int(math.Ceil(total / intervalMeters))
	if n < 1 {
		n = 1
	}
	n++ // fence posts: n intervals need n+1 points, minimum 2

	points := make([]Coordinate, 0, n)
	for i := 0; i < n; i++ {
		ratio := float64(i) / float64(n-1)
		points = append(points, Coordinate{
			Latitude:  start.Latitude + (end.Latitude-start.Latitude)*ratio,
			Longitude: start.Longitude + (end.Longitude-start.Longitude)*ratio,
		})
	}

	kept := points[:1]
	for _, p := range points[1:] {
		if Distance(kept[len(kept)-1], p) >= minSpacingMeters {
			kept = append(kept, p)
		}
	}
	return kept
}
