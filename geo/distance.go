package geo

import (
	"context"
	"math"
)

const earthRadiusKm = 6371.0

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RouteDistancer returns the travel distance in kilometers between two
// points. Implementations may call out to a routing provider and can fail
// per call; callers decide whether a failure is fatal (pricing) or skippable
// (matching).
type RouteDistancer interface {
	DistanceKm(ctx context.Context, from, to Point) (float64, error)
}

// HaversineProvider computes great-circle distance locally. It is the
// offline default when no routing API key is configured, and it never fails.
type HaversineProvider struct{}

func (HaversineProvider) DistanceKm(_ context.Context, from, to Point) (float64, error) {
	return Haversine(from.Lat, from.Lng, to.Lat, to.Lng), nil
}

// Haversine calculates the distance between two points in kilometers
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}
