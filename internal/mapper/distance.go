package mapper

import (
	"math"

	"github.com/mohammed-shakir/parkmap/internal/core/model"
)

const earthRadiusM = 6371000.0

// Haversine returns the great-circle distance in metres.
func Haversine(a, b model.GeoCoordinate) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return earthRadiusM * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// DegreesAround converts a radius in metres to lat/lon deltas at c.
func DegreesAround(c model.GeoCoordinate, metres float64) (latDelta, lonDelta float64) {
	latDelta = metres / 111320.0
	cos := math.Cos(toRad(c.Lat))
	if cos < 1e-9 {
		return latDelta, 180
	}
	return latDelta, metres / (111320.0 * cos)
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
