package geo

import "math"

// EarthRadiusMeters is the mean earth radius used for the spherical approximation.
const EarthRadiusMeters = 6371000.0

// DistanceMeters computes the great-circle distance in meters between two
// coordinates using the haversine formula. Symmetric, zero for identical points.
func DistanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// WithinRadius reports whether the point is inside the allowed radius of the
// reference point. A distance exactly equal to the radius counts as within.
func WithinRadius(lat, lng, refLat, refLng, radiusMeters float64) bool {
	return DistanceMeters(lat, lng, refLat, refLng) <= radiusMeters
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
