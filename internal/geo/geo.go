// Package geo provides the distance math behind the nearby-families map
// feed. Indexing is out of scope; callers filter linearly.
package geo

import "math"

// earthRadiusKm is the mean Earth radius.
const earthRadiusKm = 6371.0

// Haversine returns the great-circle distance in kilometers between two
// points given in decimal degrees.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

// WithinRadius reports whether the target point lies within radiusKm of the
// origin.
func WithinRadius(originLat, originLng, targetLat, targetLng, radiusKm float64) bool {
	return Haversine(originLat, originLng, targetLat, targetLng) <= radiusKm
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
