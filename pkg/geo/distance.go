package geo

import "math"

const (
	// earthRadiusKm is the mean Earth radius used by the haversine
	// approximation.
	earthRadiusKm = 6371.0

	// kmPerMile converts caller-supplied mile radii to kilometers.
	kmPerMile = 1.60934
)

// Distance returns the great-circle distance in kilometers between two
// coordinates using the haversine formula (2R*asin form).
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLon := degreesToRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degreesToRadians(lat1))*math.Cos(degreesToRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

// MilesToKm converts a radius in miles to kilometers.
func MilesToKm(miles float64) float64 {
	return miles * kmPerMile
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
