package itinerary

import "math"

// EarthRadiusKm is the mean Earth radius used for great-circle distances
const EarthRadiusKm = 6371.0

// GeoPoint is a latitude/longitude pair in decimal degrees
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the point lies within the latitude/longitude ranges
func (p GeoPoint) Valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}

// DistanceKm returns the haversine great-circle distance between a and b in kilometers
func DistanceKm(a, b GeoPoint) float64 {
	if a == b {
		return 0
	}

	lat1 := a.Latitude * math.Pi / 180.0
	lat2 := b.Latitude * math.Pi / 180.0
	dLat := lat2 - lat1
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180.0

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}
