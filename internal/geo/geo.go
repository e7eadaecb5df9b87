package geo

import "math"

// UnknownDistance is the sentinel for listings without usable coordinates.
const UnknownDistance = 9999

const earthRadiusKm = 6371

// DistanceKm returns the great-circle distance between two points in whole
// kilometers, rounded down. Any zero coordinate is treated as missing.
func DistanceKm(lat1, lon1, lat2, lon2 float64) int {
	if lat1 == 0 || lon1 == 0 || lat2 == 0 || lon2 == 0 {
		return UnknownDistance
	}
	dLat := deg2rad(lat2 - lat1)
	dLon := deg2rad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(lat1))*math.Cos(deg2rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return int(math.Floor(earthRadiusKm * c))
}

func deg2rad(deg float64) float64 { return deg * (math.Pi / 180) }
