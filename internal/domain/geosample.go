package domain

import (
	"math"
	"math/rand/v2"
)

// kmPerDegLat is the length of one degree of latitude, roughly constant.
const kmPerDegLat = 111.32

// RandomPointInRadius returns a point uniformly distributed over the disk of
// radius radiusKm around (lat, lon). Uniformity over the disk (rather than
// clustering at the center) comes from the square-root radius transform:
// r = R·√u, θ = 2π·v. Longitude degrees shrink with latitude, so the east
// offset is corrected by cos(lat).
func RandomPointInRadius(lat, lon, radiusKm float64, rnd *rand.Rand) LatLng {
	kmPerDegLon := kmPerDegLat * math.Cos(lat*math.Pi/180)

	r := radiusKm * math.Sqrt(rnd.Float64())
	theta := 2 * math.Pi * rnd.Float64()

	dLat := r * math.Cos(theta) / kmPerDegLat
	dLon := r * math.Sin(theta) / kmPerDegLon

	return LatLng{Latitude: lat + dLat, Longitude: lon + dLon}
}

// DistanceKm returns the approximate flat-earth distance between two points,
// valid for the small radii this package samples over.
func DistanceKm(a, b LatLng) float64 {
	kmPerDegLon := kmPerDegLat * math.Cos(a.Latitude*math.Pi/180)
	dy := (b.Latitude - a.Latitude) * kmPerDegLat
	dx := (b.Longitude - a.Longitude) * kmPerDegLon
	return math.Hypot(dx, dy)
}
