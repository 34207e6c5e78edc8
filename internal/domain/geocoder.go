package domain

import "context"

// GeocodingResult contains the place details returned by a reverse-geocoding
// provider. An empty FormattedAddress means the provider had no match.
type GeocodingResult struct {
	FormattedAddress string
	Province         string
	City             string
	District         string
	Town             string
}

// Geocoder resolves coordinates to place details.
type Geocoder interface {
	// ReverseGeocode converts coordinates to an address. Implementations
	// must honor ctx deadlines; callers treat failures as "no address".
	ReverseGeocode(ctx context.Context, lat, lon float64) (GeocodingResult, error)
}
