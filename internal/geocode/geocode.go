package geocode

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kelvins/geocoder"

	"github.com/raincheck/raincheck/internal/geo"
)

// ErrGeocodingFailed indicates a location string could not be resolved to
// coordinates. This is fatal to a fetch cycle: without endpoints there is
// nothing to sample.
var ErrGeocodingFailed = errors.New("geocoding failed")

// Geocoder resolves free-form location text ("Copenhagen, Denmark") to a
// coordinate.
type Geocoder interface {
	Resolve(ctx context.Context, locationText string) (geo.Coordinate, error)
}

// GoogleGeocoder resolves locations through the Google Geocoding API.
type GoogleGeocoder struct{}

// NewGoogleGeocoder configures the underlying client with the given API key.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{}
}

// Resolve geocodes the location text. The underlying client does not accept
// a context; the ctx parameter keeps the interface honest for callers and
// future implementations.
func (g *GoogleGeocoder) Resolve(ctx context.Context, locationText string) (geo.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return geo.Coordinate{}, err
	}
	if strings.TrimSpace(locationText) == "" {
		return geo.Coordinate{}, fmt.Errorf("%w: empty location", ErrGeocodingFailed)
	}

	loc, err := geocoder.Geocoding(parseAddress(locationText))
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("%w: %q: %v", ErrGeocodingFailed, locationText, err)
	}

	return geo.Coordinate{Latitude: loc.Latitude, Longitude: loc.Longitude}, nil
}

// parseAddress maps "City, Country" (or a bare city) onto the structured
// address the client expects. Anything between the first and last comma is
// treated as a state/region.
func parseAddress(text string) geocoder.Address {
	parts := strings.Split(text, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	addr := geocoder.Address{City: parts[0]}
	if len(parts) > 1 {
		addr.Country = parts[len(parts)-1]
	}
	if len(parts) > 2 {
		addr.State = strings.Join(parts[1:len(parts)-1], ", ")
	}
	return addr
}
