// Package maps resolves region names to coordinates.
package maps

import (
	"context"
	"errors"
	"strings"
)

var ErrNoResults = errors.New("no geocoding results")

type Geocoder interface {
	Geocode(ctx context.Context, request *GeocodeRequest) (*GeocodeResult, error)
}

type GeocodeRequest struct {
	Locality string
	State    string
	Country  string
	Region   string // ccTLD bias, e.g. "in"
}

// Address joins the non-empty parts into a single query line.
func (r *GeocodeRequest) Address() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{r.Locality, r.State, r.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

type GeocodeResult struct {
	PlaceID     string   `json:"placeId"`
	Address     string   `json:"formattedAddress"`
	Coordinates Location `json:"location"`
	Types       []string `json:"types"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Options struct {
	GoogleMapsAPIKey string
	Region           string
}

// New returns a Google geocoder, or nil when no API key is configured.
func New(opts Options) (Geocoder, error) {
	if opts.GoogleMapsAPIKey == "" {
		return nil, nil
	}
	return NewGoogleMapsProvider(opts.GoogleMapsAPIKey, opts.Region)
}
