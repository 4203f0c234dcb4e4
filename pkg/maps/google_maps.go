package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

type GoogleMapsProvider struct {
	client *maps.Client
	region string
}

func NewGoogleMapsProvider(apiKey, region string) (*GoogleMapsProvider, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return &GoogleMapsProvider{
		client: client,
		region: region,
	}, nil
}

func (g *GoogleMapsProvider) Geocode(ctx context.Context, request *GeocodeRequest) (*GeocodeResult, error) {
	region := request.Region
	if region == "" {
		region = g.region
	}

	resp, err := g.client.Geocode(ctx, buildGeocodingRequest(request, region))
	if err != nil {
		return nil, fmt.Errorf("geocoding failed: %w", err)
	}

	return firstResult(resp)
}

func buildGeocodingRequest(request *GeocodeRequest, region string) *maps.GeocodingRequest {
	req := &maps.GeocodingRequest{
		Address: request.Address(),
		Region:  region,
	}
	if request.Country != "" {
		req.Components = map[maps.Component]string{
			maps.ComponentCountry: request.Country,
		}
	}
	return req
}

func firstResult(resp []maps.GeocodingResult) (*GeocodeResult, error) {
	if len(resp) == 0 {
		return nil, ErrNoResults
	}

	result := resp[0]
	return &GeocodeResult{
		PlaceID: result.PlaceID,
		Address: result.FormattedAddress,
		Coordinates: Location{
			Latitude:  result.Geometry.Location.Lat,
			Longitude: result.Geometry.Location.Lng,
		},
		Types: result.Types,
	}, nil
}
