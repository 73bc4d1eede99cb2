package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"transferhub/internal/types"
)

// Place is a simplified geocoding result.
type Place struct {
	Address  string
	Location types.Point
}

// PlacesService resolves free-text location queries to coordinates.
// Used by the concierge flow to turn "the Hilton near JFK" into a point.
type PlacesService struct {
	client *maps.Client
}

// NewPlacesService creates a PlacesService with the given API key.
func NewPlacesService(apiKey string) (*PlacesService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &PlacesService{client: client}, nil
}

// Geocode resolves query to the best matching place.
func (s *PlacesService) Geocode(ctx context.Context, query string) (Place, error) {
	results, err := s.client.Geocode(ctx, &maps.GeocodingRequest{Address: query})
	if err != nil {
		return Place{}, fmt.Errorf("geocoding error: %w", err)
	}
	if len(results) == 0 {
		return Place{}, fmt.Errorf("no geocoding result for %q", query)
	}
	best := results[0]
	return Place{
		Address: best.FormattedAddress,
		Location: types.Point{
			Lat: best.Geometry.Location.Lat,
			Lng: best.Geometry.Location.Lng,
		},
	}, nil
}
