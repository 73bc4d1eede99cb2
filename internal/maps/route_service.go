package maps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"googlemaps.github.io/maps"

	"transferhub/internal/geo"
	"transferhub/internal/types"
)

// ErrUnavailable means the routing backend could not produce a distance.
// Callers fall back to straight-line distance; this is never fatal.
var ErrUnavailable = errors.New("road distance unavailable")

// Leg is a routed driving leg between two coordinates.
type Leg struct {
	Miles        float64
	DurationText string
}

// DistanceProvider returns road distance and travel duration between two
// points, or ErrUnavailable.
type DistanceProvider interface {
	Distance(ctx context.Context, from, to types.Point) (Leg, error)
}

// RouteService implements DistanceProvider over the Google Directions API.
type RouteService struct {
	client  *maps.Client
	timeout time.Duration
}

// NewRouteService creates a RouteService with the given API key. Each request
// is bounded by timeout; a timed-out call surfaces as ErrUnavailable.
func NewRouteService(apiKey string, timeout time.Duration) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client, timeout: timeout}, nil
}

// Distance queries the Directions API in driving mode.
func (s *RouteService) Distance(ctx context.Context, from, to types.Point) (Leg, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	r := &maps.DirectionsRequest{
		Origin:      fmt.Sprintf("%f,%f", from.Lat, from.Lng),
		Destination: fmt.Sprintf("%f,%f", to.Lat, to.Lng),
		Mode:        maps.TravelModeDriving,
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return Leg{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return Leg{}, ErrUnavailable
	}

	leg := routes[0].Legs[0]
	miles := float64(leg.Distance.Meters) / 1000.0 * geo.MilesPerKm
	return Leg{Miles: miles, DurationText: leg.Duration.String()}, nil
}
