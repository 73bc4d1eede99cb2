// README: Pricing zone records and the per-request resolution result.
package zone

import (
	"encoding/json"
	"fmt"

	"transferhub/internal/types"
)

// Record is a pricing zone as loaded from storage: an authoritative polygon
// boundary plus a declared circular radius in kilometres. Read-only to the
// resolver.
type Record struct {
	ID       types.ID
	Name     string
	RadiusKm float64
	// Geometry is JSON rings of [lat,lng] pairs. Multi-ring zones are
	// reduced to their first ring; union membership over all rings is a
	// known gap.
	Geometry []byte
}

// Resolved is the ephemeral outcome of one resolution pass. It lives for a
// single search request and is never persisted.
type Resolved struct {
	ZoneID        types.ID
	Name          string
	RadiusMiles   float64
	Centroid      types.Point
	PickupInside  bool
	DropoffInside bool
	// RoadMiles is the routed distance from the zone centroid to the
	// dropoff, or the straight-line distance when routing was unavailable.
	RoadMiles    float64
	DurationText string
	Score        float64
}

// outerRing parses the record geometry and returns the first ring.
func (r Record) outerRing() ([]types.Point, error) {
	if len(r.Geometry) == 0 {
		return nil, fmt.Errorf("zone %s: missing geometry", r.ID)
	}
	var rings [][][2]float64
	if err := json.Unmarshal(r.Geometry, &rings); err != nil {
		return nil, fmt.Errorf("zone %s: malformed geometry: %w", r.ID, err)
	}
	if len(rings) == 0 || len(rings[0]) < 3 {
		return nil, fmt.Errorf("zone %s: geometry needs at least one ring of 3 points", r.ID)
	}
	ring := make([]types.Point, len(rings[0]))
	for i, pair := range rings[0] {
		ring[i] = types.Point{Lat: pair[0], Lng: pair[1]}
	}
	return ring, nil
}
