// README: Zone resolver selects the single governing zone for a trip.
package zone

import (
	"context"
	"errors"
	"log"
	"sort"

	"transferhub/internal/geo"
	"transferhub/internal/maps"
	"transferhub/internal/types"
)

// ErrNoZoneFound means no zone polygon contains the pickup point. Fatal for
// the request; surfaced to the caller as "no coverage for this route".
var ErrNoZoneFound = errors.New("no zone covers the pickup point")

// Resolver picks the governing zone for a pickup/dropoff pair. Pickup
// containment is a hard filter: a trip must start inside a zone's
// jurisdiction. Overlap between surviving candidates is broken by an
// additive score preferring tight geometric fit and smaller zones.
type Resolver struct {
	roads maps.DistanceProvider
}

func NewResolver(roads maps.DistanceProvider) *Resolver {
	return &Resolver{roads: roads}
}

const (
	bothInsideBonus   = 100.0
	withinRadiusBonus = 80.0
	proximityCeiling  = 50.0
	tightnessCeiling  = 30.0
)

// Resolve scores every candidate zone and returns the winner. Zones with
// malformed geometry are skipped, not fatal. Road distance lookups fan out
// concurrently, one per candidate; an unavailable routing backend falls back
// to straight-line distance.
func (r *Resolver) Resolve(ctx context.Context, zones []Record, pickup, dropoff types.Point) (Resolved, error) {
	type candidate struct {
		rec  Record
		ring []types.Point
	}

	var candidates []candidate
	for _, z := range zones {
		ring, err := z.outerRing()
		if err != nil {
			log.Printf("zone: skipping candidate: %v", err)
			continue
		}
		if !geo.PointInPolygon(pickup, ring) {
			continue
		}
		candidates = append(candidates, candidate{rec: z, ring: ring})
	}
	if len(candidates) == 0 {
		return Resolved{}, ErrNoZoneFound
	}

	results := make(chan Resolved, len(candidates))
	for _, c := range candidates {
		go func(c candidate) {
			results <- r.score(ctx, c.rec, c.ring, pickup, dropoff)
		}(c)
	}

	scored := make([]Resolved, 0, len(candidates))
	for range candidates {
		scored = append(scored, <-results)
	}

	// Highest score wins; ties break by ascending zone ID so resolution is
	// deterministic across runs.
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].ZoneID < scored[j].ZoneID
	})
	return scored[0], nil
}

func (r *Resolver) score(ctx context.Context, rec Record, ring []types.Point, pickup, dropoff types.Point) Resolved {
	centroid := geo.Centroid(ring)
	radiusMiles := rec.RadiusKm * geo.MilesPerKm
	straightMiles := geo.Haversine(centroid, dropoff, geo.Miles)

	roadMiles := straightMiles
	durationText := ""
	leg, err := r.roads.Distance(ctx, centroid, dropoff)
	if err != nil {
		log.Printf("zone %s: road distance fallback to straight-line: %v", rec.ID, err)
	} else {
		roadMiles = leg.Miles
		durationText = leg.DurationText
	}

	res := Resolved{
		ZoneID:        rec.ID,
		Name:          rec.Name,
		RadiusMiles:   radiusMiles,
		Centroid:      centroid,
		PickupInside:  true,
		DropoffInside: geo.PointInPolygon(dropoff, ring),
		RoadMiles:     roadMiles,
		DurationText:  durationText,
	}

	score := 0.0
	if res.DropoffInside {
		score += bothInsideBonus
	}
	if straightMiles <= radiusMiles {
		score += withinRadiusBonus
	}
	if d := proximityCeiling - roadMiles; d > 0 {
		score += d
	}
	if d := tightnessCeiling - rec.RadiusKm/10; d > 0 {
		score += d
	}
	res.Score = score
	return res
}
