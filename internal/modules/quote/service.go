// README: Quote orchestrator; resolves the zone once and fans pricing out per offering.
package quote

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"transferhub/internal/geo"
	"transferhub/internal/maps"
	"transferhub/internal/modules/pricing"
	"transferhub/internal/modules/zone"
	"transferhub/internal/types"
)

var ErrBadRequest = errors.New("bad request")

// ZoneSource supplies the candidate zones for a resolution pass.
type ZoneSource interface {
	List(ctx context.Context) ([]zone.Record, error)
}

// Catalog supplies the pricing records the engine consumes, already filtered
// by zone, supplier and date. The orchestrator never composes prices itself.
type Catalog interface {
	ListOfferingsByZone(ctx context.Context, zoneID types.ID) ([]pricing.VehicleOffering, error)
	SurgeFor(ctx context.Context, vehicleID, supplierID types.ID, date time.Time) (*pricing.SurgeCharge, error)
	MarginFor(ctx context.Context, supplierID types.ID) (float64, error)
}

// Service runs one search end to end: resolve the governing zone, price
// every offering under it in parallel, fetch third-party offers in parallel,
// merge.
type Service struct {
	zones     ZoneSource
	resolver  *zone.Resolver
	catalog   Catalog
	engine    *pricing.Engine
	roads     maps.DistanceProvider
	suppliers []SupplierGateway
}

func NewService(zones ZoneSource, resolver *zone.Resolver, catalog Catalog, engine *pricing.Engine, roads maps.DistanceProvider, suppliers []SupplierGateway) *Service {
	return &Service{
		zones:     zones,
		resolver:  resolver,
		catalog:   catalog,
		engine:    engine,
		roads:     roads,
		suppliers: suppliers,
	}
}

// Search resolves the zone and prices every offering under it. Individual
// offering failures are excluded from the result set; only the total absence
// of a governing zone fails the request.
func (s *Service) Search(ctx context.Context, req SearchRequest) (SearchResult, error) {
	if req.TargetCurrency == "" || req.PickupAt.IsZero() {
		return SearchResult{}, ErrBadRequest
	}

	zones, err := s.zones.List(ctx)
	if err != nil {
		return SearchResult{}, err
	}

	resolved, err := s.resolver.Resolve(ctx, zones, req.Pickup, req.Dropoff)
	if err != nil {
		return SearchResult{}, err
	}

	straightMiles := geo.Haversine(req.Pickup, req.Dropoff, geo.Miles)
	roadMiles := straightMiles
	durationText := resolved.DurationText
	if leg, err := s.roads.Distance(ctx, req.Pickup, req.Dropoff); err != nil {
		log.Printf("quote: trip road distance fallback to straight-line: %v", err)
	} else {
		roadMiles = leg.Miles
		durationText = leg.DurationText
	}

	// Third-party offers are independent of local pricing; fetch them while
	// the offerings are being priced.
	offersCh := make(chan []SupplierOffer, len(s.suppliers))
	for _, g := range s.suppliers {
		go func(g SupplierGateway) {
			offers, err := g.Fetch(ctx, req)
			if err != nil {
				log.Printf("quote: supplier %s unavailable: %v", g.Name(), err)
				offersCh <- nil
				return
			}
			offersCh <- offers
		}(g)
	}

	offerings, err := s.catalog.ListOfferingsByZone(ctx, resolved.ZoneID)
	if err != nil {
		return SearchResult{}, err
	}

	quotesCh := make(chan *pricing.Quote, len(offerings))
	for _, off := range offerings {
		go func(off pricing.VehicleOffering) {
			q, err := s.priceOffering(ctx, off, resolved, roadMiles, straightMiles, req)
			if err != nil {
				log.Printf("quote: skipping offering %s: %v", off.ID, err)
				quotesCh <- nil
				return
			}
			quotesCh <- q
		}(off)
	}

	result := SearchResult{
		ZoneName:      resolved.Name,
		RoadMiles:     roadMiles,
		StraightMiles: straightMiles,
		DurationText:  durationText,
	}
	for range offerings {
		if q := <-quotesCh; q != nil {
			result.Quotes = append(result.Quotes, *q)
		}
	}
	for range s.suppliers {
		result.SupplierOffers = append(result.SupplierOffers, <-offersCh...)
	}

	sort.Slice(result.Quotes, func(i, j int) bool {
		return result.Quotes[i].Total.Amount < result.Quotes[j].Total.Amount
	})
	return result, nil
}

func (s *Service) priceOffering(ctx context.Context, off pricing.VehicleOffering, resolved zone.Resolved, roadMiles, straightMiles float64, req SearchRequest) (*pricing.Quote, error) {
	if off.BasePrice <= 0 || off.Currency == "" {
		return nil, errors.New("malformed offering record")
	}

	surge, err := s.catalog.SurgeFor(ctx, off.ID, off.SupplierID, req.PickupAt)
	if err != nil {
		return nil, err
	}
	margin, err := s.catalog.MarginFor(ctx, off.SupplierID)
	if err != nil {
		return nil, err
	}

	q := s.engine.Price(ctx, pricing.Input{
		Offering:       off,
		Zone:           resolved,
		RoadMiles:      roadMiles,
		StraightMiles:  straightMiles,
		Surge:          surge,
		MarginPercent:  margin,
		TargetCurrency: req.TargetCurrency,
		PickupAt:       req.PickupAt,
		ReturnAt:       req.ReturnAt,
	})
	return &q, nil
}
