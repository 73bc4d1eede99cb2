// README: Quote search request/response shapes.
package quote

import (
	"time"

	"transferhub/internal/modules/pricing"
	"transferhub/internal/types"
)

// SearchRequest is one quote search: a pickup/dropoff pair, the outbound
// pickup time, an optional return time, and the currency the caller wants
// prices in.
type SearchRequest struct {
	Pickup         types.Point
	Dropoff        types.Point
	PickupAt       time.Time
	ReturnAt       *time.Time
	TargetCurrency string
}

// SupplierOffer is a quote sourced from a third-party supplier API, already
// expressed in the requested currency by the gateway.
type SupplierOffer struct {
	Supplier    string
	VehicleType string
	Passengers  int
	Total       types.Money
}

// SearchResult merges locally priced quotes with third-party offers, plus
// the trip-level routing context.
type SearchResult struct {
	ZoneName      string
	RoadMiles     float64
	StraightMiles float64
	DurationText  string

	Quotes         []pricing.Quote
	SupplierOffers []SupplierOffer
}
