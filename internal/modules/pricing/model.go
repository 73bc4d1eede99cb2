// README: Pricing records consumed by the engine, and the priced quote output.
package pricing

import (
	"time"

	"transferhub/internal/types"
)

// VehicleOffering is one bookable vehicle product under a zone. Read-only
// input to the engine; one offering yields at most one priced quote.
type VehicleOffering struct {
	ID          types.ID
	ZoneID      types.ID
	SupplierID  types.ID
	VehicleType string
	Brand       string
	Model       string

	BasePrice   float64
	Currency    string
	PerMileRate float64

	// Fixed fee components, each 0 when absent.
	VehicleTax   float64
	ParkingFee   float64
	TollFee      float64
	DriverCharge float64
	DriverTips   float64

	// NightPrice is the flat surcharge for pickups in [22:00, 06:00).
	// 0 means the offering declares no night price.
	NightPrice float64

	Passengers int
	HandBags   int
	CheckBags  int
}

// SurgeCharge is a flat, date-windowed addition tied to a vehicle+supplier
// pair. The store returns only the record applicable to the trip date.
type SurgeCharge struct {
	VehicleID  types.ID
	SupplierID types.ID
	From       time.Time
	To         time.Time
	Amount     float64
}

// Quote is the priced output for one offering: the composed total converted
// to the requested currency, plus the diagnostics a price audit needs.
type Quote struct {
	OfferingID  types.ID
	SupplierID  types.ID
	VehicleType string
	Brand       string
	Model       string
	Passengers  int
	HandBags    int
	CheckBags   int

	Total types.Money

	ZoneName       string
	RoadMiles      float64
	StraightMiles  float64
	OverageApplied bool
	OverageMiles   float64
}
