// README: Price composition engine. Pure except for the final currency conversion.
package pricing

import (
	"context"
	"time"

	"transferhub/internal/modules/zone"
	"transferhub/internal/types"
)

// Converter expresses an amount in a target currency. Fail-open: it returns
// the input amount when no rate can be resolved.
type Converter interface {
	Convert(ctx context.Context, amount float64, from, to string) float64
}

// Engine composes a final price for one vehicle offering. All intermediate
// arithmetic stays unrounded; rounding to two decimals happens once, at
// output.
type Engine struct {
	converter Converter
}

func NewEngine(converter Converter) *Engine {
	return &Engine{converter: converter}
}

// Input carries everything one quote needs. Surge is the already-applicable
// record for the trip date, or nil. MarginPercent is the supplier margin, 0
// when absent. ReturnAt non-nil prices a return leg with the same zone and
// distance context.
type Input struct {
	Offering      VehicleOffering
	Zone          zone.Resolved
	RoadMiles     float64
	StraightMiles float64
	Surge         *SurgeCharge
	MarginPercent float64

	TargetCurrency string
	PickupAt       time.Time
	ReturnAt       *time.Time
}

// Price runs the composition: base, zone overage, fixed fees, night
// surcharge, surge, margin, optional return leg, then a single currency
// conversion and rounding.
func (e *Engine) Price(ctx context.Context, in Input) Quote {
	outbound, diag := legTotal(in, in.PickupAt)

	total := outbound
	if in.ReturnAt != nil {
		ret, _ := legTotal(in, *in.ReturnAt)
		total += ret
	}

	converted := e.converter.Convert(ctx, total, in.Offering.Currency, in.TargetCurrency)

	return Quote{
		OfferingID:  in.Offering.ID,
		SupplierID:  in.Offering.SupplierID,
		VehicleType: in.Offering.VehicleType,
		Brand:       in.Offering.Brand,
		Model:       in.Offering.Model,
		Passengers:  in.Offering.Passengers,
		HandBags:    in.Offering.HandBags,
		CheckBags:   in.Offering.CheckBags,

		Total: types.Money{Amount: types.Round2(converted), Currency: in.TargetCurrency},

		ZoneName:       in.Zone.Name,
		RoadMiles:      in.RoadMiles,
		StraightMiles:  in.StraightMiles,
		OverageApplied: diag.applied,
		OverageMiles:   diag.roadExcess,
	}
}

type overageDiag struct {
	applied    bool
	roadExcess float64
}

// legTotal composes one leg. Steps operate on the running total in order:
// base, overage, fixed fees, night, surge, margin.
func legTotal(in Input, at time.Time) (float64, overageDiag) {
	off := in.Offering
	total := off.BasePrice
	var diag overageDiag

	// Zone overage: the straight-line excess beyond the zone radius,
	// scaled by the road/straight ratio into billable road miles. A zero
	// straight-line distance means the ratio is undefined; treat as no
	// overage rather than an error.
	if off.PerMileRate > 0 && in.StraightMiles > 0 && in.StraightMiles > in.Zone.RadiusMiles {
		excessStraight := in.StraightMiles - in.Zone.RadiusMiles
		ratio := in.RoadMiles / in.StraightMiles
		excessRoad := excessStraight * ratio
		total += excessRoad * off.PerMileRate
		diag = overageDiag{applied: true, roadExcess: excessRoad}
	}

	total += off.VehicleTax + off.ParkingFee + off.TollFee + off.DriverCharge + off.DriverTips

	if off.NightPrice > 0 && isNight(at) {
		total += off.NightPrice
	}

	if in.Surge != nil {
		total += in.Surge.Amount
	}

	if in.MarginPercent > 0 {
		total += total * in.MarginPercent / 100
	}

	return total, diag
}

// isNight reports whether t falls in the [22:00, 06:00) surcharge window.
func isNight(t time.Time) bool {
	h := t.Hour()
	return h >= 22 || h < 6
}
