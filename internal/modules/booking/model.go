// README: Booking aggregate and status definitions.
package booking

import (
	"time"

	"transferhub/internal/types"
)

type Status string

const (
	StatusNone      Status = "none"
	StatusRequested Status = "requested"
	StatusConfirmed Status = "confirmed"
	StatusAssigned  Status = "driver_assigned"
	StatusEnRoute   Status = "en_route"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Booking is a confirmed-or-pending transfer reservation carrying the quote
// it was created from. The priced amount is a snapshot; later rate or surge
// changes never reprice an existing booking.
type Booking struct {
	ID            types.ID
	AccountID     types.ID
	OfferingID    types.ID
	SupplierID    types.ID
	DriverID      *types.ID
	Status        Status
	StatusVersion int

	Pickup   types.Point
	Dropoff  types.Point
	PickupAt time.Time
	ReturnAt *time.Time

	ZoneName  string
	RoadMiles float64
	Total     types.Money

	CreatedAt    time.Time
	ConfirmedAt  *time.Time
	AssignedAt   *time.Time
	DepartedAt   *time.Time
	CompletedAt  *time.Time
	CancelledAt  *time.Time
	CancelReason *string
}

// Event is one audit-trail entry for a status transition.
type Event struct {
	ID         int64
	BookingID  types.ID
	FromStatus Status
	ToStatus   Status
	ActorType  string
	ActorID    *types.ID
	CreatedAt  time.Time
}

// AllowedTransitions represents the booking state flow as code.
var AllowedTransitions = map[Status][]Status{
	StatusRequested: {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusAssigned, StatusCancelled},
	StatusAssigned:  {StatusEnRoute, StatusCancelled},
	StatusEnRoute:   {StatusCompleted},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}
