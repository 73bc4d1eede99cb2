// README: Booking service implements state transitions and persistence.
package booking

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"transferhub/internal/types"
)

var (
	ErrInvalidState = errors.New("invalid state transition")
	ErrNotFound     = errors.New("booking not found")
	ErrConflict     = errors.New("booking state conflict")
	ErrBadRequest   = errors.New("bad request")
)

// Store is the persistence contract the service drives. UpdateStatus must be
// atomic on (id, from-status, version) so concurrent transitions conflict
// instead of double-applying.
type Store interface {
	Create(ctx context.Context, b *Booking) error
	Get(ctx context.Context, id types.ID) (*Booking, error)
	ListByAccount(ctx context.Context, accountID types.ID) ([]Booking, error)
	UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int, driverID *types.ID, reason *string) (bool, error)
	AppendEvent(ctx context.Context, e *Event) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

type CreateCommand struct {
	AccountID  types.ID
	OfferingID types.ID
	SupplierID types.ID
	Pickup     types.Point
	Dropoff    types.Point
	PickupAt   time.Time
	ReturnAt   *time.Time
	ZoneName   string
	RoadMiles  float64
	Total      types.Money
}

type ConfirmCommand struct {
	BookingID types.ID
}

type AssignCommand struct {
	BookingID types.ID
	DriverID  types.ID
}

type DepartCommand struct {
	BookingID types.ID
}

type CompleteCommand struct {
	BookingID types.ID
}

type CancelCommand struct {
	BookingID types.ID
	ActorType string
	Reason    string
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (types.ID, error) {
	if cmd.AccountID == "" || cmd.OfferingID == "" || cmd.PickupAt.IsZero() {
		return "", ErrBadRequest
	}
	if cmd.Total.Amount < 0 || cmd.Total.Currency == "" {
		return "", ErrBadRequest
	}

	id := newID()
	now := time.Now()
	b := &Booking{
		ID:            id,
		AccountID:     cmd.AccountID,
		OfferingID:    cmd.OfferingID,
		SupplierID:    cmd.SupplierID,
		Status:        StatusRequested,
		StatusVersion: 0,
		Pickup:        cmd.Pickup,
		Dropoff:       cmd.Dropoff,
		PickupAt:      cmd.PickupAt,
		ReturnAt:      cmd.ReturnAt,
		ZoneName:      cmd.ZoneName,
		RoadMiles:     cmd.RoadMiles,
		Total:         cmd.Total,
		CreatedAt:     now,
	}
	if err := s.store.Create(ctx, b); err != nil {
		return "", err
	}
	_ = s.store.AppendEvent(ctx, &Event{
		BookingID:  id,
		FromStatus: StatusNone,
		ToStatus:   StatusRequested,
		ActorType:  "account",
		ActorID:    &cmd.AccountID,
		CreatedAt:  now,
	})
	return id, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Booking, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) ListByAccount(ctx context.Context, accountID types.ID) ([]Booking, error) {
	return s.store.ListByAccount(ctx, accountID)
}

func (s *Service) Confirm(ctx context.Context, cmd ConfirmCommand) error {
	return s.transition(ctx, cmd.BookingID, StatusConfirmed, "system", nil, nil)
}

func (s *Service) Assign(ctx context.Context, cmd AssignCommand) error {
	if cmd.DriverID == "" {
		return ErrBadRequest
	}
	return s.transition(ctx, cmd.BookingID, StatusAssigned, "supplier", &cmd.DriverID, nil)
}

func (s *Service) Depart(ctx context.Context, cmd DepartCommand) error {
	return s.transition(ctx, cmd.BookingID, StatusEnRoute, "driver", nil, nil)
}

func (s *Service) Complete(ctx context.Context, cmd CompleteCommand) error {
	return s.transition(ctx, cmd.BookingID, StatusCompleted, "driver", nil, nil)
}

func (s *Service) Cancel(ctx context.Context, cmd CancelCommand) error {
	reason := cmd.Reason
	return s.transition(ctx, cmd.BookingID, StatusCancelled, cmd.ActorType, nil, &reason)
}

func (s *Service) transition(ctx context.Context, id types.ID, to Status, actorType string, driverID *types.ID, reason *string) error {
	b, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !CanTransition(b.Status, to) {
		return ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, b.ID, b.Status, to, b.StatusVersion, driverID, reason)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	actorID := driverID
	if actorType == "account" {
		actorID = &b.AccountID
	}
	_ = s.store.AppendEvent(ctx, &Event{
		BookingID:  b.ID,
		FromStatus: b.Status,
		ToStatus:   to,
		ActorType:  actorType,
		ActorID:    actorID,
		CreatedAt:  time.Now(),
	})
	return nil
}

func newID() types.ID {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return types.ID(hex.EncodeToString(buf))
}
