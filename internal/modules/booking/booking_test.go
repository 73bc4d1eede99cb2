// README: Booking service tests (state machine, flow, concurrent assignment).
package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"transferhub/internal/types"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		// happy-path forward transitions
		{StatusRequested, StatusConfirmed, true},
		{StatusConfirmed, StatusAssigned, true},
		{StatusAssigned, StatusEnRoute, true},
		{StatusEnRoute, StatusCompleted, true},
		// cancels from every non-terminal state except en_route
		{StatusRequested, StatusCancelled, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusAssigned, StatusCancelled, true},
		{StatusEnRoute, StatusCancelled, false},
		// invalid: terminal states have no outgoing transitions
		{StatusCompleted, StatusRequested, false},
		{StatusCancelled, StatusRequested, false},
		// invalid: skipping states
		{StatusRequested, StatusAssigned, false},
		{StatusRequested, StatusCompleted, false},
		{StatusConfirmed, StatusEnRoute, false},
	}
	for _, tc := range cases {
		got := CanTransition(tc.from, tc.to)
		if got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

// memStore is an in-memory Store with the same optimistic-concurrency
// semantics as the Postgres implementation.
type memStore struct {
	mu       sync.Mutex
	bookings map[types.ID]*Booking
	events   []Event
}

func newMemStore() *memStore {
	return &memStore{bookings: make(map[types.ID]*Booking)}
}

func (m *memStore) Create(_ context.Context, b *Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *memStore) Get(_ context.Context, id types.ID) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memStore) ListByAccount(_ context.Context, accountID types.ID) ([]Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Booking
	for _, b := range m.bookings {
		if b.AccountID == accountID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memStore) UpdateStatus(_ context.Context, id types.ID, from, to Status, version int, driverID *types.ID, reason *string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok || b.Status != from || b.StatusVersion != version {
		return false, nil
	}
	b.Status = to
	b.StatusVersion++
	if driverID != nil {
		b.DriverID = driverID
	}
	if reason != nil {
		b.CancelReason = reason
	}
	return true, nil
}

func (m *memStore) AppendEvent(_ context.Context, e *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, *e)
	return nil
}

func mustCreate(t *testing.T, svc *Service, account types.ID) types.ID {
	t.Helper()
	id, err := svc.Create(context.Background(), CreateCommand{
		AccountID:  account,
		OfferingID: "off1",
		SupplierID: "sup1",
		PickupAt:   time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC),
		ZoneName:   "City",
		RoadMiles:  12.5,
		Total:      types.Money{Amount: 120.50, Currency: "USD"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return id
}

func assertStatus(t *testing.T, svc *Service, id types.ID, want Status) {
	t.Helper()
	b, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if b.Status != want {
		t.Fatalf("status = %s, want %s", b.Status, want)
	}
}

func TestBookingFlowHappyPath(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	ctx := context.Background()

	id := mustCreate(t, svc, "acct1")
	assertStatus(t, svc, id, StatusRequested)

	if err := svc.Confirm(ctx, ConfirmCommand{BookingID: id}); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	assertStatus(t, svc, id, StatusConfirmed)

	if err := svc.Assign(ctx, AssignCommand{BookingID: id, DriverID: "d1"}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	assertStatus(t, svc, id, StatusAssigned)

	if err := svc.Depart(ctx, DepartCommand{BookingID: id}); err != nil {
		t.Fatalf("depart: %v", err)
	}
	assertStatus(t, svc, id, StatusEnRoute)

	if err := svc.Complete(ctx, CompleteCommand{BookingID: id}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	assertStatus(t, svc, id, StatusCompleted)

	// Each transition plus the create appends one event.
	if len(store.events) != 5 {
		t.Errorf("events = %d, want 5", len(store.events))
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()

	cases := []struct {
		name string
		cmd  CreateCommand
	}{
		{"missing account", CreateCommand{OfferingID: "o", PickupAt: time.Now(), Total: types.Money{Amount: 1, Currency: "USD"}}},
		{"missing offering", CreateCommand{AccountID: "a", PickupAt: time.Now(), Total: types.Money{Amount: 1, Currency: "USD"}}},
		{"missing pickup time", CreateCommand{AccountID: "a", OfferingID: "o", Total: types.Money{Amount: 1, Currency: "USD"}}},
		{"negative total", CreateCommand{AccountID: "a", OfferingID: "o", PickupAt: time.Now(), Total: types.Money{Amount: -1, Currency: "USD"}}},
		{"missing currency", CreateCommand{AccountID: "a", OfferingID: "o", PickupAt: time.Now(), Total: types.Money{Amount: 1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tc.cmd); err != ErrBadRequest {
				t.Errorf("Create() error = %v, want ErrBadRequest", err)
			}
		})
	}
}

func TestInvalidTransitionRejected(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()

	id := mustCreate(t, svc, "acct2")
	// Cannot assign a driver before confirmation.
	if err := svc.Assign(ctx, AssignCommand{BookingID: id, DriverID: "d1"}); err != ErrInvalidState {
		t.Errorf("Assign() error = %v, want ErrInvalidState", err)
	}
	// Cannot complete before departure.
	if err := svc.Complete(ctx, CompleteCommand{BookingID: id}); err != ErrInvalidState {
		t.Errorf("Complete() error = %v, want ErrInvalidState", err)
	}
}

func TestCancelRecordsReason(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	ctx := context.Background()

	id := mustCreate(t, svc, "acct3")
	if err := svc.Cancel(ctx, CancelCommand{BookingID: id, ActorType: "account", Reason: "plans changed"}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	b, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if b.Status != StatusCancelled {
		t.Errorf("status = %s, want cancelled", b.Status)
	}
	if b.CancelReason == nil || *b.CancelReason != "plans changed" {
		t.Errorf("CancelReason = %v, want \"plans changed\"", b.CancelReason)
	}
}

// Two suppliers racing to assign a driver: exactly one wins, the other gets
// a conflict or an invalid-state error depending on interleaving.
func TestAssignSameTime(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()

	id := mustCreate(t, svc, "acct4")
	if err := svc.Confirm(ctx, ConfirmCommand{BookingID: id}); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	driverIDs := []types.ID{"d1", "d2", "d3"}
	errs := make(chan error, len(driverIDs))
	start := make(chan struct{})
	var wg sync.WaitGroup

	for _, driverID := range driverIDs {
		wg.Add(1)
		go func(did types.ID) {
			defer wg.Done()
			<-start
			errs <- svc.Assign(ctx, AssignCommand{BookingID: id, DriverID: did})
		}(driverID)
	}

	close(start)
	wg.Wait()
	close(errs)

	wins := 0
	for err := range errs {
		switch err {
		case nil:
			wins++
		case ErrConflict, ErrInvalidState:
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("winning assignments = %d, want exactly 1", wins)
	}
	assertStatus(t, svc, id, StatusAssigned)
}
