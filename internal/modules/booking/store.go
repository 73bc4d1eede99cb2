// README: Booking store backed by PostgreSQL.
package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"transferhub/internal/types"
)

type PgStore struct {
	db *pgxpool.Pool
}

func NewPgStore(db *pgxpool.Pool) *PgStore {
	return &PgStore{db: db}
}

func (s *PgStore) Create(ctx context.Context, b *Booking) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO bookings (
			id, account_id, offering_id, supplier_id, driver_id,
			status, status_version,
			pickup_lat, pickup_lng, dropoff_lat, dropoff_lng,
			pickup_at, return_at,
			zone_name, road_miles, total_amount, total_currency,
			created_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7,
			$8, $9, $10, $11,
			$12, $13,
			$14, $15, $16, $17,
			$18
		)`,
		string(b.ID),
		string(b.AccountID),
		string(b.OfferingID),
		string(b.SupplierID),
		toStringPtr(b.DriverID),
		string(b.Status),
		b.StatusVersion,
		b.Pickup.Lat, b.Pickup.Lng,
		b.Dropoff.Lat, b.Dropoff.Lng,
		b.PickupAt, b.ReturnAt,
		b.ZoneName, b.RoadMiles,
		b.Total.Amount, b.Total.Currency,
		b.CreatedAt,
	)
	return err
}

func (s *PgStore) Get(ctx context.Context, id types.ID) (*Booking, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, account_id, offering_id, supplier_id, driver_id,
		       status, status_version,
		       pickup_lat, pickup_lng, dropoff_lat, dropoff_lng,
		       pickup_at, return_at,
		       zone_name, road_miles, total_amount, total_currency,
		       created_at, confirmed_at, assigned_at, departed_at,
		       completed_at, cancelled_at, cancellation_reason
		FROM bookings
		WHERE id = $1`, string(id),
	)

	var b Booking
	var driverID, cancelReason sql.NullString
	var returnAt, confirmedAt, assignedAt, departedAt, completedAt, cancelledAt sql.NullTime

	err := row.Scan(
		&b.ID, &b.AccountID, &b.OfferingID, &b.SupplierID, &driverID,
		&b.Status, &b.StatusVersion,
		&b.Pickup.Lat, &b.Pickup.Lng, &b.Dropoff.Lat, &b.Dropoff.Lng,
		&b.PickupAt, &returnAt,
		&b.ZoneName, &b.RoadMiles, &b.Total.Amount, &b.Total.Currency,
		&b.CreatedAt, &confirmedAt, &assignedAt, &departedAt,
		&completedAt, &cancelledAt, &cancelReason,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if driverID.Valid {
		d := types.ID(driverID.String)
		b.DriverID = &d
	}
	if cancelReason.Valid {
		b.CancelReason = &cancelReason.String
	}
	b.ReturnAt = toTimePtr(returnAt)
	b.ConfirmedAt = toTimePtr(confirmedAt)
	b.AssignedAt = toTimePtr(assignedAt)
	b.DepartedAt = toTimePtr(departedAt)
	b.CompletedAt = toTimePtr(completedAt)
	b.CancelledAt = toTimePtr(cancelledAt)
	return &b, nil
}

func (s *PgStore) ListByAccount(ctx context.Context, accountID types.ID) ([]Booking, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, status, pickup_at, zone_name, total_amount, total_currency
		FROM bookings
		WHERE account_id = $1
		ORDER BY created_at DESC`, string(accountID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []Booking
	for rows.Next() {
		b := Booking{AccountID: accountID}
		if err := rows.Scan(&b.ID, &b.Status, &b.PickupAt, &b.ZoneName, &b.Total.Amount, &b.Total.Currency); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// UpdateStatus applies a transition guarded by the current status and
// version; returns false when another writer got there first.
func (s *PgStore) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int, driverID *types.ID, reason *string) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE bookings
		SET status = $1,
		    status_version = status_version + 1,
		    driver_id = COALESCE($2, driver_id),
		    cancellation_reason = COALESCE($3, cancellation_reason),
		    confirmed_at = CASE WHEN $1 = 'confirmed' THEN NOW() ELSE confirmed_at END,
		    assigned_at = CASE WHEN $1 = 'driver_assigned' THEN NOW() ELSE assigned_at END,
		    departed_at = CASE WHEN $1 = 'en_route' THEN NOW() ELSE departed_at END,
		    completed_at = CASE WHEN $1 = 'completed' THEN NOW() ELSE completed_at END,
		    cancelled_at = CASE WHEN $1 = 'cancelled' THEN NOW() ELSE cancelled_at END
		WHERE id = $4 AND status = $5 AND status_version = $6`,
		string(to),
		toStringPtr(driverID),
		reason,
		string(id),
		string(from),
		version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PgStore) AppendEvent(ctx context.Context, e *Event) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO booking_events (booking_id, from_status, to_status, actor_type, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		string(e.BookingID),
		string(e.FromStatus),
		string(e.ToStatus),
		e.ActorType,
		toStringPtr(e.ActorID),
		e.CreatedAt,
	)
	return err
}

func toStringPtr(id *types.ID) *string {
	if id == nil {
		return nil
	}
	v := string(*id)
	return &v
}

func toTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
