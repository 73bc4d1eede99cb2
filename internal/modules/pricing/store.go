// README: Pricing store backed by PostgreSQL.
package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"transferhub/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// ListOfferingsByZone returns every active vehicle offering priced under a
// zone.
func (s *Store) ListOfferingsByZone(ctx context.Context, zoneID types.ID) ([]VehicleOffering, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, zone_id, supplier_id, vehicle_type, brand, model,
		       base_price, currency, per_mile_rate,
		       vehicle_tax, parking_fee, toll_fee, driver_charge, driver_tips,
		       night_price, passengers, hand_bags, check_bags
		FROM vehicle_offerings
		WHERE zone_id = $1 AND active`, string(zoneID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offerings []VehicleOffering
	for rows.Next() {
		var o VehicleOffering
		if err := rows.Scan(
			&o.ID, &o.ZoneID, &o.SupplierID, &o.VehicleType, &o.Brand, &o.Model,
			&o.BasePrice, &o.Currency, &o.PerMileRate,
			&o.VehicleTax, &o.ParkingFee, &o.TollFee, &o.DriverCharge, &o.DriverTips,
			&o.NightPrice, &o.Passengers, &o.HandBags, &o.CheckBags,
		); err != nil {
			return nil, err
		}
		offerings = append(offerings, o)
	}
	return offerings, rows.Err()
}

// SurgeFor returns the surge charge whose date window covers the trip date
// for a vehicle+supplier pair, or nil when none applies. At most one record
// is expected per (vehicle, supplier, date).
func (s *Store) SurgeFor(ctx context.Context, vehicleID, supplierID types.ID, date time.Time) (*SurgeCharge, error) {
	row := s.db.QueryRow(ctx, `
		SELECT vehicle_id, supplier_id, valid_from, valid_to, amount
		FROM surge_charges
		WHERE vehicle_id = $1 AND supplier_id = $2
		  AND valid_from <= $3::date AND valid_to >= $3::date
		LIMIT 1`,
		string(vehicleID), string(supplierID), date)

	var sc SurgeCharge
	err := row.Scan(&sc.VehicleID, &sc.SupplierID, &sc.From, &sc.To, &sc.Amount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sc, nil
}

// MarginFor returns the active percentage margin for a supplier, 0 when
// absent.
func (s *Store) MarginFor(ctx context.Context, supplierID types.ID) (float64, error) {
	row := s.db.QueryRow(ctx, `
		SELECT percentage
		FROM supplier_margins
		WHERE supplier_id = $1 AND active
		LIMIT 1`, string(supplierID))

	var pct float64
	err := row.Scan(&pct)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return pct, nil
}
