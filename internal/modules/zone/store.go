// README: Zone store backed by PostgreSQL.
package zone

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// List returns every active zone. The resolver filters and scores; the
// store does not pre-select by location.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, radius_km, geometry
		FROM zones
		WHERE active`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var zones []Record
	for rows.Next() {
		var z Record
		if err := rows.Scan(&z.ID, &z.Name, &z.RadiusKm, &z.Geometry); err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}
