package repository

import (
	"context"
	"database/sql"

	"github.com/tabletrek/table-reservation/internal/model"
)

// TableRepo provides data access to the restaurant_tables table and
// implements the table directory consumed by the booking service.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo returns a new TableRepo bound to the given database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

// DB exposes the underlying handle for callers that need to start
// transactions spanning multiple repositories.
func (r *TableRepo) DB() *sql.DB { return r.db }

// ListActiveTables returns the active tables of a restaurant seating
// at least minSeats guests.  Rows come back ordered by seat count and
// then ID so the selection policy's tie-break is deterministic.
func (r *TableRepo) ListActiveTables(ctx context.Context, restaurantID uint64, minSeats uint32) ([]model.Table, error) {
	const q = `SELECT id, restaurant_id, label, seats, is_active, created_at, updated_at
               FROM restaurant_tables
               WHERE restaurant_id = ? AND is_active = 1 AND seats >= ?
               ORDER BY seats ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, restaurantID, minSeats)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tables := make([]model.Table, 0)
	for rows.Next() {
		var t model.Table
		if err := rows.Scan(&t.ID, &t.RestaurantID, &t.Label, &t.Seats, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tables, nil
}

// Restaurant returns the full restaurant row.  ErrRestaurantNotFound
// is returned when the restaurant does not exist.
func (r *TableRepo) Restaurant(ctx context.Context, restaurantID uint64) (*model.Restaurant, error) {
	const q = `SELECT id, owner_id, name, address, city, opening_time, closing_time, created_at, updated_at
               FROM restaurants WHERE id = ?`
	var rest model.Restaurant
	err := r.db.QueryRowContext(ctx, q, restaurantID).Scan(&rest.ID, &rest.OwnerID, &rest.Name,
		&rest.Address, &rest.City, &rest.OpeningTime, &rest.ClosingTime, &rest.CreatedAt, &rest.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrRestaurantNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rest, nil
}

// RestaurantOwner resolves just the owner of a restaurant.  Handlers
// use it to authorize owner-only operations before invoking the
// booking service.
func (r *TableRepo) RestaurantOwner(ctx context.Context, restaurantID uint64) (uint64, error) {
	rest, err := r.Restaurant(ctx, restaurantID)
	if err != nil {
		return 0, err
	}
	return rest.OwnerID, nil
}
