package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/tabletrek/table-reservation/internal/model"
)

// BookingRepo provides CRUD operations for bookings and implements
// the reservation store consumed by the booking service.  All
// timestamp columns are stored as UTC DATETIMEs; the DSN's loc=UTC
// keeps scanned values consistent.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, restaurant_id, user_id, table_id, party_size, start_time, end_time, status, created_at, updated_at`

// dbTime formats a timestamp the way MySQL DATETIME columns expect.
func dbTime(t time.Time) string { return t.UTC().Format("2006-01-02 15:04:05") }

func scanBooking(scan func(dest ...any) error) (*model.Booking, error) {
	var b model.Booking
	var tableID sql.NullInt64
	if err := scan(&b.ID, &b.RestaurantID, &b.UserID, &tableID, &b.PartySize,
		&b.Start, &b.End, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	if tableID.Valid {
		tid := uint64(tableID.Int64)
		b.TableID = &tid
	}
	return &b, nil
}

// FindOverlapping returns the non-cancelled bookings of a restaurant
// assigned to one of the given tables whose [start_time, end_time)
// window intersects [start, end).  The strict inequalities implement
// the half-open overlap test, so touching windows do not match.
func (r *BookingRepo) FindOverlapping(ctx context.Context, restaurantID uint64, tableIDs []uint64, start, end time.Time) ([]model.Booking, error) {
	if len(tableIDs) == 0 {
		return []model.Booking{}, nil
	}
	placeholders := make([]string, 0, len(tableIDs))
	args := make([]interface{}, 0, len(tableIDs)+3)
	args = append(args, restaurantID)
	for _, id := range tableIDs {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	args = append(args, dbTime(end), dbTime(start))
	q := `SELECT ` + bookingColumns + `
          FROM bookings
          WHERE restaurant_id = ?
            AND table_id IN (` + strings.Join(placeholders, ",") + `)
            AND status <> 'CANCELLED'
            AND start_time < ? AND end_time > ?`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bookings := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

// Insert stores a new booking and populates the generated ID and the
// database-assigned timestamps on the provided record.
func (r *BookingRepo) Insert(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings (restaurant_id, user_id, table_id, party_size, start_time, end_time, status)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
	var tableID interface{}
	if b.TableID != nil {
		tableID = *b.TableID
	}
	result, err := r.db.ExecContext(ctx, q, b.RestaurantID, b.UserID, tableID,
		b.PartySize, dbTime(b.Start), dbTime(b.End), b.Status)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults.
	stored, err := r.FindByID(ctx, b.ID)
	if err != nil {
		return err
	}
	if stored != nil {
		*b = *stored
	}
	return nil
}

// UpdateStatus sets the status and table assignment of a booking and
// returns the updated row.  Passing a nil tableID clears the
// assignment, matching the unassigned PENDING representation.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, status string, tableID *uint64) (*model.Booking, error) {
	const q = `UPDATE bookings SET status = ?, table_id = ? WHERE id = ?`
	var tid interface{}
	if tableID != nil {
		tid = *tableID
	}
	if _, err := r.db.ExecContext(ctx, q, status, tid, id); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// FindByID returns a booking by primary key, or nil when it does not
// exist.  The service layer maps the nil case to its not-found error.
func (r *BookingRepo) FindByID(ctx context.Context, id uint64) (*model.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListByUser returns a user's bookings, newest window first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = ? ORDER BY start_time DESC`
	return r.list(ctx, q, userID)
}

// ListByRestaurant returns every booking of a restaurant, newest
// window first.  Intended for owner dashboards; ownership is checked
// by the handler before calling.
func (r *BookingRepo) ListByRestaurant(ctx context.Context, restaurantID uint64) ([]model.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE restaurant_id = ? ORDER BY start_time DESC`
	return r.list(ctx, q, restaurantID)
}

func (r *BookingRepo) list(ctx context.Context, q string, arg interface{}) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bookings := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}
