package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/tabletrek/table-reservation/internal/model"
)

// WaitlistRepo provides data access to waitlist_entries.  Entries
// queue parties for a restaurant slot that had no free table.  The
// position counter is computed inside the insert transaction; two
// joins racing for the same slot can still read the same count, so
// positions are a best-effort ordering, not a strict ticket.
type WaitlistRepo struct {
	db *sql.DB
}

// NewWaitlistRepo returns a new WaitlistRepo bound to the given database.
func NewWaitlistRepo(db *sql.DB) *WaitlistRepo { return &WaitlistRepo{db: db} }

// Join appends the user to the waitlist for (restaurant, requested
// time).  A user may hold only one PENDING entry per slot;
// ErrDuplicateWaitlistEntry is returned otherwise.  The assigned
// position is one past the current PENDING count for the slot.
func (r *WaitlistRepo) Join(ctx context.Context, restaurantID, userID uint64, partySize uint32, requestedTime time.Time) (*model.WaitlistEntry, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const dupQ = `SELECT COUNT(*) FROM waitlist_entries
                  WHERE user_id = ? AND restaurant_id = ? AND requested_time = ? AND status = 'PENDING'`
	var dup int
	if err := tx.QueryRowContext(ctx, dupQ, userID, restaurantID, dbTime(requestedTime)).Scan(&dup); err != nil {
		return nil, err
	}
	if dup > 0 {
		return nil, ErrDuplicateWaitlistEntry
	}

	const countQ = `SELECT COUNT(*) FROM waitlist_entries
                    WHERE restaurant_id = ? AND requested_time = ? AND status = 'PENDING'`
	var ahead int
	if err := tx.QueryRowContext(ctx, countQ, restaurantID, dbTime(requestedTime)).Scan(&ahead); err != nil {
		return nil, err
	}

	entry := model.WaitlistEntry{
		RestaurantID:  restaurantID,
		UserID:        userID,
		PartySize:     partySize,
		RequestedTime: requestedTime.UTC(),
		Position:      uint32(ahead + 1),
		Status:        model.WaitlistPending,
	}
	const insQ = `INSERT INTO waitlist_entries (restaurant_id, user_id, party_size, requested_time, position, status)
                  VALUES (?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, insQ, entry.RestaurantID, entry.UserID, entry.PartySize,
		dbTime(entry.RequestedTime), entry.Position, entry.Status)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	entry.ID = uint64(id)
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	entry.CreatedAt = time.Now().UTC()
	return &entry, nil
}

// Leave cancels a waitlist entry on behalf of its user.  It returns
// sql.ErrNoRows when the entry does not exist and ErrForbidden when
// it belongs to a different user.
func (r *WaitlistRepo) Leave(ctx context.Context, entryID, userID uint64) error {
	const q = `SELECT user_id FROM waitlist_entries WHERE id = ?`
	var ownerID uint64
	if err := r.db.QueryRowContext(ctx, q, entryID).Scan(&ownerID); err != nil {
		return err
	}
	if ownerID != userID {
		return ErrForbidden
	}
	_, err := r.db.ExecContext(ctx, `UPDATE waitlist_entries SET status = 'CANCELLED' WHERE id = ?`, entryID)
	return err
}

const waitlistColumns = `id, restaurant_id, user_id, party_size, requested_time, position, status, created_at`

func scanWaitlistEntry(scan func(dest ...any) error) (*model.WaitlistEntry, error) {
	var e model.WaitlistEntry
	if err := scan(&e.ID, &e.RestaurantID, &e.UserID, &e.PartySize,
		&e.RequestedTime, &e.Position, &e.Status, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// FindByID returns a waitlist entry by primary key, or nil when it
// does not exist.
func (r *WaitlistRepo) FindByID(ctx context.Context, id uint64) (*model.WaitlistEntry, error) {
	q := `SELECT ` + waitlistColumns + ` FROM waitlist_entries WHERE id = ?`
	e, err := scanWaitlistEntry(r.db.QueryRowContext(ctx, q, id).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// MarkNotified flips a PENDING entry to NOTIFIED and returns the
// updated row.  The status guard in the UPDATE makes the transition
// atomic: an entry that was cancelled or already notified in the
// meantime yields ErrWaitlistNotPending instead of being overwritten.
func (r *WaitlistRepo) MarkNotified(ctx context.Context, entryID uint64) (*model.WaitlistEntry, error) {
	const q = `UPDATE waitlist_entries SET status = 'NOTIFIED' WHERE id = ? AND status = 'PENDING'`
	result, err := r.db.ExecContext(ctx, q, entryID)
	if err != nil {
		return nil, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrWaitlistNotPending
	}
	return r.FindByID(ctx, entryID)
}

// ListByUser returns all of a user's waitlist entries, soonest
// requested time first.
func (r *WaitlistRepo) ListByUser(ctx context.Context, userID uint64) ([]model.WaitlistEntry, error) {
	q := `SELECT ` + waitlistColumns + `
          FROM waitlist_entries
          WHERE user_id = ?
          ORDER BY requested_time ASC, position ASC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]model.WaitlistEntry, 0)
	for rows.Next() {
		e, err := scanWaitlistEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListByRestaurant returns the PENDING entries of a restaurant ordered
// by requested time and position, for the owner's review.
func (r *WaitlistRepo) ListByRestaurant(ctx context.Context, restaurantID uint64) ([]model.WaitlistEntry, error) {
	q := `SELECT ` + waitlistColumns + `
          FROM waitlist_entries
          WHERE restaurant_id = ? AND status = 'PENDING'
          ORDER BY requested_time ASC, position ASC`
	rows, err := r.db.QueryContext(ctx, q, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]model.WaitlistEntry, 0)
	for rows.Next() {
		e, err := scanWaitlistEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
