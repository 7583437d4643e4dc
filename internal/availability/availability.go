// Package availability contains the pure decision logic for table
// admission: which tables are free for a window, and which free table
// to hand out first.  Nothing in this package performs I/O, so every
// function is safe to call concurrently.
package availability

import (
	"time"

	"github.com/tabletrek/table-reservation/internal/model"
)

// Overlaps reports whether the half-open interval [aStart, aEnd)
// intersects [bStart, bEnd).  Touching endpoints do not overlap, so a
// booking ending at 20:00 never conflicts with one starting at 20:00.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// FreeTables returns the subset of candidates with no conflicting
// booking in [start, end), preserving the input order.
//
// Callers pre-filter both inputs: candidates must already be active
// tables of the target restaurant with enough seats, and bookings must
// exclude CANCELLED rows.  Bookings without an assigned table never
// block a candidate.  An empty candidate set yields an empty result.
func FreeTables(candidates []model.Table, bookings []model.Booking, start, end time.Time) []model.Table {
	busy := make(map[uint64]struct{}, len(bookings))
	for _, b := range bookings {
		if b.TableID == nil {
			continue
		}
		if Overlaps(b.Start, b.End, start, end) {
			busy[*b.TableID] = struct{}{}
		}
	}
	free := make([]model.Table, 0, len(candidates))
	for _, t := range candidates {
		if _, taken := busy[t.ID]; !taken {
			free = append(free, t)
		}
	}
	return free
}

// SelectTable picks the free table with the smallest seat count so
// that small parties do not burn large tables.  Ties keep the first
// table in input order, which callers make deterministic by passing
// tables sorted by ID.  Returns nil when no table is free; the caller
// decides whether that means rejection, a waitlist entry, or an
// unassigned booking.
func SelectTable(free []model.Table) *model.Table {
	var best *model.Table
	for i := range free {
		if best == nil || free[i].Seats < best.Seats {
			best = &free[i]
		}
	}
	return best
}
