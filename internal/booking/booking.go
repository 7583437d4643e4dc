package booking

import (
	"context"
	"time"

	"github.com/tabletrek/table-reservation/internal/model"
)

// TableDirectory lists the tables a booking may be assigned to.
// Implementations must return only active tables of the restaurant
// with at least minSeats seats, ordered by seat count ascending and
// then by ID so that selection ties are deterministic.
type TableDirectory interface {
	ListActiveTables(ctx context.Context, restaurantID uint64, minSeats uint32) ([]model.Table, error)
}

// ReservationStore persists bookings.  FindOverlapping must exclude
// CANCELLED rows and restrict to the given table IDs; the backing
// store needs at least read-committed consistency for the overlap
// query to mean anything.
type ReservationStore interface {
	FindOverlapping(ctx context.Context, restaurantID uint64, tableIDs []uint64, start, end time.Time) ([]model.Booking, error)
	Insert(ctx context.Context, b *model.Booking) error
	UpdateStatus(ctx context.Context, id uint64, status string, tableID *uint64) (*model.Booking, error)
	FindByID(ctx context.Context, id uint64) (*model.Booking, error)
}

// Emitter queues notification side effects.  Enqueue is
// fire-and-forget: implementations deliver at-least-once downstream
// and must never block or fail the admission decision that triggered
// the event.
type Emitter interface {
	Enqueue(eventKind string, payload any)
}

// Event kinds emitted by the service.
const (
	EventBookingPending   = "booking.pending"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
)

// AdmissionPolicy selects how Create treats a request when it comes
// in.  The production service ran deferred mode; immediate mode is
// the stricter variant some deployments prefer, so both stay
// configurable instead of one being hardcoded.
type AdmissionPolicy string

const (
	// AdmissionImmediate rejects when no table is free and otherwise
	// stores a CONFIRMED booking bound to the selected table.
	AdmissionImmediate AdmissionPolicy = "immediate"
	// AdmissionDeferred always stores a PENDING booking with no table;
	// availability is enforced later when an owner confirms.
	AdmissionDeferred AdmissionPolicy = "deferred"
)

// CreateRequest carries the inputs of a booking attempt.
type CreateRequest struct {
	RestaurantID uint64
	UserID       uint64
	PartySize    uint32
	Start        time.Time
	End          time.Time
}

// ConfirmOptions tunes a PENDING -> CONFIRMED transition.  TableID
// pins an explicit table instead of running selection.  The caller
// must already have verified that the actor is the restaurant owner;
// authorization is not this package's concern.
type ConfirmOptions struct {
	TableID *uint64
}
