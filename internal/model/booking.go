package model

import "time"

// Booking status values.  A booking starts PENDING or CONFIRMED
// depending on the admission policy and may only move to CANCELLED
// afterwards.  CANCELLED is terminal.
const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
)

// Booking records a user's reservation of a table at a restaurant for
// a half-open time window [Start, End).  TableID is nil while the
// assignment is deferred; it is populated when the booking is created
// in immediate mode or when an owner confirms it.
//
// Fields:
//  ID           – primary key identifier.
//  RestaurantID – restaurant being booked.
//  UserID       – user who requested the booking.
//  TableID      – assigned table, nil while unassigned.
//  PartySize    – number of guests, always positive.
//  Start        – start of the window (inclusive), UTC.
//  End          – end of the window (exclusive), UTC.
//  Status       – PENDING, CONFIRMED or CANCELLED.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Booking struct {
	ID           uint64     // bookings.id
	RestaurantID uint64     // bookings.restaurant_id
	UserID       uint64     // bookings.user_id
	TableID      *uint64    // bookings.table_id (nullable)
	PartySize    uint32     // bookings.party_size
	Start        time.Time  // bookings.start_time
	End          time.Time  // bookings.end_time
	Status       string     // bookings.status
	CreatedAt    time.Time  // bookings.created_at
	UpdatedAt    time.Time  // bookings.updated_at
}
