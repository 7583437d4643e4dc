package model

import "time"

// Table is a physical table inside a restaurant.  Inactive tables are
// never offered for booking.  A table is never deleted while a
// non-cancelled booking references it; that referential guarantee is
// enforced by the owning management layer, not here.
//
// Fields:
//  ID           – primary key identifier.
//  RestaurantID – restaurant the table belongs to.
//  Label        – short label printed on the floor plan (e.g. "T1").
//  Seats        – number of seats, always positive.
//  IsActive     – whether the table is currently offered.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Table struct {
	ID           uint64    // restaurant_tables.id
	RestaurantID uint64    // restaurant_tables.restaurant_id
	Label        string    // restaurant_tables.label
	Seats        uint32    // restaurant_tables.seats
	IsActive     bool      // restaurant_tables.is_active
	CreatedAt    time.Time // restaurant_tables.created_at
	UpdatedAt    time.Time // restaurant_tables.updated_at
}
