package model

import "time"

// Restaurant is a venue that owns tables and receives bookings.
// The OwnerID references the user who manages it; ownership checks
// for owner-only operations are resolved against this field.
//
// Fields:
//  ID          – primary key identifier.
//  OwnerID     – user who manages the restaurant.
//  Name        – display name.
//  Address     – street address.
//  City        – city the restaurant is located in.
//  OpeningTime – opening time as "HH:MM" local to the restaurant.
//  ClosingTime – closing time as "HH:MM" local to the restaurant.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Restaurant struct {
	ID          uint64    // restaurants.id
	OwnerID     uint64    // restaurants.owner_id
	Name        string    // restaurants.name
	Address     string    // restaurants.address
	City        string    // restaurants.city
	OpeningTime string    // restaurants.opening_time
	ClosingTime string    // restaurants.closing_time
	CreatedAt   time.Time // restaurants.created_at
	UpdatedAt   time.Time // restaurants.updated_at
}
