// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingEvent is published whenever a booking changes state
// (booking.pending, booking.confirmed, booking.cancelled).  It carries
// enough information for downstream consumers to notify the guest or
// feed analytics without querying the primary database.  Times are
// RFC3339 UTC strings so consumers in any language can parse them.
// EventWaitlistNotify is published when an owner notifies a waitlist
// entry that a table opened up.
const EventWaitlistNotify = "waitlist.notify"

type BookingEvent struct {
	BookingID    uint64  `json:"booking_id"`
	RestaurantID uint64  `json:"restaurant_id"`
	UserID       uint64  `json:"user_id"`
	TableID      *uint64 `json:"table_id,omitempty"`
	PartySize    uint32  `json:"party_size"`
	Start        string  `json:"start"`
	End          string  `json:"end"`
	Status       string  `json:"status"`
	Overbooked   bool    `json:"overbooked,omitempty"`
	EmittedAt    string  `json:"emitted_at"`
}

// WaitlistEvent carries an owner's waitlist notification to downstream
// consumers.  RequestedTime is an RFC3339 UTC string like the booking
// event's window fields.
type WaitlistEvent struct {
	EntryID       uint64 `json:"entry_id"`
	RestaurantID  uint64 `json:"restaurant_id"`
	UserID        uint64 `json:"user_id"`
	PartySize     uint32 `json:"party_size"`
	RequestedTime string `json:"requested_time"`
	Position      uint32 `json:"position"`
	Status        string `json:"status"`
	EmittedAt     string `json:"emitted_at"`
}
