package model

import "time"

// Waitlist entry status values.
const (
	WaitlistPending   = "PENDING"
	WaitlistNotified  = "NOTIFIED"
	WaitlistCancelled = "CANCELLED"
)

// WaitlistEntry queues a party for a restaurant slot that had no free
// table at request time.  Position is the 1-based place in the queue
// for the (restaurant, requested time) pair at the moment of joining.
type WaitlistEntry struct {
	ID            uint64    // waitlist_entries.id
	RestaurantID  uint64    // waitlist_entries.restaurant_id
	UserID        uint64    // waitlist_entries.user_id
	PartySize     uint32    // waitlist_entries.party_size
	RequestedTime time.Time // waitlist_entries.requested_time
	Position      uint32    // waitlist_entries.position
	Status        string    // waitlist_entries.status
	CreatedAt     time.Time // waitlist_entries.created_at
}
