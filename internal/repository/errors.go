// Package repository implements the persistence collaborators over
// MySQL.  Sentinel errors defined here let handlers distinguish
// failure scenarios without inspecting SQL errors directly.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrRestaurantNotFound is returned when a referenced restaurant
// does not exist.
var ErrRestaurantNotFound = errors.New("restaurant not found")

// ErrDuplicateWaitlistEntry is returned when a user already has a
// PENDING waitlist entry for the same restaurant and requested time.
var ErrDuplicateWaitlistEntry = errors.New("already on waitlist for this time")

// ErrWaitlistNotPending is returned when a waitlist entry cannot be
// notified because it is no longer PENDING.
var ErrWaitlistNotPending = errors.New("waitlist entry is not pending")
