package booking

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/tabletrek/table-reservation/internal/availability"
	"github.com/tabletrek/table-reservation/internal/lock"
	"github.com/tabletrek/table-reservation/internal/model"
	"github.com/tabletrek/table-reservation/internal/queue"
)

// Config tunes the service.  Zero values fall back to the production
// defaults: deferred admission, overbooking disabled, 10s lease TTL,
// 100ms retry interval, 20 attempts.  The TTL must stay comfortably
// larger than the expected duration of the load-check-insert sequence;
// a lease expiring mid-flight reopens the race it exists to close.
type Config struct {
	Policy          AdmissionPolicy
	AllowOverbook   bool
	LockTTL         time.Duration
	LockRetry       time.Duration
	LockMaxAttempts int
}

// Service orchestrates booking admission and lifecycle transitions.
// Every dependency is injected so tests can run against in-memory
// fakes; each call is stateless apart from the lease it holds.
type Service struct {
	tables   TableDirectory
	bookings ReservationStore
	locker   *lock.Locker
	emitter  Emitter
	cfg      Config
}

// NewService wires the workflow.  All dependencies must be non-nil.
func NewService(tables TableDirectory, bookings ReservationStore, locker *lock.Locker, emitter Emitter, cfg Config) *Service {
	if tables == nil || bookings == nil || locker == nil || emitter == nil {
		panic("nil dependency passed to NewService")
	}
	if cfg.Policy == "" {
		cfg.Policy = AdmissionDeferred
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 10 * time.Second
	}
	if cfg.LockRetry <= 0 {
		cfg.LockRetry = 100 * time.Millisecond
	}
	if cfg.LockMaxAttempts <= 0 {
		cfg.LockMaxAttempts = 20
	}
	return &Service{tables: tables, bookings: bookings, locker: locker, emitter: emitter, cfg: cfg}
}

// Create admits a booking request.  It serializes against concurrent
// attempts for the same (restaurant, start, party size) slot via the
// lease, checks availability under the lease, and persists according
// to the admission policy.  The lease is released on every path; the
// notification event is queued after the booking is stored and its
// failure never rolls the booking back.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*model.Booking, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	key := lock.Key(req.RestaurantID, req.Start, req.PartySize)
	token, err := s.locker.Acquire(ctx, key, s.cfg.LockTTL, s.cfg.LockRetry, s.cfg.LockMaxAttempts)
	if err != nil {
		return nil, fmt.Errorf("acquire lease: %w", err)
	}
	if token == "" {
		return nil, ErrLockContention
	}
	defer func() {
		// Guaranteed cleanup: a leaked lease would block the slot for
		// every contender until the TTL runs out.  The release runs on
		// a detached context because the request context may already be
		// cancelled here (client disconnect), and that is exactly when
		// the release must still go through.
		relCtx := context.WithoutCancel(ctx)
		if relErr := s.locker.Release(relCtx, key, token); relErr != nil {
			log.Printf("booking: lease release failed for %s: %v", key, relErr)
		}
	}()

	b := &model.Booking{
		RestaurantID: req.RestaurantID,
		UserID:       req.UserID,
		PartySize:    req.PartySize,
		Start:        req.Start.UTC(),
		End:          req.End.UTC(),
	}

	switch s.cfg.Policy {
	case AdmissionImmediate:
		table, err := s.freeTableFor(ctx, req.RestaurantID, req.PartySize, b.Start, b.End)
		if err != nil {
			return nil, err
		}
		if table == nil {
			return nil, ErrNoAvailability
		}
		tid := table.ID
		b.TableID = &tid
		b.Status = model.BookingConfirmed
	default:
		// Deferred mode never rejects at creation time; the lease only
		// keeps waitlist-style bookkeeping race-free.  Availability is
		// enforced when the owner confirms.
		b.Status = model.BookingPending
	}

	if err := s.bookings.Insert(ctx, b); err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	kind := EventBookingPending
	if b.Status == model.BookingConfirmed {
		kind = EventBookingConfirmed
	}
	s.emitter.Enqueue(kind, s.event(b, false))
	return b, nil
}

// CheckAvailability returns the free tables of a restaurant for the
// window, smallest first.  Used by the availability endpoint and by
// clients probing before they book; no lease is taken since nothing
// is written.
func (s *Service) CheckAvailability(ctx context.Context, restaurantID uint64, start, end time.Time, partySize uint32) ([]model.Table, error) {
	if err := validateWindow(start, end, partySize); err != nil {
		return nil, err
	}
	_, free, err := s.loadAvailability(ctx, restaurantID, partySize, start, end)
	if err != nil {
		return nil, err
	}
	return free, nil
}

// Confirm moves a PENDING booking to CONFIRMED, re-running the overlap
// check because availability may have changed since creation.  When no
// table is free and overbooking is enabled in the config, the smallest
// suitable table is force-assigned anyway; that path intentionally
// breaks the no-overlap invariant and is logged for audit.  With the
// override disabled, ErrNoAvailability is returned and the booking
// stays PENDING.
func (s *Service) Confirm(ctx context.Context, bookingID uint64, opts ConfirmOptions) (*model.Booking, error) {
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != model.BookingPending {
		return nil, fmt.Errorf("%w: cannot confirm %s booking", ErrInvalidTransition, b.Status)
	}

	candidates, free, err := s.loadAvailability(ctx, b.RestaurantID, b.PartySize, b.Start, b.End)
	if err != nil {
		return nil, err
	}

	var tableID *uint64
	overbooked := false
	switch {
	case opts.TableID != nil:
		// Explicitly pinned table: it must exist among the suitable
		// candidates, which enforces seats >= party size and same
		// restaurant in one check.
		var pinned *model.Table
		for i := range candidates {
			if candidates[i].ID == *opts.TableID {
				pinned = &candidates[i]
				break
			}
		}
		if pinned == nil {
			return nil, fmt.Errorf("%w: table %d not suitable for this booking", ErrValidation, *opts.TableID)
		}
		tableID = opts.TableID
		if !contains(free, *opts.TableID) {
			// Pinning a busy table is an explicit owner decision.  It
			// is only honored where the deployment allows overbooking,
			// and it is flagged on the event so the conflict stays
			// auditable.
			if !s.cfg.AllowOverbook {
				return nil, ErrNoAvailability
			}
			overbooked = true
			log.Printf("booking: owner pinned busy table %d on booking %d", *opts.TableID, b.ID)
		}
	default:
		if sel := availability.SelectTable(free); sel != nil {
			tid := sel.ID
			tableID = &tid
		} else if s.cfg.AllowOverbook {
			// Owner override.  Candidates are ordered smallest first,
			// so candidates[0] is the least wasteful conflict.
			if len(candidates) > 0 {
				tid := candidates[0].ID
				tableID = &tid
				log.Printf("booking: overbook override on booking %d, force-assigning table %d", b.ID, tid)
			} else {
				// Nothing fits this party size at all; confirm with no
				// table and leave seating to manual handling.
				log.Printf("booking: overbook override on booking %d with no suitable table, leaving unassigned", b.ID)
			}
			overbooked = true
		} else {
			return nil, ErrNoAvailability
		}
	}

	updated, err := s.bookings.UpdateStatus(ctx, b.ID, model.BookingConfirmed, tableID)
	if err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}
	s.emitter.Enqueue(EventBookingConfirmed, s.event(updated, overbooked))
	return updated, nil
}

// Cancel moves a PENDING or CONFIRMED booking to CANCELLED.  Cancelling
// twice is rejected with ErrAlreadyCancelled; there is no way out of
// CANCELLED.
func (s *Service) Cancel(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status == model.BookingCancelled {
		return nil, ErrAlreadyCancelled
	}
	updated, err := s.bookings.UpdateStatus(ctx, b.ID, model.BookingCancelled, b.TableID)
	if err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}
	s.emitter.Enqueue(EventBookingCancelled, s.event(updated, false))
	return updated, nil
}

// Get returns a booking by ID so callers can run their own
// authorization checks before acting on it.
func (s *Service) Get(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	return s.load(ctx, bookingID)
}

func (s *Service) load(ctx context.Context, id uint64) (*model.Booking, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load booking: %w", err)
	}
	if b == nil {
		return nil, ErrNotFound
	}
	return b, nil
}

// loadAvailability fetches the suitable tables and the subset free for
// the window.  Candidates come back smallest-first from the directory.
func (s *Service) loadAvailability(ctx context.Context, restaurantID uint64, partySize uint32, start, end time.Time) (candidates, free []model.Table, err error) {
	candidates, err = s.tables.ListActiveTables(ctx, restaurantID, partySize)
	if err != nil {
		return nil, nil, fmt.Errorf("load tables: %w", err)
	}
	if len(candidates) == 0 {
		return candidates, nil, nil
	}
	ids := make([]uint64, 0, len(candidates))
	for _, t := range candidates {
		ids = append(ids, t.ID)
	}
	overlapping, err := s.bookings.FindOverlapping(ctx, restaurantID, ids, start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("load overlapping bookings: %w", err)
	}
	return candidates, availability.FreeTables(candidates, overlapping, start, end), nil
}

// freeTableFor runs the full check-then-select sequence for Create.
func (s *Service) freeTableFor(ctx context.Context, restaurantID uint64, partySize uint32, start, end time.Time) (*model.Table, error) {
	_, free, err := s.loadAvailability(ctx, restaurantID, partySize, start, end)
	if err != nil {
		return nil, err
	}
	return availability.SelectTable(free), nil
}

func (s *Service) event(b *model.Booking, overbooked bool) queue.BookingEvent {
	return queue.BookingEvent{
		BookingID:    b.ID,
		RestaurantID: b.RestaurantID,
		UserID:       b.UserID,
		TableID:      b.TableID,
		PartySize:    b.PartySize,
		Start:        b.Start.UTC().Format(time.RFC3339),
		End:          b.End.UTC().Format(time.RFC3339),
		Status:       b.Status,
		Overbooked:   overbooked,
		EmittedAt:    time.Now().UTC().Format(time.RFC3339),
	}
}

func validateCreate(req CreateRequest) error {
	if req.RestaurantID == 0 {
		return fmt.Errorf("%w: restaurant id is required", ErrValidation)
	}
	if req.UserID == 0 {
		return fmt.Errorf("%w: user id is required", ErrValidation)
	}
	return validateWindow(req.Start, req.End, req.PartySize)
}

func validateWindow(start, end time.Time, partySize uint32) error {
	if partySize == 0 {
		return fmt.Errorf("%w: party size must be positive", ErrValidation)
	}
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrValidation)
	}
	if !end.After(start) {
		return fmt.Errorf("%w: end must be after start", ErrValidation)
	}
	return nil
}

func contains(tables []model.Table, id uint64) bool {
	for _, t := range tables {
		if t.ID == id {
			return true
		}
	}
	return false
}
