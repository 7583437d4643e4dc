// Package lock implements the lease-based mutual exclusion used to
// serialize booking admission.  A lease is a key -> token entry with a
// TTL; holding the token for a key means owning the critical section
// for that (restaurant, start time, party size) tuple.  The lock is
// advisory: it only serializes callers that go through Acquire, and
// the TTL bounds how long a crashed holder can block everyone else.
package lock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// LeaseStore is the storage primitive behind the lock.  Both methods
// must be atomic with respect to concurrent callers.  A single-process
// deployment can use MemoryStore; anything multi-process needs the
// Redis-backed store.
type LeaseStore interface {
	// SetIfAbsent stores key -> token with the given TTL only when the
	// key does not currently exist.  It reports whether the write won.
	SetIfAbsent(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	// DeleteIfMatch removes the key only when its current value equals
	// token, so a holder can never release a lease that already
	// expired and was re-acquired by someone else.
	DeleteIfMatch(ctx context.Context, key, token string) (bool, error)
}

// Locker acquires and releases leases against a LeaseStore.  It is an
// injected dependency rather than a package-level client so that tests
// can substitute an in-memory store with a controllable clock.
type Locker struct {
	store LeaseStore
	sleep func(time.Duration) // swapped out in tests to avoid real waits
}

// New returns a Locker over the given store.
func New(store LeaseStore) *Locker {
	return &Locker{store: store, sleep: time.Sleep}
}

// Key builds the lease key for a booking attempt.  The granularity is
// restaurant + normalized start instant + party size: unrelated
// requests never contend, while all attempts for the same slot are
// serialized.  Per-table keys would need the table before locking,
// which is circular.
func Key(restaurantID uint64, start time.Time, partySize uint32) string {
	return fmt.Sprintf("booking_lock:%d:%s:%d", restaurantID, start.UTC().Format(time.RFC3339), partySize)
}

// Acquire tries to take the lease for key, retrying every
// retryInterval up to maxAttempts total attempts.  It returns the
// ownership token on success and "" when the retry budget is
// exhausted; callers must treat "" as contention and fail the request
// with a try-again signal.  Acquisition order among contenders is not
// FIFO, only mutual exclusion is guaranteed.
func (l *Locker) Acquire(ctx context.Context, key string, ttl, retryInterval time.Duration, maxAttempts int) (string, error) {
	token, err := randomToken(16)
	if err != nil {
		return "", err
	}
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			default:
			}
			l.sleep(retryInterval)
		}
		ok, err := l.store.SetIfAbsent(ctx, key, token, ttl)
		if err != nil {
			return "", err
		}
		if ok {
			return token, nil
		}
	}
	return "", nil
}

// Release gives the lease back.  A lease that expired mid-flight and
// now belongs to someone else is left untouched; that is not an error
// here, only a shrunken safety window the caller already accepted by
// choosing the TTL.
func (l *Locker) Release(ctx context.Context, key, token string) error {
	_, err := l.store.DeleteIfMatch(ctx, key, token)
	return err
}

// randomToken returns n random bytes hex-encoded.  crypto/rand keeps
// tokens unguessable so no caller can release a foreign lease.
func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
