package lock

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a process-local LeaseStore backed by a mutex-guarded
// map.  It is sufficient for tests and single-process deployments.
// The clock is injectable so TTL expiry can be simulated without
// sleeping.
type MemoryStore struct {
	mu     sync.Mutex
	leases map[string]memoryLease
	now    func() time.Time
}

type memoryLease struct {
	token     string
	expiresAt time.Time
}

// NewMemoryStore returns an empty store using the wall clock.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{leases: make(map[string]memoryLease), now: time.Now}
}

// SetClock replaces the time source.  Tests advance a fake clock past
// a lease's TTL to exercise the expiry safety net.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// SetIfAbsent stores the lease unless a non-expired one exists.
func (s *MemoryStore) SetIfAbsent(_ context.Context, key, token string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.leases[key]; ok && s.now().Before(cur.expiresAt) {
		return false, nil
	}
	s.leases[key] = memoryLease{token: token, expiresAt: s.now().Add(ttl)}
	return true, nil
}

// DeleteIfMatch removes the lease only when the token matches and the
// lease has not expired out from under the holder.
func (s *MemoryStore) DeleteIfMatch(_ context.Context, key, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.leases[key]
	if !ok || cur.token != token || !s.now().Before(cur.expiresAt) {
		return false, nil
	}
	delete(s.leases, key)
	return true, nil
}
