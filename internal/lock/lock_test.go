package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable time source for MemoryStore tests.
type fakeClock struct {
	mu  sync.Mutex
	cur time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{cur: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cur
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cur = f.cur.Add(d)
}

func newTestLocker() (*Locker, *MemoryStore, *fakeClock) {
	store := NewMemoryStore()
	clk := newFakeClock()
	store.SetClock(clk.Now)
	l := New(store)
	l.sleep = func(time.Duration) {} // no real waiting in tests
	return l, store, clk
}

func TestAcquireRelease(t *testing.T) {
	l, _, _ := newTestLocker()
	ctx := context.Background()

	token, err := l.Acquire(ctx, "booking_lock:1:x:2", time.Second, time.Millisecond, 1)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, l.Release(ctx, "booking_lock:1:x:2", token))

	// Released key is immediately acquirable again.
	token2, err := l.Acquire(ctx, "booking_lock:1:x:2", time.Second, time.Millisecond, 1)
	require.NoError(t, err)
	assert.NotEmpty(t, token2)
	assert.NotEqual(t, token, token2)
}

func TestAcquireContendedExhaustsRetries(t *testing.T) {
	l, _, _ := newTestLocker()
	ctx := context.Background()

	first, err := l.Acquire(ctx, "k", time.Minute, time.Millisecond, 1)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := l.Acquire(ctx, "k", time.Minute, time.Millisecond, 5)
	require.NoError(t, err)
	assert.Empty(t, second, "contended acquire must return an empty token")
}

func TestMutualExclusion(t *testing.T) {
	// Two concurrent acquires on one key must never both win before
	// either a release or expiry.
	l, _, _ := newTestLocker()
	ctx := context.Background()

	const goroutines = 16
	var wg sync.WaitGroup
	won := make(chan string, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok, err := l.Acquire(ctx, "hot", time.Minute, time.Millisecond, 3)
			require.NoError(t, err)
			if tok != "" {
				won <- tok
			}
		}()
	}
	wg.Wait()
	close(won)

	var winners int
	for range won {
		winners++
	}
	assert.Equal(t, 1, winners)
}

func TestLeaseExpiresAfterTTL(t *testing.T) {
	// Holder vanishes without releasing; the key frees itself once the
	// TTL elapses and the next retry wins.
	l, _, clk := newTestLocker()
	ctx := context.Background()

	tok, err := l.Acquire(ctx, "crashy", time.Second, time.Millisecond, 1)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	blocked, err := l.Acquire(ctx, "crashy", time.Second, time.Millisecond, 2)
	require.NoError(t, err)
	require.Empty(t, blocked)

	clk.Advance(1100 * time.Millisecond)

	recovered, err := l.Acquire(ctx, "crashy", time.Second, time.Millisecond, 2)
	require.NoError(t, err)
	assert.NotEmpty(t, recovered)
}

func TestReleaseWithStaleTokenKeepsNewLease(t *testing.T) {
	l, store, clk := newTestLocker()
	ctx := context.Background()

	stale, err := l.Acquire(ctx, "k", time.Second, time.Millisecond, 1)
	require.NoError(t, err)

	clk.Advance(2 * time.Second)

	fresh, err := l.Acquire(ctx, "k", time.Minute, time.Millisecond, 1)
	require.NoError(t, err)
	require.NotEmpty(t, fresh)

	// The slow first holder finally releases; the fresh lease survives.
	require.NoError(t, l.Release(ctx, "k", stale))
	ok, err := store.SetIfAbsent(ctx, "k", "probe", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "fresh lease must still be present")
}

func TestKeyFormat(t *testing.T) {
	start := time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)
	assert.Equal(t, "booking_lock:42:2025-06-01T19:00:00Z:2", Key(42, start, 2))

	// Non-UTC inputs normalize to the same key.
	loc := time.FixedZone("UTC+2", 2*3600)
	assert.Equal(t, Key(42, start, 2), Key(42, start.In(loc), 2))
}
