package lock

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only when it still holds the caller's
// token.  GET and DEL must happen in one atomic step, which is why
// this is a Lua script instead of two round trips.
var releaseScript = redis.NewScript(`
    if redis.call("get", KEYS[1]) == ARGV[1] then
        return redis.call("del", KEYS[1])
    else
        return 0
    end
`)

// RedisStore implements LeaseStore on a Redis client.  SET NX PX gives
// the atomic set-if-absent-with-expiry and the script above gives the
// atomic conditional delete.  This is the store to use whenever more
// than one process accepts bookings.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore wraps the given client.  The client must be non-nil
// and already connected; callers that tolerate a missing Redis should
// fall back to a MemoryStore explicitly rather than passing nil here.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	if rdb == nil {
		panic("nil redis client passed to NewRedisStore")
	}
	return &RedisStore{rdb: rdb}
}

// SetIfAbsent issues SET key token NX PX ttl.
func (s *RedisStore) SetIfAbsent(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	return s.rdb.SetNX(ctx, key, token, ttl).Result()
}

// DeleteIfMatch runs the check-and-delete script.  It reports whether
// a key was actually removed.
func (s *RedisStore) DeleteIfMatch(ctx context.Context, key, token string) (bool, error) {
	n, err := releaseScript.Run(ctx, s.rdb, []string{key}, token).Int64()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
