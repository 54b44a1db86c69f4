// Package kvstore abstracts the remote key-value store used for sessions,
// counters, set indexes, and distributed locks.
package kvstore

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable wraps connectivity and timeout failures of the backing
// store. Absent keys are normal results, never errors.
var ErrUnavailable = errors.New("kvstore: store unavailable")

// Store defines the operations the rest of the application may use.
// Implementations must be safe for concurrent use; all cross-request
// coordination goes through the store's own atomic primitives.
type Store interface {
	// Set stores val under key with the given TTL. When onlyIfAbsent is
	// true the write only succeeds if the key does not exist; the return
	// value reports whether the write took effect.
	Set(ctx context.Context, key, val string, ttl time.Duration, onlyIfAbsent bool) (bool, error)

	// Get returns the value and whether the key existed.
	Get(ctx context.Context, key string) (string, bool, error)

	// Delete removes key and reports whether it existed.
	Delete(ctx context.Context, key string) (bool, error)

	Exists(ctx context.Context, key string) (bool, error)

	// Expire resets the TTL of an existing key. Returns false if the key
	// does not exist.
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// TTL reports the remaining lifetime of key, or a negative duration
	// when the key is missing or has no expiry.
	TTL(ctx context.Context, key string) (time.Duration, error)

	// Incr atomically increments the integer at key, creating it at 0
	// first when absent.
	Incr(ctx context.Context, key string) (int64, error)

	SAdd(ctx context.Context, key string, members ...string) (int64, error)
	SIsMember(ctx context.Context, key, member string) (bool, error)
	SMembers(ctx context.Context, key string) ([]string, error)

	// Scan returns all keys matching pattern. Iteration is bounded by the
	// store's cursor protocol and terminates once the cursor returns to
	// its start value.
	Scan(ctx context.Context, pattern string) ([]string, error)

	// AcquireLock attempts to take the named advisory lock for ttl.
	// Failure to acquire is a normal false result, not an error. Holders
	// must finish within ttl; the lock is not fenced.
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// ReleaseLock drops the named lock. Releasing a lock that expired or
	// was never held is a no-op.
	ReleaseLock(ctx context.Context, key string) error

	Close() error
}
