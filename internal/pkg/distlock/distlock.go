// Package distlock serializes migration runs. Nothing in the target store
// prevents two concurrent runs from racing each other's writes, so every
// writing command takes the run lock before its first mutation and holds it
// until exit.
package distlock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RunLockKey is the lock key shared by all writing migration commands.
const RunLockKey = "attendee-migration-run"

// ErrRunInProgress is returned when another writing command holds the run lock.
var ErrRunInProgress = errors.New("another migration run is in progress")

// DistLock is the interface for distributed locking.
// Implementations must be safe for use from a single goroutine;
// concurrent use across goroutines requires separate lock instances.
type DistLock interface {
	// Acquire tries to acquire the lock. Returns true if successful.
	Acquire(ctx context.Context) (bool, error)
	// Release releases the lock if we still own it.
	Release(ctx context.Context) error
	// Extend refreshes the lock lifetime for backends that expire.
	Extend(ctx context.Context, ttl time.Duration) error
}

// NewRunLock creates the migration run lock using the best available
// backend. If redisClient is non-nil, Redis is used (preferred for
// cross-host locking). Otherwise it falls back to a PostgreSQL advisory
// lock on the legacy database connection.
func NewRunLock(redisClient *redis.Client, db *sql.DB, ttl time.Duration) DistLock {
	if redisClient != nil {
		return NewRedisLock(redisClient, RunLockKey, ttl)
	}
	return NewPGAdvisoryLock(db, RunLockKey)
}

// PGAdvisoryLock implements DistLock using PostgreSQL advisory locks.
// pg_try_advisory_lock is session-scoped: the lock drops automatically if
// the connection dies, giving crash safety similar to a Redis TTL.
type PGAdvisoryLock struct {
	db     *sql.DB
	lockID int64
}

// NewPGAdvisoryLock creates a PG advisory lock with a deterministic lock ID
// derived from the given key string.
func NewPGAdvisoryLock(db *sql.DB, key string) *PGAdvisoryLock {
	h := fnv.New64a()
	h.Write([]byte(key))
	return &PGAdvisoryLock{
		db:     db,
		lockID: int64(h.Sum64()),
	}
}

// Acquire tries to acquire the advisory lock. Non-blocking.
func (l *PGAdvisoryLock) Acquire(ctx context.Context) (bool, error) {
	var acquired bool
	err := l.db.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", l.lockID).Scan(&acquired)
	return acquired, err
}

// Release releases the advisory lock.
func (l *PGAdvisoryLock) Release(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, "SELECT pg_advisory_unlock($1)", l.lockID)
	return err
}

// Extend is a no-op: advisory locks are session-scoped and never expire.
func (l *PGAdvisoryLock) Extend(context.Context, time.Duration) error {
	return nil
}

// AcquireRun builds the run lock from whichever backend is configured,
// preferring Redis, and acquires it. The returned release func unlocks and
// closes the backend connection; callers defer it for the life of the run.
func AcquireRun(ctx context.Context, redisURL, postgresURL string, ttl time.Duration) (DistLock, func(), error) {
	var (
		lock   DistLock
		closer func()
	)
	switch {
	case redisURL != "":
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid redis URL: %w", err)
		}
		client := redis.NewClient(opts)
		lock = NewRedisLock(client, RunLockKey, ttl)
		closer = func() { client.Close() }
	case postgresURL != "":
		db, err := sql.Open("postgres", postgresURL)
		if err != nil {
			return nil, nil, fmt.Errorf("opening lock database: %w", err)
		}
		lock = NewPGAdvisoryLock(db, RunLockKey)
		closer = func() { db.Close() }
	default:
		return nil, nil, fmt.Errorf("run lock needs REDIS_URL or DATABASE_URL")
	}

	ok, err := lock.Acquire(ctx)
	if err != nil {
		closer()
		return nil, nil, fmt.Errorf("acquiring run lock: %w", err)
	}
	if !ok {
		closer()
		return nil, nil, ErrRunInProgress
	}
	release := func() {
		lock.Release(context.Background())
		closer()
	}
	return lock, release, nil
}
