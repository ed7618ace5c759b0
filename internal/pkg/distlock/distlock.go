// Package distlock provides a PostgreSQL advisory lock for one-at-a-time
// jobs such as schema migrations.
package distlock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"time"
)

// ErrNotAcquired is returned by Wait when the context ends before the lock
// becomes free.
var ErrNotAcquired = errors.New("distlock: lock not acquired")

// PGAdvisoryLock is a session-scoped pg_try_advisory_lock. Advisory locks
// belong to a connection, so the lock pins one connection from the pool
// between Acquire and Release. The lock is dropped if that connection dies.
type PGAdvisoryLock struct {
	db     *sql.DB
	lockID int64
	conn   *sql.Conn
}

// NewPGAdvisoryLock creates a lock whose ID is derived from key.
func NewPGAdvisoryLock(db *sql.DB, key string) *PGAdvisoryLock {
	h := fnv.New64a()
	h.Write([]byte(key))
	return &PGAdvisoryLock{
		db:     db,
		lockID: int64(h.Sum64()),
	}
}

// ID is the numeric advisory lock key.
func (l *PGAdvisoryLock) ID() int64 {
	return l.lockID
}

// Acquire tries to take the lock without blocking.
func (l *PGAdvisoryLock) Acquire(ctx context.Context) (bool, error) {
	if l.conn != nil {
		return true, nil
	}

	conn, err := l.db.Conn(ctx)
	if err != nil {
		return false, fmt.Errorf("advisory lock %d: get conn: %w", l.lockID, err)
	}

	var acquired bool
	if err := conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", l.lockID).Scan(&acquired); err != nil {
		conn.Close()
		return false, fmt.Errorf("advisory lock %d: %w", l.lockID, err)
	}
	if !acquired {
		conn.Close()
		return false, nil
	}
	l.conn = conn
	return true, nil
}

// Wait polls Acquire every interval until the lock is taken or ctx ends.
func (l *PGAdvisoryLock) Wait(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		ok, err := l.Acquire(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("%w: %v", ErrNotAcquired, ctx.Err())
			}
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrNotAcquired, ctx.Err())
		case <-ticker.C:
		}
	}
}

// Release unlocks and returns the pinned connection to the pool. Releasing
// a lock that is not held is a no-op.
func (l *PGAdvisoryLock) Release(ctx context.Context) error {
	if l.conn == nil {
		return nil
	}
	conn := l.conn
	l.conn = nil
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "SELECT pg_advisory_unlock($1)", l.lockID); err != nil {
		return fmt.Errorf("advisory unlock %d: %w", l.lockID, err)
	}
	return nil
}
