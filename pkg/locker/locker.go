// Package locker provides distributed locking capabilities for coordinating
// operations across multiple service instances.
package locker

import (
	"context"
	"time"
)

// DistributedLocker provides distributed lock capabilities across multiple instances.
// Implementations must be safe for concurrent use.
//
// Typical usage:
//
//	acquired, err := locker.Acquire(ctx, "sync:user:76561197960287930", time.Hour)
//	if err != nil {
//	    return err
//	}
//	if !acquired {
//	    return ErrSyncInProgress
//	}
//	// on failure, Release so the next attempt is not held back by the cooldown
//	if err := doSync(ctx); err != nil {
//	    _ = locker.Release(ctx, "sync:user:76561197960287930")
//	    return err
//	}
type DistributedLocker interface {
	// Acquire attempts to acquire a distributed lock with the given key.
	// Returns true if the lock was acquired, false if another instance holds it.
	// The lock will automatically expire after ttl if not released.
	//
	// For mutual exclusion pass the operation timeout; for cooldown pass the
	// cooldown period and do not release on success.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release releases the lock identified by key.
	// Returns an error if the lock doesn't exist or the release fails.
	// Safe to call even if this instance doesn't own the lock (no-op).
	Release(ctx context.Context, key string) error
}
