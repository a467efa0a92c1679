package locker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisLocker implements DistributedLocker with Redsync (Redlock on a single
// Redis node). Every key is stored under the locker's namespace.
type RedisLocker struct {
	rs        *redsync.Redsync
	namespace string
	logger    *zap.Logger
	mutexes   map[string]*redsync.Mutex
	mu        sync.Mutex
}

// NewRedisLocker creates a Redis-backed locker. Keys are prefixed with
// "<namespace>:lock:" so several deployments can share one Redis.
func NewRedisLocker(client *redis.Client, namespace string, logger *zap.Logger) *RedisLocker {
	return &RedisLocker{
		rs:        redsync.New(goredis.NewPool(client)),
		namespace: namespace,
		logger:    logger,
		mutexes:   make(map[string]*redsync.Mutex),
	}
}

// Acquire tries once to take the lock and never blocks waiting for it.
// Returns false, nil when another holder has it.
func (r *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("acquire lock %s: %w", key, err)
	}

	mutex := r.rs.NewMutex(
		r.fullKey(key),
		redsync.WithExpiry(ttl),
		redsync.WithTries(1),
	)

	err := mutex.LockContext(ctx)
	if err != nil {
		// Contention surfaces either as ErrFailed or as a "lock already taken" node error.
		if errors.Is(err, redsync.ErrFailed) || strings.Contains(err.Error(), "lock already taken") {
			r.logger.Debug("lock already held by another instance",
				zap.String("key", key),
			)
			return false, nil
		}
		// Real errors (Redis connection issues, context cancellation, etc.)
		return false, fmt.Errorf("acquire lock %s: %w", key, err)
	}

	r.mu.Lock()
	r.mutexes[key] = mutex
	r.mu.Unlock()

	r.logger.Debug("lock acquired",
		zap.String("key", key),
		zap.Duration("ttl", ttl),
	)

	return true, nil
}

// Release releases the lock if and only if this instance owns it.
// Redsync checks the owner token, so a lock that expired and was taken by
// someone else is left alone.
func (r *RedisLocker) Release(ctx context.Context, key string) error {
	r.mu.Lock()
	mutex, exists := r.mutexes[key]
	if exists {
		delete(r.mutexes, key)
	}
	r.mu.Unlock()

	if !exists {
		r.logger.Debug("no mutex found for key, lock not owned by this instance",
			zap.String("key", key),
		)
		return nil
	}

	ok, err := mutex.UnlockContext(ctx)
	if err != nil {
		return fmt.Errorf("release lock %s: %w", key, err)
	}

	if ok {
		r.logger.Debug("lock released",
			zap.String("key", key),
		)
	} else {
		r.logger.Debug("lock not owned by this instance or already expired",
			zap.String("key", key),
		)
	}

	return nil
}

func (r *RedisLocker) fullKey(key string) string {
	if r.namespace == "" {
		return key
	}
	return r.namespace + ":lock:" + key
}
