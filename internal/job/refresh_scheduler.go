// Package job provides background job schedulers.
package job

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"game-recommendation-service/internal/app/service"
	"game-recommendation-service/internal/metrics"
	"game-recommendation-service/pkg/locker"
)

const refreshLockKey = "refresh:scheduler"

// LibraryRefresher refreshes every tracked library.
type LibraryRefresher interface {
	SyncAll(ctx context.Context) ([]service.SyncResult, error)
}

// RefreshConfig holds refresh scheduler configuration.
type RefreshConfig struct {
	Interval  time.Duration
	Timeout   time.Duration
	OnStartup bool
}

// RefreshScheduler periodically refreshes tracked Steam libraries. A
// distributed lock makes sure one instance runs each round.
type RefreshScheduler struct {
	refresher LibraryRefresher
	cfg       RefreshConfig
	locker    locker.DistributedLocker
	metrics   *metrics.Recorder
	logger    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRefreshScheduler creates a new RefreshScheduler.
func NewRefreshScheduler(
	refresher LibraryRefresher,
	cfg RefreshConfig,
	lock locker.DistributedLocker,
	rec *metrics.Recorder,
	logger *zap.Logger,
) *RefreshScheduler {
	return &RefreshScheduler{
		refresher: refresher,
		cfg:       cfg,
		locker:    lock,
		metrics:   rec,
		logger:    logger,
	}
}

// Start begins the background refresh loop.
func (s *RefreshScheduler) Start() {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.logger.Info("starting refresh scheduler",
		zap.Duration("interval", s.cfg.Interval),
		zap.Bool("run_on_startup", s.cfg.OnStartup),
	)

	s.wg.Add(1)
	go s.run()
}

// Stop cancels a running refresh and waits for the loop to exit.
func (s *RefreshScheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.logger.Info("stopping refresh scheduler")
	s.cancel()
	s.wg.Wait()
	s.logger.Info("refresh scheduler stopped")
}

func (s *RefreshScheduler) run() {
	defer s.wg.Done()

	if s.cfg.OnStartup {
		s.RunOnce(s.ctx)
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(s.ctx)
		}
	}
}

// RunOnce performs one refresh round if this instance wins the lock.
//
// Locking follows a cooldown model: the lock TTL is the interval, so after a
// clean round no other instance refreshes until the next tick. When any
// library failed the lock is released so another instance may retry.
// It reports whether a round ran.
func (s *RefreshScheduler) RunOnce(ctx context.Context) bool {
	acquired, err := s.locker.Acquire(ctx, refreshLockKey, s.cfg.Interval)
	if err != nil {
		s.logger.Error("failed to acquire refresh lock", zap.Error(err))
		return false
	}
	if !acquired {
		s.logger.Debug("another instance is refreshing libraries, skipping")
		return false
	}

	runCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	results, err := s.refresher.SyncAll(runCtx)
	s.metrics.TrackedUsers(len(results))

	failed := 0
	games := 0
	for _, r := range results {
		if r.Error != nil {
			failed++
			continue
		}
		games += r.Games
	}

	if err != nil || failed > 0 {
		if relErr := s.locker.Release(context.WithoutCancel(ctx), refreshLockKey); relErr != nil {
			s.logger.Error("failed to release refresh lock", zap.Error(relErr))
		}
		fields := []zap.Field{
			zap.Int("users", len(results)),
			zap.Int("failed", failed),
			zap.Int("games", games),
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			fields = append(fields, zap.Error(err))
		}
		s.logger.Warn("library refresh finished with errors, lock released for retry", fields...)
		return true
	}

	s.logger.Info("library refresh completed, lock held for cooldown",
		zap.Int("users", len(results)),
		zap.Int("games", games),
		zap.Duration("cooldown", s.cfg.Interval),
	)
	return true
}
