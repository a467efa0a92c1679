package job

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"game-recommendation-service/internal/app/service"
	"game-recommendation-service/internal/metrics"
	"game-recommendation-service/pkg/locker"
)

type fakeRefresher struct {
	results []service.SyncResult
	err     error
	calls   atomic.Int32
}

func (f *fakeRefresher) SyncAll(context.Context) ([]service.SyncResult, error) {
	f.calls.Add(1)
	return f.results, f.err
}

func newTestLocker(t *testing.T) (*locker.RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return locker.NewRedisLocker(client, "games", zap.NewNop()), mr
}

func testConfig() RefreshConfig {
	return RefreshConfig{Interval: time.Hour, Timeout: time.Minute}
}

func TestRunOnce_SuccessHoldsLock(t *testing.T) {
	lock, mr := newTestLocker(t)
	refresher := &fakeRefresher{results: []service.SyncResult{{SteamID: "1", Games: 10}}}

	s := NewRefreshScheduler(refresher, testConfig(), lock, metrics.New(), zap.NewNop())

	assert.True(t, s.RunOnce(context.Background()))
	assert.True(t, mr.Exists("games:lock:"+refreshLockKey), "lock kept for cooldown")

	other := NewRefreshScheduler(refresher, testConfig(), lock, nil, zap.NewNop())
	assert.False(t, other.RunOnce(context.Background()), "second round is skipped during cooldown")
	assert.Equal(t, int32(1), refresher.calls.Load())
}

func TestRunOnce_FailureReleasesLock(t *testing.T) {
	lock, mr := newTestLocker(t)
	refresher := &fakeRefresher{results: []service.SyncResult{
		{SteamID: "1", Games: 10},
		{SteamID: "2", Error: errors.New("steam: status 503")},
	}}

	s := NewRefreshScheduler(refresher, testConfig(), lock, nil, zap.NewNop())

	assert.True(t, s.RunOnce(context.Background()))
	assert.False(t, mr.Exists("games:lock:"+refreshLockKey))
	assert.True(t, s.RunOnce(context.Background()), "retry allowed right away")
	assert.Equal(t, int32(2), refresher.calls.Load())
}

func TestRunOnce_ListErrorReleasesLock(t *testing.T) {
	lock, mr := newTestLocker(t)
	refresher := &fakeRefresher{err: errors.New("listing tracked users: db down")}

	s := NewRefreshScheduler(refresher, testConfig(), lock, nil, zap.NewNop())

	assert.True(t, s.RunOnce(context.Background()))
	assert.False(t, mr.Exists("games:lock:"+refreshLockKey))
}

func TestStartStop_RunsOnStartup(t *testing.T) {
	lock, _ := newTestLocker(t)
	refresher := &fakeRefresher{}
	cfg := testConfig()
	cfg.OnStartup = true

	s := NewRefreshScheduler(refresher, cfg, lock, nil, zap.NewNop())
	s.Start()

	require.Eventually(t, func() bool { return refresher.calls.Load() == 1 }, time.Second, 10*time.Millisecond)
	s.Stop()
}

func TestStop_WithoutStart(t *testing.T) {
	s := NewRefreshScheduler(&fakeRefresher{}, testConfig(), nil, nil, zap.NewNop())

	assert.NotPanics(t, s.Stop)
}
