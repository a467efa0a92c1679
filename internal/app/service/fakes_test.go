package service

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"game-recommendation-service/internal/domain"
)

var fixedNow = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// fakeRepo is an in-memory domain.LibraryRepository.
type fakeRepo struct {
	mu         sync.Mutex
	games      map[int]*domain.CatalogItem
	ownerships map[string]map[int]domain.Ownership
	err        error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		games:      map[int]*domain.CatalogItem{},
		ownerships: map[string]map[int]domain.Ownership{},
	}
}

func (r *fakeRepo) UpsertGames(_ context.Context, games []*domain.CatalogItem) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range games {
		if g == nil || g.AppID <= 0 {
			continue
		}
		cp := *g
		r.games[g.AppID] = &cp
	}
	return nil
}

func (r *fakeRepo) UpsertOwnerships(_ context.Context, ownerships []domain.Ownership) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range ownerships {
		if r.ownerships[o.SteamID] == nil {
			r.ownerships[o.SteamID] = map[int]domain.Ownership{}
		}
		r.ownerships[o.SteamID][o.AppID] = o
	}
	return nil
}

func (r *fakeRepo) ListLibrary(_ context.Context, steamID string) ([]domain.OwnedGame, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	library := []domain.OwnedGame{}
	for _, o := range r.ownerships[steamID] {
		var game *domain.CatalogItem
		if g, ok := r.games[o.AppID]; ok {
			cp := *g
			game = &cp
		}
		library = append(library, domain.OwnedGame{Ownership: o, Game: game})
	}
	sort.Slice(library, func(i, j int) bool {
		return library[i].Ownership.AppID < library[j].Ownership.AppID
	})
	return library, nil
}

func (r *fakeRepo) GetGame(_ context.Context, appID int) (*domain.CatalogItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[appID]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (r *fakeRepo) ListTrackedUsers(_ context.Context) ([]string, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]string, 0, len(r.ownerships))
	for id := range r.ownerships {
		users = append(users, id)
	}
	sort.Strings(users)
	return users, nil
}

func (r *fakeRepo) CountGames(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.games)), nil
}

// fakeCatalog is a domain.CatalogProvider returning a fixed page.
type fakeCatalog struct {
	name  string
	items []*domain.CatalogItem
	err   error
	calls atomic.Int32
	query domain.CatalogQuery
}

func (c *fakeCatalog) Name() string { return c.name }

func (c *fakeCatalog) Search(_ context.Context, q domain.CatalogQuery) ([]*domain.CatalogItem, error) {
	c.calls.Add(1)
	c.query = q
	if c.err != nil {
		return nil, c.err
	}
	return c.items, nil
}

func (c *fakeCatalog) HealthCheck(context.Context) error { return c.err }

// fakeLibrary is a domain.LibraryProvider.
type fakeLibrary struct {
	games        []domain.OwnedGame
	err          error
	achievements map[int][2]int // app id -> total, unlocked
	calls        atomic.Int32
}

func (l *fakeLibrary) Name() string { return "steam" }

func (l *fakeLibrary) OwnedGames(_ context.Context, steamID string) ([]domain.OwnedGame, error) {
	l.calls.Add(1)
	if l.err != nil {
		return nil, l.err
	}
	out := make([]domain.OwnedGame, len(l.games))
	for i, og := range l.games {
		out[i] = og
		out[i].Ownership.SteamID = steamID
		if og.Game != nil {
			cp := *og.Game
			out[i].Game = &cp
		}
	}
	return out, nil
}

func (l *fakeLibrary) Achievements(_ context.Context, _ string, appID int) (int, int, error) {
	a, ok := l.achievements[appID]
	if !ok {
		return 0, 0, domain.ErrNoStats
	}
	return a[0], a[1], nil
}

func (l *fakeLibrary) HealthCheck(context.Context) error { return l.err }

// fakeEnricher applies fn to each game.
type fakeEnricher struct {
	name  string
	fn    func(*domain.CatalogItem) error
	calls atomic.Int32
}

func (e *fakeEnricher) Name() string { return e.name }

func (e *fakeEnricher) Enrich(_ context.Context, game *domain.CatalogItem) error {
	e.calls.Add(1)
	return e.fn(game)
}

// fakeCache is an in-memory domain.Cache.
type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.ttls[key] = ttl
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *fakeCache) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = map[string][]byte{}
	return nil
}

// fakeLocker is an in-process locker.DistributedLocker without expiry.
type fakeLocker struct {
	mu   sync.Mutex
	held map[string]time.Duration
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: map[string]time.Duration{}}
}

func (l *fakeLocker) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return false, nil
	}
	l.held[key] = ttl
	return true, nil
}

func (l *fakeLocker) Release(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	return nil
}

func (l *fakeLocker) isHeld(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.held[key]
	return ok
}

type fakeChecker struct {
	name string
	err  error
}

func (c fakeChecker) Name() string                      { return c.name }
func (c fakeChecker) HealthCheck(context.Context) error { return c.err }
