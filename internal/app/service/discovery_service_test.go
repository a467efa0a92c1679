package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"game-recommendation-service/internal/domain"
	"game-recommendation-service/internal/metrics"
)

func newDiscoveryService(cache domain.Cache, catalogs ...domain.CatalogProvider) *DiscoveryService {
	s := NewDiscoveryService(catalogs, cache, DiscoveryConfig{
		PageSize: 40,
		Timeout:  time.Second,
		CacheTTL: 30 * time.Minute,
	}, metrics.New(), zap.NewNop())
	s.now = clock
	return s
}

func catalogItem(src domain.Source, id, name string, metacritic float64, genres ...string) *domain.CatalogItem {
	return &domain.CatalogItem{
		Source:     src,
		ExternalID: id,
		Name:       name,
		Genres:     genres,
		Metacritic: domain.Float(metacritic),
	}
}

func TestDiscover_MergesAndRanks(t *testing.T) {
	igdb := &fakeCatalog{name: "igdb", items: []*domain.CatalogItem{
		catalogItem(domain.SourceIGDB, "1", "Hades", 93, "Action", "RPG"),
		catalogItem(domain.SourceIGDB, "2", "Stardew Valley", 89, "Simulation"),
	}}
	rawg := &fakeCatalog{name: "rawg", items: []*domain.CatalogItem{
		catalogItem(domain.SourceRAWG, "10", "HADES™", 70, "Action"),
		catalogItem(domain.SourceRAWG, "11", "Celeste", 94, "Platformer"),
	}}

	s := newDiscoveryService(nil, igdb, rawg)
	result, err := s.Discover(context.Background(), domain.DiscoverRequest{
		Vibes: []domain.Vibe{domain.VibeRelax},
		Limit: 10,
	})

	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalAnalyzed, "duplicate title from the lower-priority catalog is dropped")
	require.Len(t, result.Items, 3)
	for i, item := range result.Items {
		assert.Equal(t, i+1, item.Rank)
		if item.Item.Name == "HADES™" {
			t.Fatal("rawg duplicate should have lost to igdb")
		}
	}
	assert.Equal(t, "Stardew Valley", result.Items[0].Item.Name, "vibe match lifts the simulation game")
	assert.Equal(t, 40, igdb.query.PageSize)
	assert.Contains(t, igdb.query.Genres, "simulation")
}

func TestDiscover_PartialFailure(t *testing.T) {
	igdb := &fakeCatalog{name: "igdb", err: errors.New("circuit breaker is open")}
	rawg := &fakeCatalog{name: "rawg", items: []*domain.CatalogItem{
		catalogItem(domain.SourceRAWG, "11", "Celeste", 94),
	}}
	cache := newFakeCache()

	s := newDiscoveryService(cache, igdb, rawg)
	result, err := s.Discover(context.Background(), domain.DiscoverRequest{Limit: 5})

	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Celeste", result.Items[0].Item.Name)
	assert.Empty(t, cache.data, "partial pages are not cached")
}

func TestDiscover_AllCatalogsFail(t *testing.T) {
	igdb := &fakeCatalog{name: "igdb", err: errors.New("timeout")}
	rawg := &fakeCatalog{name: "rawg", err: errors.New("status 503")}

	s := newDiscoveryService(nil, igdb, rawg)
	_, err := s.Discover(context.Background(), domain.DiscoverRequest{Limit: 5})

	require.ErrorIs(t, err, ErrCatalogsUnavailable)
	assert.Contains(t, err.Error(), "igdb: timeout")
	assert.Contains(t, err.Error(), "rawg: status 503")
}

func TestDiscover_NoCatalogs(t *testing.T) {
	s := newDiscoveryService(nil)

	_, err := s.Discover(context.Background(), domain.DiscoverRequest{Limit: 5})

	assert.ErrorIs(t, err, ErrNoCatalogs)
}

func TestDiscover_InvalidRequest(t *testing.T) {
	catalog := &fakeCatalog{name: "rawg"}
	s := newDiscoveryService(nil, catalog)

	_, err := s.Discover(context.Background(), domain.DiscoverRequest{Limit: 101})

	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	assert.Zero(t, catalog.calls.Load(), "validation happens before any fetch")
}

func TestDiscover_UsesCache(t *testing.T) {
	catalog := &fakeCatalog{name: "rawg", items: []*domain.CatalogItem{
		catalogItem(domain.SourceRAWG, "11", "Celeste", 94),
		catalogItem(domain.SourceRAWG, "12", "Hollow Knight", 87),
	}}
	cache := newFakeCache()
	s := newDiscoveryService(cache, catalog)
	req := domain.DiscoverRequest{Vibes: []domain.Vibe{domain.VibeHard}, Limit: 5}

	first, err := s.Discover(context.Background(), req)
	require.NoError(t, err)
	second, err := s.Discover(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, int32(1), catalog.calls.Load(), "second call is served from cache")
	require.Len(t, cache.data, 1)
	for key, ttl := range cache.ttls {
		assert.Contains(t, key, discoveryCachePrefix)
		assert.Equal(t, 30*time.Minute, ttl)
	}
	require.Len(t, second.Items, len(first.Items))
	for i := range first.Items {
		assert.Equal(t, first.Items[i].Item.Name, second.Items[i].Item.Name)
		assert.InDelta(t, first.Items[i].FinalScore, second.Items[i].FinalScore, 1e-12)
	}
}

func TestDiscover_DifferentLimitsShareCache(t *testing.T) {
	catalog := &fakeCatalog{name: "rawg", items: []*domain.CatalogItem{
		catalogItem(domain.SourceRAWG, "11", "Celeste", 94),
		catalogItem(domain.SourceRAWG, "12", "Hollow Knight", 87),
	}}
	s := newDiscoveryService(newFakeCache(), catalog)

	_, err := s.Discover(context.Background(), domain.DiscoverRequest{Limit: 1})
	require.NoError(t, err)
	result, err := s.Discover(context.Background(), domain.DiscoverRequest{Limit: 2})
	require.NoError(t, err)

	assert.Equal(t, int32(1), catalog.calls.Load())
	assert.Len(t, result.Items, 2)
}

func TestDiscover_CorruptCacheEntryIsRefetched(t *testing.T) {
	catalog := &fakeCatalog{name: "rawg", items: []*domain.CatalogItem{
		catalogItem(domain.SourceRAWG, "11", "Celeste", 94),
	}}
	cache := newFakeCache()
	s := newDiscoveryService(cache, catalog)
	req := domain.DiscoverRequest{Limit: 5}
	cache.data[discoveryCachePrefix+req.Query(40).CacheKey()] = []byte("{not json")

	result, err := s.Discover(context.Background(), req)

	require.NoError(t, err)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, int32(1), catalog.calls.Load())
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"DOOM Eternal™", "doometernal"},
		{"Doom: Eternal", "doometernal"},
		{"  Half-Life 2 ", "halflife2"},
		{"ファイナルファンタジー", "ファイナルファンタジー"},
		{"™®", ""},
		{"Pok\u00e9mon", "pok\u00e9mon"},
		{"Poke\u0301mon", "pok\u00e9mon"},
		{"ＤＯＯＭ Ｅｔｅｒｎａｌ", "doometernal"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeName(tt.in))
		})
	}
}

func TestMergeCatalogPages_KeepsUnnamed(t *testing.T) {
	merged := mergeCatalogPages([][]*domain.CatalogItem{
		{{Source: domain.SourceIGDB, ExternalID: "1"}, nil},
		{{Source: domain.SourceRAWG, ExternalID: "2"}},
	})

	assert.Len(t, merged, 2, "items without a name cannot be deduplicated by name")
}
