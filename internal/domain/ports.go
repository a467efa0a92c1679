package domain

import (
	"context"
	"errors"
	"time"
)

// ErrNoStats is returned by a LibraryProvider when a game exposes no
// achievement stats for the user (private profile, no achievements).
var ErrNoStats = errors.New("no achievement stats available")

// LibraryRepository defines persistence of catalog records and ownerships.
// Implementations: internal/infra/postgres/repository.go
type LibraryRepository interface {
	// UpsertGames creates or updates catalog records keyed by Steam app id.
	UpsertGames(ctx context.Context, games []*CatalogItem) error

	// UpsertOwnerships replaces the playtime/achievement state of a user's games.
	UpsertOwnerships(ctx context.Context, ownerships []Ownership) error

	// ListLibrary returns the user's ownerships joined with their catalog records.
	ListLibrary(ctx context.Context, steamID string) ([]OwnedGame, error)

	// GetGame retrieves a catalog record by app id. Returns nil if not found.
	GetGame(ctx context.Context, appID int) (*CatalogItem, error)

	// ListTrackedUsers returns every Steam id with at least one ownership.
	ListTrackedUsers(ctx context.Context) ([]string, error)

	// CountGames returns the number of catalog records.
	CountGames(ctx context.Context) (int64, error)
}

// LibraryProvider fetches a user's owned games from the platform.
// Implementations: internal/infra/provider/steam/
type LibraryProvider interface {
	Name() string

	// OwnedGames returns the user's games with playtime. Game records carry
	// only what the library endpoint knows (name, icon).
	OwnedGames(ctx context.Context, steamID string) ([]OwnedGame, error)

	// Achievements returns total and unlocked achievement counts.
	Achievements(ctx context.Context, steamID string, appID int) (total, unlocked int, err error)

	HealthCheck(ctx context.Context) error
}

// CatalogProvider searches an external game catalog for discovery candidates.
// Implementations: internal/infra/provider/igdb/, internal/infra/provider/rawg/
type CatalogProvider interface {
	Name() string

	// Search returns at most q.PageSize items matching the query.
	Search(ctx context.Context, q CatalogQuery) ([]*CatalogItem, error)

	HealthCheck(ctx context.Context) error
}

// GameEnricher fills quality and metadata fields of a Steam game in place.
// Implementations: internal/infra/provider/steamstore/, internal/infra/provider/steamspy/
type GameEnricher interface {
	Name() string
	Enrich(ctx context.Context, game *CatalogItem) error
}

// Cache defines the interface for caching operations.
// Implementations: internal/infra/redis/cache.go
type Cache interface {
	// Get retrieves a value by key. Returns nil if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Clear removes all cached values.
	Clear(ctx context.Context) error
}
