package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"game-recommendation-service/internal/domain"
)

const batchSize = 100

var gameUpdateColumns = []string{
	"source", "external_id", "name", "summary", "genres", "tags",
	"critic_rating_value", "critic_rating_max", "critic_rating_source",
	"metacritic", "open_critic", "steam_positive_pct", "steam_positive", "steam_negative",
	"estimated_hours", "image_url", "store_url", "updated_at",
}

var ownershipUpdateColumns = []string{
	"playtime_minutes", "last_played_at",
	"achievements_total", "achievements_unlocked", "updated_at",
}

// Repository implements domain.LibraryRepository using PostgreSQL.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UpsertGames creates or updates catalog records keyed by app id.
// Games without a Steam app id are ignored. A game's UpdatedAt is kept when
// set, since it records when its metadata was last enriched.
func (r *Repository) UpsertGames(ctx context.Context, games []*domain.CatalogItem) error {
	now := time.Now().UTC()
	models := make([]*GameModel, 0, len(games))
	for _, g := range games {
		if g == nil || g.AppID <= 0 {
			continue
		}
		m := GameFromDomain(g)
		m.UpdatedAt = g.UpdatedAt.UTC()
		if m.UpdatedAt.IsZero() {
			m.UpdatedAt = now
		}
		models = append(models, m)
	}
	if len(models) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "app_id"}},
		DoUpdates: clause.AssignmentColumns(gameUpdateColumns),
	}).CreateInBatches(models, batchSize).Error
	if err != nil {
		return fmt.Errorf("upserting games: %w", err)
	}

	return nil
}

// UpsertOwnerships creates or updates the playtime and achievement state of
// each (steam id, app id) pair.
func (r *Repository) UpsertOwnerships(ctx context.Context, ownerships []domain.Ownership) error {
	if len(ownerships) == 0 {
		return nil
	}

	now := time.Now().UTC()
	models := make([]*OwnershipModel, len(ownerships))
	for i, o := range ownerships {
		models[i] = OwnershipFromDomain(o)
		models[i].UpdatedAt = now
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "steam_id"}, {Name: "app_id"}},
		DoUpdates: clause.AssignmentColumns(ownershipUpdateColumns),
	}).CreateInBatches(models, batchSize).Error
	if err != nil {
		return fmt.Errorf("upserting ownerships: %w", err)
	}

	return nil
}

// ListLibrary returns the user's ownerships joined with their catalog
// records, ordered by app id. An ownership whose game is missing comes back
// with a nil Game so the ranking flow can report it.
func (r *Repository) ListLibrary(ctx context.Context, steamID string) ([]domain.OwnedGame, error) {
	var owned []OwnershipModel
	if err := r.db.WithContext(ctx).
		Where("steam_id = ?", steamID).
		Order("app_id").
		Find(&owned).Error; err != nil {
		return nil, fmt.Errorf("listing ownerships: %w", err)
	}
	if len(owned) == 0 {
		return []domain.OwnedGame{}, nil
	}

	appIDs := make([]int, len(owned))
	for i, o := range owned {
		appIDs[i] = o.AppID
	}

	var games []GameModel
	if err := r.db.WithContext(ctx).
		Where("app_id IN ?", appIDs).
		Find(&games).Error; err != nil {
		return nil, fmt.Errorf("listing library games: %w", err)
	}

	byID := make(map[int]*domain.CatalogItem, len(games))
	for i := range games {
		byID[games[i].AppID] = games[i].ToDomain()
	}

	library := make([]domain.OwnedGame, len(owned))
	for i := range owned {
		library[i] = domain.OwnedGame{
			Ownership: owned[i].ToDomain(),
			Game:      byID[owned[i].AppID],
		}
	}

	return library, nil
}

// GetGame retrieves a catalog record by app id.
func (r *Repository) GetGame(ctx context.Context, appID int) (*domain.CatalogItem, error) {
	var model GameModel
	err := r.db.WithContext(ctx).Where("app_id = ?", appID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Not found
		}

		return nil, fmt.Errorf("getting game by app id: %w", err)
	}

	return model.ToDomain(), nil
}

// ListTrackedUsers returns every steam id with at least one ownership.
func (r *Repository) ListTrackedUsers(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&OwnershipModel{}).
		Distinct("steam_id").
		Order("steam_id").
		Pluck("steam_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("listing tracked users: %w", err)
	}

	return ids, nil
}

// CountGames returns the number of catalog records.
func (r *Repository) CountGames(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&GameModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting games: %w", err)
	}

	return count, nil
}
