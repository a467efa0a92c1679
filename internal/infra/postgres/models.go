package postgres

import (
	"time"

	"game-recommendation-service/internal/domain"

	"github.com/lib/pq"
)

// GameModel is the GORM model for the games table.
type GameModel struct {
	AppID      int            `gorm:"primaryKey;autoIncrement:false"`
	Source     string         `gorm:"type:varchar(20);not null"`
	ExternalID string         `gorm:"type:varchar(100)"`
	Name       string         `gorm:"type:varchar(500);not null"`
	Summary    string         `gorm:"type:text"`
	Genres     pq.StringArray `gorm:"type:text[]"`
	Tags       pq.StringArray `gorm:"type:text[]"`

	// Quality
	CriticRatingValue  *float64
	CriticRatingMax    *float64
	CriticRatingSource string `gorm:"type:varchar(50)"`
	Metacritic         *float64
	OpenCritic         *float64
	SteamPositivePct   *float64
	SteamPositive      *int
	SteamNegative      *int

	// Duration
	EstimatedHours *float64

	// Presentation
	ImageURL string `gorm:"type:varchar(1000)"`
	StoreURL string `gorm:"type:varchar(1000)"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GameModel.
func (GameModel) TableName() string {
	return "games"
}

// ToDomain converts GameModel to domain.CatalogItem.
func (m *GameModel) ToDomain() *domain.CatalogItem {
	item := &domain.CatalogItem{
		AppID:            m.AppID,
		ExternalID:       m.ExternalID,
		Source:           domain.Source(m.Source),
		Name:             m.Name,
		Summary:          m.Summary,
		Genres:           m.Genres,
		Tags:             m.Tags,
		Metacritic:       m.Metacritic,
		OpenCritic:       m.OpenCritic,
		SteamPositivePct: m.SteamPositivePct,
		SteamPositive:    m.SteamPositive,
		SteamNegative:    m.SteamNegative,
		EstimatedHours:   m.EstimatedHours,
		ImageURL:         m.ImageURL,
		StoreURL:         m.StoreURL,
		UpdatedAt:        m.UpdatedAt,
	}
	if m.CriticRatingValue != nil && m.CriticRatingMax != nil {
		item.CriticRating = &domain.Rating{
			Value:  *m.CriticRatingValue,
			Max:    *m.CriticRatingMax,
			Source: m.CriticRatingSource,
		}
	}

	return item
}

// GameFromDomain creates a GameModel from domain.CatalogItem.
func GameFromDomain(c *domain.CatalogItem) *GameModel {
	m := &GameModel{
		AppID:            c.AppID,
		Source:           string(c.Source),
		ExternalID:       c.ExternalID,
		Name:             c.Name,
		Summary:          c.Summary,
		Genres:           c.Genres,
		Tags:             c.Tags,
		Metacritic:       c.Metacritic,
		OpenCritic:       c.OpenCritic,
		SteamPositivePct: c.SteamPositivePct,
		SteamPositive:    c.SteamPositive,
		SteamNegative:    c.SteamNegative,
		EstimatedHours:   c.EstimatedHours,
		ImageURL:         c.ImageURL,
		StoreURL:         c.StoreURL,
	}
	if m.Source == "" {
		m.Source = string(domain.SourceSteam)
	}
	if c.CriticRating != nil {
		m.CriticRatingValue = domain.Float(c.CriticRating.Value)
		m.CriticRatingMax = domain.Float(c.CriticRating.Max)
		m.CriticRatingSource = c.CriticRating.Source
	}

	return m
}

// OwnershipModel is the GORM model for the ownerships table.
type OwnershipModel struct {
	SteamID              string `gorm:"type:varchar(32);primaryKey"`
	AppID                int    `gorm:"primaryKey;autoIncrement:false"`
	PlaytimeMinutes      int    `gorm:"not null;default:0"`
	LastPlayedAt         *time.Time
	AchievementsTotal    *int
	AchievementsUnlocked *int

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for OwnershipModel.
func (OwnershipModel) TableName() string {
	return "ownerships"
}

// ToDomain converts OwnershipModel to domain.Ownership.
func (m *OwnershipModel) ToDomain() domain.Ownership {
	return domain.Ownership{
		SteamID:              m.SteamID,
		AppID:                m.AppID,
		PlaytimeMinutes:      m.PlaytimeMinutes,
		LastPlayedAt:         m.LastPlayedAt,
		AchievementsTotal:    m.AchievementsTotal,
		AchievementsUnlocked: m.AchievementsUnlocked,
	}
}

// OwnershipFromDomain creates an OwnershipModel from domain.Ownership.
func OwnershipFromDomain(o domain.Ownership) *OwnershipModel {
	return &OwnershipModel{
		SteamID:              o.SteamID,
		AppID:                o.AppID,
		PlaytimeMinutes:      o.PlaytimeMinutes,
		LastPlayedAt:         o.LastPlayedAt,
		AchievementsTotal:    o.AchievementsTotal,
		AchievementsUnlocked: o.AchievementsUnlocked,
	}
}
