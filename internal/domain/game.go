// Package domain contains the core business logic and entities.
// This package has no external dependencies (only stdlib).
package domain

import (
	"time"
)

// Source identifies the catalog a game record came from.
type Source string

const (
	SourceSteam Source = "Steam"
	SourceIGDB  Source = "IGDB"
	SourceRAWG  Source = "RAWG"
)

// Rating is a rating on its source's own scale (e.g. 0-100, 0-5).
// Callers must go through Percent instead of reading Value directly.
type Rating struct {
	Value  float64 `json:"value"`
	Max    float64 `json:"max"`
	Source string  `json:"source"`
}

// Percent returns the rating mapped onto 0-100.
func (r Rating) Percent() float64 {
	if r.Max <= 0 {
		return 0
	}
	return Clamp01(r.Value/r.Max) * 100
}

// CatalogItem is a game as described by a catalog (Steam, IGDB, RAWG).
// Every quality and duration field is optional; nil means "unknown".
type CatalogItem struct {
	// Identity
	AppID      int    `json:"app_id,omitempty"` // Steam app id, 0 when unknown
	ExternalID string `json:"external_id,omitempty"`
	Source     Source `json:"source"`
	Name       string `json:"name"`
	Summary    string `json:"summary,omitempty"`

	// Classification
	Genres []string `json:"genres,omitempty"`
	Tags   []string `json:"tags,omitempty"`

	// Quality (0-100 unless stated otherwise)
	CriticRating     *Rating  `json:"critic_rating,omitempty"`
	Metacritic       *float64 `json:"metacritic,omitempty"`
	OpenCritic       *float64 `json:"open_critic,omitempty"`
	SteamPositivePct *float64 `json:"steam_positive_pct,omitempty"`
	SteamPositive    *int     `json:"steam_positive,omitempty"`
	SteamNegative    *int     `json:"steam_negative,omitempty"`

	// Duration
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`

	// Presentation
	ImageURL string `json:"image_url,omitempty"`
	StoreURL string `json:"store_url,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Key returns a stable identity for deduplication within one request.
func (c *CatalogItem) Key() string {
	if c.ExternalID != "" {
		return string(c.Source) + ":" + c.ExternalID
	}
	return string(c.Source) + ":" + c.Name
}

// Ownership links a Steam user to a game they own.
type Ownership struct {
	SteamID              string     `json:"steam_id"`
	AppID                int        `json:"app_id"`
	PlaytimeMinutes      int        `json:"playtime_minutes"`
	LastPlayedAt         *time.Time `json:"last_played_at,omitempty"`
	AchievementsTotal    *int       `json:"achievements_total,omitempty"`
	AchievementsUnlocked *int       `json:"achievements_unlocked,omitempty"`
}

// PlaytimeHours returns the lifetime playtime in hours.
func (o Ownership) PlaytimeHours() float64 {
	return float64(o.PlaytimeMinutes) / 60
}

// AchievementRatio returns unlocked/total, and false when either side is unknown
// or the game has no achievements.
func (o Ownership) AchievementRatio() (float64, bool) {
	if o.AchievementsTotal == nil || o.AchievementsUnlocked == nil || *o.AchievementsTotal <= 0 {
		return 0, false
	}
	return Clamp01(float64(*o.AchievementsUnlocked) / float64(*o.AchievementsTotal)), true
}

// OwnedGame is the read model the ranking flow consumes: an ownership joined
// with its catalog record.
type OwnedGame struct {
	Ownership Ownership    `json:"ownership"`
	Game      *CatalogItem `json:"game"`
}

// Float returns a pointer to v. Handy for optional fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
