package igdb

import (
	"fmt"
	"strconv"
	"time"

	"game-recommendation-service/internal/domain"
)

// TokenResponse is the Twitch client-credentials token payload.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"` // seconds
	TokenType   string `json:"token_type"`
}

// Game is an IGDB game with the expanded fields we request.
type Game struct {
	ID                    int64     `json:"id"`
	Name                  string    `json:"name"`
	Summary               string    `json:"summary"`
	AggregatedRating      float64   `json:"aggregated_rating"` // 0-100, critics
	AggregatedRatingCount int       `json:"aggregated_rating_count"`
	TotalRating           float64   `json:"total_rating"`
	Genres                []Named   `json:"genres"`
	Themes                []Named   `json:"themes"`
	GameModes             []Named   `json:"game_modes"`
	Keywords              []Named   `json:"keywords"`
	Cover                 *Cover    `json:"cover"`
	URL                   string    `json:"url"`
	ExternalGames         []ExtGame `json:"external_games"`
}

// Named is an expanded reference with a name.
type Named struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Cover is an expanded cover image reference.
type Cover struct {
	ImageID string `json:"image_id"`
}

// ExtGame links an IGDB game to another store.
type ExtGame struct {
	Category int    `json:"category"` // 1 = Steam
	UID      string `json:"uid"`
}

// TimeToBeat is a game_time_to_beats record.
type TimeToBeat struct {
	GameID   int64 `json:"game_id"`
	Hastily  int64 `json:"hastily"`  // seconds
	Normally int64 `json:"normally"` // seconds
}

const steamExternalCategory = 1

// CoverURL returns the big cover image URL for an image id.
func CoverURL(imageID string) string {
	return fmt.Sprintf("https://images.igdb.com/igdb/image/upload/t_cover_big/%s.jpg", imageID)
}

// ToDomain converts an IGDB game to a catalog item.
func (g *Game) ToDomain() *domain.CatalogItem {
	item := &domain.CatalogItem{
		ExternalID: strconv.FormatInt(g.ID, 10),
		Source:     domain.SourceIGDB,
		Name:       g.Name,
		Summary:    g.Summary,
		StoreURL:   g.URL,
		UpdatedAt:  time.Now().UTC(),
	}

	for _, genre := range g.Genres {
		item.Genres = append(item.Genres, genre.Name)
	}
	// Themes, modes and keywords carry most of the vibe signal.
	for _, group := range [][]Named{g.Themes, g.GameModes, g.Keywords} {
		for _, n := range group {
			item.Tags = append(item.Tags, n.Name)
		}
	}

	if g.AggregatedRatingCount > 0 && g.AggregatedRating > 0 {
		item.CriticRating = &domain.Rating{Value: g.AggregatedRating, Max: 100, Source: "IGDB"}
	}
	if g.Cover != nil && g.Cover.ImageID != "" {
		item.ImageURL = CoverURL(g.Cover.ImageID)
	}
	for _, ext := range g.ExternalGames {
		if ext.Category != steamExternalCategory {
			continue
		}
		if appID, err := strconv.Atoi(ext.UID); err == nil {
			item.AppID = appID
			break
		}
	}

	return item
}
