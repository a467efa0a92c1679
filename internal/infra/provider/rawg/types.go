package rawg

import (
	"strconv"
	"time"

	"game-recommendation-service/internal/domain"
)

// ratingScale is RAWG's user rating scale. rating_top is the most common
// bucket, not the maximum.
const ratingScale = 5

// GamesResponse is the paginated /games payload.
type GamesResponse struct {
	Count    int    `json:"count"`
	Next     string `json:"next"`
	Previous string `json:"previous"`
	Results  []Game `json:"results"`
}

// Game is a single RAWG game.
type Game struct {
	ID              int     `json:"id"`
	Slug            string  `json:"slug"`
	Name            string  `json:"name"`
	Released        string  `json:"released"`
	BackgroundImage string  `json:"background_image"`
	Rating          float64 `json:"rating"`
	RatingTop       int     `json:"rating_top"`
	RatingsCount    int     `json:"ratings_count"`
	Metacritic      int     `json:"metacritic"`
	Playtime        int     `json:"playtime"` // average hours
	Genres          []Tag   `json:"genres"`
	Tags            []Tag   `json:"tags"`
	Stores          []Store `json:"stores"`
}

// Tag is a RAWG genre or tag.
type Tag struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Language string `json:"language"`
}

// Store links a RAWG game to a store page.
type Store struct {
	Store struct {
		Slug string `json:"slug"`
	} `json:"store"`
	URL string `json:"url"`
}

// ToDomain converts a RAWG game to a catalog item.
func (g *Game) ToDomain() *domain.CatalogItem {
	item := &domain.CatalogItem{
		ExternalID: strconv.Itoa(g.ID),
		Source:     domain.SourceRAWG,
		Name:       g.Name,
		ImageURL:   g.BackgroundImage,
		StoreURL:   "https://rawg.io/games/" + g.Slug,
		UpdatedAt:  time.Now().UTC(),
	}

	for _, genre := range g.Genres {
		item.Genres = append(item.Genres, genre.Name)
	}
	for _, tag := range g.Tags {
		if tag.Language != "" && tag.Language != "eng" {
			continue
		}
		// Slugs are what the vibe vocabulary matches for RAWG.
		item.Tags = append(item.Tags, tag.Slug)
	}

	if g.Rating > 0 && g.RatingsCount > 0 {
		item.CriticRating = &domain.Rating{Value: g.Rating, Max: ratingScale, Source: "RAWG"}
	}
	if g.Metacritic > 0 {
		item.Metacritic = domain.Float(float64(g.Metacritic))
	}
	if g.Playtime > 0 {
		item.EstimatedHours = domain.Float(float64(g.Playtime))
	}

	return item
}
