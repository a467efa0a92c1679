package steamstore

import (
	"html"
	"strings"

	"game-recommendation-service/internal/domain"
)

// AppDetailsResponse is the appdetails payload, keyed by app id.
type AppDetailsResponse map[string]AppDetailsEnvelope

// AppDetailsEnvelope wraps the details of one app.
type AppDetailsEnvelope struct {
	Success bool       `json:"success"`
	Data    AppDetails `json:"data"`
}

// AppDetails holds the store fields we read.
type AppDetails struct {
	Type             string        `json:"type"`
	Name             string        `json:"name"`
	SteamAppID       int           `json:"steam_appid"`
	ShortDescription string        `json:"short_description"`
	HeaderImage      string        `json:"header_image"`
	Metacritic       *Metacritic   `json:"metacritic"`
	Genres           []Description `json:"genres"`
	Categories       []Description `json:"categories"`
	Recommendations  *struct {
		Total int `json:"total"`
	} `json:"recommendations"`
}

// Metacritic is the critic score block.
type Metacritic struct {
	Score int    `json:"score"`
	URL   string `json:"url"`
}

// Description is a genre or category entry.
type Description struct {
	ID          any    `json:"id"` // string for genres, number for categories
	Description string `json:"description"`
}

// ApplyTo merges the store details into a catalog record. Existing values
// are only overwritten when the store has something better.
func (d *AppDetails) ApplyTo(game *domain.CatalogItem) {
	if game.Name == "" {
		game.Name = d.Name
	}
	if d.ShortDescription != "" {
		game.Summary = html.UnescapeString(strings.TrimSpace(d.ShortDescription))
	}
	if d.HeaderImage != "" {
		game.ImageURL = d.HeaderImage
	}
	if d.Metacritic != nil && d.Metacritic.Score > 0 {
		game.Metacritic = domain.Float(float64(d.Metacritic.Score))
	}
	if len(d.Genres) > 0 {
		genres := make([]string, 0, len(d.Genres))
		for _, g := range d.Genres {
			genres = append(genres, g.Description)
		}
		game.Genres = genres
	}
	for _, c := range d.Categories {
		game.Tags = appendUnique(game.Tags, c.Description)
	}
}

func appendUnique(list []string, v string) []string {
	if v == "" {
		return list
	}
	for _, existing := range list {
		if strings.EqualFold(existing, v) {
			return list
		}
	}
	return append(list, v)
}
