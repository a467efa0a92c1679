package steamspy

import (
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"game-recommendation-service/internal/domain"
)

// maxTags caps how many user tags are merged into a record.
const maxTags = 20

// AppDetails is the SteamSpy appdetails payload.
type AppDetails struct {
	AppID          int    `json:"appid"`
	Name           string `json:"name"`
	Positive       int    `json:"positive"`
	Negative       int    `json:"negative"`
	AverageForever int    `json:"average_forever"` // minutes
	MedianForever  int    `json:"median_forever"`  // minutes
	Genre          string `json:"genre"`
	// Tags is an object of tag -> votes, or an empty array when there are none.
	Tags json.RawMessage `json:"tags"`
}

// TagVotes decodes Tags, tolerating the empty-array form.
func (d *AppDetails) TagVotes() map[string]int {
	votes := map[string]int{}
	if len(d.Tags) == 0 || d.Tags[0] != '{' {
		return votes
	}
	if err := json.Unmarshal(d.Tags, &votes); err != nil {
		return map[string]int{}
	}
	return votes
}

// TopTags returns the most voted tags, highest first, ties by name.
func (d *AppDetails) TopTags(n int) []string {
	votes := d.TagVotes()
	tags := make([]string, 0, len(votes))
	for t := range votes {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool {
		if votes[tags[i]] != votes[tags[j]] {
			return votes[tags[i]] > votes[tags[j]]
		}
		return tags[i] < tags[j]
	})
	if len(tags) > n {
		tags = tags[:n]
	}
	return tags
}

// ApplyTo merges review counts and tags into a catalog record.
func (d *AppDetails) ApplyTo(game *domain.CatalogItem) {
	if d.Positive+d.Negative > 0 {
		game.SteamPositive = domain.Int(d.Positive)
		game.SteamNegative = domain.Int(d.Negative)
	}

	for _, tag := range d.TopTags(maxTags) {
		exists := false
		for _, t := range game.Tags {
			if strings.EqualFold(t, tag) {
				exists = true
				break
			}
		}
		if !exists {
			game.Tags = append(game.Tags, tag)
		}
	}

	if len(game.Genres) == 0 && d.Genre != "" {
		for _, g := range strings.Split(d.Genre, ",") {
			if g = strings.TrimSpace(g); g != "" {
				game.Genres = append(game.Genres, g)
			}
		}
	}
}
