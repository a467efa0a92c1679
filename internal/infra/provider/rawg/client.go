// Package rawg implements the RAWG catalog client.
package rawg

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"game-recommendation-service/internal/domain"
	"game-recommendation-service/internal/infra/provider"
)

// RAWG API paths.
const (
	GamesEndpoint  = "/games"
	GenresEndpoint = "/genres"
)

// maxPageSize is the RAWG per-page limit.
const maxPageSize = 40

// genreSlugs maps the vibe vocabulary onto RAWG genre slugs.
var genreSlugs = map[string]string{
	"action":                     "action",
	"adventure":                  "adventure",
	"rpg":                        "role-playing-games-rpg",
	"role-playing (rpg)":         "role-playing-games-rpg",
	"simulation":                 "simulation",
	"casual":                     "casual",
	"puzzle":                     "puzzle",
	"strategy":                   "strategy",
	"turn-based strategy (tbs)":  "strategy",
	"real time strategy (rts)":   "strategy",
	"shooter":                    "shooter",
	"fighting":                   "fighting",
	"hack and slash/beat 'em up": "action",
	"sports":                     "sports",
	"racing":                     "racing",
	"platform":                   "platformer",
	"platformer":                 "platformer",
	"arcade":                     "arcade",
	"massively multiplayer":      "massively-multiplayer",
	"card & board game":          "board-games",
}

// Client implements domain.CatalogProvider for RAWG.
type Client struct {
	caller *provider.Caller
	apiKey string
	logger *zap.Logger
}

// New creates a new RAWG client.
func New(cfg provider.ClientConfig, apiKey string, logger *zap.Logger) *Client {
	return &Client{
		caller: provider.NewCaller("rawg", cfg, logger),
		apiKey: apiKey,
		logger: logger,
	}
}

// Name returns the provider identifier.
func (c *Client) Name() string {
	return c.caller.Name()
}

// Search returns games matching any of the query's genres, ordered by
// Metacritic score. Keywords become RAWG tag filters.
func (c *Client) Search(ctx context.Context, q domain.CatalogQuery) ([]*domain.CatalogItem, error) {
	resp, err := c.caller.Do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetQueryParams(searchParams(c.apiKey, q)).
			SetResult(&GamesResponse{}).
			Get(GamesEndpoint)
	})
	if err != nil {
		c.logger.Warn("rawg search failed", zap.Error(err))

		return nil, fmt.Errorf("searching rawg: %w", err)
	}

	result := resp.Result().(*GamesResponse)
	items := make([]*domain.CatalogItem, 0, len(result.Results))
	for i := range result.Results {
		items = append(items, result.Results[i].ToDomain())
	}

	c.logger.Info("rawg search completed",
		zap.Int("count", len(items)),
		zap.Int("total", result.Count),
	)

	return items, nil
}

func searchParams(apiKey string, q domain.CatalogQuery) map[string]string {
	params := map[string]string{
		"key":       apiKey,
		"ordering":  "-metacritic",
		"page_size": strconv.Itoa(pageSize(q.PageSize)),
	}

	var genres []string
	seen := map[string]bool{}
	for _, g := range q.Genres {
		slug, ok := genreSlugs[strings.ToLower(strings.TrimSpace(g))]
		if ok && !seen[slug] {
			seen[slug] = true
			genres = append(genres, slug)
		}
	}
	if len(genres) > 0 {
		params["genres"] = strings.Join(genres, ",")
	}

	var tags []string
	for _, k := range q.Keywords {
		if slug := slugify(k); slug != "" {
			tags = append(tags, slug)
		}
	}
	if len(tags) > 0 {
		params["tags"] = strings.Join(tags, ",")
	}

	return params
}

func pageSize(n int) int {
	if n <= 0 || n > maxPageSize {
		return maxPageSize
	}
	return n
}

func slugify(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}

// HealthCheck verifies the provider is accessible.
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.caller.Ping(ctx, GenresEndpoint, map[string]string{"key": c.apiKey, "page_size": "1"})
}
