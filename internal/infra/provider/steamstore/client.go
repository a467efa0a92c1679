// Package steamstore implements the Steam Store appdetails enricher.
package steamstore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"game-recommendation-service/internal/domain"
	"game-recommendation-service/internal/infra/provider"
)

// Endpoint is the Store API path for app details.
const Endpoint = "/api/appdetails"

// Client implements domain.GameEnricher for the Steam Store.
type Client struct {
	caller  *provider.Caller
	country string
	lang    string
	logger  *zap.Logger
}

// New creates a new Steam Store client.
func New(cfg provider.ClientConfig, country, lang string, logger *zap.Logger) *Client {
	return &Client{
		caller:  provider.NewCaller("steamstore", cfg, logger),
		country: country,
		lang:    lang,
		logger:  logger,
	}
}

// Name returns the provider identifier.
func (c *Client) Name() string {
	return c.caller.Name()
}

// Enrich fills description, genres, categories, header image and Metacritic
// score of a Steam game.
func (c *Client) Enrich(ctx context.Context, game *domain.CatalogItem) error {
	if game == nil || game.AppID == 0 {
		return fmt.Errorf("steamstore: game has no app id")
	}

	id := strconv.Itoa(game.AppID)
	resp, err := c.caller.Do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetQueryParams(map[string]string{
				"appids": id,
				"cc":     c.country,
				"l":      c.lang,
			}).
			SetResult(&AppDetailsResponse{}).
			Get(Endpoint)
	})
	if err != nil {
		return fmt.Errorf("fetching store details for app %d: %w", game.AppID, err)
	}

	result := *resp.Result().(*AppDetailsResponse)
	envelope, ok := result[id]
	if !ok || !envelope.Success {
		return fmt.Errorf("store details for app %d: %w", game.AppID, provider.ErrNotFound)
	}

	envelope.Data.ApplyTo(game)

	c.logger.Debug("steamstore enrich completed",
		zap.Int("app_id", game.AppID),
		zap.Int("genres", len(game.Genres)),
	)

	return nil
}

// HealthCheck verifies the provider is accessible.
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.caller.Ping(ctx, Endpoint, map[string]string{"appids": "10", "filters": "basic"})
}
