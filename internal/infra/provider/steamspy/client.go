// Package steamspy implements the SteamSpy review and tag enricher.
package steamspy

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"game-recommendation-service/internal/domain"
	"game-recommendation-service/internal/infra/provider"
)

// Endpoint is the SteamSpy API path.
const Endpoint = "/api.php"

// Client implements domain.GameEnricher for SteamSpy.
type Client struct {
	caller *provider.Caller
	logger *zap.Logger
}

// New creates a new SteamSpy client. SteamSpy allows about one request per
// second; cfg.RateLimit should reflect that.
func New(cfg provider.ClientConfig, logger *zap.Logger) *Client {
	return &Client{
		caller: provider.NewCaller("steamspy", cfg, logger),
		logger: logger,
	}
}

// Name returns the provider identifier.
func (c *Client) Name() string {
	return c.caller.Name()
}

// Enrich fills Steam review counts and user tags.
func (c *Client) Enrich(ctx context.Context, game *domain.CatalogItem) error {
	if game == nil || game.AppID == 0 {
		return fmt.Errorf("steamspy: game has no app id")
	}

	resp, err := c.caller.Do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetQueryParams(map[string]string{
				"request": "appdetails",
				"appid":   strconv.Itoa(game.AppID),
			}).
			SetResult(&AppDetails{}).
			Get(Endpoint)
	})
	if err != nil {
		return fmt.Errorf("fetching steamspy details for app %d: %w", game.AppID, err)
	}

	details := resp.Result().(*AppDetails)
	// Unknown apps come back as an all-zero record.
	if details.AppID == 0 || details.Name == "" {
		return fmt.Errorf("steamspy details for app %d: %w", game.AppID, provider.ErrNotFound)
	}

	details.ApplyTo(game)

	c.logger.Debug("steamspy enrich completed",
		zap.Int("app_id", game.AppID),
		zap.Int("positive", details.Positive),
		zap.Int("negative", details.Negative),
	)

	return nil
}

// HealthCheck verifies the provider is accessible.
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.caller.Ping(ctx, Endpoint, map[string]string{"request": "appdetails", "appid": "10"})
}
