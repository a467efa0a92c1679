// Package igdb implements the IGDB catalog client.
package igdb

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"game-recommendation-service/internal/domain"
	"game-recommendation-service/internal/infra/provider"
)

// IGDB API paths.
const (
	GamesEndpoint      = "/games"
	TimeToBeatEndpoint = "/game_time_to_beats"
	TokenEndpoint      = "/oauth2/token"
)

// maxPageSize is the IGDB per-request limit.
const maxPageSize = 500

// tokenSkew renews the token a bit before Twitch expires it.
const tokenSkew = time.Minute

// Credentials holds the Twitch application credentials.
type Credentials struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
}

// Client implements domain.CatalogProvider for IGDB.
type Client struct {
	caller *provider.Caller
	tokens *resty.Client
	creds  Credentials
	logger *zap.Logger

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
	now         func() time.Time
}

// New creates a new IGDB client.
func New(cfg provider.ClientConfig, creds Credentials, logger *zap.Logger) *Client {
	return &Client{
		caller: provider.NewCaller("igdb", cfg, logger),
		tokens: provider.NewRestyClient(provider.ClientConfig{
			BaseURL: creds.TokenURL,
			Timeout: cfg.Timeout,
			Retry:   cfg.Retry,
		}),
		creds:  creds,
		logger: logger,
		now:    time.Now,
	}
}

// Name returns the provider identifier.
func (c *Client) Name() string {
	return c.caller.Name()
}

// Search returns critic-rated games matching the query's genres and keywords,
// best rated first. Completion times are attached when IGDB has them.
func (c *Client) Search(ctx context.Context, q domain.CatalogQuery) ([]*domain.CatalogItem, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	var games []Game
	_, err = c.caller.Do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return c.authorize(r, token).
			SetBody(buildGamesQuery(q)).
			SetResult(&games).
			Post(GamesEndpoint)
	})
	if err != nil {
		if provider.IsStatus(err, http.StatusUnauthorized) {
			c.invalidateToken()
		}
		c.logger.Warn("igdb search failed", zap.Error(err))

		return nil, fmt.Errorf("searching igdb: %w", err)
	}

	items := make([]*domain.CatalogItem, 0, len(games))
	ids := make([]int64, 0, len(games))
	byID := make(map[int64]*domain.CatalogItem, len(games))
	for i := range games {
		item := games[i].ToDomain()
		items = append(items, item)
		ids = append(ids, games[i].ID)
		byID[games[i].ID] = item
	}

	if len(ids) > 0 {
		if err := c.attachTimeToBeat(ctx, token, ids, byID); err != nil {
			// Durations are optional; items stay neutral on duration.
			c.logger.Warn("igdb time to beat lookup failed", zap.Error(err))
		}
	}

	c.logger.Info("igdb search completed",
		zap.Int("count", len(items)),
	)

	return items, nil
}

func (c *Client) attachTimeToBeat(ctx context.Context, token string, ids []int64, byID map[int64]*domain.CatalogItem) error {
	var ttb []TimeToBeat
	_, err := c.caller.Do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return c.authorize(r, token).
			SetBody(buildTimeToBeatQuery(ids)).
			SetResult(&ttb).
			Post(TimeToBeatEndpoint)
	})
	if err != nil {
		return err
	}

	for _, t := range ttb {
		item, ok := byID[t.GameID]
		if !ok {
			continue
		}
		seconds := t.Normally
		if seconds <= 0 {
			seconds = t.Hastily
		}
		if seconds > 0 {
			item.EstimatedHours = domain.Float(float64(seconds) / 3600)
		}
	}

	return nil
}

func (c *Client) authorize(r *resty.Request, token string) *resty.Request {
	return r.
		SetHeader("Client-ID", c.creds.ClientID).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "text/plain").
		SetAuthToken(token)
}

// token returns a cached app access token, requesting a new one when the
// cached token is missing or about to expire.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && c.now().Before(c.expiresAt) {
		return c.accessToken, nil
	}

	var tr TokenResponse
	resp, err := c.tokens.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"client_id":     c.creds.ClientID,
			"client_secret": c.creds.ClientSecret,
			"grant_type":    "client_credentials",
		}).
		ExpectContentType("application/json").
		SetResult(&tr).
		Post(TokenEndpoint)
	if err != nil {
		return "", fmt.Errorf("requesting igdb token: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("requesting igdb token: %w", &provider.StatusError{Provider: "twitch", StatusCode: resp.StatusCode()})
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("requesting igdb token: empty access token")
	}

	c.accessToken = tr.AccessToken
	c.expiresAt = c.now().Add(time.Duration(tr.ExpiresIn)*time.Second - tokenSkew)

	c.logger.Debug("igdb token refreshed", zap.Time("expires_at", c.expiresAt))

	return c.accessToken, nil
}

func (c *Client) invalidateToken() {
	c.mu.Lock()
	c.accessToken = ""
	c.mu.Unlock()
}

// HealthCheck verifies credentials and API reachability.
func (c *Client) HealthCheck(ctx context.Context) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	resp, err := c.authorize(c.caller.HTTP().R().SetContext(ctx), token).
		SetBody("fields id; limit 1;").
		Post(GamesEndpoint)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("health check returned status %d", resp.StatusCode())
	}

	return nil
}
