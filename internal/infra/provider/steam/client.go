// Package steam implements the Steam Web API library client.
package steam

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"game-recommendation-service/internal/domain"
	"game-recommendation-service/internal/infra/provider"
)

// Steam Web API paths.
const (
	OwnedGamesEndpoint   = "/IPlayerService/GetOwnedGames/v1/"
	AchievementsEndpoint = "/ISteamUserStats/GetPlayerAchievements/v1/"
	ServerInfoEndpoint   = "/ISteamWebAPIUtil/GetServerInfo/v1/"
)

// ErrPrivateProfile is returned when the library of a user is not visible.
var ErrPrivateProfile = errors.New("steam profile is private or has no games")

// Client implements domain.LibraryProvider for the Steam Web API.
type Client struct {
	caller *provider.Caller
	apiKey string
	logger *zap.Logger
}

// New creates a new Steam Web API client.
func New(cfg provider.ClientConfig, apiKey string, logger *zap.Logger) *Client {
	return &Client{
		caller: provider.NewCaller("steam", cfg, logger),
		apiKey: apiKey,
		logger: logger,
	}
}

// Name returns the provider identifier.
func (c *Client) Name() string {
	return c.caller.Name()
}

// OwnedGames retrieves the user's library with lifetime playtime.
func (c *Client) OwnedGames(ctx context.Context, steamID string) ([]domain.OwnedGame, error) {
	resp, err := c.caller.Do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetQueryParams(map[string]string{
				"key":                       c.apiKey,
				"steamid":                   steamID,
				"include_appinfo":           "1",
				"include_played_free_games": "1",
				"format":                    "json",
			}).
			SetResult(&OwnedGamesResponse{}).
			Get(OwnedGamesEndpoint)
	})
	if err != nil {
		c.logger.Warn("steam owned games fetch failed",
			zap.String("steam_id", steamID),
			zap.Error(err),
		)

		return nil, fmt.Errorf("fetching steam library: %w", err)
	}

	result := resp.Result().(*OwnedGamesResponse)
	if result.Response.GameCount == nil {
		return nil, ErrPrivateProfile
	}

	games := make([]domain.OwnedGame, 0, len(result.Response.Games))
	for i := range result.Response.Games {
		games = append(games, result.Response.Games[i].ToDomain(steamID))
	}

	c.logger.Info("steam owned games fetch completed",
		zap.String("steam_id", steamID),
		zap.Int("count", len(games)),
	)

	return games, nil
}

// Achievements returns the total and unlocked achievement counts of one game.
// Games without stats yield domain.ErrNoStats.
func (c *Client) Achievements(ctx context.Context, steamID string, appID int) (int, int, error) {
	resp, err := c.caller.Do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetQueryParams(map[string]string{
				"key":     c.apiKey,
				"steamid": steamID,
				"appid":   strconv.Itoa(appID),
			}).
			SetResult(&PlayerAchievementsResponse{}).
			Get(AchievementsEndpoint)
	})
	if err != nil {
		// Steam answers 400 for games without stats and 403 for hidden ones.
		if provider.IsStatus(err, http.StatusBadRequest, http.StatusForbidden) {
			return 0, 0, domain.ErrNoStats
		}

		return 0, 0, fmt.Errorf("fetching achievements for app %d: %w", appID, err)
	}

	result := resp.Result().(*PlayerAchievementsResponse)
	if !result.PlayerStats.Success {
		return 0, 0, domain.ErrNoStats
	}

	total, unlocked := result.Counts()
	if total == 0 {
		return 0, 0, domain.ErrNoStats
	}

	return total, unlocked, nil
}

// HealthCheck verifies the provider is accessible.
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.caller.Ping(ctx, ServerInfoEndpoint, nil)
}
