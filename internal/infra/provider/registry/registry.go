// Package registry builds the configured provider clients.
package registry

import (
	"context"

	"go.uber.org/zap"

	"game-recommendation-service/internal/config"
	"game-recommendation-service/internal/domain"
	"game-recommendation-service/internal/infra/provider"
	"game-recommendation-service/internal/infra/provider/igdb"
	"game-recommendation-service/internal/infra/provider/rawg"
	"game-recommendation-service/internal/infra/provider/steam"
	"game-recommendation-service/internal/infra/provider/steamspy"
	"game-recommendation-service/internal/infra/provider/steamstore"
)

// HealthChecker is implemented by every provider client.
type HealthChecker interface {
	Name() string
	HealthCheck(ctx context.Context) error
}

// Providers groups the clients by the role the services use them in.
type Providers struct {
	Library   domain.LibraryProvider
	Catalogs  []domain.CatalogProvider
	Enrichers []domain.GameEnricher

	checkers []HealthChecker
}

// Checkers returns every enabled client, for health reporting.
func (p *Providers) Checkers() []HealthChecker {
	return p.checkers
}

// NewProviders creates all configured provider clients.
// This is a factory function that centralizes provider initialization
// while maintaining dependency injection principles.
//
// Parameters:
//   - cfg: Provider configuration containing endpoints, credentials, rate limits, retry, and circuit breaker settings
//   - userAgent: User-Agent header sent to every provider
//   - logger: Zap logger instance for structured logging
//
// Disabled providers are skipped. Catalogs are returned in priority order
// (IGDB before RAWG): on duplicate games the earlier catalog wins.
func NewProviders(cfg config.ProviderConfig, userAgent string, logger *zap.Logger) *Providers {
	p := &Providers{}

	if cfg.Steam.Enabled {
		c := steam.New(clientConfig(cfg.Steam.ProviderEndpoint, userAgent), cfg.Steam.APIKey, logger)
		p.Library = c
		p.checkers = append(p.checkers, c)
	}

	if cfg.SteamStore.Enabled {
		c := steamstore.New(clientConfig(cfg.SteamStore.ProviderEndpoint, userAgent), cfg.SteamStore.Country, cfg.SteamStore.Language, logger)
		p.Enrichers = append(p.Enrichers, c)
		p.checkers = append(p.checkers, c)
	}

	if cfg.SteamSpy.Enabled {
		c := steamspy.New(clientConfig(cfg.SteamSpy, userAgent), logger)
		p.Enrichers = append(p.Enrichers, c)
		p.checkers = append(p.checkers, c)
	}

	if cfg.IGDB.Enabled {
		c := igdb.New(clientConfig(cfg.IGDB.ProviderEndpoint, userAgent), igdb.Credentials{
			ClientID:     cfg.IGDB.ClientID,
			ClientSecret: cfg.IGDB.ClientSecret,
			TokenURL:     cfg.IGDB.TokenURL,
		}, logger)
		p.Catalogs = append(p.Catalogs, c)
		p.checkers = append(p.checkers, c)
	}

	if cfg.RAWG.Enabled {
		c := rawg.New(clientConfig(cfg.RAWG.ProviderEndpoint, userAgent), cfg.RAWG.APIKey, logger)
		p.Catalogs = append(p.Catalogs, c)
		p.checkers = append(p.checkers, c)
	}

	logger.Info("providers initialized",
		zap.Bool("library", p.Library != nil),
		zap.Int("catalogs", len(p.Catalogs)),
		zap.Int("enrichers", len(p.Enrichers)),
	)

	return p
}

func clientConfig(e config.ProviderEndpoint, userAgent string) provider.ClientConfig {
	return provider.ClientConfig{
		BaseURL:   e.BaseURL,
		Timeout:   e.Timeout,
		UserAgent: userAgent,
		RateLimit: provider.RateLimitConfig{
			RequestsPerSecond: e.RateLimit.RequestsPerSecond,
			Burst:             e.RateLimit.Burst,
		},
		Retry: provider.RetryConfig{
			MaxAttempts: e.Retry.MaxAttempts,
			WaitTime:    e.Retry.WaitTime,
			MaxWaitTime: e.Retry.MaxWaitTime,
		},
		CB: provider.CBConfig{
			MaxRequests:  e.CB.MaxRequests,
			Interval:     e.CB.Interval,
			Timeout:      e.CB.Timeout,
			FailureRatio: e.CB.FailureRatio,
		},
	}
}
