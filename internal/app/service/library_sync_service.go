package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"game-recommendation-service/internal/domain"
	"game-recommendation-service/internal/metrics"
	"game-recommendation-service/pkg/locker"
)

var (
	// ErrNoLibraryProvider is returned when the Steam library provider is disabled.
	ErrNoLibraryProvider = errors.New("no library provider configured")
	// ErrSyncInProgress is returned while the user's library is being synced
	// or is still cooling down from the last successful sync.
	ErrSyncInProgress = errors.New("library sync in progress or cooling down")
)

// SyncConfig holds library sync settings.
type SyncConfig struct {
	Concurrency  int           // games enriched in parallel
	Cooldown     time.Duration // minimum time between successful syncs of one user
	EnrichMaxAge time.Duration // stored metadata younger than this is reused
}

// SyncResult holds the result of one user's library sync.
type SyncResult struct {
	SteamID        string
	Games          int
	Enriched       int // games sent through the enrichers
	Reused         int // games whose stored metadata was fresh enough
	EnrichFailures int
	Achievements   int // games with achievement stats
	Estimated      int // games whose duration came from the genre heuristic
	Duration       time.Duration
	Error          error
}

// LibrarySyncService pulls a user's Steam library, enriches every game and
// stores the result for the ranking flow.
type LibrarySyncService struct {
	repo      domain.LibraryRepository
	library   domain.LibraryProvider
	enrichers []domain.GameEnricher
	locker    locker.DistributedLocker // nil disables per-user locking
	cfg       SyncConfig
	metrics   *metrics.Recorder
	logger    *zap.Logger
	now       func() time.Time
}

// NewLibrarySyncService creates a new LibrarySyncService.
func NewLibrarySyncService(
	repo domain.LibraryRepository,
	library domain.LibraryProvider,
	enrichers []domain.GameEnricher,
	lock locker.DistributedLocker,
	cfg SyncConfig,
	rec *metrics.Recorder,
	logger *zap.Logger,
) *LibrarySyncService {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &LibrarySyncService{
		repo:      repo,
		library:   library,
		enrichers: enrichers,
		locker:    lock,
		cfg:       cfg,
		metrics:   rec,
		logger:    logger,
		now:       time.Now,
	}
}

func userLockKey(steamID string) string {
	return "sync:user:" + steamID
}

// SyncUser refreshes one user's library.
//
// The per-user lock doubles as a cooldown: it is kept until it expires after
// a successful sync and released straight away after a failed one.
func (s *LibrarySyncService) SyncUser(ctx context.Context, steamID string) (*SyncResult, error) {
	if s.library == nil {
		return nil, ErrNoLibraryProvider
	}

	if s.locker != nil {
		acquired, err := s.locker.Acquire(ctx, userLockKey(steamID), s.lockTTL())
		if err != nil {
			return nil, fmt.Errorf("acquiring sync lock: %w", err)
		}
		if !acquired {
			return nil, ErrSyncInProgress
		}
	}

	result := s.syncUser(ctx, steamID)
	s.metrics.SyncFinished(result.Games, result.Error, s.now())

	if result.Error != nil {
		if s.locker != nil {
			if err := s.locker.Release(context.WithoutCancel(ctx), userLockKey(steamID)); err != nil {
				s.logger.Warn("releasing sync lock failed", zap.String("steam_id", steamID), zap.Error(err))
			}
		}
		return result, result.Error
	}

	return result, nil
}

func (s *LibrarySyncService) lockTTL() time.Duration {
	if s.cfg.Cooldown > 0 {
		return s.cfg.Cooldown
	}
	return time.Minute
}

// SyncAll refreshes every tracked user one after another. Users still
// cooling down are skipped without being reported as failures.
func (s *LibrarySyncService) SyncAll(ctx context.Context) ([]SyncResult, error) {
	users, err := s.repo.ListTrackedUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tracked users: %w", err)
	}

	s.logger.Info("starting library refresh", zap.Int("users", len(users)))

	results := make([]SyncResult, 0, len(users))
	skipped := 0
	for _, steamID := range users {
		if ctx.Err() != nil {
			break
		}

		result, err := s.SyncUser(ctx, steamID)
		if errors.Is(err, ErrSyncInProgress) {
			skipped++
			continue
		}
		if result == nil {
			result = &SyncResult{SteamID: steamID, Error: err}
		}
		results = append(results, *result)
	}

	failed := 0
	for _, r := range results {
		if r.Error != nil {
			failed++
		}
	}

	s.logger.Info("library refresh completed",
		zap.Int("synced", len(results)-failed),
		zap.Int("failed", failed),
		zap.Int("skipped", skipped),
	)

	return results, ctx.Err()
}

func (s *LibrarySyncService) syncUser(ctx context.Context, steamID string) *SyncResult {
	start := time.Now()
	result := &SyncResult{SteamID: steamID}
	fail := func(err error) *SyncResult {
		result.Error = err
		result.Duration = time.Since(start)
		s.logger.Warn("library sync failed", zap.String("steam_id", steamID), zap.Error(err))
		return result
	}

	owned, err := s.library.OwnedGames(ctx, steamID)
	s.metrics.ProviderCall(s.library.Name(), err)
	if err != nil {
		return fail(fmt.Errorf("fetching owned games: %w", err))
	}

	var stats syncStats
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i := range owned {
		g.Go(func() error {
			s.prepare(gctx, steamID, &owned[i], &stats)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	games := make([]*domain.CatalogItem, 0, len(owned))
	ownerships := make([]domain.Ownership, 0, len(owned))
	for _, og := range owned {
		if og.Game != nil {
			games = append(games, og.Game)
		}
		ownerships = append(ownerships, og.Ownership)
	}

	if err := s.repo.UpsertGames(ctx, games); err != nil {
		return fail(fmt.Errorf("storing games: %w", err))
	}
	if err := s.repo.UpsertOwnerships(ctx, ownerships); err != nil {
		return fail(fmt.Errorf("storing ownerships: %w", err))
	}

	result.Games = len(owned)
	result.Enriched = int(stats.enriched.Load())
	result.Reused = int(stats.reused.Load())
	result.EnrichFailures = int(stats.enrichFailures.Load())
	result.Achievements = int(stats.achievements.Load())
	result.Estimated = int(stats.estimated.Load())
	result.Duration = time.Since(start)

	s.logger.Info("library synced",
		zap.String("steam_id", steamID),
		zap.Int("games", result.Games),
		zap.Int("enriched", result.Enriched),
		zap.Int("reused", result.Reused),
		zap.Int("enrich_failures", result.EnrichFailures),
		zap.Int("with_achievements", result.Achievements),
		zap.Duration("duration", result.Duration),
	)

	return result
}

type syncStats struct {
	enriched       atomic.Int64
	reused         atomic.Int64
	enrichFailures atomic.Int64
	achievements   atomic.Int64
	estimated      atomic.Int64
}

// prepare fills one owned game in place: catalog metadata, achievement
// counts and, as a last resort, a genre-based duration estimate.
// Every failure here is tolerated.
func (s *LibrarySyncService) prepare(ctx context.Context, steamID string, og *domain.OwnedGame, stats *syncStats) {
	og.Ownership.SteamID = steamID
	if og.Game == nil {
		og.Game = &domain.CatalogItem{AppID: og.Ownership.AppID, Source: domain.SourceSteam}
	}

	if stored := s.freshStored(ctx, og.Ownership.AppID); stored != nil {
		mergeLibraryFields(stored, og.Game)
		og.Game = stored
		stats.reused.Add(1)
	} else {
		s.enrich(ctx, og.Game, stats)
	}

	total, unlocked, err := s.library.Achievements(ctx, steamID, og.Ownership.AppID)
	switch {
	case err == nil:
		og.Ownership.AchievementsTotal = domain.Int(total)
		og.Ownership.AchievementsUnlocked = domain.Int(unlocked)
		stats.achievements.Add(1)
	case errors.Is(err, domain.ErrNoStats):
	default:
		s.logger.Debug("achievements unavailable",
			zap.String("steam_id", steamID),
			zap.Int("app_id", og.Ownership.AppID),
			zap.Error(err),
		)
	}

	if og.Game.EstimatedHours == nil {
		if hours, ok := domain.EstimateMainHours(og.Game.Genres); ok {
			og.Game.EstimatedHours = domain.Float(hours)
			stats.estimated.Add(1)
		}
	}
}

// enrich runs every enricher on game and stamps when that happened. A game
// with any failed enricher is stamped as already stale so the next sync
// retries it instead of reusing incomplete metadata.
func (s *LibrarySyncService) enrich(ctx context.Context, game *domain.CatalogItem, stats *syncStats) {
	stats.enriched.Add(1)
	failed := false
	for _, e := range s.enrichers {
		err := e.Enrich(ctx, game)
		s.metrics.ProviderCall(e.Name(), err)
		if err != nil {
			failed = true
			stats.enrichFailures.Add(1)
			s.logger.Debug("enrichment failed",
				zap.String("provider", e.Name()),
				zap.Int("app_id", game.AppID),
				zap.Error(err),
			)
		}
	}

	game.UpdatedAt = s.now().UTC()
	if failed && s.cfg.EnrichMaxAge > 0 {
		game.UpdatedAt = game.UpdatedAt.Add(-s.cfg.EnrichMaxAge - time.Second)
	}
}

// freshStored returns the stored record of appID when it is young enough to
// skip enrichment.
func (s *LibrarySyncService) freshStored(ctx context.Context, appID int) *domain.CatalogItem {
	if s.cfg.EnrichMaxAge <= 0 {
		return nil
	}
	stored, err := s.repo.GetGame(ctx, appID)
	if err != nil || stored == nil {
		return nil
	}
	if s.now().Sub(stored.UpdatedAt) > s.cfg.EnrichMaxAge {
		return nil
	}
	return stored
}

// mergeLibraryFields copies what the library endpoint knows best onto a
// stored record.
func mergeLibraryFields(stored, fromLibrary *domain.CatalogItem) {
	if fromLibrary.Name != "" {
		stored.Name = fromLibrary.Name
	}
	if stored.ImageURL == "" {
		stored.ImageURL = fromLibrary.ImageURL
	}
	if stored.StoreURL == "" {
		stored.StoreURL = fromLibrary.StoreURL
	}
}
