// Package service provides application use cases.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"game-recommendation-service/internal/domain"
	"game-recommendation-service/internal/metrics"
)

// RecommendationService ranks a user's stored library.
type RecommendationService struct {
	repo    domain.LibraryRepository
	metrics *metrics.Recorder
	logger  *zap.Logger
	now     func() time.Time
}

// NewRecommendationService creates a new RecommendationService.
func NewRecommendationService(repo domain.LibraryRepository, rec *metrics.Recorder, logger *zap.Logger) *RecommendationService {
	return &RecommendationService{
		repo:    repo,
		metrics: rec,
		logger:  logger,
		now:     time.Now,
	}
}

// Rank loads the user's library and ranks it under req.Mode.
// An unknown user is not an error: the result is simply empty.
func (s *RecommendationService) Rank(ctx context.Context, req domain.RankingRequest) (*domain.RankingResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	library, err := s.repo.ListLibrary(ctx, req.SteamID)
	if err != nil {
		s.logger.Error("loading library failed",
			zap.String("steam_id", req.SteamID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("loading library: %w", err)
	}

	result, err := domain.RankLibrary(library, req, s.now().UTC())
	if err != nil {
		return nil, err
	}

	logSkipped(s.logger, "library", result.Skipped)
	s.metrics.ObserveRanking("library", req.Mode.String(), len(result.Items), len(result.Skipped), time.Since(start))

	s.logger.Debug("library ranked",
		zap.String("steam_id", req.SteamID),
		zap.String("mode", req.Mode.String()),
		zap.Int("analyzed", result.TotalGamesAnalyzed),
		zap.Int("returned", len(result.Items)),
		zap.Int("skipped", len(result.Skipped)),
	)

	return result, nil
}

// logSkipped reports dropped candidates. Missing catalog records are routine
// right after a partial sync, everything else points at bad data.
func logSkipped(logger *zap.Logger, flow string, skipped []domain.SkippedItem) {
	for _, sk := range skipped {
		level := logger.Warn
		if errors.Is(sk.Err, domain.ErrMissingGame) || errors.Is(sk.Err, domain.ErrDuplicateGame) {
			level = logger.Debug
		}
		level("candidate skipped",
			zap.String("flow", flow),
			zap.String("id", sk.ID),
			zap.Error(sk.Err),
		)
	}
}
