package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"game-recommendation-service/internal/app/service"
	"game-recommendation-service/internal/domain"
	"game-recommendation-service/internal/transport/httpserver/dto"
	"game-recommendation-service/internal/validator"
)

// Ranker ranks a user's stored library.
type Ranker interface {
	Rank(ctx context.Context, req domain.RankingRequest) (*domain.RankingResult, error)
}

// UserSyncer refreshes one user's library.
type UserSyncer interface {
	SyncUser(ctx context.Context, steamID string) (*service.SyncResult, error)
}

// RecommendationHandler handles library ranking requests.
type RecommendationHandler struct {
	ranker    Ranker
	syncer    UserSyncer
	validator *validator.Validator
	logger    *zap.Logger
}

// NewRecommendationHandler creates a new RecommendationHandler.
// syncer may be nil, in which case refresh=true is ignored.
func NewRecommendationHandler(ranker Ranker, syncer UserSyncer, v *validator.Validator, logger *zap.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		ranker:    ranker,
		syncer:    syncer,
		validator: v,
		logger:    logger,
	}
}

// Recommend handles GET /api/v1/users/:steamId/recommendations
func (h *RecommendationHandler) Recommend(c *fiber.Ctx) error {
	var req dto.RecommendationRequest
	if err := c.ParamsParser(&req); err != nil {
		return badRequest(c, "invalid path parameters")
	}
	if err := c.QueryParser(&req); err != nil {
		return badRequest(c, "invalid query parameters")
	}
	req.SplitVibes()

	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	if req.Refresh && h.syncer != nil {
		h.refresh(c, req.SteamID)
	}

	result, err := h.ranker.Rank(c.Context(), req.ToDomain())
	if err != nil {
		return serviceError(c, h.logger, "ranking", err)
	}

	return c.JSON(dto.FromRankingResult(requestID(c), result))
}

// refresh syncs the library before ranking. A failed or cooled-down sync
// falls back to the stored library.
func (h *RecommendationHandler) refresh(c *fiber.Ctx, steamID string) {
	_, err := h.syncer.SyncUser(c.Context(), steamID)
	switch {
	case err == nil, errors.Is(err, service.ErrSyncInProgress):
	default:
		h.logger.Warn("refresh before ranking failed, using stored library",
			zap.String("steam_id", steamID),
			zap.String("request_id", requestID(c)),
			zap.Error(err),
		)
	}
}
