package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"game-recommendation-service/internal/domain"
	"game-recommendation-service/internal/transport/httpserver/dto"
	"game-recommendation-service/internal/validator"
)

// Discoverer ranks catalog games against a preference bag.
type Discoverer interface {
	Discover(ctx context.Context, req domain.DiscoverRequest) (*domain.DiscoveryResult, error)
}

// DiscoveryHandler handles discovery requests.
type DiscoveryHandler struct {
	discoverer Discoverer
	validator  *validator.Validator
	logger     *zap.Logger
}

// NewDiscoveryHandler creates a new DiscoveryHandler.
func NewDiscoveryHandler(d Discoverer, v *validator.Validator, logger *zap.Logger) *DiscoveryHandler {
	return &DiscoveryHandler{
		discoverer: d,
		validator:  v,
		logger:     logger,
	}
}

// Discover handles POST /api/v1/discover
func (h *DiscoveryHandler) Discover(c *fiber.Ctx) error {
	var req dto.DiscoverRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
	}

	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	result, err := h.discoverer.Discover(c.Context(), req.ToDomain())
	if err != nil {
		return serviceError(c, h.logger, "discovery", err)
	}

	return c.JSON(dto.FromDiscoveryResult(requestID(c), result))
}
