package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"game-recommendation-service/internal/app/service"
	"game-recommendation-service/internal/transport/httpserver/dto"
	"game-recommendation-service/internal/validator"
)

// LibrarySyncer refreshes stored libraries.
type LibrarySyncer interface {
	UserSyncer
	SyncAll(ctx context.Context) ([]service.SyncResult, error)
}

// ProviderHealth reports the health of the external providers.
type ProviderHealth interface {
	Providers(ctx context.Context) []service.DependencyStatus
}

type syncUserParams struct {
	SteamID string `params:"steamId" validate:"required,steamid"`
}

// AdminHandler handles admin-related HTTP requests.
type AdminHandler struct {
	syncer    LibrarySyncer
	health    ProviderHealth
	validator *validator.Validator
	logger    *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(syncer LibrarySyncer, health ProviderHealth, v *validator.Validator, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		syncer:    syncer,
		health:    health,
		validator: v,
		logger:    logger,
	}
}

// SyncUser handles POST /api/v1/admin/users/:steamId/sync
func (h *AdminHandler) SyncUser(c *fiber.Ctx) error {
	var params syncUserParams
	if err := c.ParamsParser(&params); err != nil {
		return badRequest(c, "invalid path parameters")
	}
	if err := h.validator.Validate(&params); err != nil {
		return validationFailed(c, err)
	}

	h.logger.Info("manual library sync triggered", zap.String("steam_id", params.SteamID))

	result, err := h.syncer.SyncUser(c.Context(), params.SteamID)
	if err != nil {
		if result != nil {
			h.logger.Warn("library sync failed", zap.String("steam_id", params.SteamID), zap.Error(err))

			return c.Status(fiber.StatusBadGateway).JSON(dto.FromSyncResult(*result))
		}

		return serviceError(c, h.logger, "sync", err)
	}

	return c.JSON(dto.FromSyncResult(*result))
}

// SyncAll handles POST /api/v1/admin/sync
func (h *AdminHandler) SyncAll(c *fiber.Ctx) error {
	h.logger.Info("manual sync of all libraries triggered")

	results, err := h.syncer.SyncAll(c.Context())
	if err != nil && results == nil {
		return serviceError(c, h.logger, "sync", err)
	}

	return c.JSON(dto.FromSyncResults(results))
}

// GetProviders handles GET /api/v1/admin/providers
func (h *AdminHandler) GetProviders(c *fiber.Ctx) error {
	return c.JSON(dto.FromDependencyStatuses(h.health.Providers(c.Context())))
}
