// Package httpserver provides HTTP server and routing.
package httpserver

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"go.uber.org/zap"

	"game-recommendation-service/internal/metrics"
	"game-recommendation-service/internal/transport/httpserver/dto"
	"game-recommendation-service/internal/transport/httpserver/handler"
	"game-recommendation-service/internal/transport/httpserver/middleware"
	"game-recommendation-service/internal/validator"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	AppName     string
	BodyLimit   int
	AdminToken  string
	MetricsPath string // empty disables /metrics
}

// Services are the use cases exposed over HTTP.
type Services struct {
	Ranker     handler.Ranker
	Discoverer handler.Discoverer
	Syncer     handler.LibrarySyncer
	Health     interface {
		middleware.ReadinessChecker
		handler.ProviderHealth
	}
}

// Server wraps Fiber app with handlers.
type Server struct {
	App    *fiber.App
	Logger *zap.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	cfg ServerConfig,
	svc Services,
	rec *metrics.Recorder,
	v *validator.Validator,
	logger *zap.Logger,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		BodyLimit:             cfg.BodyLimit,
		ErrorHandler:          errorHandler(logger),
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		DisableStartupMessage: true,
	})

	// Health check middleware MUST be registered BEFORE other middleware
	// for Kubernetes probes to work even during high load
	app.Use(middleware.NewHealthCheck(svc.Health))

	// Global middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.Recover(logger))
	app.Use(middleware.Logger(logger, rec))
	app.Use(middleware.CORS())
	app.Use(compress.New())

	if cfg.MetricsPath != "" && rec != nil {
		app.Get(cfg.MetricsPath, adaptor.HTTPHandler(rec.Handler()))
	}

	// Create handlers
	recommendationHandler := handler.NewRecommendationHandler(svc.Ranker, svc.Syncer, v, logger)
	discoveryHandler := handler.NewDiscoveryHandler(svc.Discoverer, v, logger)
	adminHandler := handler.NewAdminHandler(svc.Syncer, svc.Health, v, logger)

	registerRoutes(app, cfg.AdminToken, recommendationHandler, discoveryHandler, adminHandler)

	return &Server{
		App:    app,
		Logger: logger,
	}
}

// registerRoutes sets up all API routes.
func registerRoutes(
	app *fiber.App,
	adminToken string,
	recommendationHandler *handler.RecommendationHandler,
	discoveryHandler *handler.DiscoveryHandler,
	adminHandler *handler.AdminHandler,
) {
	// Health checks are handled by middleware (/livez, /readyz)

	v1 := app.Group("/api/v1")

	v1.Get("/users/:steamId/recommendations", recommendationHandler.Recommend)
	v1.Post("/discover", discoveryHandler.Discover)

	admin := v1.Group("/admin", middleware.AdminToken(adminToken))
	admin.Post("/sync", adminHandler.SyncAll)
	admin.Post("/users/:steamId/sync", adminHandler.SyncUser)
	admin.Get("/providers", adminHandler.GetProviders)
}

// errorHandler returns a custom error handler that logs based on HTTP status code.
// 404s are logged at DEBUG level (expected client behavior), 4xx at WARN, 5xx at ERROR.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		errCode := "INTERNAL_ERROR"
		msg := "internal server error"

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			errCode = "HTTP_ERROR"
			msg = e.Message
		}

		switch {
		case code == fiber.StatusNotFound:
			errCode = "NOT_FOUND"
			logger.Debug("resource not found",
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
			)
		case code >= 500:
			logger.Error("server error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		default:
			logger.Warn("client error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		}

		return c.Status(code).JSON(dto.ErrorResponse{
			Error: msg,
			Code:  errCode,
		})
	}
}

// Start starts the HTTP server.
func (s *Server) Start(port int) error {
	s.Logger.Info("starting HTTP server", zap.Int("port", port))

	return s.App.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	s.Logger.Info("shutting down HTTP server")

	return s.App.Shutdown()
}
