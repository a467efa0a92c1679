// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"

	"game-recommendation-service/internal/app/service"
)

// ReadinessChecker reports whether the service can take traffic.
type ReadinessChecker interface {
	Ready(ctx context.Context) ([]service.DependencyStatus, bool)
}

// NewHealthCheck creates a Fiber healthcheck middleware with Kubernetes-style endpoints.
//
// Endpoints:
//   - GET /livez  - Liveness probe (app is running)
//   - GET /readyz - Readiness probe (postgres and redis reachable)
//
// External providers are not part of readiness; see /api/v1/admin/providers.
// This middleware should be registered BEFORE other routes.
func NewHealthCheck(checker ReadinessChecker) fiber.Handler {
	return healthcheck.New(healthcheck.Config{
		LivenessEndpoint: "/livez",
		LivenessProbe: func(_ *fiber.Ctx) bool {
			return true
		},

		ReadinessEndpoint: "/readyz",
		ReadinessProbe: func(c *fiber.Ctx) bool {
			if checker == nil {
				return false
			}
			_, ok := checker.Ready(c.Context())

			return ok
		},
	})
}
