package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"game-recommendation-service/internal/transport/httpserver/dto"
)

// Recover turns a panicking handler into a 500 with code PANIC.
// The panic value and stack are logged, never returned to the client.
func Recover(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			requestID, _ := c.Locals(RequestIDKey).(string)
			logger.Error("handler panicked",
				zap.String("panic", fmt.Sprint(r)),
				zap.ByteString("stack", debug.Stack()),
				zap.String("request_id", requestID),
				zap.String("route", c.Route().Path),
				zap.String("path", c.Path()),
			)

			err = c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: "internal server error",
				Code:  "PANIC",
			})
		}()

		return c.Next()
	}
}
