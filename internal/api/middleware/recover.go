package middleware

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// Recover converts a panic anywhere below it into a 500 response so a
// single malformed upload cannot take the process down.
func Recover(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					slog.Any("panic", r),
					slog.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
					slog.String("method", c.Method()),
					slog.String("path", c.Path()),
				)

				_ = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": fiber.Map{
						"code":    "INTERNAL_ERROR",
						"message": "An unexpected error occurred",
					},
				})
			}
		}()
		return c.Next()
	}
}
