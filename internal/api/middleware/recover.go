package middleware

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/facestream-labs/facestream/internal/domain"
)

// Recover segura panics de handler e responde 500 em vez de derrubar a conexão.
func Recover(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			logger.Error("panic recovered",
				slog.Any("panic", r),
				slog.String("method", c.Method()),
				slog.String("path", c.Path()),
			)
			_ = writeError(c, fiber.StatusInternalServerError,
				domain.ErrInternal.Code, domain.ErrInternal.Message)
		}()
		return c.Next()
	}
}
