package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/facestream-labs/facestream/internal/domain"
)

// writeError emite o envelope de erro padrão da API.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ErrorHandler converte erros em respostas JSON padronizadas. AppError mapeia
// direto para o status configurado; o resto vira 500 genérico.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var appErr *domain.AppError
		if errors.As(err, &appErr) {
			if appErr.StatusCode >= fiber.StatusInternalServerError {
				logger.Error("internal error",
					slog.String("code", appErr.Code),
					slog.String("message", appErr.Message),
					slog.String("path", c.Path()),
					slog.Any("error", appErr.Err),
				)
			}
			return writeError(c, appErr.StatusCode, appErr.Code, appErr.Message)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return writeError(c, fiberErr.Code, "HTTP_ERROR", fiberErr.Message)
		}

		logger.Error("unhandled error",
			slog.Any("error", err),
			slog.String("path", c.Path()),
		)
		return writeError(c, fiber.StatusInternalServerError,
			domain.ErrInternal.Code, domain.ErrInternal.Message)
	}
}
