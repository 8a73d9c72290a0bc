package handler

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/facestream-labs/facestream/internal/domain"
	"github.com/facestream-labs/facestream/internal/repository"
	"github.com/facestream-labs/facestream/internal/ws"
)

// LogsHandler expõe o histórico de reconhecimentos e as sessões ativas.
type LogsHandler struct {
	repo   repository.RecognitionLogRepositoryInterface
	hub    *ws.Hub
	logger *slog.Logger
}

func NewLogsHandler(repo repository.RecognitionLogRepositoryInterface, hub *ws.Hub, logger *slog.Logger) *LogsHandler {
	return &LogsHandler{repo: repo, hub: hub, logger: logger}
}

// List GET /logs?session_id=&identity_id=&limit=&offset=
func (h *LogsHandler) List(c *fiber.Ctx) error {
	filter := repository.RecognitionLogFilter{
		SessionID: c.Query("session_id"),
		Limit:     c.QueryInt("limit", 100),
		Offset:    c.QueryInt("offset", 0),
	}

	if raw := c.Query("identity_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return domain.ErrValidationFailed
		}
		filter.IdentityID = &id
	}

	logs, err := h.repo.List(c.Context(), filter)
	if err != nil {
		return domain.ErrInternal.WithError(err)
	}

	return c.JSON(fiber.Map{"logs": logs})
}

// Stats GET /logs/stats?hours=24
func (h *LogsHandler) Stats(c *fiber.Ctx) error {
	hours := c.QueryInt("hours", 24)
	if hours <= 0 || hours > 24*30 {
		return domain.ErrValidationFailed
	}

	since := time.Now().Add(-time.Duration(hours) * time.Hour)
	stats, err := h.repo.Stats(c.Context(), since)
	if err != nil {
		return domain.ErrInternal.WithError(err)
	}

	return c.JSON(stats)
}

// Sessions GET /sessions
func (h *LogsHandler) Sessions(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"count":    h.hub.Count(),
		"sessions": h.hub.ActiveSessions(),
	})
}
