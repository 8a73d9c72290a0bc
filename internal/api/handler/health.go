package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	readyCheck func(ctx context.Context) error
}

// NewHealthHandler creates the health handler. readyCheck verifies the
// dependencies needed to serve traffic (nil means always ready).
func NewHealthHandler(readyCheck func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{readyCheck: readyCheck}
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:  "ok",
		Version: "0.1.0",
	})
}

func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	if h.readyCheck != nil {
		if err := h.readyCheck(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(HealthResponse{
				Status: "unavailable",
			})
		}
	}
	return c.JSON(HealthResponse{
		Status: "ready",
	})
}
