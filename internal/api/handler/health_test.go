package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler_Health(t *testing.T) {
	app := fiber.New()
	h := NewHealthHandler(nil)
	app.Get("/health", h.Health)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
}

func TestHealthHandler_Ready(t *testing.T) {
	tests := []struct {
		name       string
		check      func(ctx context.Context) error
		wantStatus int
	}{
		{name: "no check", check: nil, wantStatus: fiber.StatusOK},
		{name: "check passes", check: func(context.Context) error { return nil }, wantStatus: fiber.StatusOK},
		{name: "check fails", check: func(context.Context) error { return errors.New("db down") }, wantStatus: fiber.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			h := NewHealthHandler(tt.check)
			app.Get("/ready", h.Ready)

			resp, err := app.Test(httptest.NewRequest("GET", "/ready", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
