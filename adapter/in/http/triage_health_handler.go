package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"triage_server/pkg/response"
)

var startedAt = time.Now()

// HealthHandler serves liveness information.
type HealthHandler struct {
	version string
}

// NewHealthHandler creates the handler.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version}
}

// Register mounts the route on the app root, outside the versioned API.
func (h *HealthHandler) Register(app *fiber.App) {
	app.Get("/health", h.health)
}

func (h *HealthHandler) health(c *fiber.Ctx) error {
	return response.OK(c, fiber.Map{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(startedAt).Round(time.Second).String(),
	})
}
