package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"triage_server/core/domain"
	"triage_server/core/port/in"
	"triage_server/pkg/apperr"
	"triage_server/pkg/response"
)

// AnalyticsHandler serves the on-demand analytics snapshot.
type AnalyticsHandler struct {
	analytics in.AnalyticsUseCase
}

// NewAnalyticsHandler creates the handler.
func NewAnalyticsHandler(analytics in.AnalyticsUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Register mounts the routes on the router.
func (h *AnalyticsHandler) Register(router fiber.Router) {
	router.Get("/analytics", h.snapshot)
}

// snapshot computes the analytics view. Optional from/to query parameters
// (RFC 3339) bound the window; absent bounds leave that side open.
func (h *AnalyticsHandler) snapshot(c *fiber.Ctx) error {
	window, err := parseWindow(c.Query("from"), c.Query("to"))
	if err != nil {
		return err
	}

	snapshot, err := h.analytics.Snapshot(c.UserContext(), window)
	if err != nil {
		return err
	}
	return response.OK(c, snapshot)
}

func parseWindow(from, to string) (domain.TimeRange, error) {
	var window domain.TimeRange

	if from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return window, apperr.InvalidInput("from", "must be RFC 3339")
		}
		window.From = t
	}
	if to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return window, apperr.InvalidInput("to", "must be RFC 3339")
		}
		window.To = t
	}
	if !window.From.IsZero() && !window.To.IsZero() && window.To.Before(window.From) {
		return window, apperr.InvalidInput("to", "must not precede from")
	}
	return window, nil
}
