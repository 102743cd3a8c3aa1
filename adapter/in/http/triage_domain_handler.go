// Package http holds the inbound REST adapters.
package http

import (
	"github.com/gofiber/fiber/v2"

	"triage_server/core/domain"
	"triage_server/core/port/in"
	"triage_server/pkg/apperr"
	"triage_server/pkg/response"
)

// DomainHandler serves the institution domain registry and the active
// domain selection.
type DomainHandler struct {
	domains in.DomainUseCase
}

// NewDomainHandler creates the handler.
func NewDomainHandler(domains in.DomainUseCase) *DomainHandler {
	return &DomainHandler{domains: domains}
}

// Register mounts the routes on the router.
func (h *DomainHandler) Register(router fiber.Router) {
	router.Get("/domains", h.list)
	router.Get("/domains/active", h.active)
	router.Put("/domains/active", h.setActive)
	router.Get("/domains/:id", h.get)
}

func (h *DomainHandler) list(c *fiber.Ctx) error {
	return response.OK(c, h.domains.List())
}

func (h *DomainHandler) get(c *fiber.Ctx) error {
	cfg, err := h.domains.Get(domain.DomainID(c.Params("id")))
	if err != nil {
		return err
	}
	return response.OK(c, cfg)
}

func (h *DomainHandler) active(c *fiber.Ctx) error {
	cfg := h.domains.Active()
	if cfg == nil {
		return apperr.NotFound("active domain")
	}
	return response.OK(c, cfg)
}

type setActiveRequest struct {
	DomainID string `json:"domain_id"`
}

func (h *DomainHandler) setActive(c *fiber.Ctx) error {
	var req setActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("malformed request body")
	}
	if req.DomainID == "" {
		return apperr.MissingField("domain_id")
	}

	cfg, err := h.domains.SetActive(c.UserContext(), domain.DomainID(req.DomainID))
	if err != nil {
		return err
	}
	return response.OK(c, cfg)
}
