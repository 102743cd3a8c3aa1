package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"triage_server/core/domain"
	"triage_server/core/port/in"
	"triage_server/pkg/apperr"
	"triage_server/pkg/response"
)

// ComplaintHandler serves complaint intake and lifecycle routes.
type ComplaintHandler struct {
	complaints in.ComplaintUseCase
}

// NewComplaintHandler creates the handler.
func NewComplaintHandler(complaints in.ComplaintUseCase) *ComplaintHandler {
	return &ComplaintHandler{complaints: complaints}
}

// Register mounts the routes on the router. submitLimit guards only the
// submission route; reads stay unthrottled.
func (h *ComplaintHandler) Register(router fiber.Router, submitLimit fiber.Handler) {
	router.Post("/complaints", submitLimit, h.submit)
	router.Get("/complaints", h.list)
	router.Get("/complaints/stats", h.stats)
	router.Get("/complaints/:id", h.get)
	router.Post("/complaints/:id/analyze", h.analyze)
	router.Post("/complaints/:id/transition", h.transition)
}

type submitRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	SubmittedBy string `json:"submitted_by"`
	UserType    string `json:"user_type"`
}

func (h *ComplaintHandler) submit(c *fiber.Ctx) error {
	var req submitRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("malformed request body")
	}

	complaint, err := h.complaints.Submit(c.UserContext(), in.SubmitComplaintInput{
		Title:       req.Title,
		Description: req.Description,
		SubmittedBy: req.SubmittedBy,
		UserType:    domain.UserType(req.UserType),
	})
	if err != nil {
		return err
	}

	// Classification usually runs asynchronously, so the caller gets the
	// record before analysis finished.
	return response.Accepted(c, complaint)
}

func (h *ComplaintHandler) list(c *fiber.Ctx) error {
	status := domain.Status(c.Query("status"))
	department := c.Query("department")

	complaints, err := h.complaints.List(c.UserContext(), status, department)
	if err != nil {
		return err
	}
	return response.OKWithMeta(c, complaints, &response.Meta{Total: len(complaints)})
}

func (h *ComplaintHandler) get(c *fiber.Ctx) error {
	id, err := complaintID(c)
	if err != nil {
		return err
	}

	complaint, err := h.complaints.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return response.OK(c, complaint)
}

// analyze re-runs classification for a complaint stuck in Analyzing, e.g.
// after the scoring backend recovered.
func (h *ComplaintHandler) analyze(c *fiber.Ctx) error {
	id, err := complaintID(c)
	if err != nil {
		return err
	}

	complaint, err := h.complaints.Analyze(c.UserContext(), id)
	if err != nil {
		return err
	}
	return response.OK(c, complaint)
}

type transitionRequest struct {
	Status string `json:"status"`
}

func (h *ComplaintHandler) transition(c *fiber.Ctx) error {
	id, err := complaintID(c)
	if err != nil {
		return err
	}

	var req transitionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("malformed request body")
	}
	if req.Status == "" {
		return apperr.MissingField("status")
	}

	complaint, err := h.complaints.Transition(c.UserContext(), id, domain.Status(req.Status))
	if err != nil {
		return err
	}
	return response.OK(c, complaint)
}

func (h *ComplaintHandler) stats(c *fiber.Ctx) error {
	stats, err := h.complaints.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return response.OK(c, stats)
}

func complaintID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.InvalidInput("id", "must be a positive integer")
	}
	return id, nil
}
