package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lead-service/internal/api/dto"
	"github.com/spec-kit/lead-service/internal/service"
)

// LeadHandler serves the admin endpoints of one submission kind. R is the
// response shape of a stored record.
type LeadHandler[T any, R any] struct {
	service    *service.LeadService[T]
	label      string
	toResponse func(*T) R
}

// NewLeadHandler constructs handler. label names the record in messages,
// e.g. "Contact request".
func NewLeadHandler[T any, R any](svc *service.LeadService[T], label string, toResponse func(*T) R) *LeadHandler[T, R] {
	return &LeadHandler[T, R]{service: svc, label: label, toResponse: toResponse}
}

// List handles GET /api/{kind}.
func (h *LeadHandler[T, R]) List(c *fiber.Ctx) error {
	records, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]R, 0, len(records))
	for i := range records {
		items = append(items, h.toResponse(&records[i]))
	}
	return c.JSON(dto.List(items))
}

// Get handles GET /api/{kind}/:id.
func (h *LeadHandler[T, R]) Get(c *fiber.Ctx) error {
	rec, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("", h.toResponse(rec)))
}

// Update handles PUT /api/{kind}/:id.
func (h *LeadHandler[T, R]) Update(c *fiber.Ctx) error {
	var req dto.UpdateLeadRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	rec, err := h.service.Update(c.UserContext(), c.Params("id"), req.Domain())
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(h.label+" updated successfully", h.toResponse(rec)))
}

// SendEmail handles POST /api/{kind}/:id/send-email.
func (h *LeadHandler[T, R]) SendEmail(c *fiber.Ctx) error {
	result, err := h.service.Resend(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if result == service.ResendSkipped {
		return c.JSON(dto.OK("Email is not configured; notification skipped", nil))
	}
	return c.JSON(dto.OK("Email sent successfully to admin", nil))
}
