package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/socialmentor/internal/services"
)

// AdminHandler serves the admin dashboard endpoints.
type AdminHandler struct {
	svc *services.AdminService
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(svc *services.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// Donations lists every donation, newest first.
func (h *AdminHandler) Donations(c *fiber.Ctx) error {
	donations, err := h.svc.ListDonations(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    donations,
	})
}

// Volunteers lists all volunteers by points descending.
func (h *AdminHandler) Volunteers(c *fiber.Ctx) error {
	volunteers, err := h.svc.ListVolunteers(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    volunteers,
	})
}

// Donors lists all donors by donations created descending.
func (h *AdminHandler) Donors(c *fiber.Ctx) error {
	donors, err := h.svc.ListDonors(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    donors,
	})
}

// Stats returns donation totals and the per-status breakdown.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.svc.GetStats(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}
