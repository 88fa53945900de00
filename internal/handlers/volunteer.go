package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/socialmentor/internal/middleware"
	"github.com/example/socialmentor/internal/models"
	"github.com/example/socialmentor/internal/services"
	"github.com/example/socialmentor/internal/store"
	"github.com/example/socialmentor/internal/utils"
)

// VolunteerHandler manages task matching, assignment and tracking endpoints.
type VolunteerHandler struct {
	svc   *services.VolunteerService
	store store.Store
}

// NewVolunteerHandler constructs a VolunteerHandler.
func NewVolunteerHandler(svc *services.VolunteerService, st store.Store) *VolunteerHandler {
	return &VolunteerHandler{svc: svc, store: st}
}

// AvailableTasks lists open donations matching the volunteer's location.
func (h *VolunteerHandler) AvailableTasks(c *fiber.Ctx) error {
	volunteer, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	donations, err := h.svc.AvailableTasks(c.Context(), volunteer)
	if err != nil {
		return respondServiceError(c, err)
	}

	items := make([]fiber.Map, 0, len(donations))
	for i := range donations {
		items = append(items, h.taskView(c, &donations[i]))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    items,
	})
}

// Accept claims an open donation for the authenticated volunteer.
func (h *VolunteerHandler) Accept(c *fiber.Ctx) error {
	volunteer, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("donationId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid donation id")
	}

	donation, err := h.svc.Accept(c.Context(), volunteer, id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.taskView(c, donation),
	})
}

// MyTasks lists the volunteer's assigned donations.
func (h *VolunteerHandler) MyTasks(c *fiber.Ctx) error {
	volunteer, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	donations, err := h.svc.MyTasks(c.Context(), volunteer)
	if err != nil {
		return respondServiceError(c, err)
	}

	items := make([]fiber.Map, 0, len(donations))
	for i := range donations {
		items = append(items, h.taskView(c, &donations[i]))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    items,
	})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus moves an assigned donation to PICKED_UP or DELIVERED.
func (h *VolunteerHandler) UpdateStatus(c *fiber.Ctx) error {
	volunteer, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("donationId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid donation id")
	}

	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Status == "" {
		return fiber.NewError(fiber.StatusBadRequest, "status is required")
	}

	donation, err := h.svc.UpdateStatus(c.Context(), volunteer, id, req.Status)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    donation,
	})
}

type updateLocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// UpdateLocation records the volunteer's latest position for a donation.
func (h *VolunteerHandler) UpdateLocation(c *fiber.Ctx) error {
	volunteer, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("donationId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid donation id")
	}

	var req updateLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Latitude == nil || req.Longitude == nil {
		return fiber.NewError(fiber.StatusBadRequest, "latitude and longitude are required")
	}

	loc, err := h.svc.ReportLocation(c.Context(), volunteer, id, *req.Latitude, *req.Longitude)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "location updated",
		"location": loc,
	})
}

// Track returns the tracking view of a donation for an associated actor.
func (h *VolunteerHandler) Track(c *fiber.Ctx) error {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("donationId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid donation id")
	}

	info, err := h.svc.Tracking(c.Context(), actor, id)
	if err != nil {
		return respondServiceError(c, err)
	}

	view := fiber.Map{
		"tracking": info,
		"donor":    lookupPublicUser(c, h.store, info.DonorID),
	}
	if info.AssignedVolunteerID != nil {
		view["volunteer"] = lookupPublicUser(c, h.store, *info.AssignedVolunteerID)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    view,
	})
}

// Leaderboard is the public list of top volunteers by points.
func (h *VolunteerHandler) Leaderboard(c *fiber.Ctx) error {
	pagination := utils.ParsePagination(c)

	volunteers, err := h.svc.Leaderboard(c.Context(), pagination.Limit)
	if err != nil {
		return respondServiceError(c, err)
	}

	items := make([]fiber.Map, 0, len(volunteers))
	for i := range volunteers {
		v := &volunteers[i]
		items = append(items, fiber.Map{
			"id":              v.ID,
			"name":            v.Name,
			"points":          v.Points,
			"tasks_completed": v.TasksCompleted,
			"city":            v.City,
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    items,
	})
}

// taskView attaches the donor's public contact fields to a donation.
func (h *VolunteerHandler) taskView(c *fiber.Ctx, donation *models.Donation) fiber.Map {
	return fiber.Map{
		"donation": donation,
		"donor":    lookupPublicUser(c, h.store, donation.DonorID),
	}
}
