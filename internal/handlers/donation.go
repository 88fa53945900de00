package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/socialmentor/internal/middleware"
	"github.com/example/socialmentor/internal/models"
	"github.com/example/socialmentor/internal/services"
	"github.com/example/socialmentor/internal/store"
)

// DonationHandler manages the donor-side donation endpoints.
type DonationHandler struct {
	svc   *services.DonationService
	store store.Store
}

// NewDonationHandler constructs a DonationHandler.
func NewDonationHandler(svc *services.DonationService, st store.Store) *DonationHandler {
	return &DonationHandler{svc: svc, store: st}
}

type createDonationRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	Quantity      string   `json:"quantity"`
	PickupAddress string   `json:"pickup_address"`
	City          string   `json:"city"`
	Pincode       string   `json:"pincode"`
	PickupLat     *float64 `json:"pickup_latitude"`
	PickupLon     *float64 `json:"pickup_longitude"`
}

// Create registers a new donation owned by the authenticated donor.
func (h *DonationHandler) Create(c *fiber.Ctx) error {
	donor, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createDonationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	donation, err := h.svc.Create(c.Context(), donor, services.CreateDonationInput{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Quantity:      req.Quantity,
		PickupAddress: req.PickupAddress,
		City:          req.City,
		Pincode:       req.Pincode,
		PickupLat:     req.PickupLat,
		PickupLon:     req.PickupLon,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    donation,
	})
}

// MyDonations lists the donor's own donations, newest first.
func (h *DonationHandler) MyDonations(c *fiber.Ctx) error {
	donor, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	donations, err := h.svc.ListMine(c.Context(), donor)
	if err != nil {
		return respondServiceError(c, err)
	}

	items := make([]fiber.Map, 0, len(donations))
	for i := range donations {
		items = append(items, h.donationView(c, &donations[i]))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    items,
	})
}

// Get returns a single donation to an associated actor.
func (h *DonationHandler) Get(c *fiber.Ctx) error {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid donation id")
	}

	donation, err := h.svc.Get(c.Context(), actor, id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.donationView(c, donation),
	})
}

type updateDonationRequest struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	Category      *string `json:"category"`
	Quantity      *string `json:"quantity"`
	PickupAddress *string `json:"pickup_address"`
	City          *string `json:"city"`
	Pincode       *string `json:"pincode"`
}

// Update edits a donation while it is still open.
func (h *DonationHandler) Update(c *fiber.Ctx) error {
	donor, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid donation id")
	}

	var req updateDonationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	donation, err := h.svc.Update(c.Context(), donor, id, services.UpdateDonationInput{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Quantity:      req.Quantity,
		PickupAddress: req.PickupAddress,
		City:          req.City,
		Pincode:       req.Pincode,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    donation,
	})
}

// Delete removes a donation while it is still open.
func (h *DonationHandler) Delete(c *fiber.Ctx) error {
	donor, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid donation id")
	}

	if err := h.svc.Delete(c.Context(), donor, id); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "donation removed",
	})
}

// donationView attaches the referenced users' public fields to a donation.
func (h *DonationHandler) donationView(c *fiber.Ctx, donation *models.Donation) fiber.Map {
	view := fiber.Map{
		"donation": donation,
		"donor":    lookupPublicUser(c, h.store, donation.DonorID),
	}
	if donation.AssignedVolunteerID != nil {
		view["assigned_volunteer"] = lookupPublicUser(c, h.store, *donation.AssignedVolunteerID)
	}
	return view
}
