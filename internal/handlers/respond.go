package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/socialmentor/internal/models"
	"github.com/example/socialmentor/internal/services"
	"github.com/example/socialmentor/internal/store"
)

// respondServiceError maps each service error kind to a distinct HTTP
// outcome. Transition conflicts carry both statuses so clients can render a
// precise message without re-querying.
func respondServiceError(c *fiber.Ctx, err error) error {
	var transition *services.InvalidTransitionError
	if errors.As(err, &transition) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success":          false,
			"message":          "invalid status transition",
			"current_status":   transition.Current,
			"requested_status": transition.Requested,
		})
	}

	var validation *services.ValidationError
	if errors.As(err, &validation) {
		return fiber.NewError(fiber.StatusBadRequest, validation.Error())
	}

	if errors.Is(err, services.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "donation not found")
	}
	if errors.Is(err, services.ErrForbidden) {
		return fiber.NewError(fiber.StatusForbidden, "not authorized for this donation")
	}

	var failure *services.StoreFailureError
	if errors.As(err, &failure) {
		log.Printf("[Store] %v", failure)
		return fiber.NewError(fiber.StatusInternalServerError, "storage unavailable")
	}

	return err
}

// publicUser exposes the fields of a user that other participants may see.
func publicUser(user *models.User) fiber.Map {
	return fiber.Map{
		"id":      user.ID,
		"name":    user.Name,
		"phone":   user.Phone,
		"city":    user.City,
		"pincode": user.Pincode,
	}
}

// lookupPublicUser fetches a referenced user's public fields. Enrichment is
// best effort; a missing row yields nil rather than failing the response.
func lookupPublicUser(c *fiber.Ctx, st store.Store, id uuid.UUID) fiber.Map {
	user, err := st.GetUser(c.Context(), id)
	if err != nil {
		return nil
	}
	return publicUser(user)
}
