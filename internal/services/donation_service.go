package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/example/socialmentor/internal/models"
	"github.com/example/socialmentor/internal/store"
)

// DonationService owns the donation lifecycle: creation, donor-side reads,
// and the mutation rules that lock a donation once a volunteer is assigned.
type DonationService struct {
	store    store.Store
	events   EventPublisher
	telegram *TelegramService
}

// NewDonationService constructs a DonationService.
func NewDonationService(st store.Store, events EventPublisher, telegram *TelegramService) *DonationService {
	return &DonationService{store: st, events: events, telegram: telegram}
}

// CreateDonationInput carries the donor-supplied fields for a new donation.
type CreateDonationInput struct {
	Title         string
	Description   string
	Category      string
	Quantity      string
	PickupAddress string
	City          string
	Pincode       string
	PickupLat     *float64
	PickupLon     *float64
}

// UpdateDonationInput carries the donor-editable fields. Nil leaves a field
// untouched.
type UpdateDonationInput struct {
	Title         *string
	Description   *string
	Category      *string
	Quantity      *string
	PickupAddress *string
	City          *string
	Pincode       *string
}

// Create validates the input and stores a new CREATED donation owned by the
// donor. The donor's donationsCreated counter is incremented alongside.
func (s *DonationService) Create(ctx context.Context, donor *models.User, in CreateDonationInput) (*models.Donation, error) {
	required := []struct {
		field string
		value string
	}{
		{"title", in.Title},
		{"description", in.Description},
		{"quantity", in.Quantity},
		{"pickup_address", in.PickupAddress},
		{"city", in.City},
		{"pincode", in.Pincode},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, &ValidationError{Field: r.field}
		}
	}

	category := in.Category
	if category == "" {
		category = models.CategoryOther
	}
	if !models.ValidCategory(category) {
		return nil, &ValidationError{Field: "category", Message: "unknown category " + category}
	}

	donation := &models.Donation{
		DonorID:       donor.ID,
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		Category:      category,
		Quantity:      in.Quantity,
		PickupAddress: in.PickupAddress,
		City:          strings.TrimSpace(in.City),
		Pincode:       strings.TrimSpace(in.Pincode),
		PickupLocation: models.GeoPoint{
			Latitude:  in.PickupLat,
			Longitude: in.PickupLon,
		},
		Status:        models.StatusCreated,
		PointsAwarded: models.DefaultPointsAwarded,
	}

	if err := s.store.CreateDonation(ctx, donation); err != nil {
		return nil, storeFailure("create donation", err)
	}

	// The counter is advisory; a failed increment does not undo the create.
	if err := s.store.IncrementDonationsCreated(ctx, donor.ID); err != nil {
		log.Printf("[Donation] increment donations_created for %s failed: %v", donor.ID, err)
	}

	publishEvent(s.events, EventDonationCreated, donation)
	s.telegram.NotifyDonationCreated(donation, donor)

	return donation, nil
}

// ListMine returns the donor's donations, newest first.
func (s *DonationService) ListMine(ctx context.Context, donor *models.User) ([]models.Donation, error) {
	donations, err := s.store.ListDonationsByDonor(ctx, donor.ID)
	if err != nil {
		return nil, storeFailure("list donations", err)
	}
	return donations, nil
}

// Get returns a donation to an actor associated with it: its donor, its
// assigned volunteer, or an admin.
func (s *DonationService) Get(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Donation, error) {
	donation, err := s.store.GetDonation(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeFailure("get donation", err)
	}
	if !associatedWith(actor, donation) {
		return nil, ErrForbidden
	}
	return donation, nil
}

// Update applies donor edits. Permitted only by the owning donor and only
// while the donation is still CREATED.
func (s *DonationService) Update(ctx context.Context, actor *models.User, id uuid.UUID, in UpdateDonationInput) (*models.Donation, error) {
	donation, err := s.store.GetDonation(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeFailure("get donation", err)
	}
	if donation.DonorID != actor.ID {
		return nil, ErrForbidden
	}
	if in.Category != nil && !models.ValidCategory(*in.Category) {
		return nil, &ValidationError{Field: "category", Message: "unknown category " + *in.Category}
	}

	patch := store.DonationPatch{
		Title:         in.Title,
		Description:   in.Description,
		Category:      in.Category,
		Quantity:      in.Quantity,
		PickupAddress: in.PickupAddress,
		City:          in.City,
		Pincode:       in.Pincode,
	}
	if err := s.store.UpdateOpenDonation(ctx, id, patch); err != nil {
		if errors.Is(err, store.ErrStatusConflict) {
			return nil, transitionConflict(ctx, s.store, id, models.StatusCreated)
		}
		return nil, storeFailure("update donation", err)
	}

	updated, err := s.store.GetDonation(ctx, id)
	if err != nil {
		return nil, storeFailure("get donation", err)
	}
	return updated, nil
}

// Delete removes a donation. Permitted only by the owning donor and only
// while it is still CREATED.
func (s *DonationService) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	donation, err := s.store.GetDonation(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return storeFailure("get donation", err)
	}
	if donation.DonorID != actor.ID {
		return ErrForbidden
	}

	if err := s.store.DeleteOpenDonation(ctx, id); err != nil {
		if errors.Is(err, store.ErrStatusConflict) {
			return transitionConflict(ctx, s.store, id, models.StatusCreated)
		}
		return storeFailure("delete donation", err)
	}
	return nil
}

// transitionConflict re-reads the donation purely to report its current
// status in the error. The re-read never changes the outcome.
func transitionConflict(ctx context.Context, st store.Store, id uuid.UUID, requested string) error {
	current := "unknown"
	if donation, err := st.GetDonation(ctx, id); err == nil {
		current = donation.Status
	} else if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return &InvalidTransitionError{Current: current, Requested: requested}
}

func associatedWith(actor *models.User, donation *models.Donation) bool {
	if actor.Role == models.RoleAdmin {
		return true
	}
	if donation.DonorID == actor.ID {
		return true
	}
	return donation.AssignedVolunteerID != nil && *donation.AssignedVolunteerID == actor.ID
}
