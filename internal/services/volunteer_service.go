package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/example/socialmentor/internal/models"
	"github.com/example/socialmentor/internal/store"
)

// VolunteerService owns task matching, assignment, the volunteer-driven
// status transitions with their point awards, and the location channel.
type VolunteerService struct {
	store    store.Store
	events   EventPublisher
	telegram *TelegramService
}

// NewVolunteerService constructs a VolunteerService.
func NewVolunteerService(st store.Store, events EventPublisher, telegram *TelegramService) *VolunteerService {
	return &VolunteerService{store: st, events: events, telegram: telegram}
}

// AvailableTasks returns the CREATED donations visible to the volunteer:
// same city or same pincode, newest first. A volunteer without location tags
// sees every open donation.
func (s *VolunteerService) AvailableTasks(ctx context.Context, volunteer *models.User) ([]models.Donation, error) {
	donations, err := s.store.ListOpenDonations(ctx, volunteer.City, volunteer.Pincode)
	if err != nil {
		return nil, storeFailure("list open donations", err)
	}
	return donations, nil
}

// Accept assigns the volunteer to a CREATED donation. The status check and
// the assignment are one conditional store update, so two volunteers racing
// for the same donation resolve to exactly one winner; the loser sees an
// InvalidTransitionError.
func (s *VolunteerService) Accept(ctx context.Context, volunteer *models.User, donationID uuid.UUID) (*models.Donation, error) {
	if _, err := s.store.GetDonation(ctx, donationID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeFailure("get donation", err)
	}

	if err := s.store.AssignDonation(ctx, donationID, volunteer.ID, time.Now()); err != nil {
		if errors.Is(err, store.ErrStatusConflict) {
			return nil, transitionConflict(ctx, s.store, donationID, models.StatusAssigned)
		}
		return nil, storeFailure("assign donation", err)
	}

	donation, err := s.store.GetDonation(ctx, donationID)
	if err != nil {
		return nil, storeFailure("get donation", err)
	}
	publishEvent(s.events, EventDonationAssigned, donation)
	return donation, nil
}

// MyTasks returns the donations assigned to the volunteer, most recently
// assigned first.
func (s *VolunteerService) MyTasks(ctx context.Context, volunteer *models.User) ([]models.Donation, error) {
	donations, err := s.store.ListDonationsByVolunteer(ctx, volunteer.ID)
	if err != nil {
		return nil, storeFailure("list tasks", err)
	}
	return donations, nil
}

// UpdateStatus performs one of the two volunteer-driven transitions:
// ASSIGNED -> PICKED_UP or PICKED_UP -> DELIVERED. Delivery credits the
// volunteer's points and tasksCompleted exactly once; a retried request that
// finds the donation already DELIVERED fails without re-awarding.
func (s *VolunteerService) UpdateStatus(ctx context.Context, volunteer *models.User, donationID uuid.UUID, requested string) (*models.Donation, error) {
	donation, err := s.store.GetDonation(ctx, donationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeFailure("get donation", err)
	}
	if donation.AssignedVolunteerID == nil || *donation.AssignedVolunteerID != volunteer.ID {
		return nil, ErrForbidden
	}

	switch requested {
	case models.StatusPickedUp:
		err = s.store.MarkPickedUp(ctx, donationID, time.Now())
	case models.StatusDelivered:
		err = s.store.DeliverDonation(ctx, donationID, volunteer.ID, donation.PointsAwarded, time.Now())
	default:
		return nil, &InvalidTransitionError{Current: donation.Status, Requested: requested}
	}
	if err != nil {
		if errors.Is(err, store.ErrStatusConflict) {
			return nil, transitionConflict(ctx, s.store, donationID, requested)
		}
		return nil, storeFailure("update status", err)
	}

	updated, err := s.store.GetDonation(ctx, donationID)
	if err != nil {
		return nil, storeFailure("get donation", err)
	}

	switch requested {
	case models.StatusPickedUp:
		publishEvent(s.events, EventDonationPickedUp, updated)
	case models.StatusDelivered:
		publishEvent(s.events, EventDonationDelivered, updated)
		s.telegram.NotifyDonationDelivered(updated, volunteer)
	}
	return updated, nil
}

// ReportLocation overwrites the donation's volunteer position and the
// volunteer's own last-known position. Only the latest report is kept;
// writes are last-write-wins.
func (s *VolunteerService) ReportLocation(ctx context.Context, volunteer *models.User, donationID uuid.UUID, lat, lon float64) (*models.TrackedLocation, error) {
	donation, err := s.store.GetDonation(ctx, donationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeFailure("get donation", err)
	}
	if donation.AssignedVolunteerID == nil || *donation.AssignedVolunteerID != volunteer.ID {
		return nil, ErrForbidden
	}

	now := time.Now()
	loc := models.TrackedLocation{Latitude: &lat, Longitude: &lon, LastUpdated: &now}

	if err := s.store.SetVolunteerLocation(ctx, donationID, loc); err != nil {
		return nil, storeFailure("set volunteer location", err)
	}
	if err := s.store.SetUserLocation(ctx, volunteer.ID, loc); err != nil {
		return nil, storeFailure("set user location", err)
	}
	return &loc, nil
}

// TrackingInfo is the read-only tracking view of a single donation. Core
// fields only; enrichment with user contact details is done by the caller.
type TrackingInfo struct {
	DonationID          uuid.UUID               `json:"donation_id"`
	Title               string                  `json:"title"`
	Status              string                  `json:"status"`
	PickupAddress       string                  `json:"pickup_address"`
	PickupLocation      models.GeoPoint         `json:"pickup_location"`
	VolunteerLocation   *models.TrackedLocation `json:"volunteer_location,omitempty"`
	DonorID             uuid.UUID               `json:"donor_id"`
	AssignedVolunteerID *uuid.UUID              `json:"assigned_volunteer_id,omitempty"`
}

// Tracking returns the latest known state of a donation for an actor
// associated with it. Only that donation's fields are exposed.
func (s *VolunteerService) Tracking(ctx context.Context, actor *models.User, donationID uuid.UUID) (*TrackingInfo, error) {
	donation, err := s.store.GetDonation(ctx, donationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeFailure("get donation", err)
	}
	if !associatedWith(actor, donation) {
		return nil, ErrForbidden
	}

	info := &TrackingInfo{
		DonationID:          donation.ID,
		Title:               donation.Title,
		Status:              donation.Status,
		PickupAddress:       donation.PickupAddress,
		PickupLocation:      donation.PickupLocation,
		DonorID:             donation.DonorID,
		AssignedVolunteerID: donation.AssignedVolunteerID,
	}
	if donation.VolunteerLocation.Set() {
		loc := donation.VolunteerLocation
		info.VolunteerLocation = &loc
	}
	return info, nil
}

// Leaderboard returns volunteers ordered by points descending.
func (s *VolunteerService) Leaderboard(ctx context.Context, limit int) ([]models.User, error) {
	volunteers, err := s.store.ListVolunteersByPoints(ctx, limit)
	if err != nil {
		return nil, storeFailure("list volunteers", err)
	}
	return volunteers, nil
}
