package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/example/socialmentor/internal/models"
)

var (
	// ErrNotFound indicates the referenced record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrStatusConflict indicates a conditional update found the donation in
	// a different status than required, typically because another request
	// transitioned it first.
	ErrStatusConflict = errors.New("donation status precondition failed")
)

// DonationPatch carries the donor-editable fields. Nil means "leave as is".
type DonationPatch struct {
	Title         *string
	Description   *string
	Category      *string
	Quantity      *string
	PickupAddress *string
	City          *string
	Pincode       *string
}

// StatusCount is one bucket of the admin stats aggregation.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// Store is the record store behind the donation engines. Status transitions
// are conditional updates: the status check and the mutation happen as a
// single atomic operation so concurrent transitions on the same donation
// resolve to exactly one winner.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListVolunteersByPoints(ctx context.Context, limit int) ([]models.User, error)
	ListDonorsByActivity(ctx context.Context) ([]models.User, error)
	IncrementDonationsCreated(ctx context.Context, donorID uuid.UUID) error
	SetUserLocation(ctx context.Context, userID uuid.UUID, loc models.TrackedLocation) error
	CountUsersByRole(ctx context.Context, role string) (int64, error)

	CreateDonation(ctx context.Context, donation *models.Donation) error
	GetDonation(ctx context.Context, id uuid.UUID) (*models.Donation, error)
	// ListDonationsByDonor returns the donor's donations, newest first.
	ListDonationsByDonor(ctx context.Context, donorID uuid.UUID) ([]models.Donation, error)
	// ListDonationsByVolunteer returns donations assigned to the volunteer,
	// most recently assigned first.
	ListDonationsByVolunteer(ctx context.Context, volunteerID uuid.UUID) ([]models.Donation, error)
	// ListOpenDonations returns CREATED donations matching city or pincode,
	// newest first. When both filters are empty every CREATED donation is
	// returned.
	ListOpenDonations(ctx context.Context, city, pincode string) ([]models.Donation, error)
	ListDonations(ctx context.Context) ([]models.Donation, error)
	// UpdateOpenDonation applies the patch only while the donation is still
	// CREATED; otherwise ErrStatusConflict.
	UpdateOpenDonation(ctx context.Context, id uuid.UUID, patch DonationPatch) error
	// DeleteOpenDonation removes the donation only while it is still CREATED.
	DeleteOpenDonation(ctx context.Context, id uuid.UUID) error
	// AssignDonation performs the CREATED -> ASSIGNED transition.
	AssignDonation(ctx context.Context, id, volunteerID uuid.UUID, at time.Time) error
	// MarkPickedUp performs the ASSIGNED -> PICKED_UP transition.
	MarkPickedUp(ctx context.Context, id uuid.UUID, at time.Time) error
	// DeliverDonation performs the PICKED_UP -> DELIVERED transition and
	// credits the volunteer's points and tasks counters in the same atomic
	// unit, so the award happens exactly once per donation.
	DeliverDonation(ctx context.Context, id, volunteerID uuid.UUID, points int, at time.Time) error
	SetVolunteerLocation(ctx context.Context, id uuid.UUID, loc models.TrackedLocation) error
	CountDonationsByStatus(ctx context.Context) ([]StatusCount, error)
	CountDonations(ctx context.Context) (int64, error)
}
