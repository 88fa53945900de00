package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/example/socialmentor/internal/models"
)

func validInput() CreateDonationInput {
	return CreateDonationInput{
		Title:         "Winter clothes",
		Description:   "Two bags of warm clothes",
		Category:      models.CategoryClothes,
		Quantity:      "2 bags",
		PickupAddress: "14 MG Road",
		City:          "Pune",
		Pincode:       "411001",
	}
}

func TestCreateDonation(t *testing.T) {
	st, donations, _ := newEnv()
	donor := seedUser(t, st, models.RoleDonor, "asha", "Pune", "411001")

	donation, err := donations.Create(context.Background(), donor, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if donation.Status != models.StatusCreated {
		t.Errorf("status = %s, want %s", donation.Status, models.StatusCreated)
	}
	if donation.AssignedVolunteerID != nil {
		t.Error("new donation must not have an assigned volunteer")
	}
	if donation.PointsAwarded != models.DefaultPointsAwarded {
		t.Errorf("pointsAwarded = %d, want %d", donation.PointsAwarded, models.DefaultPointsAwarded)
	}

	updatedDonor, err := st.GetUser(context.Background(), donor.ID)
	if err != nil {
		t.Fatalf("get donor: %v", err)
	}
	if updatedDonor.DonationsCreated != 1 {
		t.Errorf("donationsCreated = %d, want 1", updatedDonor.DonationsCreated)
	}
}

func TestCreateDonationMissingField(t *testing.T) {
	st, donations, _ := newEnv()
	donor := seedUser(t, st, models.RoleDonor, "asha", "Pune", "411001")

	in := validInput()
	in.City = ""
	_, err := donations.Create(context.Background(), donor, in)

	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validation.Field != "city" {
		t.Errorf("field = %s, want city", validation.Field)
	}
}

func TestCreateDonationUnknownCategory(t *testing.T) {
	st, donations, _ := newEnv()
	donor := seedUser(t, st, models.RoleDonor, "asha", "Pune", "411001")

	in := validInput()
	in.Category = "vehicles"
	if _, err := donations.Create(context.Background(), donor, in); err == nil {
		t.Fatal("expected validation error for unknown category")
	}
}

func TestCreateDonationDefaultsCategory(t *testing.T) {
	st, donations, _ := newEnv()
	donor := seedUser(t, st, models.RoleDonor, "asha", "Pune", "411001")

	in := validInput()
	in.Category = ""
	donation, err := donations.Create(context.Background(), donor, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if donation.Category != models.CategoryOther {
		t.Errorf("category = %s, want %s", donation.Category, models.CategoryOther)
	}
}

func TestUpdateDonationOwnerOnly(t *testing.T) {
	st, donations, _ := newEnv()
	donor := seedUser(t, st, models.RoleDonor, "asha", "Pune", "411001")
	other := seedUser(t, st, models.RoleDonor, "ravi", "Pune", "411001")
	donation := seedDonation(t, st, donor, "Books", "Pune", "411001", time.Now())

	title := "School books"
	_, err := donations.Update(context.Background(), other, donation.ID, UpdateDonationInput{Title: &title})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUpdateDonationLockedAfterAssignment(t *testing.T) {
	st, donations, volunteers := newEnv()
	donor := seedUser(t, st, models.RoleDonor, "asha", "Pune", "411001")
	volunteer := seedUser(t, st, models.RoleVolunteer, "kiran", "Pune", "")
	donation := seedDonation(t, st, donor, "Books", "Pune", "411001", time.Now())

	if _, err := volunteers.Accept(context.Background(), volunteer, donation.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	title := "School books"
	_, err := donations.Update(context.Background(), donor, donation.ID, UpdateDonationInput{Title: &title})

	var transition *InvalidTransitionError
	if !errors.As(err, &transition) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if transition.Current != models.StatusAssigned {
		t.Errorf("current = %s, want %s", transition.Current, models.StatusAssigned)
	}
}

func TestDeleteDonation(t *testing.T) {
	st, donations, _ := newEnv()
	donor := seedUser(t, st, models.RoleDonor, "asha", "Pune", "411001")
	donation := seedDonation(t, st, donor, "Books", "Pune", "411001", time.Now())

	if err := donations.Delete(context.Background(), donor, donation.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := donations.Get(context.Background(), donor, donation.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDeleteDonationLockedAfterAssignment(t *testing.T) {
	st, donations, volunteers := newEnv()
	donor := seedUser(t, st, models.RoleDonor, "asha", "Pune", "411001")
	volunteer := seedUser(t, st, models.RoleVolunteer, "kiran", "Pune", "")
	donation := seedDonation(t, st, donor, "Books", "Pune", "411001", time.Now())

	if _, err := volunteers.Accept(context.Background(), volunteer, donation.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	var transition *InvalidTransitionError
	if err := donations.Delete(context.Background(), donor, donation.ID); !errors.As(err, &transition) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
}

func TestGetDonationAccess(t *testing.T) {
	st, donations, _ := newEnv()
	donor := seedUser(t, st, models.RoleDonor, "asha", "Pune", "411001")
	stranger := seedUser(t, st, models.RoleVolunteer, "kiran", "Mumbai", "")
	admin := seedUser(t, st, models.RoleAdmin, "root", "", "")
	donation := seedDonation(t, st, donor, "Books", "Pune", "411001", time.Now())

	if _, err := donations.Get(context.Background(), donor, donation.ID); err != nil {
		t.Errorf("donor access: %v", err)
	}
	if _, err := donations.Get(context.Background(), admin, donation.ID); err != nil {
		t.Errorf("admin access: %v", err)
	}
	if _, err := donations.Get(context.Background(), stranger, donation.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for unassigned volunteer, got %v", err)
	}
	if _, err := donations.Get(context.Background(), donor, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}
}
