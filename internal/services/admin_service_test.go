package services

import (
	"context"
	"testing"
	"time"

	"github.com/example/socialmentor/internal/models"
)

func TestAdminStats(t *testing.T) {
	st, _, volunteers := newEnv()
	admins := NewAdminService(st)

	donor := seedUser(t, st, models.RoleDonor, "asha", "Pune", "411001")
	volunteer := seedUser(t, st, models.RoleVolunteer, "kiran", "Pune", "")
	seedUser(t, st, models.RoleVolunteer, "ravi", "Delhi", "")

	seedDonation(t, st, donor, "open one", "Pune", "411001", time.Now())
	seedDonation(t, st, donor, "open two", "Pune", "411001", time.Now())
	taken := seedDonation(t, st, donor, "taken", "Pune", "411001", time.Now())

	ctx := context.Background()
	if _, err := volunteers.Accept(ctx, volunteer, taken.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	stats, err := admins.GetStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	if stats.TotalDonations != 3 || stats.TotalVolunteers != 2 || stats.TotalDonors != 1 {
		t.Errorf("totals = %d/%d/%d, want 3/2/1",
			stats.TotalDonations, stats.TotalVolunteers, stats.TotalDonors)
	}

	byStatus := make(map[string]int64)
	for _, bucket := range stats.DonationsByStatus {
		byStatus[bucket.Status] = bucket.Count
	}
	if byStatus[models.StatusCreated] != 2 || byStatus[models.StatusAssigned] != 1 {
		t.Errorf("byStatus = %v", byStatus)
	}
}

func TestAdminListDonors(t *testing.T) {
	st, donations, _ := newEnv()
	admins := NewAdminService(st)

	busy := seedUser(t, st, models.RoleDonor, "busy", "Pune", "411001")
	seedUser(t, st, models.RoleDonor, "idle", "Pune", "411001")

	if _, err := donations.Create(context.Background(), busy, validInput()); err != nil {
		t.Fatalf("create: %v", err)
	}

	donors, err := admins.ListDonors(context.Background())
	if err != nil {
		t.Fatalf("list donors: %v", err)
	}
	if len(donors) != 2 || donors[0].Name != "busy" {
		t.Errorf("unexpected donor ordering: %v", donors)
	}
}
