package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/example/socialmentor/internal/models"
	"github.com/example/socialmentor/internal/store"
)

func newEnv() (*store.MemoryStore, *DonationService, *VolunteerService) {
	st := store.NewMemory()
	telegram := NewTelegramService("", "")
	return st, NewDonationService(st, nil, telegram), NewVolunteerService(st, nil, telegram)
}

func seedUser(t *testing.T, st *store.MemoryStore, role, name, city, pincode string) *models.User {
	t.Helper()
	user := &models.User{
		Name:    name,
		Email:   name + "@example.com",
		Role:    role,
		City:    city,
		Pincode: pincode,
	}
	if err := st.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seed user %s: %v", name, err)
	}
	return user
}

func seedDonation(t *testing.T, st *store.MemoryStore, donor *models.User, title, city, pincode string, createdAt time.Time) *models.Donation {
	t.Helper()
	donation := &models.Donation{
		DonorID:       donor.ID,
		Title:         title,
		Description:   "seeded",
		Category:      models.CategoryOther,
		Quantity:      "1 box",
		PickupAddress: "12 Seed Street",
		City:          city,
		Pincode:       pincode,
		Status:        models.StatusCreated,
		PointsAwarded: models.DefaultPointsAwarded,
	}
	donation.CreatedAt = createdAt
	if err := st.CreateDonation(context.Background(), donation); err != nil {
		t.Fatalf("seed donation %s: %v", title, err)
	}
	return donation
}

// recordingPublisher captures published lifecycle events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(event string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) recorded() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}
