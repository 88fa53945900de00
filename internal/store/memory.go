package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/socialmentor/internal/models"
)

// MemoryStore is a mutex-guarded in-memory Store used by tests. Conditional
// updates are atomic under the mutex, matching the single-winner semantics
// of the SQL implementation.
type MemoryStore struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*models.User
	donations map[uuid.UUID]*models.Donation
}

// NewMemory returns an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		users:     make(map[uuid.UUID]*models.User),
		donations: make(map[uuid.UUID]*models.Donation),
	}
}

func (m *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *MemoryStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (m *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) ListVolunteersByPoints(ctx context.Context, limit int) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var users []models.User
	for _, user := range m.users {
		if user.Role == models.RoleVolunteer {
			users = append(users, *user)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Points > users[j].Points })
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (m *MemoryStore) ListDonorsByActivity(ctx context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var users []models.User
	for _, user := range m.users {
		if user.Role == models.RoleDonor {
			users = append(users, *user)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].DonationsCreated > users[j].DonationsCreated })
	return users, nil
}

func (m *MemoryStore) IncrementDonationsCreated(ctx context.Context, donorID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[donorID]
	if !ok {
		return ErrNotFound
	}
	user.DonationsCreated++
	return nil
}

func (m *MemoryStore) SetUserLocation(ctx context.Context, userID uuid.UUID, loc models.TrackedLocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return ErrNotFound
	}
	user.CurrentLocation = loc
	return nil
}

func (m *MemoryStore) CountUsersByRole(ctx context.Context, role string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for _, user := range m.users {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) CreateDonation(ctx context.Context, donation *models.Donation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if donation.ID == uuid.Nil {
		donation.ID = uuid.New()
	}
	if donation.CreatedAt.IsZero() {
		donation.CreatedAt = time.Now()
	}
	clone := *donation
	m.donations[donation.ID] = &clone
	return nil
}

func (m *MemoryStore) GetDonation(ctx context.Context, id uuid.UUID) (*models.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	donation, ok := m.donations[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *donation
	return &clone, nil
}

func (m *MemoryStore) ListDonationsByDonor(ctx context.Context, donorID uuid.UUID) ([]models.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var donations []models.Donation
	for _, donation := range m.donations {
		if donation.DonorID == donorID {
			donations = append(donations, *donation)
		}
	}
	sortNewestFirst(donations)
	return donations, nil
}

func (m *MemoryStore) ListDonationsByVolunteer(ctx context.Context, volunteerID uuid.UUID) ([]models.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var donations []models.Donation
	for _, donation := range m.donations {
		if donation.AssignedVolunteerID != nil && *donation.AssignedVolunteerID == volunteerID {
			donations = append(donations, *donation)
		}
	}
	sort.Slice(donations, func(i, j int) bool {
		ai, aj := donations[i].AssignedAt, donations[j].AssignedAt
		if ai == nil || aj == nil {
			return aj == nil
		}
		return ai.After(*aj)
	})
	return donations, nil
}

func (m *MemoryStore) ListOpenDonations(ctx context.Context, city, pincode string) ([]models.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var donations []models.Donation
	for _, donation := range m.donations {
		if donation.Status != models.StatusCreated {
			continue
		}
		if city != "" || pincode != "" {
			if !(city != "" && donation.City == city) && !(pincode != "" && donation.Pincode == pincode) {
				continue
			}
		}
		donations = append(donations, *donation)
	}
	sortNewestFirst(donations)
	return donations, nil
}

func (m *MemoryStore) ListDonations(ctx context.Context) ([]models.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	donations := make([]models.Donation, 0, len(m.donations))
	for _, donation := range m.donations {
		donations = append(donations, *donation)
	}
	sortNewestFirst(donations)
	return donations, nil
}

func (m *MemoryStore) UpdateOpenDonation(ctx context.Context, id uuid.UUID, patch DonationPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	donation, ok := m.donations[id]
	if !ok || donation.Status != models.StatusCreated {
		return ErrStatusConflict
	}
	if patch.Title != nil {
		donation.Title = *patch.Title
	}
	if patch.Description != nil {
		donation.Description = *patch.Description
	}
	if patch.Category != nil {
		donation.Category = *patch.Category
	}
	if patch.Quantity != nil {
		donation.Quantity = *patch.Quantity
	}
	if patch.PickupAddress != nil {
		donation.PickupAddress = *patch.PickupAddress
	}
	if patch.City != nil {
		donation.City = *patch.City
	}
	if patch.Pincode != nil {
		donation.Pincode = *patch.Pincode
	}
	return nil
}

func (m *MemoryStore) DeleteOpenDonation(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	donation, ok := m.donations[id]
	if !ok || donation.Status != models.StatusCreated {
		return ErrStatusConflict
	}
	delete(m.donations, id)
	return nil
}

func (m *MemoryStore) AssignDonation(ctx context.Context, id, volunteerID uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	donation, ok := m.donations[id]
	if !ok || donation.Status != models.StatusCreated {
		return ErrStatusConflict
	}
	vid := volunteerID
	assignedAt := at
	donation.Status = models.StatusAssigned
	donation.AssignedVolunteerID = &vid
	donation.AssignedAt = &assignedAt
	return nil
}

func (m *MemoryStore) MarkPickedUp(ctx context.Context, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	donation, ok := m.donations[id]
	if !ok || donation.Status != models.StatusAssigned {
		return ErrStatusConflict
	}
	pickedUpAt := at
	donation.Status = models.StatusPickedUp
	donation.PickedUpAt = &pickedUpAt
	return nil
}

func (m *MemoryStore) DeliverDonation(ctx context.Context, id, volunteerID uuid.UUID, points int, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	donation, ok := m.donations[id]
	if !ok || donation.Status != models.StatusPickedUp {
		return ErrStatusConflict
	}
	if donation.AssignedVolunteerID == nil || *donation.AssignedVolunteerID != volunteerID {
		return ErrStatusConflict
	}
	deliveredAt := at
	donation.Status = models.StatusDelivered
	donation.DeliveredAt = &deliveredAt

	if volunteer, ok := m.users[volunteerID]; ok {
		volunteer.Points += points
		volunteer.TasksCompleted++
	}
	return nil
}

func (m *MemoryStore) SetVolunteerLocation(ctx context.Context, id uuid.UUID, loc models.TrackedLocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	donation, ok := m.donations[id]
	if !ok {
		return ErrNotFound
	}
	donation.VolunteerLocation = loc
	return nil
}

func (m *MemoryStore) CountDonationsByStatus(ctx context.Context) ([]StatusCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	byStatus := make(map[string]int64)
	for _, donation := range m.donations {
		byStatus[donation.Status]++
	}
	counts := make([]StatusCount, 0, len(byStatus))
	for status, count := range byStatus {
		counts = append(counts, StatusCount{Status: status, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Status < counts[j].Status })
	return counts, nil
}

func (m *MemoryStore) CountDonations(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return int64(len(m.donations)), nil
}

func sortNewestFirst(donations []models.Donation) {
	sort.Slice(donations, func(i, j int) bool {
		return donations[i].CreatedAt.After(donations[j].CreatedAt)
	})
}
