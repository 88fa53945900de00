package services

import (
	"context"

	"github.com/example/socialmentor/internal/models"
	"github.com/example/socialmentor/internal/store"
)

// AdminService serves the admin dashboard reads.
type AdminService struct {
	store store.Store
}

// NewAdminService constructs an AdminService.
func NewAdminService(st store.Store) *AdminService {
	return &AdminService{store: st}
}

// Stats aggregates the dashboard numbers.
type Stats struct {
	TotalDonations    int64               `json:"total_donations"`
	TotalVolunteers   int64               `json:"total_volunteers"`
	TotalDonors       int64               `json:"total_donors"`
	DonationsByStatus []store.StatusCount `json:"donations_by_status"`
}

// ListDonations returns every donation, newest first.
func (s *AdminService) ListDonations(ctx context.Context) ([]models.Donation, error) {
	donations, err := s.store.ListDonations(ctx)
	if err != nil {
		return nil, storeFailure("list donations", err)
	}
	return donations, nil
}

// ListVolunteers returns all volunteers ordered by points descending.
func (s *AdminService) ListVolunteers(ctx context.Context) ([]models.User, error) {
	volunteers, err := s.store.ListVolunteersByPoints(ctx, 0)
	if err != nil {
		return nil, storeFailure("list volunteers", err)
	}
	return volunteers, nil
}

// ListDonors returns all donors ordered by donations created descending.
func (s *AdminService) ListDonors(ctx context.Context) ([]models.User, error) {
	donors, err := s.store.ListDonorsByActivity(ctx)
	if err != nil {
		return nil, storeFailure("list donors", err)
	}
	return donors, nil
}

// GetStats returns donation totals and the per-status breakdown.
func (s *AdminService) GetStats(ctx context.Context) (*Stats, error) {
	totalDonations, err := s.store.CountDonations(ctx)
	if err != nil {
		return nil, storeFailure("count donations", err)
	}
	totalVolunteers, err := s.store.CountUsersByRole(ctx, models.RoleVolunteer)
	if err != nil {
		return nil, storeFailure("count volunteers", err)
	}
	totalDonors, err := s.store.CountUsersByRole(ctx, models.RoleDonor)
	if err != nil {
		return nil, storeFailure("count donors", err)
	}
	byStatus, err := s.store.CountDonationsByStatus(ctx)
	if err != nil {
		return nil, storeFailure("count donations by status", err)
	}

	return &Stats{
		TotalDonations:    totalDonations,
		TotalVolunteers:   totalVolunteers,
		TotalDonors:       totalDonors,
		DonationsByStatus: byStatus,
	}, nil
}
