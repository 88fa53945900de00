package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/socialmentor/internal/models"
)

type gormStore struct {
	db *gorm.DB
}

// New wraps a gorm connection in the Store contract.
func New(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) CreateUser(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *gormStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *gormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *gormStore) ListVolunteersByPoints(ctx context.Context, limit int) ([]models.User, error) {
	var users []models.User
	q := s.db.WithContext(ctx).
		Where("role = ?", models.RoleVolunteer).
		Order("points DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *gormStore) ListDonorsByActivity(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Where("role = ?", models.RoleDonor).
		Order("donations_created DESC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (s *gormStore) IncrementDonationsCreated(ctx context.Context, donorID uuid.UUID) error {
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", donorID).
		UpdateColumn("donations_created", gorm.Expr("donations_created + 1")).Error
}

func (s *gormStore) SetUserLocation(ctx context.Context, userID uuid.UUID, loc models.TrackedLocation) error {
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"current_latitude":     loc.Latitude,
			"current_longitude":    loc.Longitude,
			"current_last_updated": loc.LastUpdated,
		}).Error
}

func (s *gormStore) CountUsersByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", role).
		Count(&count).Error
	return count, err
}

func (s *gormStore) CreateDonation(ctx context.Context, donation *models.Donation) error {
	return s.db.WithContext(ctx).Create(donation).Error
}

func (s *gormStore) GetDonation(ctx context.Context, id uuid.UUID) (*models.Donation, error) {
	var donation models.Donation
	if err := s.db.WithContext(ctx).First(&donation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &donation, nil
}

func (s *gormStore) ListDonationsByDonor(ctx context.Context, donorID uuid.UUID) ([]models.Donation, error) {
	var donations []models.Donation
	err := s.db.WithContext(ctx).
		Where("donor_id = ?", donorID).
		Order("created_at DESC").
		Find(&donations).Error
	if err != nil {
		return nil, err
	}
	return donations, nil
}

func (s *gormStore) ListDonationsByVolunteer(ctx context.Context, volunteerID uuid.UUID) ([]models.Donation, error) {
	var donations []models.Donation
	err := s.db.WithContext(ctx).
		Where("assigned_volunteer_id = ?", volunteerID).
		Order("assigned_at DESC").
		Find(&donations).Error
	if err != nil {
		return nil, err
	}
	return donations, nil
}

func (s *gormStore) ListOpenDonations(ctx context.Context, city, pincode string) ([]models.Donation, error) {
	q := s.db.WithContext(ctx).Where("status = ?", models.StatusCreated)

	// Volunteers without location tags see every open donation.
	switch {
	case city != "" && pincode != "":
		q = q.Where("city = ? OR pincode = ?", city, pincode)
	case city != "":
		q = q.Where("city = ?", city)
	case pincode != "":
		q = q.Where("pincode = ?", pincode)
	}

	var donations []models.Donation
	if err := q.Order("created_at DESC").Find(&donations).Error; err != nil {
		return nil, err
	}
	return donations, nil
}

func (s *gormStore) ListDonations(ctx context.Context) ([]models.Donation, error) {
	var donations []models.Donation
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&donations).Error
	if err != nil {
		return nil, err
	}
	return donations, nil
}

func (s *gormStore) UpdateOpenDonation(ctx context.Context, id uuid.UUID, patch DonationPatch) error {
	updates := map[string]any{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Category != nil {
		updates["category"] = *patch.Category
	}
	if patch.Quantity != nil {
		updates["quantity"] = *patch.Quantity
	}
	if patch.PickupAddress != nil {
		updates["pickup_address"] = *patch.PickupAddress
	}
	if patch.City != nil {
		updates["city"] = *patch.City
	}
	if patch.Pincode != nil {
		updates["pincode"] = *patch.Pincode
	}
	if len(updates) == 0 {
		return nil
	}

	res := s.db.WithContext(ctx).Model(&models.Donation{}).
		Where("id = ? AND status = ?", id, models.StatusCreated).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStatusConflict
	}
	return nil
}

func (s *gormStore) DeleteOpenDonation(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, models.StatusCreated).
		Delete(&models.Donation{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStatusConflict
	}
	return nil
}

func (s *gormStore) AssignDonation(ctx context.Context, id, volunteerID uuid.UUID, at time.Time) error {
	res := s.db.WithContext(ctx).Model(&models.Donation{}).
		Where("id = ? AND status = ?", id, models.StatusCreated).
		Updates(map[string]any{
			"status":                models.StatusAssigned,
			"assigned_volunteer_id": volunteerID,
			"assigned_at":           at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStatusConflict
	}
	return nil
}

func (s *gormStore) MarkPickedUp(ctx context.Context, id uuid.UUID, at time.Time) error {
	res := s.db.WithContext(ctx).Model(&models.Donation{}).
		Where("id = ? AND status = ?", id, models.StatusAssigned).
		Updates(map[string]any{
			"status":       models.StatusPickedUp,
			"picked_up_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStatusConflict
	}
	return nil
}

func (s *gormStore) DeliverDonation(ctx context.Context, id, volunteerID uuid.UUID, points int, at time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Donation{}).
			Where("id = ? AND status = ? AND assigned_volunteer_id = ?", id, models.StatusPickedUp, volunteerID).
			Updates(map[string]any{
				"status":       models.StatusDelivered,
				"delivered_at": at,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStatusConflict
		}

		return tx.Model(&models.User{}).
			Where("id = ?", volunteerID).
			Updates(map[string]any{
				"points":          gorm.Expr("points + ?", points),
				"tasks_completed": gorm.Expr("tasks_completed + 1"),
			}).Error
	})
}

func (s *gormStore) SetVolunteerLocation(ctx context.Context, id uuid.UUID, loc models.TrackedLocation) error {
	res := s.db.WithContext(ctx).Model(&models.Donation{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"volunteer_latitude":     loc.Latitude,
			"volunteer_longitude":    loc.Longitude,
			"volunteer_last_updated": loc.LastUpdated,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) CountDonationsByStatus(ctx context.Context) ([]StatusCount, error) {
	var counts []StatusCount
	err := s.db.WithContext(ctx).Model(&models.Donation{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (s *gormStore) CountDonations(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Donation{}).Count(&count).Error
	return count, err
}
