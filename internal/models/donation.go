package models

import (
	"time"

	"github.com/google/uuid"
)

// Donation workflow statuses. Transitions only ever move forward:
// CREATED -> ASSIGNED -> PICKED_UP -> DELIVERED.
const (
	StatusCreated   = "CREATED"
	StatusAssigned  = "ASSIGNED"
	StatusPickedUp  = "PICKED_UP"
	StatusDelivered = "DELIVERED"
)

// Donation categories accepted at creation.
const (
	CategoryFood        = "food"
	CategoryClothes     = "clothes"
	CategoryBooks       = "books"
	CategoryElectronics = "electronics"
	CategoryFurniture   = "furniture"
	CategoryOther       = "other"
)

// DefaultPointsAwarded is credited to the volunteer on delivery unless the
// donation says otherwise. Fixed at creation, never mutated.
const DefaultPointsAwarded = 10

// ValidCategory reports whether the category is one of the known values.
func ValidCategory(category string) bool {
	switch category {
	case CategoryFood, CategoryClothes, CategoryBooks, CategoryElectronics, CategoryFurniture, CategoryOther:
		return true
	}
	return false
}

// GeoPoint is a static coordinate, captured once at creation.
type GeoPoint struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Donation is a donor-submitted offer of goods for pickup and delivery.
// Exactly one donor owns it for its whole life; at most one volunteer is
// ever assigned.
type Donation struct {
	BaseModel
	DonorID     uuid.UUID `gorm:"type:uuid;index" json:"donor_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Quantity    string    `json:"quantity"`

	PickupAddress  string   `json:"pickup_address"`
	City           string   `gorm:"index" json:"city"`
	Pincode        string   `gorm:"index" json:"pincode"`
	PickupLocation GeoPoint `gorm:"embedded;embeddedPrefix:pickup_" json:"pickup_location"`

	// Latest position reported by the assigned volunteer.
	VolunteerLocation TrackedLocation `gorm:"embedded;embeddedPrefix:volunteer_" json:"volunteer_location"`

	Status              string     `gorm:"index" json:"status"`
	AssignedVolunteerID *uuid.UUID `gorm:"type:uuid;index" json:"assigned_volunteer_id"`
	AssignedAt          *time.Time `json:"assigned_at"`
	PickedUpAt          *time.Time `json:"picked_up_at"`
	DeliveredAt         *time.Time `json:"delivered_at"`

	PointsAwarded int `json:"points_awarded"`
}
