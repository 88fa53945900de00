package services

import (
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/example/socialmentor/internal/models"
)

// Donation lifecycle event names published to the message queue.
const (
	EventDonationCreated   = "donation.created"
	EventDonationAssigned  = "donation.assigned"
	EventDonationPickedUp  = "donation.picked_up"
	EventDonationDelivered = "donation.delivered"
)

// EventPublisher delivers lifecycle events to interested consumers. A nil
// publisher disables eventing.
type EventPublisher interface {
	Publish(event string, payload any) error
}

// DonationEvent is the payload published for every lifecycle change.
type DonationEvent struct {
	Event       string     `json:"event"`
	DonationID  uuid.UUID  `json:"donation_id"`
	DonorID     uuid.UUID  `json:"donor_id"`
	VolunteerID *uuid.UUID `json:"volunteer_id,omitempty"`
	Status      string     `json:"status"`
	City        string     `json:"city"`
	Pincode     string     `json:"pincode"`
	At          time.Time  `json:"at"`
}

// publishEvent sends best-effort; delivery problems are logged, never
// surfaced to the request that triggered them.
func publishEvent(events EventPublisher, event string, donation *models.Donation) {
	if events == nil {
		return
	}
	payload := DonationEvent{
		Event:       event,
		DonationID:  donation.ID,
		DonorID:     donation.DonorID,
		VolunteerID: donation.AssignedVolunteerID,
		Status:      donation.Status,
		City:        donation.City,
		Pincode:     donation.Pincode,
		At:          time.Now(),
	}
	if err := events.Publish(event, payload); err != nil {
		log.Printf("[Events] publish %s for donation %s failed: %v", event, donation.ID, err)
	}
}
