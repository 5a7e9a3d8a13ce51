package domain

import "time"

// BusinessStatus is the account state of a business
type BusinessStatus string

const (
	BusinessActive    BusinessStatus = "active"
	BusinessInactive  BusinessStatus = "inactive"
	BusinessSuspended BusinessStatus = "suspended"
)

// Business is a tenant: its schedule, services and booking form
type Business struct {
	ID           string
	OwnerID      string
	CustomURL    string
	Name         string
	Email        string
	Status       BusinessStatus
	WorkingHours WorkingHours
	Services     []Service
	BookingForm  BookingForm
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Service is a bookable offering with a fixed duration
type Service struct {
	ID              string
	BusinessID      string
	Name            string
	Description     *string
	DurationMinutes int
	Price           float64
	CreatedAt       time.Time
}

func (b *Business) IsActive() bool {
	return b.Status == BusinessActive
}

// IsOwnedBy reports whether userID manages the business
func (b *Business) IsOwnedBy(userID string) bool {
	return userID != "" && b.OwnerID == userID
}

// FindService looks a service up by id
func (b *Business) FindService(serviceID string) (*Service, bool) {
	for i := range b.Services {
		if b.Services[i].ID == serviceID {
			return &b.Services[i], true
		}
	}
	return nil, false
}
