package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service represents a bookable offering of a venue
type Service struct {
	ID              int64
	VenueID         int64
	Name            string
	Description     *string
	DurationMinutes int
	Price           decimal.NullDecimal
	Capacity        int
	RequiresStaff   bool
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// EffectiveCapacity returns capacity, never below one
func (s *Service) EffectiveCapacity() int {
	if s.Capacity < 1 {
		return DefaultServiceCapacity
	}
	return s.Capacity
}

// ServicePatch partial service update; nil fields are left unchanged
type ServicePatch struct {
	Name            *string
	Description     *string
	DurationMinutes *int
	Price           *decimal.Decimal
	Capacity        *int
	RequiresStaff   *bool
	IsActive        *bool
}

// StaffMember represents an employee who can perform services
type StaffMember struct {
	ID          int64
	VenueID     int64
	Name        string
	Email       *string
	Phone       *string
	Description *string
	IsActive    bool
	ServiceIDs  []int64
}

// Performs reports whether the staff member is linked to the service
func (m *StaffMember) Performs(serviceID int64) bool {
	for _, id := range m.ServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}
