package domain

import "time"

// Venue represents a bookable location and its booking policy
type Venue struct {
	ID          int64
	Name        string
	Type        string
	Description *string
	Email       *string
	Phone       *string
	Address     *string
	City        *string
	PostalCode  *string
	Country     *string
	Website     *string

	BookingAdvanceDays  int // 0 = unlimited horizon
	BookingAdvanceHours int
	CancellationHours   int
	RequirePhone        bool
	IsActive            bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Policy returns the venue's booking policy thresholds
func (v *Venue) Policy() Policy {
	return Policy{
		BookingAdvanceDays:  v.BookingAdvanceDays,
		BookingAdvanceHours: v.BookingAdvanceHours,
		CancellationHours:   v.CancellationHours,
		RequirePhone:        v.RequirePhone,
	}
}
