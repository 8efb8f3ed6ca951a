package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
	StatusNoShow    BookingStatus = "no_show"
)

// transitions allowed status changes; terminal statuses have no entry
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusNoShow, StatusCancelled},
}

// ParseBookingStatus converts a string into a known status
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("unknown booking status %q", s)
	}
	return status, nil
}

// IsValid returns true for the five known statuses
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

// IsBlocking returns true if a booking in this status occupies its slot
func (s BookingStatus) IsBlocking() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusCompleted
}

// IsTerminal returns true if no further transitions are possible
func (s BookingStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanTransitionTo reports whether the state machine allows s -> next
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Booking represents a reservation of a service slot
type Booking struct {
	ID              int64
	VenueID         int64
	ServiceID       int64
	StaffMemberID   *int64
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   *string
	BookingDate     time.Time // calendar date, time part is zero
	StartTime       types.TimeString
	EndTime         types.TimeString
	PartySize       int
	SpecialRequests *string
	Status          BookingStatus
	BookingToken    string

	CancelledAt        *time.Time
	CancellationReason *string
	TotalAmount        decimal.NullDecimal

	// Conflict dimension
	ResourceKey string
	SeatNumber  int

	// Read-only fields joined for views
	VenueName         string
	ServiceName       string
	StaffMemberName   *string
	CancellationHours int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBlocking returns true if the booking occupies its slot
func (b *Booking) IsBlocking() bool {
	return b.Status.IsBlocking()
}

// CanTransitionTo reports whether the booking may move to next
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	return b.Status.CanTransitionTo(next)
}

// Window returns the booked interval
func (b *Booking) Window() TimeWindow {
	return TimeWindow{Start: b.StartTime, End: b.EndTime}
}

// StartsAt returns the start instant in the venue location
func (b *Booking) StartsAt(loc *time.Location) time.Time {
	return b.StartTime.On(b.BookingDate, loc)
}

// HoursUntilStart returns fractional hours from now to the start, negative if it has passed
func (b *Booking) HoursUntilStart(now time.Time, loc *time.Location) float64 {
	return b.StartsAt(loc).Sub(now).Hours()
}

// ResourceKey builds the conflict dimension: bookings sharing it compete for capacity
func ResourceKey(service *Service, staffMemberID *int64) string {
	if service.RequiresStaff && staffMemberID != nil {
		return fmt.Sprintf("staff:%d", *staffMemberID)
	}
	return fmt.Sprintf("service:%d", service.ID)
}

// BookingsFilter filter for the admin booking list
type BookingsFilter struct {
	VenueID   int64
	StartDate *time.Time
	EndDate   *time.Time
	Status    *BookingStatus
	ServiceID *int64
	Search    string // customer name, email or phone
	Limit     int
	Offset    int
}

// DateOnly strips the clock part and location, keeping the calendar date
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
