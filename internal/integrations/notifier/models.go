package notifier

import (
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

// EventType тип события бронирования
type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingCancelled EventType = "booking.cancelled"
)

// Event тело webhook-запроса
type Event struct {
	Type          EventType `json:"type"`
	OccurredAt    time.Time `json:"occurred_at"`
	BookingID     int64     `json:"booking_id"`
	BookingToken  string    `json:"booking_token"`
	VenueID       int64     `json:"venue_id"`
	ServiceID     int64     `json:"service_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	BookingDate   string    `json:"booking_date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	Status        string    `json:"status"`
	Reason        *string   `json:"reason,omitempty"`
}

// NewEvent собирает событие из бронирования
func NewEvent(eventType EventType, b *domain.Booking, at time.Time) *Event {
	return &Event{
		Type:          eventType,
		OccurredAt:    at,
		BookingID:     b.ID,
		BookingToken:  b.BookingToken,
		VenueID:       b.VenueID,
		ServiceID:     b.ServiceID,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		BookingDate:   b.BookingDate.Format(domain.DateFormat),
		StartTime:     b.StartTime.String(),
		EndTime:       b.EndTime.String(),
		Status:        string(b.Status),
		Reason:        b.CancellationReason,
	}
}
