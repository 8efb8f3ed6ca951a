package create_booking

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	createBooking "github.com/m04kA/SMC-VenueBookingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	VenueID         int64            `json:"venue_id"`
	ServiceID       int64            `json:"service_id"`
	StaffMemberID   *int64           `json:"staff_member_id,omitempty"`
	CustomerName    string           `json:"customer_name"`
	CustomerEmail   string           `json:"customer_email"`
	CustomerPhone   *string          `json:"customer_phone,omitempty"`
	BookingDate     string           `json:"booking_date"` // "2025-06-10"
	StartTime       string           `json:"start_time"`   // "18:00"
	EndTime         *string          `json:"end_time,omitempty"`
	PartySize       int              `json:"party_size"`
	SpecialRequests *string          `json:"special_requests,omitempty"`
	TotalAmount     *decimal.Decimal `json:"total_amount,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, fmt.Errorf("booking_date must be YYYY-MM-DD")
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("start_time must be HH:MM")
	}

	var endTime *types.TimeString
	if r.EndTime != nil && *r.EndTime != "" {
		parsed, err := types.NewTimeStringFromString(*r.EndTime)
		if err != nil {
			return nil, fmt.Errorf("end_time must be HH:MM")
		}
		endTime = &parsed
	}

	return &createBooking.Request{
		VenueID:         r.VenueID,
		ServiceID:       r.ServiceID,
		StaffMemberID:   r.StaffMemberID,
		CustomerName:    r.CustomerName,
		CustomerEmail:   r.CustomerEmail,
		CustomerPhone:   r.CustomerPhone,
		Date:            bookingDate,
		StartTime:       startTime,
		EndTime:         endTime,
		PartySize:       r.PartySize,
		SpecialRequests: r.SpecialRequests,
		TotalAmount:     r.TotalAmount,
	}, nil
}
