package get_available_slots

import (
	"fmt"
	"net/url"
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-VenueBookingService/internal/usecase/get_available_slots"
)

// DayAvailabilityResponse HTTP response model
type DayAvailabilityResponse struct {
	Date      string            `json:"date"` // "2025-06-10"
	DayOfWeek int               `json:"day_of_week"`
	TimeSlots []domain.TimeSlot `json:"time_slots"`
}

// ToUseCaseRequest разбирает query параметры venueId, serviceId, date, staffMemberId
func ToUseCaseRequest(query url.Values) (*getAvailableSlots.Request, error) {
	venueID, err := handlers.ParseID(query.Get("venueId"), "venueId")
	if err != nil {
		return nil, err
	}
	serviceID, err := handlers.ParseID(query.Get("serviceId"), "serviceId")
	if err != nil {
		return nil, err
	}
	staffMemberID, err := handlers.ParseOptionalID(query.Get("staffMemberId"), "staffMemberId")
	if err != nil {
		return nil, err
	}
	date, err := time.Parse(domain.DateFormat, query.Get("date"))
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", query.Get("date"))
	}

	return &getAvailableSlots.Request{
		VenueID:       venueID,
		ServiceID:     serviceID,
		StaffMemberID: staffMemberID,
		Date:          date,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *DayAvailabilityResponse {
	return &DayAvailabilityResponse{
		Date:      resp.Date.Format(domain.DateFormat),
		DayOfWeek: resp.DayOfWeek,
		TimeSlots: resp.Slots,
	}
}
