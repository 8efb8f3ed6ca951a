package list_bookings

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-VenueBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/bookings/models"
)

// ToServiceRequest разбирает query параметры startDate, endDate, status, serviceId, search, limit, offset
func ToServiceRequest(venueID int64, query url.Values) (*models.ListBookingsRequest, error) {
	req := &models.ListBookingsRequest{
		VenueID:   venueID,
		StartDate: optional(query.Get("startDate")),
		EndDate:   optional(query.Get("endDate")),
		Status:    optional(query.Get("status")),
		Search:    strings.TrimSpace(query.Get("search")),
	}

	serviceID, err := handlers.ParseOptionalID(query.Get("serviceId"), "serviceId")
	if err != nil {
		return nil, err
	}
	req.ServiceID = serviceID

	if req.Limit, err = parseInt(query.Get("limit"), "limit"); err != nil {
		return nil, err
	}
	if req.Offset, err = parseInt(query.Get("offset"), "offset"); err != nil {
		return nil, err
	}

	return req, nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func parseInt(value, name string) (int, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	return n, nil
}
