package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

// Request модели

// CancelBookingRequest запрос клиента на отмену по токену
type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// UpdateStatusRequest смена статуса сотрудником площадки
type UpdateStatusRequest struct {
	Status string  `json:"status"`
	Reason *string `json:"reason,omitempty"`
}

// ListBookingsRequest фильтры списка бронирований в админке
type ListBookingsRequest struct {
	VenueID   int64
	StartDate *string // YYYY-MM-DD
	EndDate   *string // YYYY-MM-DD
	Status    *string
	ServiceID *int64
	Search    string
	Limit     int
	Offset    int
}

// ToDomainFilter конвертирует запрос в domain фильтр с проверкой значений
func (r *ListBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		VenueID:   r.VenueID,
		ServiceID: r.ServiceID,
		Search:    r.Search,
		Limit:     r.Limit,
		Offset:    r.Offset,
	}

	if r.StartDate != nil {
		d, err := time.Parse(domain.DateFormat, *r.StartDate)
		if err != nil {
			return filter, fmt.Errorf("invalid startDate %q", *r.StartDate)
		}
		filter.StartDate = &d
	}
	if r.EndDate != nil {
		d, err := time.Parse(domain.DateFormat, *r.EndDate)
		if err != nil {
			return filter, fmt.Errorf("invalid endDate %q", *r.EndDate)
		}
		filter.EndDate = &d
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return filter, fmt.Errorf("endDate is before startDate")
	}

	if r.Status != nil {
		status, err := domain.ParseBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	if filter.Offset < 0 {
		return filter, fmt.Errorf("offset must be non-negative")
	}
	switch {
	case filter.Limit <= 0:
		filter.Limit = domain.DefaultBookingsPageLimit
	case filter.Limit > domain.MaxBookingsPageLimit:
		filter.Limit = domain.MaxBookingsPageLimit
	}

	return filter, nil
}

// Response модели

// BookingResponse бронирование в формате API
type BookingResponse struct {
	ID                 int64               `json:"id"`
	VenueID            int64               `json:"venue_id"`
	ServiceID          int64               `json:"service_id"`
	StaffMemberID      *int64              `json:"staff_member_id"`
	CustomerName       string              `json:"customer_name"`
	CustomerEmail      string              `json:"customer_email"`
	CustomerPhone      *string             `json:"customer_phone"`
	BookingDate        string              `json:"booking_date"` // "2025-10-15"
	StartTime          string              `json:"start_time"`   // "18:00"
	EndTime            string              `json:"end_time"`
	PartySize          int                 `json:"party_size"`
	SpecialRequests    *string             `json:"special_requests"`
	Status             string              `json:"status"`
	BookingToken       string              `json:"booking_token"`
	CancelledAt        *string             `json:"cancelled_at"` // ISO 8601
	CancellationReason *string             `json:"cancellation_reason"`
	TotalAmount        decimal.NullDecimal `json:"total_amount"`

	// Денормализованные данные
	VenueName         string  `json:"venue_name,omitempty"`
	ServiceName       string  `json:"service_name,omitempty"`
	StaffMemberName   *string `json:"staff_member_name,omitempty"`
	CancellationHours int     `json:"cancellation_hours"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Pagination параметры страницы списка
type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

// BookingListResponse страница бронирований
type BookingListResponse struct {
	Bookings   []BookingResponse `json:"bookings"`
	Pagination Pagination        `json:"pagination"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		VenueID:            b.VenueID,
		ServiceID:          b.ServiceID,
		StaffMemberID:      b.StaffMemberID,
		CustomerName:       b.CustomerName,
		CustomerEmail:      b.CustomerEmail,
		CustomerPhone:      b.CustomerPhone,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		EndTime:            b.EndTime.String(),
		PartySize:          b.PartySize,
		SpecialRequests:    b.SpecialRequests,
		Status:             string(b.Status),
		BookingToken:       b.BookingToken,
		CancellationReason: b.CancellationReason,
		TotalAmount:        b.TotalAmount,
		VenueName:          b.VenueName,
		ServiceName:        b.ServiceName,
		StaffMemberName:    b.StaffMemberName,
		CancellationHours:  b.CancellationHours,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует страницу бронирований в DTO
func FromDomainBookingList(bookings []*domain.Booking, total int, filter domain.BookingsFilter) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
		Pagination: Pagination{
			Total:   total,
			Limit:   filter.Limit,
			Offset:  filter.Offset,
			HasMore: filter.Offset+len(bookings) < total,
		},
	}

	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}

	return resp
}
