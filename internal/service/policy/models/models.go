package models

import "github.com/m04kA/SMC-VenueBookingService/internal/domain"

// UpdateSettingsRequest частичное обновление политики площадки
type UpdateSettingsRequest struct {
	BookingAdvanceDays  *int  `json:"booking_advance_days,omitempty"`
	BookingAdvanceHours *int  `json:"booking_advance_hours,omitempty"`
	CancellationHours   *int  `json:"cancellation_hours,omitempty"`
	RequirePhone        *bool `json:"require_phone,omitempty"`
}

// ToDomainPatch конвертирует запрос в domain patch
func (r *UpdateSettingsRequest) ToDomainPatch() domain.PolicyPatch {
	return domain.PolicyPatch{
		BookingAdvanceDays:  r.BookingAdvanceDays,
		BookingAdvanceHours: r.BookingAdvanceHours,
		CancellationHours:   r.CancellationHours,
		RequirePhone:        r.RequirePhone,
	}
}

// SettingsResponse текущая политика площадки
type SettingsResponse struct {
	VenueID             int64 `json:"venue_id"`
	BookingAdvanceDays  int   `json:"booking_advance_days"`
	BookingAdvanceHours int   `json:"booking_advance_hours"`
	CancellationHours   int   `json:"cancellation_hours"`
	RequirePhone        bool  `json:"require_phone"`
}

// FromDomainVenue конвертирует площадку в DTO настроек
func FromDomainVenue(v *domain.Venue) *SettingsResponse {
	return &SettingsResponse{
		VenueID:             v.ID,
		BookingAdvanceDays:  v.BookingAdvanceDays,
		BookingAdvanceHours: v.BookingAdvanceHours,
		CancellationHours:   v.CancellationHours,
		RequirePhone:        v.RequirePhone,
	}
}
