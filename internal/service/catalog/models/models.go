package models

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

// Request модели

// UpdateServiceRequest частичное обновление услуги
type UpdateServiceRequest struct {
	Name            *string          `json:"name,omitempty"`
	Description     *string          `json:"description,omitempty"`
	DurationMinutes *int             `json:"duration_minutes,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	Capacity        *int             `json:"capacity,omitempty"`
	RequiresStaff   *bool            `json:"requires_staff,omitempty"`
	IsActive        *bool            `json:"is_active,omitempty"`
}

// ToDomainPatch конвертирует запрос в domain patch
func (r *UpdateServiceRequest) ToDomainPatch() domain.ServicePatch {
	return domain.ServicePatch{
		Name:            r.Name,
		Description:     r.Description,
		DurationMinutes: r.DurationMinutes,
		Price:           r.Price,
		Capacity:        r.Capacity,
		RequiresStaff:   r.RequiresStaff,
		IsActive:        r.IsActive,
	}
}

// UpdateRuleRequest частичное обновление правила рабочего времени
type UpdateRuleRequest struct {
	DayOfWeek *int    `json:"day_of_week,omitempty"`
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

// Response модели

// ServiceResponse услуга в формате API
type ServiceResponse struct {
	ID              int64               `json:"id"`
	VenueID         int64               `json:"venue_id"`
	Name            string              `json:"name"`
	Description     *string             `json:"description"`
	DurationMinutes int                 `json:"duration_minutes"`
	Price           decimal.NullDecimal `json:"price"`
	Capacity        int                 `json:"capacity"`
	RequiresStaff   bool                `json:"requires_staff"`
	IsActive        bool                `json:"is_active"`
}

// StaffMemberResponse сотрудник в формате API
type StaffMemberResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	ServiceIDs  []int64 `json:"service_ids"`
}

// RuleResponse правило рабочего времени в формате API
type RuleResponse struct {
	ID              int64   `json:"id"`
	VenueID         int64   `json:"venue_id"`
	StaffMemberID   *int64  `json:"staff_member_id"`
	StaffMemberName *string `json:"staff_member_name,omitempty"`
	DayOfWeek       int     `json:"day_of_week"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	IsActive        bool    `json:"is_active"`
}

// OpeningHours окно работы площадки
type OpeningHours struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// VenueDetailsResponse публичная карточка площадки
type VenueDetailsResponse struct {
	ID                  int64                 `json:"id"`
	Name                string                `json:"name"`
	Type                string                `json:"type"`
	Description         *string               `json:"description"`
	Email               *string               `json:"email"`
	Phone               *string               `json:"phone"`
	Address             *string               `json:"address"`
	City                *string               `json:"city"`
	PostalCode          *string               `json:"postal_code"`
	Country             *string               `json:"country"`
	Website             *string               `json:"website"`
	BookingAdvanceDays  int                   `json:"booking_advance_days"`
	BookingAdvanceHours int                   `json:"booking_advance_hours"`
	CancellationHours   int                   `json:"cancellation_hours"`
	RequirePhone        bool                  `json:"require_phone"`
	Services            []ServiceResponse     `json:"services"`
	StaffMembers        []StaffMemberResponse `json:"staff_members"`
	OpeningHours        []OpeningHours        `json:"opening_hours"`
}

// VenueSummaryResponse площадка в публичном списке
type VenueSummaryResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Description *string `json:"description"`
	City        *string `json:"city"`
	Country     *string `json:"country"`
}

// Методы конвертации

// FromDomainVenues конвертирует список площадок в DTO
func FromDomainVenues(venues []*domain.Venue) []VenueSummaryResponse {
	out := make([]VenueSummaryResponse, 0, len(venues))
	for _, v := range venues {
		out = append(out, VenueSummaryResponse{
			ID:          v.ID,
			Name:        v.Name,
			Type:        v.Type,
			Description: v.Description,
			City:        v.City,
			Country:     v.Country,
		})
	}
	return out
}

// FromDomainService конвертирует услугу в DTO
func FromDomainService(s *domain.Service) *ServiceResponse {
	return &ServiceResponse{
		ID:              s.ID,
		VenueID:         s.VenueID,
		Name:            s.Name,
		Description:     s.Description,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
		Capacity:        s.Capacity,
		RequiresStaff:   s.RequiresStaff,
		IsActive:        s.IsActive,
	}
}

// FromDomainServices конвертирует список услуг в DTO
func FromDomainServices(services []*domain.Service) []ServiceResponse {
	out := make([]ServiceResponse, 0, len(services))
	for _, s := range services {
		out = append(out, *FromDomainService(s))
	}
	return out
}

// FromDomainRule конвертирует правило в DTO
func FromDomainRule(r *domain.AvailabilityRule) *RuleResponse {
	return &RuleResponse{
		ID:              r.ID,
		VenueID:         r.VenueID,
		StaffMemberID:   r.StaffMemberID,
		StaffMemberName: r.StaffMemberName,
		DayOfWeek:       r.DayOfWeek,
		StartTime:       r.StartTime.String(),
		EndTime:         r.EndTime.String(),
		IsActive:        r.IsActive,
	}
}

// FromDomainRules конвертирует список правил в DTO
func FromDomainRules(rules []*domain.AvailabilityRule) []RuleResponse {
	out := make([]RuleResponse, 0, len(rules))
	for _, r := range rules {
		out = append(out, *FromDomainRule(r))
	}
	return out
}

// FromDomainStaff конвертирует сотрудников в DTO
func FromDomainStaff(staff []*domain.StaffMember) []StaffMemberResponse {
	out := make([]StaffMemberResponse, 0, len(staff))
	for _, m := range staff {
		ids := m.ServiceIDs
		if ids == nil {
			ids = []int64{}
		}
		out = append(out, StaffMemberResponse{ID: m.ID, Name: m.Name, Description: m.Description, ServiceIDs: ids})
	}
	return out
}
