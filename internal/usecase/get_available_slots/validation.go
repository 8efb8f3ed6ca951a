package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.VenueID <= 0 {
		return fmt.Errorf("%w: venueId must be positive", ErrInvalidInput)
	}
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceId must be positive", ErrInvalidInput)
	}
	if req.StaffMemberID != nil && *req.StaffMemberID <= 0 {
		return fmt.Errorf("%w: staffMemberId must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	return nil
}

// isBookableDate проверяет, что дата не в прошлом и внутри горизонта записи
func isBookableDate(date, now time.Time, policy domain.Policy) bool {
	today := domain.DateOnly(now)
	if date.Before(today) {
		return false
	}
	return policy.WithinHorizon(date, today)
}

// validateStaff проверяет, что сотрудник работает в площадке и оказывает услугу
func validateStaff(member *domain.StaffMember, venueID, serviceID int64) error {
	if member.VenueID != venueID || !member.IsActive {
		return ErrStaffNotFound
	}
	if !member.Performs(serviceID) {
		return ErrStaffNotLinked
	}
	return nil
}
