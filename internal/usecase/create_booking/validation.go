package create_booking

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// В ошибках используем имена полей API
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := f.Tag.Get("field")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// normalizeRequest обрезает пробелы и пустые строки превращает в nil
func normalizeRequest(req *Request) {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)
	req.CustomerPhone = trimOptional(req.CustomerPhone)
	req.SpecialRequests = trimOptional(req.SpecialRequests)
	req.Date = domain.DateOnly(req.Date)
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fmt.Errorf("%w: %s", ErrInvalidInput, describeFieldError(fieldErrs[0]))
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := req.StartTime.Validate(); err != nil || req.StartTime.Minutes() >= types.MinutesPerDay {
		return fmt.Errorf("%w: invalid start_time %q", ErrInvalidInput, req.StartTime)
	}
	if req.EndTime != nil {
		if err := req.EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid end_time %q", ErrInvalidInput, *req.EndTime)
		}
	}
	if req.TotalAmount != nil && req.TotalAmount.IsNegative() {
		return fmt.Errorf("%w: total_amount must be non-negative", ErrInvalidInput)
	}

	return nil
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "gt", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), minValue(fe))
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func minValue(fe validator.FieldError) string {
	if fe.Tag() == "gt" {
		return "1"
	}
	return fe.Param()
}

// validateDate проверяет, что дата не в прошлом и не дальше горизонта записи
func validateDate(date, now time.Time, policy domain.Policy) error {
	today := domain.DateOnly(now)
	if date.Before(today) {
		return ErrDateInPast
	}
	if !policy.WithinHorizon(date, today) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, policy.BookingAdvanceDays)
	}
	return nil
}

// requestedWindow вычисляет окно брони по длительности услуги
func requestedWindow(req *Request, durationMinutes int) (domain.TimeWindow, error) {
	end, err := req.StartTime.AddMinutes(durationMinutes)
	if err != nil {
		return domain.TimeWindow{}, fmt.Errorf("%w: slot ends after midnight", ErrInvalidTimeSlot)
	}
	if req.EndTime != nil && req.EndTime.Minutes() != end.Minutes() {
		return domain.TimeWindow{}, fmt.Errorf("%w: end_time must be %s for a %d minute service",
			ErrInvalidTimeSlot, end, durationMinutes)
	}
	return domain.TimeWindow{Start: req.StartTime, End: end}, nil
}

// validateStaff проверяет сотрудника для услуги с requires_staff
func validateStaff(member *domain.StaffMember, venueID, serviceID int64) error {
	if member.VenueID != venueID || !member.IsActive {
		return ErrStaffNotFound
	}
	if !member.Performs(serviceID) {
		return ErrStaffNotLinked
	}
	return nil
}
