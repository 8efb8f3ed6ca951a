package catalog

import "github.com/m04kA/SMC-VenueBookingService/pkg/apperror"

var (
	// ErrVenueNotFound возвращается, когда площадка не найдена или неактивна
	ErrVenueNotFound = apperror.New(apperror.KindNotFound, "Venue not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = apperror.New(apperror.KindNotFound, "Service not found")

	// ErrRuleNotFound возвращается, когда правило доступности не найдено
	ErrRuleNotFound = apperror.New(apperror.KindNotFound, "Availability rule not found")

	// ErrRequiresStaffLocked возвращается при смене requires_staff у услуги с предстоящими бронированиями
	ErrRequiresStaffLocked = apperror.New(apperror.KindConflict, "Cannot change requires_staff while the service has upcoming bookings")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = apperror.New(apperror.KindValidation, "Invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = apperror.New(apperror.KindInternal, "catalog service: internal error")
)
