package get_available_slots

import "github.com/m04kA/SMC-VenueBookingService/pkg/apperror"

var (
	// ErrVenueNotFound возвращается, когда площадка не найдена или неактивна
	ErrVenueNotFound = apperror.New(apperror.KindNotFound, "Venue not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена в площадке
	ErrServiceNotFound = apperror.New(apperror.KindNotFound, "Service not found")

	// ErrServiceInactive возвращается, когда услуга отключена
	ErrServiceInactive = apperror.New(apperror.KindValidation, "Service is not available for booking")

	// ErrStaffNotFound возвращается, когда сотрудник не найден в площадке
	ErrStaffNotFound = apperror.New(apperror.KindNotFound, "Staff member not found")

	// ErrStaffNotLinked возвращается, когда сотрудник не оказывает услугу
	ErrStaffNotLinked = apperror.New(apperror.KindValidation, "Staff member does not perform this service")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = apperror.New(apperror.KindValidation, "Invalid availability request")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = apperror.New(apperror.KindInternal, "get_available_slots: internal error")
)
