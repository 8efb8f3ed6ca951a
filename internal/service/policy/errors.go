package policy

import "github.com/m04kA/SMC-VenueBookingService/pkg/apperror"

var (
	// ErrVenueNotFound возвращается, когда площадка не найдена
	ErrVenueNotFound = apperror.New(apperror.KindNotFound, "Venue not found")

	// ErrInvalidInput возвращается при некорректных значениях политики
	ErrInvalidInput = apperror.New(apperror.KindValidation, "Invalid venue settings")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = apperror.New(apperror.KindInternal, "policy service: internal error")
)
