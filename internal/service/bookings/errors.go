package bookings

import "github.com/m04kA/SMC-VenueBookingService/pkg/apperror"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = apperror.New(apperror.KindNotFound, "Booking not found")

	// ErrAlreadyCancelled возвращается при повторной отмене
	ErrAlreadyCancelled = apperror.New(apperror.KindConflict, "Booking is already cancelled")

	// ErrCannotCancelCompleted возвращается при попытке отменить завершённое бронирование
	ErrCannotCancelCompleted = apperror.New(apperror.KindConflict, "Cannot cancel completed booking")

	// ErrCannotCancel возвращается, когда бронирование в текущем статусе нельзя отменить
	ErrCannotCancel = apperror.New(apperror.KindConflict, "Booking cannot be cancelled")

	// ErrCancellationWindow отмена позже, чем разрешает cancellation_hours
	ErrCancellationWindow = apperror.New(apperror.KindCancellationWindow, "Cancellation window has passed")

	// ErrInvalidTransition возвращается при недопустимой смене статуса
	ErrInvalidTransition = apperror.New(apperror.KindConflict, "Invalid booking status transition")

	// ErrStatusChanged статус изменился параллельно между чтением и записью
	ErrStatusChanged = apperror.New(apperror.KindConflict, "Booking was modified concurrently, please retry")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = apperror.New(apperror.KindValidation, "Invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = apperror.New(apperror.KindInternal, "bookings service: internal error")
)
