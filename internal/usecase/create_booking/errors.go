package create_booking

import "github.com/m04kA/SMC-VenueBookingService/pkg/apperror"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = apperror.New(apperror.KindValidation, "Invalid booking data")

	// ErrVenueNotFound возвращается, когда площадка не найдена или неактивна
	ErrVenueNotFound = apperror.New(apperror.KindNotFound, "Venue not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена в площадке
	ErrServiceNotFound = apperror.New(apperror.KindNotFound, "Service not found")

	// ErrServiceInactive возвращается, когда услуга отключена
	ErrServiceInactive = apperror.New(apperror.KindValidation, "Service is not available for booking")

	// ErrStaffRequired возвращается, когда услуга требует выбора сотрудника
	ErrStaffRequired = apperror.New(apperror.KindValidation, "Staff member is required for this service")

	// ErrStaffNotFound возвращается, когда сотрудник не найден в площадке
	ErrStaffNotFound = apperror.New(apperror.KindNotFound, "Staff member not found")

	// ErrStaffNotLinked возвращается, когда сотрудник не оказывает услугу
	ErrStaffNotLinked = apperror.New(apperror.KindValidation, "Staff member does not perform this service")

	// ErrPhoneRequired возвращается, когда площадка требует телефон
	ErrPhoneRequired = apperror.New(apperror.KindValidation, "Phone number is required")

	// ErrPartySizeExceeded возвращается, когда гостей больше вместимости услуги
	ErrPartySizeExceeded = apperror.New(apperror.KindValidation, "Party size exceeds service capacity")

	// ErrDateInPast возвращается при бронировании на прошедшую дату
	ErrDateInPast = apperror.New(apperror.KindValidation, "Cannot book a date in the past")

	// ErrDateTooFarInFuture возвращается, когда дата превышает booking_advance_days
	ErrDateTooFarInFuture = apperror.New(apperror.KindValidation, "Date is too far in the future")

	// ErrInvalidTimeSlot возвращается, когда время не совпадает со сгенерированным слотом
	ErrInvalidTimeSlot = apperror.New(apperror.KindValidation, "Invalid time slot")

	// ErrOutsideWorkingHours возвращается, когда слот вне рабочих окон
	ErrOutsideWorkingHours = apperror.New(apperror.KindValidation, "Selected time is outside working hours")

	// ErrAdvanceNotice бронирование позже, чем разрешает booking_advance_hours
	ErrAdvanceNotice = apperror.New(apperror.KindAdvanceNotice, "Booking advance notice not met")

	// ErrSlotAlreadyBooked возвращается, когда все места слота заняты
	ErrSlotAlreadyBooked = apperror.New(apperror.KindConflict, "Time slot already booked or not available")

	// ErrServiceChanged возвращается, когда requires_staff услуги сменился во время бронирования
	ErrServiceChanged = apperror.New(apperror.KindConflict, "Service configuration changed, please retry")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = apperror.New(apperror.KindInternal, "create_booking: internal error")
)
