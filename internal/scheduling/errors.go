package scheduling

import "github.com/m04kA/SMC-VenueBookingService/pkg/apperror"

var (
	// ErrInvalidDuration возвращается при неположительной длительности услуги
	ErrInvalidDuration = apperror.New(apperror.KindValidation, "scheduling: duration must be positive")
)
