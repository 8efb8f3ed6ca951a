package auth

import "github.com/m04kA/SMC-VenueBookingService/pkg/apperror"

var (
	// ErrInvalidCredentials неверный email или пароль
	ErrInvalidCredentials = apperror.New(apperror.KindUnauthorized, "Invalid email or password")

	// ErrInvalidToken токен отсутствует, подделан или истёк
	ErrInvalidToken = apperror.New(apperror.KindUnauthorized, "Invalid or expired token")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = apperror.New(apperror.KindValidation, "Email and password are required")

	// ErrPasswordRequired текущий или новый пароль не передан
	ErrPasswordRequired = apperror.New(apperror.KindValidation, "Current and new password are required")

	// ErrPasswordTooShort новый пароль короче минимальной длины
	ErrPasswordTooShort = apperror.New(apperror.KindValidation, "New password must be at least 8 characters")

	// ErrPasswordTooLong новый пароль длиннее 72 байт
	ErrPasswordTooLong = apperror.New(apperror.KindValidation, "New password must be at most 72 bytes")

	// ErrWrongCurrentPassword текущий пароль не совпадает
	ErrWrongCurrentPassword = apperror.New(apperror.KindValidation, "Current password is incorrect")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = apperror.New(apperror.KindInternal, "auth service: internal error")
)
