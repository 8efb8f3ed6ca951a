package middleware

import "github.com/m04kA/SMC-VenueBookingService/internal/service/auth"

// TokenParser проверка bearer-токена
type TokenParser interface {
	ParseToken(tokenString string) (*auth.Claims, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
