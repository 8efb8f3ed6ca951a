package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByToken(ctx context.Context, token string) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, int, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, from domain.BookingStatus, reason *string, cancelledAt time.Time) error
}

// PolicyProvider источник актуальной политики площадки
type PolicyProvider interface {
	GetPolicy(ctx context.Context, venueID int64) (domain.Policy, error)
}

// SlotCache инвалидация кэша доступности
type SlotCache interface {
	InvalidateDay(ctx context.Context, venueID int64, date time.Time) error
}

// Notifier уведомления о бронированиях (best-effort)
type Notifier interface {
	BookingCancelled(ctx context.Context, b *domain.Booking)
}

// Metrics счетчики бронирований
type Metrics interface {
	RecordBookingCancelled()
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реализация TimeProvider с реальным временем
type RealTimeProvider struct{}

// Now возвращает текущее время
func (RealTimeProvider) Now() time.Time {
	return time.Now()
}
