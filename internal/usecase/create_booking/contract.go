package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

// VenueRepository интерфейс репозитория площадок
type VenueRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Venue, error)
}

// CatalogRepository интерфейс репозитория услуг и сотрудников
type CatalogRepository interface {
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	GetStaffMember(ctx context.Context, id int64) (*domain.StaffMember, error)
}

// RuleRepository интерфейс репозитория правил рабочего времени
type RuleRepository interface {
	ListForDay(ctx context.Context, venueID int64, dayOfWeek int) ([]*domain.AvailabilityRule, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListActiveForResource(ctx context.Context, venueID int64, resourceKey string, date time.Time) ([]*domain.Booking, error)
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// SlotCache инвалидация кэша доступности
type SlotCache interface {
	InvalidateDay(ctx context.Context, venueID int64, date time.Time) error
}

// Notifier уведомления о бронированиях (best-effort)
type Notifier interface {
	BookingCreated(ctx context.Context, b *domain.Booking)
}

// Metrics счетчики бронирований
type Metrics interface {
	RecordBookingCreated(source string)
	RecordBookingConflict()
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
