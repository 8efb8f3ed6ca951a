package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/internal/infra/cache/slots"
)

// VenueRepository интерфейс репозитория площадок
type VenueRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Venue, error)
}

// CatalogRepository интерфейс репозитория услуг и сотрудников
type CatalogRepository interface {
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	GetStaffMember(ctx context.Context, id int64) (*domain.StaffMember, error)
	ListStaffForService(ctx context.Context, serviceID int64) ([]*domain.StaffMember, error)
}

// RuleRepository интерфейс репозитория правил рабочего времени
type RuleRepository interface {
	ListForDay(ctx context.Context, venueID int64, dayOfWeek int) ([]*domain.AvailabilityRule, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListActiveForResource(ctx context.Context, venueID int64, resourceKey string, date time.Time) ([]*domain.Booking, error)
}

// SlotCache кэш рассчитанной доступности
type SlotCache interface {
	Get(ctx context.Context, key slots.Key) (*domain.DayAvailability, bool, error)
	Set(ctx context.Context, key slots.Key, availability *domain.DayAvailability) error
}

// Metrics счетчики кэша
type Metrics interface {
	RecordSlotCache(hit bool)
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
