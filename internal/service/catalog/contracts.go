package catalog

import (
	"context"
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

// VenueRepository интерфейс репозитория площадок
type VenueRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Venue, error)
	ListActive(ctx context.Context) ([]*domain.Venue, error)
}

// CatalogRepository интерфейс репозитория услуг и сотрудников
type CatalogRepository interface {
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	GetServiceForUpdate(ctx context.Context, id int64) (*domain.Service, error)
	ListServices(ctx context.Context, venueID int64, activeOnly bool) ([]*domain.Service, error)
	UpdateService(ctx context.Context, svc *domain.Service) (*domain.Service, error)
	ListStaff(ctx context.Context, venueID int64) ([]*domain.StaffMember, error)
}

// RuleRepository интерфейс репозитория правил рабочего времени
type RuleRepository interface {
	ListByVenue(ctx context.Context, venueID int64) ([]*domain.AvailabilityRule, error)
	GetByID(ctx context.Context, id int64) (*domain.AvailabilityRule, error)
	Update(ctx context.Context, rule *domain.AvailabilityRule) error
}

// BookingRepository счетчик предстоящих бронирований услуги
type BookingRepository interface {
	CountUpcomingForService(ctx context.Context, serviceID int64, fromDate time.Time) (int, error)
}

// TxManager интерфейс для управления транзакциями
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// SlotCache инвалидация кэша доступности
type SlotCache interface {
	InvalidateVenue(ctx context.Context, venueID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
