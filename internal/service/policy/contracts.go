package policy

import (
	"context"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

// VenueRepository интерфейс репозитория площадок
type VenueRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Venue, error)
	UpdatePolicy(ctx context.Context, id int64, patch domain.PolicyPatch) (*domain.Venue, error)
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
