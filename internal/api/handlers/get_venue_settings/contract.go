package get_venue_settings

import (
	"context"

	"github.com/m04kA/SMC-VenueBookingService/internal/service/policy/models"
)

type PolicyService interface {
	GetSettings(ctx context.Context, venueID int64) (*models.SettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
