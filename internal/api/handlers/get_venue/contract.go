package get_venue

import (
	"context"

	"github.com/m04kA/SMC-VenueBookingService/internal/service/catalog/models"
)

type CatalogService interface {
	GetVenueDetails(ctx context.Context, venueID int64) (*models.VenueDetailsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
