package list_availability_rules

import (
	"context"

	"github.com/m04kA/SMC-VenueBookingService/internal/service/catalog/models"
)

type CatalogService interface {
	ListRules(ctx context.Context, venueID int64) ([]models.RuleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
