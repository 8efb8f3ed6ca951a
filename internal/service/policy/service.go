package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	venueRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/venue"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/policy/models"
)

// Service сервис политики площадки (пороги предварительной записи и отмены)
type Service struct {
	venueRepo VenueRepository
	cache     SlotCache
	logger    Logger
}

// NewService создает новый экземпляр сервиса политики
func NewService(venueRepo VenueRepository, cache SlotCache, logger Logger) *Service {
	return &Service{
		venueRepo: venueRepo,
		cache:     cache,
		logger:    logger,
	}
}

// GetPolicy читает актуальную политику площадки из хранилища
func (s *Service) GetPolicy(ctx context.Context, venueID int64) (domain.Policy, error) {
	venue, err := s.getVenue(ctx, "GetPolicy", venueID)
	if err != nil {
		return domain.Policy{}, err
	}
	return venue.Policy(), nil
}

// GetSettings возвращает настройки площадки для админки
func (s *Service) GetSettings(ctx context.Context, venueID int64) (*models.SettingsResponse, error) {
	venue, err := s.getVenue(ctx, "GetSettings", venueID)
	if err != nil {
		return nil, err
	}
	return models.FromDomainVenue(venue), nil
}

// UpdateSettings применяет частичное обновление политики.
// Новые значения действуют для последующих проверок, существующие бронирования не пересчитываются.
func (s *Service) UpdateSettings(ctx context.Context, venueID int64, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("UpdateSettings: updating policy for venue=%d", venueID)

	patch := req.ToDomainPatch()
	if patch.IsEmpty() {
		s.logger.Warn("UpdateSettings: empty patch for venue=%d", venueID)
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}
	if err := validatePatch(patch); err != nil {
		s.logger.Warn("UpdateSettings: validation failed for venue=%d: %v", venueID, err)
		return nil, err
	}

	// Патч применяется в одном UPDATE, параллельные изменения разных полей не теряются
	updated, err := s.venueRepo.UpdatePolicy(ctx, venueID, patch)
	if err != nil {
		if errors.Is(err, venueRepo.ErrVenueNotFound) {
			s.logger.Warn("UpdateSettings: venue id=%d not found", venueID)
			return nil, ErrVenueNotFound
		}
		s.logger.Error("UpdateSettings: repository error for venue=%d: %v", venueID, err)
		return nil, fmt.Errorf("%w: UpdateSettings - repository error: %v", ErrInternal, err)
	}

	// Слоты зависят от booking_advance_days, сбрасываем кэш площадки целиком
	if err := s.cache.InvalidateVenue(ctx, venueID); err != nil {
		s.logger.Warn("UpdateSettings: failed to invalidate slot cache for venue=%d: %v", venueID, err)
	}

	s.logger.Info("UpdateSettings: venue=%d policy updated: advance_hours=%d, cancellation_hours=%d, advance_days=%d",
		venueID, updated.BookingAdvanceHours, updated.CancellationHours, updated.BookingAdvanceDays)
	return models.FromDomainVenue(updated), nil
}

func (s *Service) getVenue(ctx context.Context, method string, venueID int64) (*domain.Venue, error) {
	venue, err := s.venueRepo.GetByID(ctx, venueID)
	if err != nil {
		if errors.Is(err, venueRepo.ErrVenueNotFound) {
			s.logger.Warn("%s: venue id=%d not found", method, venueID)
			return nil, ErrVenueNotFound
		}
		s.logger.Error("%s: repository error for venue id=%d: %v", method, venueID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, method, err)
	}
	return venue, nil
}

func validatePatch(p domain.PolicyPatch) error {
	if p.BookingAdvanceHours != nil && !validHours(*p.BookingAdvanceHours) {
		return fmt.Errorf("%w: booking_advance_hours must be between %d and %d",
			ErrInvalidInput, domain.MinPolicyHours, domain.MaxPolicyHours)
	}
	if p.CancellationHours != nil && !validHours(*p.CancellationHours) {
		return fmt.Errorf("%w: cancellation_hours must be between %d and %d",
			ErrInvalidInput, domain.MinPolicyHours, domain.MaxPolicyHours)
	}
	if p.BookingAdvanceDays != nil && (*p.BookingAdvanceDays < 0 || *p.BookingAdvanceDays > domain.MaxBookingAdvanceDays) {
		return fmt.Errorf("%w: booking_advance_days must be between 0 and %d",
			ErrInvalidInput, domain.MaxBookingAdvanceDays)
	}
	return nil
}

func validHours(h int) bool {
	return h >= domain.MinPolicyHours && h <= domain.MaxPolicyHours
}
