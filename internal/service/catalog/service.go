package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/availability"
	catalogRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/catalog"
	venueRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/venue"
	"github.com/m04kA/SMC-VenueBookingService/internal/scheduling"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/catalog/models"
	"github.com/m04kA/SMC-VenueBookingService/pkg/apperror"
	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

// Service сервис каталога площадки: услуги, правила рабочего времени, публичная карточка
type Service struct {
	venueRepo    VenueRepository
	catalogRepo  CatalogRepository
	ruleRepo     RuleRepository
	bookingRepo  BookingRepository
	txManager    TxManager
	cache        SlotCache
	timeProvider TimeProvider
	location     *time.Location
	logger       Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(
	venueRepo VenueRepository,
	catalogRepo CatalogRepository,
	ruleRepo RuleRepository,
	bookingRepo BookingRepository,
	txManager TxManager,
	cache SlotCache,
	timeProvider TimeProvider,
	location *time.Location,
	logger Logger,
) *Service {
	return &Service{
		venueRepo:    venueRepo,
		catalogRepo:  catalogRepo,
		ruleRepo:     ruleRepo,
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		cache:        cache,
		timeProvider: timeProvider,
		location:     location,
		logger:       logger,
	}
}

// ListVenues возвращает активные площадки для публичного каталога
func (s *Service) ListVenues(ctx context.Context) ([]models.VenueSummaryResponse, error) {
	venues, err := s.venueRepo.ListActive(ctx)
	if err != nil {
		s.logger.Error("ListVenues: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListVenues - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainVenues(venues), nil
}

// GetVenueDetails возвращает активную площадку с услугами, сотрудниками и часами работы
func (s *Service) GetVenueDetails(ctx context.Context, venueID int64) (*models.VenueDetailsResponse, error) {
	venue, err := s.venueRepo.GetByID(ctx, venueID)
	if err != nil {
		if errors.Is(err, venueRepo.ErrVenueNotFound) {
			return nil, ErrVenueNotFound
		}
		s.logger.Error("GetVenueDetails: venue repository error for id=%d: %v", venueID, err)
		return nil, fmt.Errorf("%w: GetVenueDetails - venue: %v", ErrInternal, err)
	}
	if !venue.IsActive {
		s.logger.Warn("GetVenueDetails: venue id=%d is inactive", venueID)
		return nil, ErrVenueNotFound
	}

	services, err := s.catalogRepo.ListServices(ctx, venueID, true)
	if err != nil {
		s.logger.Error("GetVenueDetails: services error for venue=%d: %v", venueID, err)
		return nil, fmt.Errorf("%w: GetVenueDetails - services: %v", ErrInternal, err)
	}

	staff, err := s.catalogRepo.ListStaff(ctx, venueID)
	if err != nil {
		s.logger.Error("GetVenueDetails: staff error for venue=%d: %v", venueID, err)
		return nil, fmt.Errorf("%w: GetVenueDetails - staff: %v", ErrInternal, err)
	}

	rules, err := s.ruleRepo.ListByVenue(ctx, venueID)
	if err != nil {
		s.logger.Error("GetVenueDetails: rules error for venue=%d: %v", venueID, err)
		return nil, fmt.Errorf("%w: GetVenueDetails - rules: %v", ErrInternal, err)
	}

	return &models.VenueDetailsResponse{
		ID:                  venue.ID,
		Name:                venue.Name,
		Type:                venue.Type,
		Description:         venue.Description,
		Email:               venue.Email,
		Phone:               venue.Phone,
		Address:             venue.Address,
		City:                venue.City,
		PostalCode:          venue.PostalCode,
		Country:             venue.Country,
		Website:             venue.Website,
		BookingAdvanceDays:  venue.BookingAdvanceDays,
		BookingAdvanceHours: venue.BookingAdvanceHours,
		CancellationHours:   venue.CancellationHours,
		RequirePhone:        venue.RequirePhone,
		Services:            models.FromDomainServices(services),
		StaffMembers:        models.FromDomainStaff(staff),
		OpeningHours:        openingHours(rules),
	}, nil
}

// ListServices возвращает все услуги площадки, включая неактивные
func (s *Service) ListServices(ctx context.Context, venueID int64) ([]models.ServiceResponse, error) {
	services, err := s.catalogRepo.ListServices(ctx, venueID, false)
	if err != nil {
		s.logger.Error("ListServices: repository error for venue=%d: %v", venueID, err)
		return nil, fmt.Errorf("%w: ListServices - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainServices(services), nil
}

// UpdateService частично обновляет услугу площадки.
// Смена requires_staff меняет ключ ресурса, поэтому запрещена при наличии предстоящих бронирований.
func (s *Service) UpdateService(ctx context.Context, venueID, serviceID int64, req *models.UpdateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("UpdateService: updating service id=%d in venue=%d", serviceID, venueID)

	patch := req.ToDomainPatch()

	var updated *domain.Service
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Блокировка строки услуги сериализует смену requires_staff с созданием бронирований
		svc, err := s.catalogRepo.GetServiceForUpdate(txCtx, serviceID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrServiceNotFound) {
				return ErrServiceNotFound
			}
			return fmt.Errorf("%w: UpdateService - repository error: %v", ErrInternal, err)
		}
		if svc.VenueID != venueID {
			s.logger.Warn("UpdateService: service id=%d belongs to venue=%d, not %d", serviceID, svc.VenueID, venueID)
			return ErrServiceNotFound
		}

		if patch.RequiresStaff != nil && *patch.RequiresStaff != svc.RequiresStaff {
			if err := s.ensureNoUpcomingBookings(txCtx, svc); err != nil {
				return err
			}
		}

		if err := applyServicePatch(svc, patch); err != nil {
			s.logger.Warn("UpdateService: validation failed for service id=%d: %v", serviceID, err)
			return err
		}

		updated, err = s.catalogRepo.UpdateService(txCtx, svc)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrServiceNotFound) {
				return ErrServiceNotFound
			}
			return fmt.Errorf("%w: UpdateService - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if apperror.KindOf(err) == apperror.KindInternal {
			s.logger.Error("UpdateService: service id=%d: %v", serviceID, err)
		}
		if _, ok := apperror.As(err); !ok {
			return nil, fmt.Errorf("%w: UpdateService - transaction: %v", ErrInternal, err)
		}
		return nil, err
	}

	s.invalidate(ctx, "UpdateService", venueID)
	s.logger.Info("UpdateService: service id=%d updated", serviceID)
	return models.FromDomainService(updated), nil
}

func (s *Service) ensureNoUpcomingBookings(ctx context.Context, svc *domain.Service) error {
	now := s.timeProvider.Now().In(s.location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	count, err := s.bookingRepo.CountUpcomingForService(ctx, svc.ID, today)
	if err != nil {
		return fmt.Errorf("%w: UpdateService - count bookings: %v", ErrInternal, err)
	}
	if count > 0 {
		s.logger.Warn("UpdateService: service id=%d has %d upcoming bookings, requires_staff is locked", svc.ID, count)
		return ErrRequiresStaffLocked
	}
	return nil
}

// ListRules возвращает правила рабочего времени площадки
func (s *Service) ListRules(ctx context.Context, venueID int64) ([]models.RuleResponse, error) {
	rules, err := s.ruleRepo.ListByVenue(ctx, venueID)
	if err != nil {
		s.logger.Error("ListRules: repository error for venue=%d: %v", venueID, err)
		return nil, fmt.Errorf("%w: ListRules - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainRules(rules), nil
}

// UpdateRule частично обновляет правило; start_time < end_time проверяется до записи
func (s *Service) UpdateRule(ctx context.Context, venueID, ruleID int64, req *models.UpdateRuleRequest) (*models.RuleResponse, error) {
	s.logger.Info("UpdateRule: updating rule id=%d in venue=%d", ruleID, venueID)

	rule, err := s.ruleRepo.GetByID(ctx, ruleID)
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrRuleNotFound) {
			return nil, ErrRuleNotFound
		}
		s.logger.Error("UpdateRule: repository error for rule id=%d: %v", ruleID, err)
		return nil, fmt.Errorf("%w: UpdateRule - repository error: %v", ErrInternal, err)
	}
	if rule.VenueID != venueID {
		s.logger.Warn("UpdateRule: rule id=%d belongs to venue=%d, not %d", ruleID, rule.VenueID, venueID)
		return nil, ErrRuleNotFound
	}

	if err := applyRulePatch(rule, req); err != nil {
		s.logger.Warn("UpdateRule: validation failed for rule id=%d: %v", ruleID, err)
		return nil, err
	}

	if err := s.ruleRepo.Update(ctx, rule); err != nil {
		if errors.Is(err, availabilityRepo.ErrRuleNotFound) {
			return nil, ErrRuleNotFound
		}
		s.logger.Error("UpdateRule: repository error for rule id=%d: %v", ruleID, err)
		return nil, fmt.Errorf("%w: UpdateRule - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, "UpdateRule", venueID)
	s.logger.Info("UpdateRule: rule id=%d updated: day=%d %s-%s active=%t",
		ruleID, rule.DayOfWeek, rule.StartTime, rule.EndTime, rule.IsActive)
	return models.FromDomainRule(rule), nil
}

func (s *Service) invalidate(ctx context.Context, method string, venueID int64) {
	if err := s.cache.InvalidateVenue(ctx, venueID); err != nil {
		s.logger.Warn("%s: failed to invalidate slot cache for venue=%d: %v", method, venueID, err)
	}
}

func applyServicePatch(svc *domain.Service, p domain.ServicePatch) error {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" || len(name) > domain.MaxServiceNameLength {
			return fmt.Errorf("%w: name must be 1-%d characters", ErrInvalidInput, domain.MaxServiceNameLength)
		}
		svc.Name = name
	}
	if p.Description != nil {
		svc.Description = p.Description
	}
	if p.DurationMinutes != nil {
		if *p.DurationMinutes <= 0 || *p.DurationMinutes > types.MinutesPerDay {
			return fmt.Errorf("%w: duration_minutes must be between 1 and %d", ErrInvalidInput, types.MinutesPerDay)
		}
		svc.DurationMinutes = *p.DurationMinutes
	}
	if p.Price != nil {
		if p.Price.IsNegative() {
			return fmt.Errorf("%w: price must be non-negative", ErrInvalidInput)
		}
		svc.Price.Decimal = p.Price.Round(2)
		svc.Price.Valid = true
	}
	if p.Capacity != nil {
		if *p.Capacity < 1 {
			return fmt.Errorf("%w: capacity must be at least 1", ErrInvalidInput)
		}
		svc.Capacity = *p.Capacity
	}
	if p.RequiresStaff != nil {
		svc.RequiresStaff = *p.RequiresStaff
	}
	if p.IsActive != nil {
		svc.IsActive = *p.IsActive
	}
	return nil
}

func applyRulePatch(rule *domain.AvailabilityRule, req *models.UpdateRuleRequest) error {
	if req.DayOfWeek == nil && req.StartTime == nil && req.EndTime == nil && req.IsActive == nil {
		return fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}
	if req.DayOfWeek != nil {
		if *req.DayOfWeek < 0 || *req.DayOfWeek > 6 {
			return fmt.Errorf("%w: day_of_week must be between 0 and 6", ErrInvalidInput)
		}
		rule.DayOfWeek = *req.DayOfWeek
	}
	if req.StartTime != nil {
		start, err := types.NewTimeStringFromString(*req.StartTime)
		if err != nil {
			return fmt.Errorf("%w: start_time: %v", ErrInvalidInput, err)
		}
		rule.StartTime = start
	}
	if req.EndTime != nil {
		end, err := types.NewTimeStringFromString(*req.EndTime)
		if err != nil {
			return fmt.Errorf("%w: end_time: %v", ErrInvalidInput, err)
		}
		rule.EndTime = end
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	if !rule.Window().IsValid() {
		return fmt.Errorf("%w: start_time must be before end_time", ErrInvalidInput)
	}
	return nil
}

// openingHours объединяет активные правила уровня площадки по дням недели
func openingHours(rules []*domain.AvailabilityRule) []models.OpeningHours {
	byDay := make(map[int][]domain.TimeWindow)
	for _, r := range rules {
		if r.IsActive && r.StaffMemberID == nil {
			byDay[r.DayOfWeek] = append(byDay[r.DayOfWeek], r.Window())
		}
	}

	out := make([]models.OpeningHours, 0)
	for day := 0; day <= 6; day++ {
		for _, w := range scheduling.MergeWindows(byDay[day]) {
			out = append(out, models.OpeningHours{DayOfWeek: day, StartTime: w.Start.String(), EndTime: w.End.String()})
		}
	}
	return out
}
