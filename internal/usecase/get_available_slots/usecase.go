package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/internal/infra/cache/slots"
	catalogRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/catalog"
	venueRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/venue"
	"github.com/m04kA/SMC-VenueBookingService/internal/scheduling"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	venueRepo    VenueRepository
	catalogRepo  CatalogRepository
	ruleRepo     RuleRepository
	bookingRepo  BookingRepository
	cache        SlotCache
	metrics      Metrics
	timeProvider TimeProvider
	location     *time.Location
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	venueRepo VenueRepository,
	catalogRepo CatalogRepository,
	ruleRepo RuleRepository,
	bookingRepo BookingRepository,
	cache SlotCache,
	metrics Metrics,
	timeProvider TimeProvider,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		venueRepo:    venueRepo,
		catalogRepo:  catalogRepo,
		ruleRepo:     ruleRepo,
		bookingRepo:  bookingRepo,
		cache:        cache,
		metrics:      metrics,
		timeProvider: timeProvider,
		location:     location,
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов.
// Доступность по бронированиям кэшируется, отсечка по booking_advance_hours
// применяется на каждый запрос.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	req.Date = domain.DateOnly(req.Date)
	uc.logger.Info("GetAvailableSlots: venue=%d, service=%d, staff=%v, date=%s",
		req.VenueID, req.ServiceID, req.StaffMemberID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now().In(uc.location)

	// 2. Площадка
	venue, err := uc.venueRepo.GetByID(ctx, req.VenueID)
	if err != nil {
		if errors.Is(err, venueRepo.ErrVenueNotFound) {
			uc.logger.Warn("GetAvailableSlots: venue id=%d not found", req.VenueID)
			return nil, ErrVenueNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get venue id=%d: %v", req.VenueID, err)
		return nil, fmt.Errorf("%w: failed to get venue: %v", ErrInternal, err)
	}
	if !venue.IsActive {
		return nil, ErrVenueNotFound
	}
	policy := venue.Policy()

	// 3. Услуга
	service, err := uc.catalogRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if service.VenueID != venue.ID {
		return nil, ErrServiceNotFound
	}
	if !service.IsActive {
		return nil, ErrServiceInactive
	}

	// 4. Сотрудник учитывается только для услуг с requires_staff
	var staffMemberID *int64
	if service.RequiresStaff && req.StaffMemberID != nil {
		if err := uc.checkStaff(ctx, *req.StaffMemberID, venue.ID, service.ID); err != nil {
			return nil, err
		}
		staffMemberID = req.StaffMemberID
	}

	// 5. Прошедшие даты и даты за горизонтом записи не имеют слотов
	if !isBookableDate(req.Date, now, policy) {
		uc.logger.Info("GetAvailableSlots: date %s is not bookable", req.Date.Format(domain.DateFormat))
		return emptyResponse(req.Date), nil
	}

	// 6. Доступность по бронированиям (из кэша или расчет)
	key := slots.Key{VenueID: venue.ID, ServiceID: service.ID, StaffMemberID: staffMemberID, Date: req.Date}
	availability, err := uc.dayAvailability(ctx, key, service)
	if err != nil {
		return nil, err
	}

	// 7. Отсечка по минимальному времени до начала
	result := &Response{
		Date:      req.Date,
		DayOfWeek: int(req.Date.Weekday()),
		Slots:     maskBeforeEarliestStart(availability.Slots, req.Date, policy.EarliestStart(now), uc.location),
	}

	uc.logger.Info("GetAvailableSlots: %d of %d slots available for venue=%d, service=%d, date=%s",
		result.AvailableCount(), len(result.Slots), venue.ID, service.ID, req.Date.Format(domain.DateFormat))

	return result, nil
}

// dayAvailability читает доступность дня из кэша, при промахе считает и сохраняет.
// Ошибки кэша не прерывают запрос.
func (uc *UseCase) dayAvailability(ctx context.Context, key slots.Key, service *domain.Service) (*domain.DayAvailability, error) {
	cached, ok, err := uc.cache.Get(ctx, key)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: slot cache read failed: %v", err)
	}
	if ok {
		uc.metrics.RecordSlotCache(true)
		return cached, nil
	}
	uc.metrics.RecordSlotCache(false)

	computed, err := uc.compute(ctx, key, service)
	if err != nil {
		return nil, err
	}

	if err := uc.cache.Set(ctx, key, computed); err != nil {
		uc.logger.Warn("GetAvailableSlots: slot cache write failed: %v", err)
	}
	return computed, nil
}

// compute рассчитывает слоты дня и их доступность по активным бронированиям
func (uc *UseCase) compute(ctx context.Context, key slots.Key, service *domain.Service) (*domain.DayAvailability, error) {
	rules, err := uc.ruleRepo.ListForDay(ctx, key.VenueID, int(key.Date.Weekday()))
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get availability rules: %v", err)
		return nil, fmt.Errorf("%w: failed to get availability rules: %v", ErrInternal, err)
	}

	availability := &domain.DayAvailability{
		Date:      key.Date,
		DayOfWeek: int(key.Date.Weekday()),
	}

	switch {
	case !service.RequiresStaff:
		availability.Slots, err = uc.resourceSlots(ctx, key, service, rules, nil)
	case key.StaffMemberID != nil:
		var staffSlots []domain.TimeSlot
		staffSlots, err = uc.resourceSlots(ctx, key, service, rules, key.StaffMemberID)
		availability.Slots = withStaff(staffSlots, *key.StaffMemberID)
	default:
		availability.Slots, err = uc.anyStaffSlots(ctx, key, service, rules)
	}
	if err != nil {
		return nil, err
	}

	return availability, nil
}

// anyStaffSlots объединяет слоты всех активных сотрудников, связанных с услугой
func (uc *UseCase) anyStaffSlots(ctx context.Context, key slots.Key, service *domain.Service, rules []*domain.AvailabilityRule) ([]domain.TimeSlot, error) {
	staff, err := uc.catalogRepo.ListStaffForService(ctx, service.ID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get staff for service id=%d: %v", service.ID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}

	perStaff := make([][]domain.TimeSlot, 0, len(staff))
	for _, member := range staff {
		if member.VenueID != key.VenueID || !member.IsActive {
			continue
		}
		memberID := member.ID
		memberSlots, err := uc.resourceSlots(ctx, key, service, rules, &memberID)
		if err != nil {
			return nil, err
		}
		perStaff = append(perStaff, withStaff(memberSlots, memberID))
	}

	if len(perStaff) == 0 {
		uc.logger.Info("GetAvailableSlots: service id=%d has no linked staff", service.ID)
	}
	return mergeStaffSlots(perStaff), nil
}

// resourceSlots генерирует слоты одного ресурса и отмечает занятые
func (uc *UseCase) resourceSlots(
	ctx context.Context,
	key slots.Key,
	service *domain.Service,
	rules []*domain.AvailabilityRule,
	staffMemberID *int64,
) ([]domain.TimeSlot, error) {
	windows := scheduling.WindowsForDay(rules, key.Date, staffMemberID)
	if len(windows) == 0 {
		return []domain.TimeSlot{}, nil
	}

	generated, err := scheduling.GenerateSlots(windows, service.DurationMinutes)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots for service id=%d: %v", service.ID, err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	resourceKey := domain.ResourceKey(service, staffMemberID)
	bookings, err := uc.bookingRepo.ListActiveForResource(ctx, key.VenueID, resourceKey, key.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings for %s: %v", resourceKey, err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	return scheduling.MarkAvailability(generated, bookings, service.EffectiveCapacity()), nil
}

func (uc *UseCase) checkStaff(ctx context.Context, staffMemberID, venueID, serviceID int64) error {
	member, err := uc.catalogRepo.GetStaffMember(ctx, staffMemberID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrStaffMemberNotFound) {
			return ErrStaffNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get staff member id=%d: %v", staffMemberID, err)
		return fmt.Errorf("%w: failed to get staff member: %v", ErrInternal, err)
	}
	if err := validateStaff(member, venueID, serviceID); err != nil {
		uc.logger.Warn("GetAvailableSlots: staff member id=%d rejected: %v", staffMemberID, err)
		return err
	}
	return nil
}
