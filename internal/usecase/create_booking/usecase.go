package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/catalog"
	venueRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/venue"
	"github.com/m04kA/SMC-VenueBookingService/internal/scheduling"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-VenueBookingService/pkg/apperror"
	"github.com/m04kA/SMC-VenueBookingService/pkg/txmanager"
)

// UseCase use case для создания бронирования
type UseCase struct {
	venueRepo    VenueRepository
	catalogRepo  CatalogRepository
	ruleRepo     RuleRepository
	bookingRepo  BookingRepository
	txManager    TransactionManager
	cache        SlotCache
	notifier     Notifier
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
	txManager TransactionManager,
	cache SlotCache,
	notifier Notifier,
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
		txManager:    txManager,
		cache:        cache,
		notifier:     notifier,
		metrics:      metrics,
		timeProvider: timeProvider,
		location:     location,
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверки политики выполняются до транзакции, захват места - в сериализуемой транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*models.BookingResponse, error) {
	normalizeRequest(req)
	uc.logger.Info("CreateBooking: venue=%d, service=%d, staff=%v, date=%s, time=%s, source=%s",
		req.VenueID, req.ServiceID, req.StaffMemberID, req.Date.Format(domain.DateFormat), req.StartTime, req.Source())

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now().In(uc.location)

	// 2. Площадка и её политика читаются из хранилища на каждый запрос
	venue, err := uc.venueRepo.GetByID(ctx, req.VenueID)
	if err != nil {
		if errors.Is(err, venueRepo.ErrVenueNotFound) {
			uc.logger.Warn("CreateBooking: venue id=%d not found", req.VenueID)
			return nil, ErrVenueNotFound
		}
		uc.logger.Error("CreateBooking: failed to get venue id=%d: %v", req.VenueID, err)
		return nil, fmt.Errorf("%w: failed to get venue: %v", ErrInternal, err)
	}
	if !venue.IsActive {
		uc.logger.Warn("CreateBooking: venue id=%d is inactive", req.VenueID)
		return nil, ErrVenueNotFound
	}
	policy := venue.Policy()

	// 3. Услуга
	service, err := uc.catalogRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if service.VenueID != venue.ID {
		uc.logger.Warn("CreateBooking: service id=%d belongs to venue=%d", service.ID, service.VenueID)
		return nil, ErrServiceNotFound
	}
	if !service.IsActive {
		return nil, ErrServiceInactive
	}
	if service.DurationMinutes <= 0 {
		uc.logger.Error("CreateBooking: service id=%d has duration=%d", service.ID, service.DurationMinutes)
		return nil, fmt.Errorf("%w: service duration is not configured", ErrInternal)
	}

	// 4. Требования площадки и услуги к клиенту
	if policy.RequirePhone && req.CustomerPhone == nil {
		return nil, ErrPhoneRequired
	}
	capacity := service.EffectiveCapacity()
	if req.PartySize > capacity {
		return nil, fmt.Errorf("%w: maximum is %d", ErrPartySizeExceeded, capacity)
	}

	// 5. Сотрудник
	staff, err := uc.resolveStaff(ctx, req, service)
	if err != nil {
		return nil, err
	}

	// 6. Дата и окно слота
	if err := validateDate(req.Date, now, policy); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}
	window, err := requestedWindow(req, service.DurationMinutes)
	if err != nil {
		uc.logger.Warn("CreateBooking: invalid window: %v", err)
		return nil, err
	}

	// 7. Рабочие окна дня
	if err := uc.checkWorkingHours(ctx, req, service, window); err != nil {
		return nil, err
	}

	// 8. Минимальное время до начала (администратор не ограничен)
	hoursUntil := window.Start.On(req.Date, uc.location).Sub(now).Hours()
	if !req.Manual && !policy.MeetsAdvanceNotice(hoursUntil) {
		uc.logger.Warn("CreateBooking: advance notice not met: %.2fh left, %dh required",
			hoursUntil, policy.BookingAdvanceHours)
		return nil, apperror.AdvanceNotice(ErrAdvanceNotice, policy.BookingAdvanceHours, hoursUntil)
	}

	booking := &domain.Booking{
		VenueID:         venue.ID,
		ServiceID:       service.ID,
		StaffMemberID:   req.StaffMemberID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		BookingDate:     req.Date,
		StartTime:       window.Start,
		EndTime:         window.End,
		PartySize:       req.PartySize,
		SpecialRequests: req.SpecialRequests,
		Status:          domain.StatusPending,
		BookingToken:    uuid.NewString(),
		TotalAmount:     totalAmount(service, req.TotalAmount),
		ResourceKey:     domain.ResourceKey(service, req.StaffMemberID),
	}
	if req.Manual {
		booking.Status = domain.StatusConfirmed
	}

	// 9. Захват места в сериализуемой транзакции
	var result *domain.Booking
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Ключ ресурса зависит от requires_staff, перечитываем услугу под блокировкой
		current, err := uc.catalogRepo.GetService(txCtx, service.ID)
		if err != nil {
			return fmt.Errorf("get service: %w", err)
		}
		if domain.ResourceKey(current, req.StaffMemberID) != booking.ResourceKey {
			uc.logger.Warn("CreateBooking: service id=%d requires_staff changed during booking", service.ID)
			return ErrServiceChanged
		}

		existing, err := uc.bookingRepo.ListActiveForResource(txCtx, venue.ID, booking.ResourceKey, booking.BookingDate)
		if err != nil {
			return fmt.Errorf("get bookings: %w", err)
		}

		seat := scheduling.FreeSeat(window, existing, capacity)
		if seat == 0 {
			uc.logger.Warn("CreateBooking: slot %s-%s on %s is full for %s, %d/%d taken",
				window.Start, window.End, booking.BookingDate.Format(domain.DateFormat), booking.ResourceKey,
				scheduling.CountOverlapping(window, existing), capacity)
			return ErrSlotAlreadyBooked
		}
		booking.SeatNumber = seat

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			return err
		}
		result = created
		return nil
	})
	if err != nil {
		return nil, uc.mapClaimError(err)
	}

	result.VenueName = venue.Name
	result.ServiceName = service.Name
	result.CancellationHours = policy.CancellationHours
	if staff != nil {
		result.StaffMemberName = &staff.Name
	}

	if err := uc.cache.InvalidateDay(ctx, venue.ID, result.BookingDate); err != nil {
		uc.logger.Warn("CreateBooking: failed to invalidate slot cache for venue=%d: %v", venue.ID, err)
	}
	uc.metrics.RecordBookingCreated(req.Source())
	uc.notifier.BookingCreated(ctx, result)

	uc.logger.Info("CreateBooking: successfully created booking id=%d, seat=%d, status=%s",
		result.ID, result.SeatNumber, result.Status)
	return models.FromDomainBooking(result), nil
}

// resolveStaff проверяет сотрудника; для услуги без requires_staff сотрудник необязателен
func (uc *UseCase) resolveStaff(ctx context.Context, req *Request, service *domain.Service) (*domain.StaffMember, error) {
	if req.StaffMemberID == nil {
		if service.RequiresStaff {
			return nil, ErrStaffRequired
		}
		return nil, nil
	}

	member, err := uc.catalogRepo.GetStaffMember(ctx, *req.StaffMemberID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrStaffMemberNotFound) {
			uc.logger.Warn("CreateBooking: staff member id=%d not found", *req.StaffMemberID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("CreateBooking: failed to get staff member id=%d: %v", *req.StaffMemberID, err)
		return nil, fmt.Errorf("%w: failed to get staff member: %v", ErrInternal, err)
	}

	if err := validateStaff(member, req.VenueID, service.ID); err != nil {
		uc.logger.Warn("CreateBooking: staff member id=%d rejected for service id=%d: %v", member.ID, service.ID, err)
		return nil, err
	}
	return member, nil
}

// checkWorkingHours проверяет, что слот лежит в рабочем окне.
// Клиентская бронь дополнительно должна совпадать со сгенерированным слотом.
func (uc *UseCase) checkWorkingHours(ctx context.Context, req *Request, service *domain.Service, window domain.TimeWindow) error {
	rules, err := uc.ruleRepo.ListForDay(ctx, req.VenueID, int(req.Date.Weekday()))
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get availability rules: %v", err)
		return fmt.Errorf("%w: failed to get availability rules: %v", ErrInternal, err)
	}

	var staffLevel *int64
	if service.RequiresStaff {
		staffLevel = req.StaffMemberID
	}
	windows := scheduling.WindowsForDay(rules, req.Date, staffLevel)

	if !scheduling.Covers(windows, window) {
		uc.logger.Warn("CreateBooking: %s-%s is outside working hours on %s",
			window.Start, window.End, req.Date.Format(domain.DateFormat))
		return ErrOutsideWorkingHours
	}

	if req.Manual {
		return nil
	}

	slots, err := scheduling.GenerateSlots(windows, service.DurationMinutes)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if !scheduling.IsGeneratedSlot(slots, window) {
		uc.logger.Warn("CreateBooking: %s-%s does not match a generated slot", window.Start, window.End)
		return fmt.Errorf("%w: %s is not a bookable start time", ErrInvalidTimeSlot, window.Start)
	}
	return nil
}

// mapClaimError приводит ошибки транзакции захвата к ошибкам usecase.
// Нарушение уникального индекса и ошибка сериализации означают, что слот занят параллельно.
func (uc *UseCase) mapClaimError(err error) error {
	switch {
	case errors.Is(err, ErrSlotAlreadyBooked),
		errors.Is(err, bookingRepo.ErrSlotTaken),
		errors.Is(err, txmanager.ErrSerialization),
		txmanager.IsSerializationFailure(err):
		uc.logger.Warn("CreateBooking: slot conflict: %v", err)
		uc.metrics.RecordBookingConflict()
		return ErrSlotAlreadyBooked
	case errors.Is(err, ErrServiceChanged):
		uc.metrics.RecordBookingConflict()
		return ErrServiceChanged
	case errors.Is(err, ErrInternal):
		uc.logger.Error("CreateBooking: %v", err)
		return err
	default:
		uc.logger.Error("CreateBooking: failed to create booking: %v", err)
		return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
	}
}

// totalAmount берет цену услуги с округлением до центов, иначе значение клиента
func totalAmount(service *domain.Service, fallback *decimal.Decimal) decimal.NullDecimal {
	if service.Price.Valid {
		return decimal.NewNullDecimal(service.Price.Decimal.Round(2))
	}
	if fallback != nil {
		return decimal.NewNullDecimal(fallback.Round(2))
	}
	return decimal.NullDecimal{}
}
