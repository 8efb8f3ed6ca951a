package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-VenueBookingService/pkg/apperror"
)

// Service сервис жизненного цикла бронирований: просмотр, отмена, смена статуса
type Service struct {
	bookingRepo  BookingRepository
	policy       PolicyProvider
	cache        SlotCache
	notifier     Notifier
	metrics      Metrics
	timeProvider TimeProvider
	location     *time.Location
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	policy PolicyProvider,
	cache SlotCache,
	notifier Notifier,
	metrics Metrics,
	timeProvider TimeProvider,
	location *time.Location,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		policy:       policy,
		cache:        cache,
		notifier:     notifier,
		metrics:      metrics,
		timeProvider: timeProvider,
		location:     location,
		logger:       logger,
	}
}

// GetByToken возвращает бронирование по токену управления
func (s *Service) GetByToken(ctx context.Context, token string) (*models.BookingResponse, error) {
	booking, err := s.getByToken(ctx, "GetByToken", token)
	if err != nil {
		return nil, err
	}
	return models.FromDomainBooking(booking), nil
}

// CancelByToken отменяет бронирование клиентом.
// Проверяет статус и окно отмены площадки; запись обновляется только если статус не изменился.
func (s *Service) CancelByToken(ctx context.Context, token string, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	if req.Reason != nil && len(*req.Reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason is too long", ErrInvalidInput)
	}

	booking, err := s.getByToken(ctx, "CancelByToken", token)
	if err != nil {
		return nil, err
	}

	switch booking.Status {
	case domain.StatusCancelled:
		s.logger.Warn("CancelByToken: booking id=%d is already cancelled", booking.ID)
		return nil, ErrAlreadyCancelled
	case domain.StatusCompleted:
		s.logger.Warn("CancelByToken: booking id=%d is completed", booking.ID)
		return nil, ErrCannotCancelCompleted
	}
	if !booking.CanTransitionTo(domain.StatusCancelled) {
		s.logger.Warn("CancelByToken: booking id=%d cannot be cancelled, status=%s", booking.ID, booking.Status)
		return nil, ErrCannotCancel
	}

	policy, err := s.policy.GetPolicy(ctx, booking.VenueID)
	if err != nil {
		s.logger.Error("CancelByToken: failed to load policy for venue=%d: %v", booking.VenueID, err)
		return nil, err
	}

	now := s.timeProvider.Now()
	hoursUntil := booking.HoursUntilStart(now, s.location)
	if !policy.AllowsCancellation(hoursUntil) {
		s.logger.Warn("CancelByToken: booking id=%d inside cancellation window: %.2fh left, %dh required",
			booking.ID, hoursUntil, policy.CancellationHours)
		return nil, apperror.CancellationWindow(ErrCancellationWindow, policy.CancellationHours, hoursUntil)
	}

	if err := s.cancel(ctx, "CancelByToken", booking, req.Reason, now); err != nil {
		return nil, err
	}

	s.logger.Info("CancelByToken: booking id=%d cancelled by customer", booking.ID)
	return models.FromDomainBooking(booking), nil
}

// UpdateStatus меняет статус бронирования сотрудником площадки.
// Проверяется только допустимость перехода; отмена фиксирует время и причину.
func (s *Service) UpdateStatus(ctx context.Context, venueID, bookingID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s in venue=%d", bookingID, req.Status, venueID)

	next, err := domain.ParseBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if req.Reason != nil && len(*req.Reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason is too long", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdateStatus: booking id=%d not found", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	// Бронирование другой площадки для администратора не существует
	if booking.VenueID != venueID {
		s.logger.Warn("UpdateStatus: booking id=%d belongs to venue=%d, not %d", bookingID, booking.VenueID, venueID)
		return nil, ErrBookingNotFound
	}

	if !booking.CanTransitionTo(next) {
		s.logger.Warn("UpdateStatus: transition %s -> %s not allowed for booking id=%d", booking.Status, next, bookingID)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, next)
	}

	if next == domain.StatusCancelled {
		if err := s.cancel(ctx, "UpdateStatus", booking, req.Reason, s.timeProvider.Now()); err != nil {
			return nil, err
		}
		return models.FromDomainBooking(booking), nil
	}

	if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, booking.Status, next); err != nil {
		return nil, s.mapWriteError("UpdateStatus", booking.ID, err)
	}
	booking.Status = next
	booking.UpdatedAt = s.timeProvider.Now()

	// completed продолжает занимать слот, no_show освобождает его
	if !next.IsBlocking() {
		s.invalidate(ctx, booking)
	}

	s.logger.Info("UpdateStatus: booking id=%d moved to status=%s", booking.ID, next)
	return models.FromDomainBooking(booking), nil
}

// List возвращает страницу бронирований площадки с фильтрами
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter for venue=%d: %v", req.VenueID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, total, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for venue=%d: %v", req.VenueID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d of %d bookings for venue=%d", len(bookings), total, req.VenueID)
	return models.FromDomainBookingList(bookings, total, filter), nil
}

// Вспомогательные методы

func (s *Service) getByToken(ctx context.Context, method, token string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking with token=%s not found", method, token)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for token=%s: %v", method, token, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, method, err)
	}
	return booking, nil
}

// cancel условно переводит бронирование в cancelled и освобождает слот
func (s *Service) cancel(ctx context.Context, method string, booking *domain.Booking, reason *string, now time.Time) error {
	if err := s.bookingRepo.Cancel(ctx, booking.ID, booking.Status, reason, now); err != nil {
		return s.mapWriteError(method, booking.ID, err)
	}

	booking.Status = domain.StatusCancelled
	booking.CancelledAt = &now
	booking.CancellationReason = reason
	booking.UpdatedAt = now

	s.invalidate(ctx, booking)
	s.metrics.RecordBookingCancelled()
	s.notifier.BookingCancelled(ctx, booking)
	return nil
}

func (s *Service) invalidate(ctx context.Context, booking *domain.Booking) {
	if err := s.cache.InvalidateDay(ctx, booking.VenueID, booking.BookingDate); err != nil {
		s.logger.Warn("invalidate: failed to drop slot cache for venue=%d date=%s: %v",
			booking.VenueID, booking.BookingDate.Format(domain.DateFormat), err)
	}
}

func (s *Service) mapWriteError(method string, bookingID int64, err error) error {
	if errors.Is(err, bookingRepo.ErrStatusChanged) {
		s.logger.Warn("%s: booking id=%d changed concurrently", method, bookingID)
		return ErrStatusChanged
	}
	s.logger.Error("%s: repository error for booking id=%d: %v", method, bookingID, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, method, err)
}
