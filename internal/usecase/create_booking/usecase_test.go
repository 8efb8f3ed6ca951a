package create_booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/catalog"
	venueRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/venue"
	"github.com/m04kA/SMC-VenueBookingService/pkg/apperror"
	"github.com/m04kA/SMC-VenueBookingService/pkg/logger"
	"github.com/m04kA/SMC-VenueBookingService/pkg/metrics"
	"github.com/m04kA/SMC-VenueBookingService/pkg/ptr"
	"github.com/m04kA/SMC-VenueBookingService/pkg/txmanager"
	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

// 10.06.2025 - вторник
var bookingDay = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

// store in-memory хранилище, реализующее все репозитории usecase
type store struct {
	mu       sync.Mutex
	venues   map[int64]*domain.Venue
	services map[int64]*domain.Service
	staff    map[int64]*domain.StaffMember
	rules    []*domain.AvailabilityRule
	bookings []*domain.Booking
	nextID   int64

	// barrier заставляет параллельные транзакции прочитать слот до записи
	barrier *sync.WaitGroup
	// createErr ошибка, возвращаемая из Create
	createErr error
}

func newStore() *store {
	return &store{
		venues: map[int64]*domain.Venue{
			1: {ID: 1, Name: "Bistro", IsActive: true, BookingAdvanceHours: 2, CancellationHours: 24, BookingAdvanceDays: 30},
		},
		services: map[int64]*domain.Service{
			2: {ID: 2, VenueID: 1, Name: "Dinner table", DurationMinutes: 120, Capacity: 1, IsActive: true,
				Price: decimal.NewNullDecimal(decimal.RequireFromString("45.499"))},
			3: {ID: 3, VenueID: 1, Name: "Haircut", DurationMinutes: 60, Capacity: 1, RequiresStaff: true, IsActive: true},
		},
		staff: map[int64]*domain.StaffMember{
			5: {ID: 5, VenueID: 1, Name: "Olga", IsActive: true, ServiceIDs: []int64{3}},
			6: {ID: 6, VenueID: 1, Name: "Ivan", IsActive: true},
		},
		rules: []*domain.AvailabilityRule{
			{ID: 1, VenueID: 1, DayOfWeek: 2, StartTime: "18:00", EndTime: "22:00", IsActive: true},
			{ID: 2, VenueID: 1, StaffMemberID: ptr.Ptr(int64(5)), DayOfWeek: 2, StartTime: "10:00", EndTime: "13:00", IsActive: true},
		},
		nextID: 100,
	}
}

func (s *store) GetByID(_ context.Context, id int64) (*domain.Venue, error) {
	v, ok := s.venues[id]
	if !ok {
		return nil, venueRepo.ErrVenueNotFound
	}
	return v, nil
}

func (s *store) GetService(_ context.Context, id int64) (*domain.Service, error) {
	svc, ok := s.services[id]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return svc, nil
}

func (s *store) GetStaffMember(_ context.Context, id int64) (*domain.StaffMember, error) {
	m, ok := s.staff[id]
	if !ok {
		return nil, catalogRepo.ErrStaffMemberNotFound
	}
	return m, nil
}

func (s *store) ListForDay(_ context.Context, venueID int64, dayOfWeek int) ([]*domain.AvailabilityRule, error) {
	var out []*domain.AvailabilityRule
	for _, r := range s.rules {
		if r.VenueID == venueID && r.DayOfWeek == dayOfWeek {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *store) ListActiveForResource(_ context.Context, venueID int64, resourceKey string, date time.Time) ([]*domain.Booking, error) {
	s.mu.Lock()
	var out []*domain.Booking
	for _, b := range s.bookings {
		if b.VenueID == venueID && b.ResourceKey == resourceKey && b.BookingDate.Equal(date) && b.IsBlocking() {
			copied := *b
			out = append(out, &copied)
		}
	}
	s.mu.Unlock()

	if s.barrier != nil {
		s.barrier.Done()
		s.barrier.Wait()
	}
	return out, nil
}

// Create проверяет уникальность места так же, как частичный уникальный индекс
func (s *store) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.createErr != nil {
		return nil, s.createErr
	}
	for _, existing := range s.bookings {
		if existing.IsBlocking() && existing.VenueID == b.VenueID && existing.ResourceKey == b.ResourceKey &&
			existing.BookingDate.Equal(b.BookingDate) && existing.StartTime == b.StartTime &&
			existing.SeatNumber == b.SeatNumber {
			return nil, fmt.Errorf("%w: duplicate seat", bookingRepo.ErrSlotTaken)
		}
	}

	s.nextID++
	created := *b
	created.ID = s.nextID
	s.bookings = append(s.bookings, &created)
	return &created, nil
}

type passTx struct{}

func (passTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// hookTx выполняет before перед открытием транзакции
type hookTx struct{ before func() }

func (h hookTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	h.before()
	return fn(ctx)
}

type cacheSpy struct {
	mu    sync.Mutex
	dates []time.Time
}

func (c *cacheSpy) InvalidateDay(_ context.Context, _ int64, date time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dates = append(c.dates, date)
	return nil
}

type notifierSpy struct {
	mu      sync.Mutex
	created []int64
}

func (n *notifierSpy) BookingCreated(_ context.Context, b *domain.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, b.ID)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fixture struct {
	uc       *UseCase
	store    *store
	cache    *cacheSpy
	notifier *notifierSpy
}

// newFixture "сейчас" - 09.06.2025 12:00 UTC
func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureAt(t, time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC))
}

func newFixtureAt(t *testing.T, now time.Time) *fixture {
	t.Helper()
	f := &fixture{store: newStore(), cache: &cacheSpy{}, notifier: &notifierSpy{}}
	f.uc = NewUseCase(
		f.store, f.store, f.store, f.store,
		passTx{},
		f.cache,
		f.notifier,
		metrics.NewWithRegisterer("test", prometheus.NewRegistry()),
		fixedClock{now: now},
		time.UTC,
		logger.NewDiscard(),
	)
	return f
}

func dinnerRequest() *Request {
	return &Request{
		VenueID:       1,
		ServiceID:     2,
		CustomerName:  "  Anna  ",
		CustomerEmail: "anna@example.com",
		Date:          bookingDay,
		StartTime:     "18:00",
		PartySize:     2,
	}
}

func TestUseCase_Execute_Success(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), dinnerRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(101), resp.ID)
	assert.Equal(t, "Anna", resp.CustomerName)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, "20:00", resp.EndTime)
	assert.Equal(t, "Bistro", resp.VenueName)
	assert.NotEmpty(t, resp.BookingToken)
	require.True(t, resp.TotalAmount.Valid)
	assert.True(t, decimal.RequireFromString("45.5").Equal(resp.TotalAmount.Decimal))

	require.Len(t, f.store.bookings, 1)
	assert.Equal(t, "service:2", f.store.bookings[0].ResourceKey)
	assert.Equal(t, 1, f.store.bookings[0].SeatNumber)
	assert.Equal(t, []time.Time{bookingDay}, f.cache.dates)
	assert.Equal(t, []int64{101}, f.notifier.created)
}

func TestUseCase_Execute_SlotTaken(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), dinnerRequest())
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), dinnerRequest())
	require.ErrorIs(t, err, ErrSlotAlreadyBooked)
	assert.Equal(t, "Time slot already booked or not available", err.Error())
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestUseCase_Execute_CapacitySeats(t *testing.T) {
	f := newFixture(t)
	f.store.services[2].Capacity = 2

	for i := 0; i < 2; i++ {
		_, err := f.uc.Execute(context.Background(), dinnerRequest())
		require.NoError(t, err)
	}
	_, err := f.uc.Execute(context.Background(), dinnerRequest())
	require.ErrorIs(t, err, ErrSlotAlreadyBooked)

	assert.Equal(t, 1, f.store.bookings[0].SeatNumber)
	assert.Equal(t, 2, f.store.bookings[1].SeatNumber)
}

func TestUseCase_Execute_CancelledBookingFreesSlot(t *testing.T) {
	f := newFixture(t)
	f.store.bookings = append(f.store.bookings, &domain.Booking{
		ID: 1, VenueID: 1, ResourceKey: "service:2", BookingDate: bookingDay,
		StartTime: "18:00", EndTime: "20:00", SeatNumber: 1, Status: domain.StatusCancelled,
	})

	_, err := f.uc.Execute(context.Background(), dinnerRequest())
	require.NoError(t, err)
}

func TestUseCase_Execute_PartialOverlapBlocks(t *testing.T) {
	f := newFixture(t)
	f.store.bookings = append(f.store.bookings, &domain.Booking{
		ID: 1, VenueID: 1, ResourceKey: "service:2", BookingDate: bookingDay,
		StartTime: "19:00", EndTime: "21:00", SeatNumber: 1, Status: domain.StatusConfirmed,
	})
	// 19:00 - не сгенерированный слот, поэтому бронь вставлена напрямую
	req := dinnerRequest()

	_, err := f.uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrSlotAlreadyBooked)
}

func TestUseCase_Execute_ConcurrentLastSeat(t *testing.T) {
	f := newFixture(t)
	f.store.barrier = &sync.WaitGroup{}
	f.store.barrier.Add(2)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.Execute(context.Background(), dinnerRequest())
		}(i)
	}
	wg.Wait()

	var succeeded, conflicted int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrSlotAlreadyBooked):
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicted)
	assert.Len(t, f.store.bookings, 1)
}

func TestUseCase_Execute_SerializationFailure(t *testing.T) {
	f := newFixture(t)
	f.store.createErr = fmt.Errorf("%w: commit: could not serialize access", txmanager.ErrSerialization)

	_, err := f.uc.Execute(context.Background(), dinnerRequest())
	assert.ErrorIs(t, err, ErrSlotAlreadyBooked)
}

func TestUseCase_Execute_SerializationFailureInsideTransaction(t *testing.T) {
	f := newFixture(t)
	f.store.createErr = fmt.Errorf("claim: %w", &pq.Error{Code: "40001", Message: "could not serialize access"})

	_, err := f.uc.Execute(context.Background(), dinnerRequest())
	assert.ErrorIs(t, err, ErrSlotAlreadyBooked)
}

func TestUseCase_Execute_StorageFailure(t *testing.T) {
	f := newFixture(t)
	f.store.createErr = errors.New("connection reset")

	_, err := f.uc.Execute(context.Background(), dinnerRequest())
	assert.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, f.notifier.created)
}

func TestUseCase_Execute_AdvanceNotice(t *testing.T) {
	// до 18:00 остается 1.5 часа при требовании 2
	f := newFixtureAt(t, time.Date(2025, 6, 10, 16, 30, 0, 0, time.UTC))

	_, err := f.uc.Execute(context.Background(), dinnerRequest())
	require.ErrorIs(t, err, ErrAdvanceNotice)

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindAdvanceNotice, appErr.Kind)
	assert.Equal(t, 2, appErr.RequiredHours)
	assert.Equal(t, 2, appErr.RemainingHours)
	assert.Equal(t, "Bookings must be made at least 2 hours in advance. Only 2 hours remaining.", appErr.Message)
}

func TestUseCase_Execute_ManualSkipsAdvanceNotice(t *testing.T) {
	f := newFixtureAt(t, time.Date(2025, 6, 10, 17, 30, 0, 0, time.UTC))
	req := dinnerRequest()
	req.Manual = true
	// администратор может выбрать любое время в рабочих окнах
	req.StartTime = "18:30"

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
}

func TestUseCase_Execute_StaffService(t *testing.T) {
	f := newFixture(t)
	req := &Request{
		VenueID:       1,
		ServiceID:     3,
		StaffMemberID: ptr.Ptr(int64(5)),
		CustomerName:  "Anna",
		CustomerEmail: "anna@example.com",
		Date:          bookingDay,
		StartTime:     "11:00",
		PartySize:     1,
	}

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp.StaffMemberName)
	assert.Equal(t, "Olga", *resp.StaffMemberName)
	assert.Equal(t, "staff:5", f.store.bookings[0].ResourceKey)
	assert.False(t, resp.TotalAmount.Valid)
}

func TestUseCase_Execute_RequiresStaffToggledDuringBooking(t *testing.T) {
	f := newFixture(t)
	st := f.store
	uc := NewUseCase(
		st, st, st, st,
		hookTx{before: func() {
			toggled := *st.services[3]
			toggled.RequiresStaff = false
			st.services[3] = &toggled
		}},
		f.cache,
		f.notifier,
		metrics.NewWithRegisterer("test", prometheus.NewRegistry()),
		fixedClock{now: time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC)},
		time.UTC,
		logger.NewDiscard(),
	)

	_, err := uc.Execute(context.Background(), &Request{
		VenueID:       1,
		ServiceID:     3,
		StaffMemberID: ptr.Ptr(int64(5)),
		CustomerName:  "Anna",
		CustomerEmail: "anna@example.com",
		Date:          bookingDay,
		StartTime:     "11:00",
		PartySize:     1,
	})

	assert.ErrorIs(t, err, ErrServiceChanged)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	assert.Empty(t, st.bookings)
}

func TestUseCase_Execute_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(f *fixture, r *Request)
		wantErr error
	}{
		{
			name:    "missing name",
			modify:  func(_ *fixture, r *Request) { r.CustomerName = "   " },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "invalid email",
			modify:  func(_ *fixture, r *Request) { r.CustomerEmail = "not-an-email" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "malformed start time",
			modify:  func(_ *fixture, r *Request) { r.StartTime = types.TimeString("25:99") },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown venue",
			modify:  func(_ *fixture, r *Request) { r.VenueID = 9 },
			wantErr: ErrVenueNotFound,
		},
		{
			name:    "inactive venue",
			modify:  func(f *fixture, _ *Request) { f.store.venues[1].IsActive = false },
			wantErr: ErrVenueNotFound,
		},
		{
			name:    "service of another venue",
			modify:  func(f *fixture, _ *Request) { f.store.services[2].VenueID = 7 },
			wantErr: ErrServiceNotFound,
		},
		{
			name:    "inactive service",
			modify:  func(f *fixture, _ *Request) { f.store.services[2].IsActive = false },
			wantErr: ErrServiceInactive,
		},
		{
			name:    "phone required",
			modify:  func(f *fixture, _ *Request) { f.store.venues[1].RequirePhone = true },
			wantErr: ErrPhoneRequired,
		},
		{
			name:    "party too large",
			modify:  func(_ *fixture, r *Request) { r.PartySize = 5 },
			wantErr: ErrPartySizeExceeded,
		},
		{
			name:    "date in past",
			modify:  func(_ *fixture, r *Request) { r.Date = bookingDay.AddDate(0, 0, -3) },
			wantErr: ErrDateInPast,
		},
		{
			name:    "beyond horizon",
			modify:  func(_ *fixture, r *Request) { r.Date = bookingDay.AddDate(0, 0, 35) },
			wantErr: ErrDateTooFarInFuture,
		},
		{
			name:    "outside working hours",
			modify:  func(_ *fixture, r *Request) { r.StartTime = "21:00" },
			wantErr: ErrOutsideWorkingHours,
		},
		{
			name:    "not a generated slot",
			modify:  func(_ *fixture, r *Request) { r.StartTime = "18:30" },
			wantErr: ErrInvalidTimeSlot,
		},
		{
			name:    "end time mismatch",
			modify:  func(_ *fixture, r *Request) { r.EndTime = ptr.Ptr(types.TimeString("19:00")) },
			wantErr: ErrInvalidTimeSlot,
		},
		{
			name:    "closed day",
			modify:  func(_ *fixture, r *Request) { r.Date = bookingDay.AddDate(0, 0, 1) },
			wantErr: ErrOutsideWorkingHours,
		},
		{
			name: "staff required",
			modify: func(_ *fixture, r *Request) {
				r.ServiceID = 3
				r.PartySize = 1
			},
			wantErr: ErrStaffRequired,
		},
		{
			name: "staff not linked",
			modify: func(_ *fixture, r *Request) {
				r.ServiceID = 3
				r.PartySize = 1
				r.StaffMemberID = ptr.Ptr(int64(6))
			},
			wantErr: ErrStaffNotLinked,
		},
		{
			name: "unknown staff",
			modify: func(_ *fixture, r *Request) {
				r.ServiceID = 3
				r.PartySize = 1
				r.StaffMemberID = ptr.Ptr(int64(42))
			},
			wantErr: ErrStaffNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := dinnerRequest()
			tt.modify(f, req)

			_, err := f.uc.Execute(context.Background(), req)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.store.bookings)
		})
	}
}
