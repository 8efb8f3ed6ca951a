package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/internal/infra/cache/slots"
	catalogRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/catalog"
	venueRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/venue"
	"github.com/m04kA/SMC-VenueBookingService/pkg/apperror"
	"github.com/m04kA/SMC-VenueBookingService/pkg/logger"
	"github.com/m04kA/SMC-VenueBookingService/pkg/metrics"
	"github.com/m04kA/SMC-VenueBookingService/pkg/ptr"
	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

// 02.06.2025 - понедельник
var monday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

type store struct {
	venues   map[int64]*domain.Venue
	services map[int64]*domain.Service
	staff    []*domain.StaffMember
	rules    []*domain.AvailabilityRule
	bookings []*domain.Booking
	reads    int
}

func newStore() *store {
	return &store{
		venues: map[int64]*domain.Venue{
			1: {ID: 1, Name: "Salon", IsActive: true, BookingAdvanceHours: 2, BookingAdvanceDays: 14},
		},
		services: map[int64]*domain.Service{
			2: {ID: 2, VenueID: 1, Name: "Consultation", DurationMinutes: 60, Capacity: 1, IsActive: true},
			3: {ID: 3, VenueID: 1, Name: "Haircut", DurationMinutes: 60, Capacity: 1, RequiresStaff: true, IsActive: true},
		},
		staff: []*domain.StaffMember{
			{ID: 5, VenueID: 1, Name: "Olga", IsActive: true, ServiceIDs: []int64{3}},
			{ID: 6, VenueID: 1, Name: "Ivan", IsActive: true, ServiceIDs: []int64{3}},
			{ID: 7, VenueID: 1, Name: "Petr", IsActive: true},
		},
		rules: []*domain.AvailabilityRule{
			{VenueID: 1, DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", IsActive: true},
			{VenueID: 1, StaffMemberID: ptr.Ptr(int64(5)), DayOfWeek: 1, StartTime: "09:00", EndTime: "11:00", IsActive: true},
			{VenueID: 1, StaffMemberID: ptr.Ptr(int64(6)), DayOfWeek: 1, StartTime: "10:00", EndTime: "12:00", IsActive: true},
		},
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
	for _, m := range s.staff {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, catalogRepo.ErrStaffMemberNotFound
}

func (s *store) ListStaffForService(_ context.Context, serviceID int64) ([]*domain.StaffMember, error) {
	var out []*domain.StaffMember
	for _, m := range s.staff {
		if m.Performs(serviceID) && m.IsActive {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *store) ListForDay(_ context.Context, venueID int64, dayOfWeek int) ([]*domain.AvailabilityRule, error) {
	s.reads++
	var out []*domain.AvailabilityRule
	for _, r := range s.rules {
		if r.VenueID == venueID && r.DayOfWeek == dayOfWeek {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *store) ListActiveForResource(_ context.Context, venueID int64, resourceKey string, date time.Time) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range s.bookings {
		if b.VenueID == venueID && b.ResourceKey == resourceKey && b.BookingDate.Equal(date) && b.IsBlocking() {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *store) book(resourceKey, start, end string) {
	s.bookings = append(s.bookings, &domain.Booking{
		VenueID:     1,
		ResourceKey: resourceKey,
		BookingDate: monday,
		StartTime:   types.TimeString(start),
		EndTime:     types.TimeString(end),
		Status:      domain.StatusConfirmed,
		SeatNumber:  1,
	})
}

// memoryCache кэш в памяти
type memoryCache struct {
	entries map[string]*domain.DayAvailability
	getErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]*domain.DayAvailability{}}
}

func cacheKey(key slots.Key) string {
	staff := int64(0)
	if key.StaffMemberID != nil {
		staff = *key.StaffMemberID
	}
	return fmt.Sprintf("%s/%d/%d", key.Date.Format(domain.DateFormat), key.ServiceID, staff)
}

func (c *memoryCache) Get(_ context.Context, key slots.Key) (*domain.DayAvailability, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	a, ok := c.entries[cacheKey(key)]
	return a, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key slots.Key, availability *domain.DayAvailability) error {
	c.entries[cacheKey(key)] = availability
	return nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newUseCase(s *store, cache SlotCache, now time.Time) *UseCase {
	return NewUseCase(
		s, s, s, s,
		cache,
		metrics.NewWithRegisterer("test", prometheus.NewRegistry()),
		fixedClock{now: now},
		time.UTC,
		logger.NewDiscard(),
	)
}

// lastWeek "сейчас" задолго до понедельника
var lastWeek = monday.AddDate(0, 0, -7)

func slotStarts(slots []domain.TimeSlot, onlyAvailable bool) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		if onlyAvailable && !s.Available {
			continue
		}
		out = append(out, s.StartTime.String())
	}
	return out
}

func TestUseCase_Execute_WorkingDay(t *testing.T) {
	s := newStore()
	uc := newUseCase(s, newMemoryCache(), lastWeek)

	resp, err := uc.Execute(context.Background(), &Request{VenueID: 1, ServiceID: 2, Date: monday})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.DayOfWeek)
	assert.Equal(t, []string{"09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00"}, slotStarts(resp.Slots, false))
	assert.Equal(t, 8, resp.AvailableCount())
}

func TestUseCase_Execute_BookingsBlockSlots(t *testing.T) {
	s := newStore()
	s.book("service:2", "10:00", "11:00")
	s.book("service:2", "12:30", "13:30")
	uc := newUseCase(s, newMemoryCache(), lastWeek)

	resp, err := uc.Execute(context.Background(), &Request{VenueID: 1, ServiceID: 2, Date: monday})
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "11:00", "14:00", "15:00", "16:00"}, slotStarts(resp.Slots, true))
}

func TestUseCase_Execute_AdvanceNoticeMasksEarlySlots(t *testing.T) {
	s := newStore()
	// 11:30 + 2 часа = 13:30, первый допустимый слот - 14:00
	uc := newUseCase(s, newMemoryCache(), monday.Add(11*time.Hour+30*time.Minute))

	resp, err := uc.Execute(context.Background(), &Request{VenueID: 1, ServiceID: 2, Date: monday})
	require.NoError(t, err)

	assert.Len(t, resp.Slots, 8)
	assert.Equal(t, []string{"14:00", "15:00", "16:00"}, slotStarts(resp.Slots, true))
}

func TestUseCase_Execute_CacheHit(t *testing.T) {
	s := newStore()
	cache := newMemoryCache()

	uc := newUseCase(s, cache, lastWeek)
	_, err := uc.Execute(context.Background(), &Request{VenueID: 1, ServiceID: 2, Date: monday})
	require.NoError(t, err)
	require.Equal(t, 1, s.reads)

	// отсечка зависит от времени запроса, запись кэша от него не зависит
	later := newUseCase(s, cache, monday.Add(11*time.Hour+30*time.Minute))
	resp, err := later.Execute(context.Background(), &Request{VenueID: 1, ServiceID: 2, Date: monday})
	require.NoError(t, err)

	assert.Equal(t, 1, s.reads, "second call must be served from cache")
	assert.Equal(t, 3, resp.AvailableCount())
	assert.Equal(t, 8, cache.entries[cacheKey(slots.Key{ServiceID: 2, Date: monday})].AvailableCount(),
		"masking must not modify the cached entry")
}

func TestUseCase_Execute_CacheErrorFallsBack(t *testing.T) {
	s := newStore()
	cache := newMemoryCache()
	cache.getErr = errors.New("redis down")
	uc := newUseCase(s, cache, lastWeek)

	resp, err := uc.Execute(context.Background(), &Request{VenueID: 1, ServiceID: 2, Date: monday})
	require.NoError(t, err)
	assert.Equal(t, 8, resp.AvailableCount())
}

func TestUseCase_Execute_StaffMember(t *testing.T) {
	s := newStore()
	s.book("staff:5", "09:00", "10:00")
	uc := newUseCase(s, newMemoryCache(), lastWeek)

	resp, err := uc.Execute(context.Background(), &Request{VenueID: 1, ServiceID: 3, StaffMemberID: ptr.Ptr(int64(5)), Date: monday})
	require.NoError(t, err)

	require.Equal(t, []string{"09:00", "10:00"}, slotStarts(resp.Slots, false))
	assert.False(t, resp.Slots[0].Available)
	assert.True(t, resp.Slots[1].Available)
	assert.Equal(t, ptr.Ptr(int64(5)), resp.Slots[1].StaffMemberID)
}

func TestUseCase_Execute_AnyStaffMerged(t *testing.T) {
	s := newStore()
	s.book("staff:5", "10:00", "11:00")
	uc := newUseCase(s, newMemoryCache(), lastWeek)

	resp, err := uc.Execute(context.Background(), &Request{VenueID: 1, ServiceID: 3, Date: monday})
	require.NoError(t, err)

	// Olga 09-11, Ivan 10-12
	require.Equal(t, []string{"09:00", "10:00", "11:00"}, slotStarts(resp.Slots, false))
	for _, slot := range resp.Slots {
		assert.True(t, slot.Available, slot.StartTime)
	}
	assert.Equal(t, int64(5), *resp.Slots[0].StaffMemberID)
	assert.Equal(t, int64(6), *resp.Slots[1].StaffMemberID, "Olga is busy at 10:00")
	assert.Equal(t, int64(6), *resp.Slots[2].StaffMemberID)
}

func TestUseCase_Execute_NoLinkedStaff(t *testing.T) {
	s := newStore()
	s.staff = s.staff[2:]
	uc := newUseCase(s, newMemoryCache(), lastWeek)

	resp, err := uc.Execute(context.Background(), &Request{VenueID: 1, ServiceID: 3, Date: monday})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestUseCase_Execute_StaffNotLinked(t *testing.T) {
	uc := newUseCase(newStore(), newMemoryCache(), lastWeek)

	_, err := uc.Execute(context.Background(), &Request{VenueID: 1, ServiceID: 3, StaffMemberID: ptr.Ptr(int64(7)), Date: monday})
	require.ErrorIs(t, err, ErrStaffNotLinked)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestUseCase_Execute_NotBookableDates(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
	}{
		{name: "past date", date: monday.AddDate(0, 0, -1)},
		{name: "beyond horizon", date: monday.AddDate(0, 0, 15)},
		{name: "closed day", date: monday.AddDate(0, 0, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newUseCase(newStore(), newMemoryCache(), monday)

			resp, err := uc.Execute(context.Background(), &Request{VenueID: 1, ServiceID: 2, Date: tt.date})
			require.NoError(t, err)
			assert.Empty(t, resp.Slots)
			assert.Equal(t, int(tt.date.Weekday()), resp.DayOfWeek)
		})
	}
}

func TestUseCase_Execute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		modify  func(s *store)
		wantErr error
	}{
		{name: "missing service", req: &Request{VenueID: 1, Date: monday}, wantErr: ErrInvalidInput},
		{name: "missing date", req: &Request{VenueID: 1, ServiceID: 2}, wantErr: ErrInvalidInput},
		{name: "unknown venue", req: &Request{VenueID: 9, ServiceID: 2, Date: monday}, wantErr: ErrVenueNotFound},
		{name: "unknown service", req: &Request{VenueID: 1, ServiceID: 9, Date: monday}, wantErr: ErrServiceNotFound},
		{
			name:    "inactive service",
			req:     &Request{VenueID: 1, ServiceID: 2, Date: monday},
			modify:  func(s *store) { s.services[2].IsActive = false },
			wantErr: ErrServiceInactive,
		},
		{
			name:    "unknown staff",
			req:     &Request{VenueID: 1, ServiceID: 3, StaffMemberID: ptr.Ptr(int64(42)), Date: monday},
			wantErr: ErrStaffNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore()
			if tt.modify != nil {
				tt.modify(s)
			}
			uc := newUseCase(s, newMemoryCache(), lastWeek)

			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMergeStaffSlots(t *testing.T) {
	merged := mergeStaffSlots([][]domain.TimeSlot{
		{
			{StartTime: "10:00", EndTime: "11:00", Available: false},
			{StartTime: "09:00", EndTime: "10:00", Available: true, StaffMemberID: ptr.Ptr(int64(1))},
		},
		{
			{StartTime: "10:00", EndTime: "11:00", Available: true, StaffMemberID: ptr.Ptr(int64(2))},
			{StartTime: "09:00", EndTime: "10:00", Available: true, StaffMemberID: ptr.Ptr(int64(2))},
		},
	})

	require.Len(t, merged, 2)
	assert.Equal(t, types.TimeString("09:00"), merged[0].StartTime)
	assert.Equal(t, int64(1), *merged[0].StaffMemberID)
	assert.Equal(t, int64(2), *merged[1].StaffMemberID)
	assert.Empty(t, mergeStaffSlots(nil))
}
