package scheduling

import (
	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

// Overlaps checks half-open intervals [aStart, aEnd) and [bStart, bEnd);
// touching intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// WindowsOverlap Overlaps for TimeWindow values
func WindowsOverlap(a, b domain.TimeWindow) bool {
	return Overlaps(a.Start.Minutes(), a.End.Minutes(), b.Start.Minutes(), b.End.Minutes())
}

// OverlappingBookings returns the blocking bookings that overlap slot.
// Bookings must already be narrowed to one resource and date.
func OverlappingBookings(slot domain.TimeWindow, bookings []*domain.Booking) []*domain.Booking {
	out := make([]*domain.Booking, 0)
	for _, b := range bookings {
		if b.IsBlocking() && WindowsOverlap(slot, b.Window()) {
			out = append(out, b)
		}
	}
	return out
}

// CountOverlapping returns the number of blocking bookings that overlap slot
func CountOverlapping(slot domain.TimeWindow, bookings []*domain.Booking) int {
	return len(OverlappingBookings(slot, bookings))
}

// MarkAvailability marks every slot available while fewer than capacity blocking
// bookings overlap it. Capacity below one is treated as one.
func MarkAvailability(slots []domain.TimeWindow, bookings []*domain.Booking, capacity int) []domain.TimeSlot {
	if capacity < 1 {
		capacity = 1
	}

	out := make([]domain.TimeSlot, 0, len(slots))
	for _, s := range slots {
		out = append(out, domain.TimeSlot{
			StartTime: s.Start,
			EndTime:   s.End,
			Available: CountOverlapping(s, bookings) < capacity,
		})
	}
	return out
}

// FreeSeat returns the lowest seat in [1, capacity] not held by a blocking booking
// overlapping slot, or 0 when the slot is full.
func FreeSeat(slot domain.TimeWindow, bookings []*domain.Booking, capacity int) int {
	if capacity < 1 {
		capacity = 1
	}

	overlapping := OverlappingBookings(slot, bookings)
	if len(overlapping) >= capacity {
		return 0
	}

	taken := make(map[int]bool, len(overlapping))
	for _, b := range overlapping {
		taken[b.SeatNumber] = true
	}
	for seat := 1; seat <= capacity; seat++ {
		if !taken[seat] {
			return seat
		}
	}
	return 0
}
