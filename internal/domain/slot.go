package domain

import (
	"time"

	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

// TimeWindow half-open interval [Start, End) within one day
type TimeWindow struct {
	Start types.TimeString
	End   types.TimeString
}

// IsValid returns true if both ends parse and Start < End
func (w TimeWindow) IsValid() bool {
	start, end := w.Start.Minutes(), w.End.Minutes()
	return start >= 0 && end >= 0 && start < end
}

// Contains returns true if other lies fully inside w
func (w TimeWindow) Contains(other TimeWindow) bool {
	return w.Start.Minutes() <= other.Start.Minutes() && other.End.Minutes() <= w.End.Minutes()
}

// TimeSlot a bookable slot with computed availability
type TimeSlot struct {
	StartTime     types.TimeString `json:"start_time"`
	EndTime       types.TimeString `json:"end_time"`
	Available     bool             `json:"available"`
	StaffMemberID *int64           `json:"staff_member_id,omitempty"`
}

// DayAvailability slots of one day for one service (and staff member)
type DayAvailability struct {
	Date      time.Time  `json:"date"`
	DayOfWeek int        `json:"day_of_week"`
	Slots     []TimeSlot `json:"time_slots"`
}

// AvailableCount returns the number of available slots
func (d *DayAvailability) AvailableCount() int {
	count := 0
	for _, s := range d.Slots {
		if s.Available {
			count++
		}
	}
	return count
}
