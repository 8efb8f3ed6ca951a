// Package scheduling holds the pure availability computations: working windows
// of a day, fixed-duration slots inside them and capacity-aware conflict marking.
package scheduling

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

// WindowsForDay returns the merged working windows of date at the requested level:
// venue-level rules when staffMemberID is nil, that staff member's rules otherwise.
// No matching rule yields an empty result.
func WindowsForDay(rules []*domain.AvailabilityRule, date time.Time, staffMemberID *int64) []domain.TimeWindow {
	weekday := date.Weekday()

	windows := make([]domain.TimeWindow, 0, len(rules))
	for _, rule := range rules {
		if rule.AppliesTo(weekday, staffMemberID) {
			windows = append(windows, rule.Window())
		}
	}

	return MergeWindows(windows)
}

// MergeWindows drops invalid windows and merges overlapping or adjacent ones
// into disjoint intervals ordered by start.
func MergeWindows(windows []domain.TimeWindow) []domain.TimeWindow {
	valid := make([]domain.TimeWindow, 0, len(windows))
	for _, w := range windows {
		if w.IsValid() {
			valid = append(valid, w)
		}
	}
	if len(valid) == 0 {
		return []domain.TimeWindow{}
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].Start.Minutes() < valid[j].Start.Minutes()
	})

	merged := []domain.TimeWindow{valid[0]}
	for _, w := range valid[1:] {
		last := &merged[len(merged)-1]
		if w.Start.Minutes() <= last.End.Minutes() {
			if w.End.Minutes() > last.End.Minutes() {
				last.End = w.End
			}
			continue
		}
		merged = append(merged, w)
	}

	return merged
}

// Covers reports whether slot lies fully inside one of the windows
func Covers(windows []domain.TimeWindow, slot domain.TimeWindow) bool {
	for _, w := range windows {
		if w.Contains(slot) {
			return true
		}
	}
	return false
}

// window builds a TimeWindow from minute offsets; offsets are assumed valid
func window(start, end int) domain.TimeWindow {
	s, _ := types.FromMinutes(start)
	e, _ := types.FromMinutes(end)
	return domain.TimeWindow{Start: s, End: e}
}
