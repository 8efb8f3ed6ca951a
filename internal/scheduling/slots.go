package scheduling

import (
	"fmt"
	"sort"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

// GenerateSlots cuts every window into consecutive slots of durationMinutes,
// starting at the window start. A slot never extends past its window end, so a
// window shorter than the duration produces nothing.
func GenerateSlots(windows []domain.TimeWindow, durationMinutes int) ([]domain.TimeWindow, error) {
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDuration, durationMinutes)
	}

	slots := make([]domain.TimeWindow, 0)
	for _, w := range windows {
		if !w.IsValid() {
			continue
		}
		end := w.End.Minutes()
		for start := w.Start.Minutes(); start+durationMinutes <= end; start += durationMinutes {
			slots = append(slots, window(start, start+durationMinutes))
		}
	}

	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Start.Minutes() < slots[j].Start.Minutes()
	})

	return slots, nil
}

// IsGeneratedSlot reports whether candidate is exactly one of the generated slots
func IsGeneratedSlot(slots []domain.TimeWindow, candidate domain.TimeWindow) bool {
	for _, s := range slots {
		if s.Start.Minutes() == candidate.Start.Minutes() && s.End.Minutes() == candidate.End.Minutes() {
			return true
		}
	}
	return false
}
