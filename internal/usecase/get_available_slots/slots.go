package get_available_slots

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/pkg/ptr"
)

// mergeStaffSlots объединяет слоты нескольких сотрудников.
// Слот доступен, если свободен хотя бы один сотрудник; staff_member_id - первый свободный
// в порядке списка.
func mergeStaffSlots(perStaff [][]domain.TimeSlot) []domain.TimeSlot {
	type slotKey struct{ start, end string }

	index := make(map[slotKey]int)
	merged := make([]domain.TimeSlot, 0)

	for _, staffSlots := range perStaff {
		for _, slot := range staffSlots {
			key := slotKey{start: slot.StartTime.String(), end: slot.EndTime.String()}

			i, ok := index[key]
			if !ok {
				index[key] = len(merged)
				merged = append(merged, slot)
				continue
			}
			if !merged[i].Available && slot.Available {
				merged[i].Available = true
				merged[i].StaffMemberID = slot.StaffMemberID
			}
		}
	}

	sort.SliceStable(merged, func(a, b int) bool {
		if merged[a].StartTime.Minutes() != merged[b].StartTime.Minutes() {
			return merged[a].StartTime.Minutes() < merged[b].StartTime.Minutes()
		}
		return merged[a].EndTime.Minutes() < merged[b].EndTime.Minutes()
	})

	for i := range merged {
		if !merged[i].Available {
			merged[i].StaffMemberID = nil
		}
	}
	return merged
}

// withStaff проставляет сотрудника свободным слотам
func withStaff(slots []domain.TimeSlot, staffMemberID int64) []domain.TimeSlot {
	for i := range slots {
		if slots[i].Available {
			slots[i].StaffMemberID = ptr.Ptr(staffMemberID)
		}
	}
	return slots
}

// maskBeforeEarliestStart помечает недоступными слоты, начинающиеся раньше допустимого времени.
// Возвращает копию: исходные слоты могут лежать в кэше.
func maskBeforeEarliestStart(slots []domain.TimeSlot, date time.Time, earliest time.Time, loc *time.Location) []domain.TimeSlot {
	result := make([]domain.TimeSlot, len(slots))
	copy(result, slots)

	for i := range result {
		if result[i].StartTime.On(date, loc).Before(earliest) {
			result[i].Available = false
			result[i].StaffMemberID = nil
		}
	}
	return result
}
