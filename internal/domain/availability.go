package domain

import (
	"time"

	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

// AvailabilityRule recurring weekly working window.
// StaffMemberID == nil means a venue-level rule.
type AvailabilityRule struct {
	ID              int64
	VenueID         int64
	StaffMemberID   *int64
	StaffMemberName *string
	DayOfWeek       int // 0 = Sunday
	StartTime       types.TimeString
	EndTime         types.TimeString
	IsActive        bool
}

// Window returns the rule interval
func (r *AvailabilityRule) Window() TimeWindow {
	return TimeWindow{Start: r.StartTime, End: r.EndTime}
}

// AppliesTo reports whether the rule is active for the weekday at the given level
func (r *AvailabilityRule) AppliesTo(weekday time.Weekday, staffMemberID *int64) bool {
	if !r.IsActive || r.DayOfWeek != int(weekday) {
		return false
	}
	if staffMemberID == nil {
		return r.StaffMemberID == nil
	}
	return r.StaffMemberID != nil && *r.StaffMemberID == *staffMemberID
}

// AvailabilityRulePatch partial rule update
type AvailabilityRulePatch struct {
	DayOfWeek *int
	StartTime *types.TimeString
	EndTime   *types.TimeString
	IsActive  *bool
}
