package domain

import "time"

// Policy per-venue timing thresholds
type Policy struct {
	BookingAdvanceDays  int
	BookingAdvanceHours int
	CancellationHours   int
	RequirePhone        bool
}

// PolicyPatch partial policy update; nil fields are left unchanged
type PolicyPatch struct {
	BookingAdvanceDays  *int
	BookingAdvanceHours *int
	CancellationHours   *int
	RequirePhone        *bool
}

// IsEmpty returns true if the patch changes nothing
func (p PolicyPatch) IsEmpty() bool {
	return p.BookingAdvanceDays == nil && p.BookingAdvanceHours == nil &&
		p.CancellationHours == nil && p.RequirePhone == nil
}

// MeetsAdvanceNotice reports whether a start at hoursUntil satisfies booking_advance_hours
func (p Policy) MeetsAdvanceNotice(hoursUntil float64) bool {
	return hoursUntil >= float64(p.BookingAdvanceHours)
}

// AllowsCancellation reports whether a start at hoursUntil satisfies cancellation_hours
func (p Policy) AllowsCancellation(hoursUntil float64) bool {
	return hoursUntil >= float64(p.CancellationHours)
}

// EarliestStart returns the first instant that satisfies booking_advance_hours
func (p Policy) EarliestStart(now time.Time) time.Time {
	return now.Add(time.Duration(p.BookingAdvanceHours) * time.Hour)
}

// WithinHorizon reports whether date is inside booking_advance_days counted from today
func (p Policy) WithinHorizon(date, today time.Time) bool {
	if p.BookingAdvanceDays <= 0 {
		return true
	}
	last := DateOnly(today).AddDate(0, 0, p.BookingAdvanceDays)
	return !DateOnly(date).After(last)
}
