package domain

// Default values
const (
	DefaultServiceCapacity   = 1
	DefaultBookingsPageLimit = 50
)

// Business validation constants
const (
	MinPolicyHours              = 0
	MaxPolicyHours              = 8760 // 1 year
	MaxBookingAdvanceDays       = 365
	MaxBookingsPageLimit        = 200
	MaxServiceNameLength        = 255
	MaxCancellationReasonLength = 500
)

// DateFormat calendar date layout (YYYY-MM-DD)
const DateFormat = "2006-01-02"

// BlockingStatuses statuses that occupy a slot
var BlockingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}

// BlockingStatusStrings BlockingStatuses as strings for SQL filters
func BlockingStatusStrings() []string {
	out := make([]string, len(BlockingStatuses))
	for i, s := range BlockingStatuses {
		out[i] = string(s)
	}
	return out
}
