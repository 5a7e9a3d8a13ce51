package domain

// Defaults for a newly registered business
const (
	DefaultOpeningTime = "09:00"
	DefaultClosingTime = "17:00"
)

// Business validation constants
const (
	MinServiceDurationMinutes   = 5
	MaxServiceDurationMinutes   = 480 // 8 hours
	MaxNameLength               = 200
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxCustomFields             = 20
	MaxFieldAnswerLength        = 1000
	MaxCustomURLLength          = MaxNameLength
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses are the statuses of appointments that occupy their interval.
// Only these are passed to the availability engine.
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}
