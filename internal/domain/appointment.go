package domain

import (
	"time"

	"github.com/m04kA/appointweb-booking/pkg/types"
)

// AppointmentStatus is the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Customer holds the contact details submitted with the booking form
type Customer struct {
	Name  string
	Email string
	Phone *string
}

// Appointment is a booked interval of a business day
type Appointment struct {
	ID          string
	BusinessID  string
	ServiceID   string
	ServiceName string

	Date            time.Time // calendar day, time part is zero
	StartTime       types.TimeOfDay
	DurationMinutes int
	Status          AppointmentStatus

	Customer     Customer
	Notes        *string
	CustomFields map[string]string // custom field id -> answer

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive reports whether the appointment still occupies its interval
func (a *Appointment) IsActive() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// CanBeCancelled returns true for pending and confirmed appointments
func (a *Appointment) CanBeCancelled() bool {
	return a.IsActive()
}

// EndTime returns the end of the booked interval. The interval never
// crosses midnight because slots are generated inside working hours.
func (a *Appointment) EndTime() types.TimeOfDay {
	return a.StartTime + types.TimeOfDay(a.DurationMinutes)
}

// DateString formats the appointment day as YYYY-MM-DD
func (a *Appointment) DateString() string {
	return a.Date.Format(DateFormat)
}

// StartsAt combines the day and the start time in loc
func (a *Appointment) StartsAt(loc *time.Location) time.Time {
	day := time.Date(a.Date.Year(), a.Date.Month(), a.Date.Day(), 0, 0, 0, 0, loc)
	return a.StartTime.OnDate(day)
}
