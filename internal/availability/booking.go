package availability

import "github.com/m04kA/appointweb-booking/internal/domain"

// Booking is an existing appointment as seen by the engine.
// Date is "YYYY-MM-DD", Time is "HH:MM".
type Booking struct {
	Date            string
	Time            string
	DurationMinutes int
}

// FromAppointments converts active appointments into engine input.
// Cancelled appointments free their interval and are skipped.
func FromAppointments(appts []*domain.Appointment) []Booking {
	out := make([]Booking, 0, len(appts))
	for _, a := range appts {
		if a == nil || !a.IsActive() {
			continue
		}
		out = append(out, Booking{
			Date:            a.DateString(),
			Time:            a.StartTime.String(),
			DurationMinutes: a.DurationMinutes,
		})
	}
	return out
}
