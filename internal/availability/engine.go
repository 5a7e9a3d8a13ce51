// Package availability computes the bookable time slots of a business day.
//
// ComputeSlots is pure: it reads only its arguments, keeps no state and is
// safe for concurrent use. Times are compared as minutes since midnight.
package availability

import (
	"fmt"
	"time"

	"github.com/m04kA/appointweb-booking/internal/domain"
	"github.com/m04kA/appointweb-booking/pkg/types"
)

// BufferMinutes is the step between consecutive slot start times,
// independent of the service duration.
const BufferMinutes = 15

type interval struct {
	start, end int
}

func (i interval) overlaps(other interval) bool {
	return i.start < other.end && i.end > other.start
}

// ComputeSlots returns the slots of date for a service of durationMinutes.
//
// Slots start at the opening time and step by BufferMinutes while the slot
// still ends at or before closing. A slot is unavailable when its [start, end)
// interval intersects the [time, time+duration) interval of any booking on date.
// Bookings on other dates are ignored. A closed or missing day yields an empty
// result, as does an open day whose start is not before its end.
//
// On error no slots are returned.
func ComputeSlots(date time.Time, hours domain.WorkingHours, bookings []Booking, durationMinutes int) ([]domain.TimeSlot, error) {
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDuration, durationMinutes)
	}

	weekday := domain.WeekdayOf(date)
	day, ok := hours[weekday]
	if !ok || !day.IsOpen {
		return []domain.TimeSlot{}, nil
	}

	open, err := parseField(fmt.Sprintf("workingHours.%s.start", weekday), day.Start)
	if err != nil {
		return nil, err
	}
	closing, err := parseField(fmt.Sprintf("workingHours.%s.end", weekday), day.End)
	if err != nil {
		return nil, err
	}

	busy, err := busyIntervals(date.Format(domain.DateFormat), bookings)
	if err != nil {
		return nil, err
	}

	if !open.IsBefore(closing) {
		return []domain.TimeSlot{}, nil
	}

	slots := make([]domain.TimeSlot, 0, (closing.Minutes()-open.Minutes())/BufferMinutes+1)
	for start := open.Minutes(); start+durationMinutes <= closing.Minutes(); start += BufferMinutes {
		slot := interval{start: start, end: start + durationMinutes}

		available := true
		for _, b := range busy {
			if slot.overlaps(b) {
				available = false
				break
			}
		}

		slots = append(slots, domain.TimeSlot{
			StartTime: types.TimeOfDay(slot.start),
			EndTime:   types.TimeOfDay(slot.end),
			Available: available,
		})
	}

	return slots, nil
}

// busyIntervals parses every booking and keeps those on day
func busyIntervals(day string, bookings []Booking) ([]interval, error) {
	busy := make([]interval, 0, len(bookings))
	for i, b := range bookings {
		bookingDate, err := time.Parse(domain.DateFormat, b.Date)
		if err != nil {
			return nil, &MalformedTimeError{Field: fmt.Sprintf("appointments[%d].date", i), Value: b.Date, Err: err}
		}
		start, err := parseField(fmt.Sprintf("appointments[%d].time", i), b.Time)
		if err != nil {
			return nil, err
		}
		if b.DurationMinutes <= 0 {
			return nil, fmt.Errorf("%w: appointments[%d].duration=%d", ErrMalformedAppointment, i, b.DurationMinutes)
		}

		if bookingDate.Format(domain.DateFormat) != day {
			continue
		}
		busy = append(busy, interval{start: start.Minutes(), end: start.Minutes() + b.DurationMinutes})
	}
	return busy, nil
}

func parseField(field, value string) (types.TimeOfDay, error) {
	t, err := types.ParseTimeOfDay(value)
	if err != nil {
		return 0, &MalformedTimeError{Field: field, Value: value, Err: err}
	}
	return t, nil
}
