package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/appointweb-booking/pkg/types"
)

// Weekday is a canonical lowercase English weekday name, the key of WorkingHours
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays in calendar order, Monday first
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// WeekdayOf maps a date to its WorkingHours key
func WeekdayOf(date time.Time) Weekday {
	return Weekday(strings.ToLower(date.Weekday().String()))
}

// IsValid reports whether w is one of the seven canonical names
func (w Weekday) IsValid() bool {
	for _, d := range Weekdays {
		if d == w {
			return true
		}
	}
	return false
}

// DaySchedule is the opening interval of one weekday.
// Start and End keep the stored "HH:MM" text; when IsOpen is false they are ignored.
type DaySchedule struct {
	IsOpen bool   `json:"isOpen"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

// WorkingHours is the weekly schedule of a business. A missing day is closed.
type WorkingHours map[Weekday]DaySchedule

// ForDate returns the schedule of the weekday date falls on
func (h WorkingHours) ForDate(date time.Time) (DaySchedule, bool) {
	day, ok := h[WeekdayOf(date)]
	return day, ok
}

// Validate checks an owner-submitted schedule. Closed days are not checked.
func (h WorkingHours) Validate() error {
	for day, sched := range h {
		if !day.IsValid() {
			return fmt.Errorf("%w: unknown weekday %q", ErrInvalidWorkingHours, day)
		}
		if !sched.IsOpen {
			continue
		}

		start, err := types.ParseTimeOfDay(sched.Start)
		if err != nil {
			return fmt.Errorf("%w: %s.start: %v", ErrInvalidWorkingHours, day, err)
		}
		end, err := types.ParseTimeOfDay(sched.End)
		if err != nil {
			return fmt.Errorf("%w: %s.end: %v", ErrInvalidWorkingHours, day, err)
		}
		if !start.IsBefore(end) {
			return fmt.Errorf("%w: %s: start %s is not before end %s", ErrInvalidWorkingHours, day, sched.Start, sched.End)
		}
	}
	return nil
}

// DefaultWorkingHours is assigned to a newly registered business:
// Monday to Friday 09:00-17:00, weekend closed.
func DefaultWorkingHours() WorkingHours {
	hours := make(WorkingHours, len(Weekdays))
	for _, day := range Weekdays {
		hours[day] = DaySchedule{
			IsOpen: day != Saturday && day != Sunday,
			Start:  DefaultOpeningTime,
			End:    DefaultClosingTime,
		}
	}
	return hours
}
