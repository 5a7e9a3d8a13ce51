package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrDateInPast         = errors.New("domain: date is in the past")
	ErrDateTooFarInFuture = errors.New("domain: date is too far in the future")
)

// BookingPolicy limits which days and slots customers may book
type BookingPolicy struct {
	AdvanceBookingDays int // 0 = unlimited
	MinNoticeMinutes   int
}

// CivilDate drops the clock and location of t, keeping its calendar day
func CivilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ValidateDate rejects days before today and, when limited, days beyond the
// advance booking window. now is the business-local current time.
func (p BookingPolicy) ValidateDate(date, now time.Time) error {
	day := CivilDate(date)
	today := CivilDate(now)

	if day.Before(today) {
		return ErrDateInPast
	}
	if p.AdvanceBookingDays > 0 && day.After(today.AddDate(0, 0, p.AdvanceBookingDays)) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, p.AdvanceBookingDays)
	}
	return nil
}

// earliestStart returns the first bookable minute of date, or -1 when the
// whole day is bookable
func (p BookingPolicy) earliestStart(date, now time.Time) int {
	if !CivilDate(date).Equal(CivilDate(now)) {
		return -1
	}
	return now.Hour()*60 + now.Minute() + p.MinNoticeMinutes
}

// FilterNotice drops slots of today that start before now + MinNoticeMinutes.
// Slots of other days are returned unchanged.
func (p BookingPolicy) FilterNotice(date, now time.Time, slots []TimeSlot) []TimeSlot {
	earliest := p.earliestStart(date, now)
	if earliest < 0 {
		return slots
	}

	out := make([]TimeSlot, 0, len(slots))
	for _, s := range slots {
		if s.StartTime.Minutes() >= earliest {
			out = append(out, s)
		}
	}
	return out
}

// TooLateToBook reports whether a slot of date starting at startMinutes is
// inside the notice window
func (p BookingPolicy) TooLateToBook(date, now time.Time, startMinutes int) bool {
	earliest := p.earliestStart(date, now)
	return earliest >= 0 && startMinutes < earliest
}
