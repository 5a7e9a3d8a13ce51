package domain

import "github.com/m04kA/appointweb-booking/pkg/types"

// TimeSlot is a candidate appointment interval. EndTime is StartTime plus the
// requested service duration. Slots are computed per request and never stored.
type TimeSlot struct {
	StartTime types.TimeOfDay
	EndTime   types.TimeOfDay
	Available bool
}

// FindSlot returns the slot starting exactly at start
func FindSlot(slots []TimeSlot, start types.TimeOfDay) (TimeSlot, bool) {
	for _, s := range slots {
		if s.StartTime == start {
			return s, true
		}
	}
	return TimeSlot{}, false
}

// CountAvailable returns the number of free slots
func CountAvailable(slots []TimeSlot) int {
	n := 0
	for _, s := range slots {
		if s.Available {
			n++
		}
	}
	return n
}
