package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// MinutesPerDay is the number of minutes in a wall-clock day.
const MinutesPerDay = 24 * 60

var (
	// ErrInvalidTimeFormat is returned when a value is not a zero-padded 24-hour "HH:MM"
	ErrInvalidTimeFormat = errors.New("types: invalid time format, expected HH:MM")

	// ErrTimeOutOfRange is returned when arithmetic leaves the [00:00, 23:59] range
	ErrTimeOutOfRange = errors.New("types: time is out of day range")
)

// TimeOfDay is a local wall-clock time stored as minutes since midnight.
// It is parsed from and formatted to "HH:MM" only at the boundaries, so comparisons
// and overlap arithmetic are done on integers.
type TimeOfDay int

// ParseTimeOfDay parses a strict zero-padded "HH:MM" string
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	hours, ok := parseTwoDigits(s[0:2])
	if !ok || hours > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	minutes, ok := parseTwoDigits(s[3:5])
	if !ok || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	return TimeOfDay(hours*60 + minutes), nil
}

// MustParseTimeOfDay is ParseTimeOfDay for constants and tests. It panics on bad input.
func MustParseTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// NewTimeOfDay takes the wall-clock hours and minutes of t, dropping seconds
func NewTimeOfDay(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

// TimeOfDayFromMinutes validates a minutes-since-midnight value
func TimeOfDayFromMinutes(minutes int) (TimeOfDay, error) {
	if minutes < 0 || minutes >= MinutesPerDay {
		return 0, fmt.Errorf("%w: %d minutes", ErrTimeOutOfRange, minutes)
	}
	return TimeOfDay(minutes), nil
}

// Minutes returns the number of minutes since midnight
func (t TimeOfDay) Minutes() int {
	return int(t)
}

// String formats the value as "HH:MM"
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// AddMinutes shifts the time, failing when the result leaves the day
func (t TimeOfDay) AddMinutes(minutes int) (TimeOfDay, error) {
	return TimeOfDayFromMinutes(int(t) + minutes)
}

// IsBefore reports whether t is strictly earlier than other
func (t TimeOfDay) IsBefore(other TimeOfDay) bool {
	return t < other
}

// IsAfter reports whether t is strictly later than other
func (t TimeOfDay) IsAfter(other TimeOfDay) bool {
	return t > other
}

// Validate checks that the value lies inside a day
func (t TimeOfDay) Validate() error {
	_, err := TimeOfDayFromMinutes(int(t))
	return err
}

// OnDate combines the time with the calendar day of date in date's location
func (t TimeOfDay) OnDate(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), int(t)/60, int(t)%60, 0, 0, date.Location())
}

// MarshalJSON encodes the value as an "HH:MM" string
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes an "HH:MM" string
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimeFormat, err)
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value stores the value in a PostgreSQL TIME column
func (t TimeOfDay) Value() (driver.Value, error) {
	return t.String() + ":00", nil
}

// Scan reads a PostgreSQL TIME column. lib/pq hands TIME values over as time.Time,
// other drivers as "HH:MM:SS" text.
func (t *TimeOfDay) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*t = NewTimeOfDay(v)
		return nil
	case string:
		return t.scanText(v)
	case []byte:
		return t.scanText(string(v))
	case nil:
		return fmt.Errorf("%w: NULL", ErrInvalidTimeFormat)
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidTimeFormat, src)
	}
}

func (t *TimeOfDay) scanText(s string) error {
	if len(s) >= 5 {
		s = s[:5]
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func parseTwoDigits(s string) (int, bool) {
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}
