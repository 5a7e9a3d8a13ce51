package availability

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDuration      = errors.New("availability: service duration must be a positive number of minutes")
	ErrMalformedTime        = errors.New("availability: malformed time")
	ErrMalformedAppointment = errors.New("availability: malformed appointment")
)

// MalformedTimeError names the input field that failed to parse
type MalformedTimeError struct {
	Field string
	Value string
	Err   error
}

func (e *MalformedTimeError) Error() string {
	return fmt.Sprintf("%v: %s=%q: %v", ErrMalformedTime, e.Field, e.Value, e.Err)
}

func (e *MalformedTimeError) Is(target error) bool {
	return target == ErrMalformedTime
}

func (e *MalformedTimeError) Unwrap() error {
	return e.Err
}
