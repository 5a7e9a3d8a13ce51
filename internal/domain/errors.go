package domain

import "errors"

var (
	ErrInvalidWorkingHours = errors.New("domain: invalid working hours")
	ErrInvalidCustomField  = errors.New("domain: invalid custom field")
	ErrRequiredField       = errors.New("domain: required field is missing")
	ErrInvalidFieldAnswer  = errors.New("domain: invalid field answer")
	ErrInvalidCustomURL    = errors.New("domain: invalid custom url")
)
