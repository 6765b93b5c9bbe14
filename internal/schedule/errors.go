package schedule

import "errors"

var (
	// ErrMissingTime is returned when a schedule has no time of day.
	ErrMissingTime = errors.New("schedule: missing time")

	// ErrMissingDevice is returned when a schedule names no device.
	ErrMissingDevice = errors.New("schedule: missing device")

	// ErrMissingAction is returned when a schedule has no action.
	ErrMissingAction = errors.New("schedule: missing action")
)
