package device

import "errors"

var (
	// ErrDeviceNotFound is returned when a mutation targets an unknown device ID.
	ErrDeviceNotFound = errors.New("device: not found")

	// ErrInvalidName is returned when a device name is empty after trimming.
	ErrInvalidName = errors.New("device: name must not be empty")
)
