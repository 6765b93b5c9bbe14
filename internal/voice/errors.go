package voice

import "errors"

var (
	// ErrDeviceNotFound is returned when no registered device name
	// appears in the transcript.
	ErrDeviceNotFound = errors.New("voice: device not found")

	// ErrNoAction is returned when the transcript contains no
	// recognised action phrase.
	ErrNoAction = errors.New("voice: could not parse action")
)
