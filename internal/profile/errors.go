package profile

import "errors"

// ErrInvalidTheme is returned when a theme is neither light nor dark.
var ErrInvalidTheme = errors.New("profile: invalid theme")
