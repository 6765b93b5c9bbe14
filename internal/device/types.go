package device

import (
	"regexp"
	"strings"
)

// Type classifies a device for rendering and command dispatch.
type Type string

const (
	TypeLight      Type = "light"
	TypeThermostat Type = "thermostat"
	TypeLock       Type = "lock"
	TypeCamera     Type = "camera"
	TypeOther      Type = "other"
)

// Action is a state mutation applied to a device.
type Action string

const (
	ActionTurnOn  Action = "turn_on"
	ActionTurnOff Action = "turn_off"
	ActionLock    Action = "lock"
	ActionUnlock  Action = "unlock"
)

// Source identifies what initiated a mutation.
type Source string

const (
	SourceUI    Source = "ui"
	SourceVoice Source = "voice"
)

// Device is a single controllable entity on the panel.
//
// On is the only live state bit. Locks reuse it with inverted meaning:
// On reports whether the lock is disengaged (unlocked).
type Device struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Type     Type     `json:"type"`
	Room     string   `json:"room"`
	On       bool     `json:"on"`
	Temp     *float64 `json:"temp,omitempty"`
	LastSeen string   `json:"lastSeen"`
}

var slugSeparators = regexp.MustCompile(`\s+`)

// Slug derives a device identifier from its display name: trimmed,
// lowercased, whitespace runs collapsed to single underscores.
func Slug(name string) string {
	return slugSeparators.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
}
