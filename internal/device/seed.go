package device

import (
	"time"

	"github.com/hearthhome/hearth-core/internal/audit"
)

// seedDevices returns the registry contents for a first run, before any
// persisted state exists. A fresh panel starts with one light already
// on, a hall thermostat, and a locked front door.
func seedDevices(now time.Time) map[string]*Device {
	stamp := audit.Timestamp(now)
	temp := 22.0

	return map[string]*Device{
		"living_room_light": {
			ID:       "living_room_light",
			Name:     "Living Room Light",
			Type:     TypeLight,
			Room:     "living",
			On:       true,
			LastSeen: stamp,
		},
		"thermostat_hall": {
			ID:       "thermostat_hall",
			Name:     "Thermostat • Hall",
			Type:     TypeThermostat,
			Room:     "hall",
			On:       false,
			Temp:     &temp,
			LastSeen: stamp,
		},
		"front_door_lock": {
			ID:       "front_door_lock",
			Name:     "Front Door Lock",
			Type:     TypeLock,
			Room:     "living",
			On:       false,
			LastSeen: stamp,
		},
	}
}
