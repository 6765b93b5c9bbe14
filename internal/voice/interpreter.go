package voice

import (
	"regexp"
	"sort"
	"strings"

	"github.com/hearthhome/hearth-core/internal/device"
)

// Command is a parsed voice instruction ready for dispatch.
type Command struct {
	DeviceID   string
	DeviceName string
	Action     device.Action
}

// Action phrases, tried in order. "unlock" must be tested before "lock"
// because every unlock phrase also contains "lock".
var (
	turnOnRe  = regexp.MustCompile(`\b(turn on|switch on|on the)\b`)
	turnOffRe = regexp.MustCompile(`\b(turn off|switch off|off the)\b`)
	unlockRe  = regexp.MustCompile(`\bunlock\b`)
	lockRe    = regexp.MustCompile(`\block\b`)
)

// Interpret parses a transcript against the known devices.
//
// Matching is best effort and device-first: the transcript is
// lowercased, the target is the first registered device (in ascending
// name order, for stable results) whose name appears in the text, and
// only then is the action resolved by phrase patterns. A transcript
// naming no device is rejected as device-not-found even when it also
// contains no action phrase.
func Interpret(transcript string, devices map[string]device.Device) (Command, error) {
	text := strings.ToLower(transcript)

	ordered := make([]device.Device, 0, len(devices))
	for _, d := range devices {
		ordered = append(ordered, d)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Name < ordered[j].Name })

	var target *device.Device
	for i, d := range ordered {
		name := strings.ToLower(d.Name)
		spokenID := strings.ReplaceAll(d.ID, "_", " ")
		if strings.Contains(text, name) || strings.Contains(text, spokenID) {
			target = &ordered[i]
			break
		}
	}
	if target == nil {
		return Command{}, ErrDeviceNotFound
	}

	var action device.Action
	switch {
	case turnOnRe.MatchString(text):
		action = device.ActionTurnOn
	case turnOffRe.MatchString(text):
		action = device.ActionTurnOff
	case unlockRe.MatchString(text):
		action = device.ActionUnlock
	case lockRe.MatchString(text):
		action = device.ActionLock
	default:
		return Command{}, ErrNoAction
	}

	return Command{DeviceID: target.ID, DeviceName: target.Name, Action: action}, nil
}
