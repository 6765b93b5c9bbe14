package voice

import (
	"context"
	"errors"
	"strings"

	"github.com/hearthhome/hearth-core/internal/device"
	"github.com/hearthhome/hearth-core/internal/notify"
)

// Devices is the registry surface the controller dispatches against.
// *device.Registry satisfies it.
type Devices interface {
	Snapshot() map[string]device.Device
	Toggle(ctx context.Context, id string, on bool, source device.Source) (device.Device, error)
	ToggleLock(ctx context.Context, id string, locked bool, source device.Source) (device.Device, error)
}

// Controller turns transcripts into device mutations.
type Controller struct {
	devices Devices
	queue   *notify.Queue
}

// NewController wires the interpreter to a device registry.
func NewController(devices Devices, queue *notify.Queue) *Controller {
	return &Controller{devices: devices, queue: queue}
}

// HandleTranscript processes one voice transcript end to end.
//
// The raw (lowercased) transcript is always acknowledged with a
// notification, whether or not it parses. Rejections queue a second
// notification naming the failure and return the parse error; a parsed
// command dispatches as a voice-sourced mutation.
func (c *Controller) HandleTranscript(ctx context.Context, transcript string) (Command, error) {
	lowered := strings.ToLower(strings.TrimSpace(transcript))
	if err := c.queue.Push(ctx, "Voice recognized: "+lowered); err != nil {
		return Command{}, err
	}

	cmd, err := Interpret(lowered, c.devices.Snapshot())
	switch {
	case errors.Is(err, ErrDeviceNotFound):
		if perr := c.queue.Push(ctx, "Device not found in voice command."); perr != nil {
			return Command{}, perr
		}
		return Command{}, err
	case errors.Is(err, ErrNoAction):
		if perr := c.queue.Push(ctx, "Could not parse voice action."); perr != nil {
			return Command{}, perr
		}
		return Command{}, err
	case err != nil:
		return Command{}, err
	}

	switch cmd.Action {
	case device.ActionTurnOn:
		_, err = c.devices.Toggle(ctx, cmd.DeviceID, true, device.SourceVoice)
	case device.ActionTurnOff:
		_, err = c.devices.Toggle(ctx, cmd.DeviceID, false, device.SourceVoice)
	case device.ActionLock:
		_, err = c.devices.ToggleLock(ctx, cmd.DeviceID, true, device.SourceVoice)
	case device.ActionUnlock:
		_, err = c.devices.ToggleLock(ctx, cmd.DeviceID, false, device.SourceVoice)
	}
	if err != nil {
		return Command{}, err
	}
	return cmd, nil
}
