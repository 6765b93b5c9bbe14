package device

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hearthhome/hearth-core/internal/audit"
	"github.com/hearthhome/hearth-core/internal/events"
	"github.com/hearthhome/hearth-core/internal/notify"
	"github.com/hearthhome/hearth-core/internal/store"
)

// Store is the persistence surface the registry needs.
// *store.Store satisfies it.
type Store interface {
	Load(ctx context.Context, key string, dest any) (bool, error)
	Save(ctx context.Context, key string, value any) error
}

// Registry owns the device collection and its mutations.
//
// Every mutation is a single unit: the new state is persisted, exactly
// one audit entry and one notification are recorded with a shared
// timestamp, and only then are observers told to refresh. A persistence
// failure aborts the mutation with the previous state intact.
type Registry struct {
	mu      sync.RWMutex
	devices map[string]*Device

	store Store
	trail *audit.Trail
	queue *notify.Queue
	bus   *events.Bus
}

// NewRegistry creates an empty registry. Call Init before use.
func NewRegistry(st Store, trail *audit.Trail, queue *notify.Queue, bus *events.Bus) *Registry {
	return &Registry{
		devices: make(map[string]*Device),
		store:   st,
		trail:   trail,
		queue:   queue,
		bus:     bus,
	}
}

// Init loads the persisted device collection, seeding and persisting
// the defaults when nothing usable is stored.
func (r *Registry) Init(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var loaded map[string]*Device
	ok, err := r.store.Load(ctx, store.KeyDevices, &loaded)
	if err != nil {
		return fmt.Errorf("loading devices: %w", err)
	}
	if ok && len(loaded) > 0 {
		r.devices = loaded
		return nil
	}

	r.devices = seedDevices(time.Now())
	if err := r.store.Save(ctx, store.KeyDevices, r.devices); err != nil {
		return fmt.Errorf("persisting seed devices: %w", err)
	}
	return nil
}

// Get returns a copy of the device with the given ID.
func (r *Registry) Get(id string) (Device, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.devices[id]
	if !ok {
		return Device{}, false
	}
	return copyDevice(d), true
}

// Count returns the number of registered devices.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.devices)
}

// Snapshot returns a deep copy of every device keyed by ID.
func (r *Registry) Snapshot() map[string]Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]Device, len(r.devices))
	for id, d := range r.devices {
		out[id] = copyDevice(d)
	}
	return out
}

// SnapshotByRoom groups devices by room, sorted by display name within
// each room.
func (r *Registry) SnapshotByRoom() map[string][]Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string][]Device)
	for _, d := range r.devices {
		out[d.Room] = append(out[d.Room], copyDevice(d))
	}
	for room := range out {
		sort.Slice(out[room], func(i, j int) bool {
			return out[room][i].Name < out[room][j].Name
		})
	}
	return out
}

// Toggle switches a device on or off.
//
// The audit action reads "Turned On" or "Turned Off". Voice-initiated
// toggles carry a " (voice)" provenance suffix on both the audit action
// and the notification text.
func (r *Registry) Toggle(ctx context.Context, id string, on bool, source Source) (Device, error) {
	action := "Turned Off"
	text := "turned off"
	if on {
		action = "Turned On"
		text = "turned on"
	}
	return r.mutate(ctx, id, on, source, action, text)
}

// ToggleLock engages or disengages a lock. The On bit stores the
// inverted state: a locked lock is off.
func (r *Registry) ToggleLock(ctx context.Context, id string, locked bool, source Source) (Device, error) {
	action := "Unlocked"
	text := "unlocked"
	if locked {
		action = "Locked"
		text = "locked"
	}
	return r.mutate(ctx, id, !locked, source, action, text)
}

func (r *Registry) mutate(ctx context.Context, id string, on bool, source Source, action, text string) (Device, error) {
	r.mu.Lock()

	d, ok := r.devices[id]
	if !ok {
		r.mu.Unlock()
		return Device{}, ErrDeviceNotFound
	}

	at := audit.Timestamp(time.Now())
	prevOn, prevSeen := d.On, d.LastSeen
	d.On = on
	d.LastSeen = at

	if err := r.store.Save(ctx, store.KeyDevices, r.devices); err != nil {
		d.On, d.LastSeen = prevOn, prevSeen
		r.mu.Unlock()
		return Device{}, fmt.Errorf("persisting device state: %w", err)
	}
	updated := copyDevice(d)
	r.mu.Unlock()

	if source == SourceVoice {
		action += " (voice)"
		text += " (voice)"
	}
	if _, err := r.trail.AppendAt(ctx, at, updated.Name, action); err != nil {
		return Device{}, fmt.Errorf("logging device mutation: %w", err)
	}
	r.queue.PushAt(at, fmt.Sprintf("%s %s", updated.Name, text))

	r.bus.Publish(events.Event{
		Type:     events.TypeDeviceStateChanged,
		EntityID: updated.ID,
		Payload:  updated,
	})
	return updated, nil
}

// Create registers a new device, initially off.
//
// The ID is derived from the name; creating a device whose name slugs
// to an existing ID replaces that device.
func (r *Registry) Create(ctx context.Context, name string, typ Type, room string) (Device, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Device{}, ErrInvalidName
	}
	if typ == "" {
		typ = TypeOther
	}

	at := audit.Timestamp(time.Now())
	d := &Device{
		ID:       Slug(name),
		Name:     name,
		Type:     typ,
		Room:     room,
		On:       false,
		LastSeen: at,
	}

	r.mu.Lock()
	replaced := r.devices[d.ID]
	r.devices[d.ID] = d
	if err := r.store.Save(ctx, store.KeyDevices, r.devices); err != nil {
		if replaced != nil {
			r.devices[d.ID] = replaced
		} else {
			delete(r.devices, d.ID)
		}
		r.mu.Unlock()
		return Device{}, fmt.Errorf("persisting new device: %w", err)
	}
	created := copyDevice(d)
	r.mu.Unlock()

	if _, err := r.trail.AppendAt(ctx, at, "Device", "Added "+name); err != nil {
		return Device{}, fmt.Errorf("logging device creation: %w", err)
	}
	r.queue.PushAt(at, "Device added: "+name)

	r.bus.Publish(events.Event{
		Type:     events.TypeDeviceAdded,
		EntityID: created.ID,
		Payload:  created,
	})
	return created, nil
}

func copyDevice(d *Device) Device {
	out := *d
	if d.Temp != nil {
		temp := *d.Temp
		out.Temp = &temp
	}
	return out
}
