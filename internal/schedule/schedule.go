package schedule

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hearthhome/hearth-core/internal/audit"
	"github.com/hearthhome/hearth-core/internal/device"
	"github.com/hearthhome/hearth-core/internal/events"
	"github.com/hearthhome/hearth-core/internal/notify"
	"github.com/hearthhome/hearth-core/internal/store"
)

// Entry is a stored schedule row. Schedules are display-only: nothing
// executes them, and they keep their device reference by ID even if the
// device is later replaced.
type Entry struct {
	ID          string `json:"id"`
	Time        string `json:"time"`
	DeviceID    string `json:"deviceId"`
	Action      string `json:"action"`
	ActionLabel string `json:"actionLabel"`
	Created     string `json:"created"`
}

// Store is the persistence surface the registry needs.
// *store.Store satisfies it.
type Store interface {
	Load(ctx context.Context, key string, dest any) (bool, error)
	Save(ctx context.Context, key string, value any) error
}

// DeviceNames resolves device IDs to display data for schedule text.
// *device.Registry satisfies it.
type DeviceNames interface {
	Get(id string) (device.Device, bool)
}

// Registry owns the schedule collection, newest first.
type Registry struct {
	mu      sync.Mutex
	entries []Entry

	store   Store
	devices DeviceNames
	trail   *audit.Trail
	queue   *notify.Queue
	bus     *events.Bus
}

// NewRegistry creates an empty schedule registry. Call Init before use.
func NewRegistry(st Store, devices DeviceNames, trail *audit.Trail, queue *notify.Queue, bus *events.Bus) *Registry {
	return &Registry{
		store:   st,
		devices: devices,
		trail:   trail,
		queue:   queue,
		bus:     bus,
	}
}

// Init loads persisted schedules. Absent or unreadable state yields an
// empty registry.
func (r *Registry) Init(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var loaded []Entry
	if _, err := r.store.Load(ctx, store.KeySchedules, &loaded); err != nil {
		return fmt.Errorf("loading schedules: %w", err)
	}
	r.entries = loaded
	return nil
}

// Create validates and records a schedule. All three fields are
// required; an incomplete request records nothing at all.
func (r *Registry) Create(ctx context.Context, timeOfDay, deviceID, action string) (Entry, error) {
	if strings.TrimSpace(timeOfDay) == "" {
		return Entry{}, ErrMissingTime
	}
	if strings.TrimSpace(deviceID) == "" {
		return Entry{}, ErrMissingDevice
	}
	if strings.TrimSpace(action) == "" {
		return Entry{}, ErrMissingAction
	}

	name := deviceID
	if d, ok := r.devices.Get(deviceID); ok {
		name = d.Name
	}

	at := audit.Timestamp(time.Now())
	entry := Entry{
		ID:          "sch-" + uuid.NewString()[:8],
		Time:        timeOfDay,
		DeviceID:    deviceID,
		Action:      action,
		ActionLabel: Label(action),
		Created:     at,
	}

	r.mu.Lock()
	r.entries = append([]Entry{entry}, r.entries...)
	if err := r.store.Save(ctx, store.KeySchedules, r.entries); err != nil {
		r.entries = r.entries[1:]
		r.mu.Unlock()
		return Entry{}, fmt.Errorf("persisting schedule: %w", err)
	}
	r.mu.Unlock()

	summary := fmt.Sprintf("%s — %s — %s", entry.Time, name, entry.ActionLabel)
	if _, err := r.trail.AppendAt(ctx, at, "Schedule", "Created: "+summary); err != nil {
		return Entry{}, fmt.Errorf("logging schedule creation: %w", err)
	}
	r.queue.PushAt(at, "Created schedule: "+summary)

	r.bus.Publish(events.Event{
		Type:     events.TypeScheduleCreated,
		EntityID: entry.ID,
		Payload:  entry,
	})
	return entry, nil
}

// List returns the schedules, newest first.
func (r *Registry) List() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Len returns the number of schedules.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Label renders an action identifier for display: underscores become
// spaces and the result is uppercased, so "turn_on" reads "TURN ON".
func Label(action string) string {
	return strings.ToUpper(strings.ReplaceAll(action, "_", " "))
}
