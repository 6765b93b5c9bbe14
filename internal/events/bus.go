package events

import (
	"sync"
	"time"
)

// Type identifies a category of mutation event.
type Type string

// Event types published by the core. The rendering layer subscribes to
// these instead of the state logic reaching into display code.
const (
	TypeDeviceStateChanged Type = "device_state_changed"
	TypeDeviceAdded        Type = "device_added"
	TypeScheduleCreated    Type = "schedule_created"
	TypeLogAppended        Type = "log_appended"
	TypeNotificationPushed Type = "notification_pushed"
	TypeProfileUpdated     Type = "profile_updated"
	TypeThemeChanged       Type = "theme_changed"
)

// Event is a typed mutation notification.
type Event struct {
	Type      Type      `json:"type"`
	EntityID  string    `json:"entity_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// Handler receives published events.
type Handler func(Event)

// Bus is a synchronous in-process event bus connecting state mutations to
// their observers (the rendering layer, badges, selects).
//
// Dispatch is synchronous and in subscription order: Publish returns only
// after every interested handler has run. This preserves the mutation
// ordering guarantee (persist, then log, then notify, then reconcile)
// without any queueing, which matches the single-threaded event-driven
// model of the panel.
//
// Thread Safety: Subscribe and Publish are safe for concurrent use,
// though the panel drives everything from one goroutine.
type Bus struct {
	mu   sync.RWMutex
	subs map[Type][]Handler
	all  []Handler
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[Type][]Handler),
	}
}

// Subscribe registers a handler for the given event types.
// With no types, the handler receives every event.
func (b *Bus) Subscribe(h Handler, types ...Type) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(types) == 0 {
		b.all = append(b.all, h)
		return
	}
	for _, t := range types {
		b.subs[t] = append(b.subs[t], h)
	}
}

// Publish delivers the event to all matching handlers, synchronously.
// A zero Timestamp is stamped with the current time.
func (b *Bus) Publish(e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.all)+len(b.subs[e.Type]))
	handlers = append(handlers, b.all...)
	handlers = append(handlers, b.subs[e.Type]...)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}
