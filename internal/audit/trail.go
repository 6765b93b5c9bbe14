package audit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hearthhome/hearth-core/internal/events"
	"github.com/hearthhome/hearth-core/internal/store"
)

// TimeLayout is the display timestamp format used across the panel,
// e.g. "2026-08-29 14:05:01".
const TimeLayout = "2006-01-02 15:04:05"

// OwnerUser is the single user attributed to every entry.
// The panel has no multi-user support.
const OwnerUser = "Owner"

// Timestamp formats t in the panel's display layout.
func Timestamp(t time.Time) string {
	return t.Format(TimeLayout)
}

// Entry is a single audit trail record.
//
// Device holds the display name rather than the id. This denormalisation
// is intentional: history must survive device deletion and rename.
type Entry struct {
	ID     string `json:"id"`
	Time   string `json:"time"`
	Device string `json:"device"`
	Action string `json:"action"`
	User   string `json:"user"`
}

// Store defines the persistence interface the trail needs.
// Satisfied by *store.Store; mock implementations are used in tests.
type Store interface {
	Load(ctx context.Context, key string, dest any) (bool, error)
	Save(ctx context.Context, key string, value any) error
}

// Trail is the append-only audit log, most recent first.
//
// Every state-changing operation produces exactly one entry, and the
// entry is persisted before any refresh event is published. Entries are
// never trimmed: the display caps what it shows, persistence keeps
// everything.
//
// All public methods are thread-safe.
type Trail struct {
	mu      sync.Mutex
	store   Store
	bus     *events.Bus
	entries []Entry
}

// NewTrail creates a trail persisting under the logs collection key.
func NewTrail(st Store, bus *events.Bus) *Trail {
	return &Trail{
		store: st,
		bus:   bus,
	}
}

// Init loads previously persisted entries. Absent or malformed data
// starts the trail empty.
func (t *Trail) Init(ctx context.Context) error {
	var entries []Entry
	ok, err := t.store.Load(ctx, store.KeyLogs, &entries)
	if err != nil {
		return fmt.Errorf("loading audit trail: %w", err)
	}
	if !ok {
		entries = nil
	}

	t.mu.Lock()
	t.entries = entries
	t.mu.Unlock()
	return nil
}

// Append records an entry stamped with the current time.
func (t *Trail) Append(ctx context.Context, device, action string) (Entry, error) {
	return t.AppendAt(ctx, Timestamp(time.Now()), device, action)
}

// AppendAt records an entry with an explicit timestamp. Mutation paths
// use this so the entry and its paired notification share one timestamp.
//
// The full collection is persisted before the log-appended event is
// published; if persistence fails, no entry is recorded and no event
// is emitted.
func (t *Trail) AppendAt(ctx context.Context, at, device, action string) (Entry, error) {
	entry := Entry{
		ID:     "aud-" + uuid.NewString()[:8],
		Time:   at,
		Device: device,
		Action: action,
		User:   OwnerUser,
	}

	t.mu.Lock()
	entries := make([]Entry, 0, len(t.entries)+1)
	entries = append(entries, entry)
	entries = append(entries, t.entries...)

	if err := t.store.Save(ctx, store.KeyLogs, entries); err != nil {
		t.mu.Unlock()
		return Entry{}, fmt.Errorf("persisting audit trail: %w", err)
	}
	t.entries = entries
	t.mu.Unlock()

	t.bus.Publish(events.Event{
		Type:     events.TypeLogAppended,
		EntityID: entry.ID,
		Payload:  entry,
	})
	return entry, nil
}

// Entries returns a copy of all entries, most recent first.
func (t *Trail) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t *Trail) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
