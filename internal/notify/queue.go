package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hearthhome/hearth-core/internal/audit"
	"github.com/hearthhome/hearth-core/internal/events"
)

// DefaultCapacity matches the dashboard's notification dropdown size.
const DefaultCapacity = 50

// Notification is a single human-readable event shown in the dropdown.
type Notification struct {
	At   string `json:"t"`
	Text string `json:"text"`
}

// Queue is the session-scoped notification ring, most recent first.
//
// Capacity is fixed: once full, pushing evicts the oldest notification.
// Nothing is lost by eviction because every notification either pairs
// with an audit entry (mutation path) or is echoed into the trail itself
// (standalone path).
//
// The queue does not survive reload; unlike the audit trail it is
// in-memory only.
type Queue struct {
	mu    sync.Mutex
	buf   []Notification
	next  int
	count int

	trail *audit.Trail
	bus   *events.Bus
}

// NewQueue creates a ring of the given capacity.
// A non-positive capacity falls back to DefaultCapacity.
func NewQueue(capacity int, trail *audit.Trail, bus *events.Bus) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{
		buf:   make([]Notification, capacity),
		trail: trail,
		bus:   bus,
	}
}

// Push records a standalone notification stamped with the current time.
//
// Standalone notifications have no backing mutation (voice feedback,
// command rejections, profile saves), so the push itself is echoed into
// the audit trail as a "Notification" entry before observers refresh.
func (q *Queue) Push(ctx context.Context, text string) error {
	at := audit.Timestamp(time.Now())
	if _, err := q.trail.AppendAt(ctx, at, "Notification", text); err != nil {
		return fmt.Errorf("logging notification: %w", err)
	}
	q.PushAt(at, text)
	return nil
}

// PushAt records a notification with an explicit timestamp and no audit
// echo. Mutation paths use this: the mutation already wrote its own
// audit entry, and the shared timestamp ties the two together.
func (q *Queue) PushAt(at, text string) {
	q.mu.Lock()
	q.buf[q.next] = Notification{At: at, Text: text}
	q.next = (q.next + 1) % len(q.buf)
	if q.count < len(q.buf) {
		q.count++
	}
	q.mu.Unlock()

	q.bus.Publish(events.Event{
		Type:    events.TypeNotificationPushed,
		Payload: Notification{At: at, Text: text},
	})
}

// Items returns the queued notifications, most recent first.
func (q *Queue) Items() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Notification, 0, q.count)
	for i := 1; i <= q.count; i++ {
		idx := (q.next - i + len(q.buf)) % len(q.buf)
		out = append(out, q.buf[idx])
	}
	return out
}

// UnreadCount returns the badge count. There is no true read/unread
// state; the badge simply shows how many notifications are displayed.
func (q *Queue) UnreadCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Capacity returns the fixed ring size.
func (q *Queue) Capacity() int {
	return len(q.buf)
}
