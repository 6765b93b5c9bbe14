package audit

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hearthhome/hearth-core/internal/events"
	"github.com/hearthhome/hearth-core/internal/store"
)

// mockStore is an in-memory Store for testing.
type mockStore struct {
	mu      sync.Mutex
	data    map[string]string
	saveErr error
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string)}
}

func (m *mockStore) Load(_ context.Context, key string, dest any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, nil
	}
	return true, nil
}

func (m *mockStore) Save(_ context.Context, key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return m.saveErr
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = string(data)
	return nil
}

func newTestTrail(t *testing.T) (*Trail, *mockStore, *events.Bus) {
	t.Helper()
	st := newMockStore()
	bus := events.NewBus()
	trail := NewTrail(st, bus)
	if err := trail.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return trail, st, bus
}

func TestAppend_NewestFirst(t *testing.T) {
	trail, _, _ := newTestTrail(t)
	ctx := context.Background()

	if _, err := trail.Append(ctx, "Living Room Light", "Turned On"); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if _, err := trail.Append(ctx, "Living Room Light", "Turned Off"); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	entries := trail.Entries()
	if len(entries) != 2 {
		t.Fatalf("Entries() len = %d, want 2", len(entries))
	}
	if entries[0].Action != "Turned Off" || entries[1].Action != "Turned On" {
		t.Errorf("entries not newest-first: %q then %q", entries[0].Action, entries[1].Action)
	}
	if entries[0].User != OwnerUser {
		t.Errorf("User = %q, want %q", entries[0].User, OwnerUser)
	}
	if !strings.HasPrefix(entries[0].ID, "aud-") {
		t.Errorf("ID = %q, want aud- prefix", entries[0].ID)
	}
}

func TestAppendAt_ExplicitTimestamp(t *testing.T) {
	trail, _, _ := newTestTrail(t)

	at := Timestamp(time.Date(2026, 8, 29, 14, 5, 1, 0, time.UTC))
	entry, err := trail.AppendAt(context.Background(), at, "Front Door Lock", "Locked")
	if err != nil {
		t.Fatalf("AppendAt() error = %v", err)
	}
	if entry.Time != "2026-08-29 14:05:01" {
		t.Errorf("Time = %q, want %q", entry.Time, "2026-08-29 14:05:01")
	}
}

func TestAppend_PersistsBeforePublishing(t *testing.T) {
	st := newMockStore()
	bus := events.NewBus()
	trail := NewTrail(st, bus)
	if err := trail.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	// When the event fires, the entry must already be in the store.
	var persistedAtPublish bool
	bus.Subscribe(func(events.Event) {
		var entries []Entry
		ok, _ := st.Load(context.Background(), store.KeyLogs, &entries)
		persistedAtPublish = ok && len(entries) == 1
	}, events.TypeLogAppended)

	if _, err := trail.Append(context.Background(), "Thermostat", "Turned On"); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if !persistedAtPublish {
		t.Error("log-appended event fired before the trail was persisted")
	}
}

func TestAppend_SaveFailureRecordsNothing(t *testing.T) {
	trail, st, bus := newTestTrail(t)
	st.saveErr = errors.New("disk full")

	published := false
	bus.Subscribe(func(events.Event) { published = true }, events.TypeLogAppended)

	if _, err := trail.Append(context.Background(), "Camera", "Turned On"); err == nil {
		t.Fatal("Append() should propagate save failure")
	}
	if trail.Len() != 0 {
		t.Errorf("Len() = %d after failed save, want 0", trail.Len())
	}
	if published {
		t.Error("no event must be published when persistence fails")
	}
}

func TestInit_ReloadsPersistedEntries(t *testing.T) {
	trail, st, _ := newTestTrail(t)
	ctx := context.Background()

	for _, action := range []string{"Turned On", "Turned Off", "Locked"} {
		if _, err := trail.Append(ctx, "Device", action); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	// A fresh trail over the same store sees the same history.
	reloaded := NewTrail(st, events.NewBus())
	if err := reloaded.Init(ctx); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if reloaded.Len() != 3 {
		t.Errorf("reloaded Len() = %d, want 3", reloaded.Len())
	}
	if reloaded.Entries()[0].Action != "Locked" {
		t.Errorf("reloaded newest = %q, want %q", reloaded.Entries()[0].Action, "Locked")
	}
}

func TestExportCSV_RoundTrip(t *testing.T) {
	trail, _, _ := newTestTrail(t)
	ctx := context.Background()

	want := [][2]string{
		{"Living Room Light", "Turned On"},
		{"Front Door Lock", "Locked"},
		{"Notification", `Device added: "Porch" Light`}, // embedded quotes
	}
	for _, w := range want {
		if _, err := trail.Append(ctx, w[0], w[1]); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	var buf strings.Builder
	if err := trail.ExportCSV(&buf); err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("re-parsing exported CSV: %v", err)
	}

	if len(records) != len(want)+1 {
		t.Fatalf("CSV rows = %d, want %d", len(records), len(want)+1)
	}
	header := records[0]
	if header[0] != "Time" || header[1] != "Device" || header[2] != "Action" || header[3] != "User" {
		t.Errorf("header = %v, want Time,Device,Action,User", header)
	}

	// Rows come back most recent first, matching trail order.
	entries := trail.Entries()
	for i, row := range records[1:] {
		e := entries[i]
		if row[0] != e.Time || row[1] != e.Device || row[2] != e.Action || row[3] != e.User {
			t.Errorf("row %d = %v, want (%s, %s, %s, %s)", i, row, e.Time, e.Device, e.Action, e.User)
		}
	}
}

func TestExportCSV_RefusesWhenEmpty(t *testing.T) {
	trail, _, _ := newTestTrail(t)

	var buf strings.Builder
	err := trail.ExportCSV(&buf)
	if !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("ExportCSV() error = %v, want ErrNothingToExport", err)
	}
	if buf.Len() != 0 {
		t.Errorf("ExportCSV() wrote %d bytes on refusal, want 0", buf.Len())
	}
}

func TestExportFilename(t *testing.T) {
	at := time.Date(2026, 8, 29, 14, 5, 1, 0, time.UTC)
	got := ExportFilename(at)
	if got != "hearth_logs_20260829140501.csv" {
		t.Errorf("ExportFilename() = %q", got)
	}
}
