package profile

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/hearthhome/hearth-core/internal/audit"
	"github.com/hearthhome/hearth-core/internal/events"
	"github.com/hearthhome/hearth-core/internal/notify"
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

type fixture struct {
	manager *Manager
	store   *mockStore
	trail   *audit.Trail
	queue   *notify.Queue
	bus     *events.Bus
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st := newMockStore()
	bus := events.NewBus()
	trail := audit.NewTrail(st, bus)
	if err := trail.Init(context.Background()); err != nil {
		t.Fatalf("trail Init() error = %v", err)
	}
	queue := notify.NewQueue(0, trail, bus)

	mgr := NewManager(st, queue, bus)
	if err := mgr.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return &fixture{manager: mgr, store: st, trail: trail, queue: queue, bus: bus}
}

func TestInit_Defaults(t *testing.T) {
	f := newFixture(t)

	p := f.manager.Profile()
	if p.Name != "Home Owner" || p.Email != "you@example.com" {
		t.Errorf("default profile = %+v", p)
	}
	if f.manager.Theme() != ThemeLight {
		t.Errorf("default theme = %q, want light", f.manager.Theme())
	}
}

func TestSaveProfile(t *testing.T) {
	f := newFixture(t)

	var updated []events.Event
	f.bus.Subscribe(func(e events.Event) { updated = append(updated, e) }, events.TypeProfileUpdated)

	p := Profile{Name: "Alex", Email: "alex@example.com"}
	if err := f.manager.SaveProfile(context.Background(), p); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}

	if got := f.manager.Profile(); got.Name != "Alex" {
		t.Errorf("Profile() = %+v", got)
	}
	if f.queue.Items()[0].Text != "Profile saved" {
		t.Errorf("notification = %q, want 'Profile saved'", f.queue.Items()[0].Text)
	}
	if len(updated) != 1 {
		t.Errorf("profile-updated events = %d, want 1", len(updated))
	}

	// Survives a restart.
	reloaded := NewManager(f.store, f.queue, f.bus)
	if err := reloaded.Init(context.Background()); err != nil {
		t.Fatalf("reload Init() error = %v", err)
	}
	if reloaded.Profile().Name != "Alex" {
		t.Error("saved profile lost on reload")
	}
}

func TestSaveProfile_AvatarMentionedInNotification(t *testing.T) {
	f := newFixture(t)

	p := Profile{Name: "Alex", Email: "alex@example.com", Avatar: []byte{0x89, 0x50}}
	if err := f.manager.SaveProfile(context.Background(), p); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}
	if f.queue.Items()[0].Text != "Profile saved (avatar uploaded)" {
		t.Errorf("notification = %q", f.queue.Items()[0].Text)
	}
}

func TestSaveProfile_SaveFailureKeepsPrevious(t *testing.T) {
	f := newFixture(t)
	f.store.saveErr = errors.New("disk full")

	err := f.manager.SaveProfile(context.Background(), Profile{Name: "Alex"})
	if err == nil {
		t.Fatal("SaveProfile() should propagate save failure")
	}
	if f.manager.Profile().Name != "Home Owner" {
		t.Error("failed save must keep the previous profile")
	}
	if len(f.queue.Items()) != 0 {
		t.Error("failed save must queue no notification")
	}
}

func TestSetTheme(t *testing.T) {
	f := newFixture(t)

	var changed []events.Event
	f.bus.Subscribe(func(e events.Event) { changed = append(changed, e) }, events.TypeThemeChanged)

	if err := f.manager.SetTheme(context.Background(), ThemeDark); err != nil {
		t.Fatalf("SetTheme() error = %v", err)
	}
	if f.manager.Theme() != ThemeDark {
		t.Errorf("Theme() = %q, want dark", f.manager.Theme())
	}
	if len(changed) != 1 {
		t.Errorf("theme-changed events = %d, want 1", len(changed))
	}
	// Theme switches are silent.
	if len(f.queue.Items()) != 0 || f.trail.Len() != 0 {
		t.Error("theme change must record no notification or log entry")
	}

	reloaded := NewManager(f.store, f.queue, f.bus)
	if err := reloaded.Init(context.Background()); err != nil {
		t.Fatalf("reload Init() error = %v", err)
	}
	if reloaded.Theme() != ThemeDark {
		t.Error("theme lost on reload")
	}
}

func TestSetTheme_RejectsUnknown(t *testing.T) {
	f := newFixture(t)

	if err := f.manager.SetTheme(context.Background(), "sepia"); !errors.Is(err, ErrInvalidTheme) {
		t.Fatalf("SetTheme() error = %v, want ErrInvalidTheme", err)
	}
	if f.manager.Theme() != ThemeLight {
		t.Error("rejected theme must not apply")
	}
}
