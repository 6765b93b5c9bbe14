package profile

import (
	"context"
	"fmt"
	"sync"

	"github.com/hearthhome/hearth-core/internal/events"
	"github.com/hearthhome/hearth-core/internal/notify"
	"github.com/hearthhome/hearth-core/internal/store"
)

// Theme selects the panel's colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Profile is the single owner's identity as shown on the panel.
// Avatar holds raw image bytes and is omitted from storage when unset.
type Profile struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar []byte `json:"avatar,omitempty"`
}

// Store is the persistence surface the manager needs.
// *store.Store satisfies it.
type Store interface {
	Load(ctx context.Context, key string, dest any) (bool, error)
	Save(ctx context.Context, key string, value any) error
}

// Manager owns the user profile and theme preference.
type Manager struct {
	mu      sync.Mutex
	profile Profile
	theme   Theme

	store Store
	queue *notify.Queue
	bus   *events.Bus
}

// NewManager creates a manager with nothing loaded. Call Init before use.
func NewManager(st Store, queue *notify.Queue, bus *events.Bus) *Manager {
	return &Manager{store: st, queue: queue, bus: bus}
}

// Init loads the persisted profile and theme, falling back to the
// default identity and the light theme.
func (m *Manager) Init(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var p Profile
	ok, err := m.store.Load(ctx, store.KeyProfile, &p)
	if err != nil {
		return fmt.Errorf("loading profile: %w", err)
	}
	if !ok {
		p = Profile{Name: "Home Owner", Email: "you@example.com"}
	}
	m.profile = p

	var theme Theme
	ok, err = m.store.Load(ctx, store.KeyTheme, &theme)
	if err != nil {
		return fmt.Errorf("loading theme: %w", err)
	}
	if !ok || (theme != ThemeLight && theme != ThemeDark) {
		theme = ThemeLight
	}
	m.theme = theme
	return nil
}

// Profile returns the current profile.
func (m *Manager) Profile() Profile {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.profile
	p.Avatar = append([]byte(nil), m.profile.Avatar...)
	return p
}

// SaveProfile persists the profile and notifies. The notification text
// mentions the avatar when one is included.
func (m *Manager) SaveProfile(ctx context.Context, p Profile) error {
	m.mu.Lock()
	prev := m.profile
	m.profile = p
	if err := m.store.Save(ctx, store.KeyProfile, p); err != nil {
		m.profile = prev
		m.mu.Unlock()
		return fmt.Errorf("persisting profile: %w", err)
	}
	m.mu.Unlock()

	text := "Profile saved"
	if len(p.Avatar) > 0 {
		text = "Profile saved (avatar uploaded)"
	}
	if err := m.queue.Push(ctx, text); err != nil {
		return err
	}

	m.bus.Publish(events.Event{Type: events.TypeProfileUpdated, Payload: p})
	return nil
}

// Theme returns the current theme.
func (m *Manager) Theme() Theme {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.theme
}

// SetTheme persists the theme choice. Switching themes is silent: it
// publishes a refresh event but queues no notification.
func (m *Manager) SetTheme(ctx context.Context, theme Theme) error {
	if theme != ThemeLight && theme != ThemeDark {
		return ErrInvalidTheme
	}

	m.mu.Lock()
	prev := m.theme
	m.theme = theme
	if err := m.store.Save(ctx, store.KeyTheme, theme); err != nil {
		m.theme = prev
		m.mu.Unlock()
		return fmt.Errorf("persisting theme: %w", err)
	}
	m.mu.Unlock()

	m.bus.Publish(events.Event{Type: events.TypeThemeChanged, Payload: theme})
	return nil
}
