package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Persisted collection keys. Keys are namespaced and versioned so a future
// format change can migrate by switching the suffix and leaving old blobs
// behind.
const (
	KeyDevices   = "hearth.devices.v2"
	KeyLogs      = "hearth.logs.v2"
	KeySchedules = "hearth.schedules.v2"
	KeyProfile   = "hearth.user.v2"
	KeyTheme     = "hearth.theme.v2"
)

// Logger defines the logging interface used by the Store.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Store persists a small fixed set of named collections as opaque JSON
// blobs in the kv table. Each key holds one whole collection; Save
// replaces the prior value entirely. There is no cross-key transaction:
// a crash between two related saves can leave keys mutually stale, which
// is accepted for a single-operator local tool (state is recoverable on
// the next load).
type Store struct {
	db     *sql.DB
	logger Logger
}

// New creates a Store over an open SQLite connection.
// The kv table must already exist (created by migrations).
func New(db *sql.DB) *Store {
	return &Store{
		db:     db,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the store.
func (s *Store) SetLogger(logger Logger) {
	s.logger = logger
}

// Load decodes the stored value for key into dest.
//
// The boolean result reports whether a usable stored value was applied.
// An absent key returns (false, nil). A stored value that fails to decode
// is treated exactly like an absent key: it is logged at warn level and
// (false, nil) is returned, so corrupt data can never crash a caller.
// When Load returns false the contents of dest are undefined and the
// caller must fall back to its default value.
//
// An error is returned only for database-level failures.
func (s *Store) Load(ctx context.Context, key string, dest any) (bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM kv WHERE key = ?", key,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("loading %q: %w", key, err)
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		// Malformed persisted data is silently replaced by the caller's
		// fallback; it must never surface to the user.
		s.logger.Warn("discarding malformed stored value", "key", key, "error", err)
		return false, nil
	}
	return true, nil
}

// Save serialises value and replaces the entire prior value for key.
// There is no partial or merge write.
func (s *Store) Save(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		key, string(data), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving %q: %w", key, err)
	}
	return nil
}
