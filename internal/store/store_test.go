package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hearthhome/hearth-core/internal/infrastructure/database"
)

// openTestStore creates a Store backed by a fresh SQLite file.
func openTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	if _, err := db.ExecContext(context.Background(), `
		CREATE TABLE kv (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`); err != nil {
		t.Fatalf("creating kv table: %v", err)
	}

	return New(db.DB)
}

// corrupt writes raw bytes directly under a key, bypassing Save.
func corrupt(t *testing.T, s *Store, key, raw string) {
	t.Helper()
	if _, err := s.db.Exec(
		"INSERT OR REPLACE INTO kv (key, value, updated_at) VALUES (?, ?, '')",
		key, raw,
	); err != nil {
		t.Fatalf("writing corrupt value: %v", err)
	}
}

func TestLoad_AbsentKey(t *testing.T) {
	s := openTestStore(t)

	var dest map[string]string
	ok, err := s.Load(context.Background(), KeyDevices, &dest)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ok {
		t.Error("Load() ok = true for absent key, want false")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	in := map[string]int{"a": 1, "b": 2}
	if err := s.Save(ctx, KeyDevices, in); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	var out map[string]int
	ok, err := s.Load(ctx, KeyDevices, &out)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !ok {
		t.Fatal("Load() ok = false after Save")
	}
	if len(out) != 2 || out["a"] != 1 || out["b"] != 2 {
		t.Errorf("Load() = %v, want %v", out, in)
	}
}

func TestSave_ReplacesWholeValue(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, KeySchedules, []string{"one", "two"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Save(ctx, KeySchedules, []string{"three"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	var out []string
	ok, err := s.Load(ctx, KeySchedules, &out)
	if err != nil || !ok {
		t.Fatalf("Load() ok = %v, error = %v", ok, err)
	}
	if len(out) != 1 || out[0] != "three" {
		t.Errorf("Load() = %v, want [three] (no merge semantics)", out)
	}
}

func TestLoad_MalformedValueFallsBack(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "truncated json", raw: `{"a": 1`},
		{name: "wrong shape", raw: `"just a string"`},
		{name: "empty", raw: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			corrupt(t, s, KeyLogs, tt.raw)

			var dest map[string]int
			ok, err := s.Load(ctx, KeyLogs, &dest)
			if err != nil {
				t.Fatalf("Load() must not error on malformed data, got %v", err)
			}
			if ok {
				t.Error("Load() ok = true for malformed data, want false")
			}
		})
	}
}

func TestLoad_KeysAreIndependent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, KeyTheme, "dark"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	corrupt(t, s, KeyProfile, "{broken")

	// Corruption of one key must not disturb another.
	var theme string
	ok, err := s.Load(ctx, KeyTheme, &theme)
	if err != nil || !ok {
		t.Fatalf("Load(theme) ok = %v, error = %v", ok, err)
	}
	if theme != "dark" {
		t.Errorf("theme = %q, want %q", theme, "dark")
	}
}

func TestLoad_Idempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, KeyDevices, []int{1, 2, 3}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		var out []int
		ok, err := s.Load(ctx, KeyDevices, &out)
		if err != nil || !ok {
			t.Fatalf("Load() #%d ok = %v, error = %v", i, ok, err)
		}
		if len(out) != 3 {
			t.Errorf("Load() #%d = %v, want 3 elements", i, out)
		}
	}
}
