package energy

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hearthhome/hearth-core/internal/audit"
)

// DayTotal is one bucket of the dashboard energy chart.
type DayTotal struct {
	Date string  `json:"date"`
	KWh  float64 `json:"kwh"`
}

const dateLayout = "2006-01-02"

// Store persists per-device energy samples and aggregates them into the
// daily buckets the chart renders.
type Store struct {
	db *sql.DB
}

// New creates a Store over an open database.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record stores a sample stamped with the current time.
func (s *Store) Record(ctx context.Context, deviceID string, kwh float64) error {
	return s.RecordAt(ctx, deviceID, kwh, time.Now())
}

// RecordAt stores a sample with an explicit time.
func (s *Store) RecordAt(ctx context.Context, deviceID string, kwh float64, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO energy_readings (device_id, kwh, recorded_at) VALUES (?, ?, ?)",
		deviceID, kwh, audit.Timestamp(at),
	)
	if err != nil {
		return fmt.Errorf("recording energy sample: %w", err)
	}
	return nil
}

// Daily returns one bucket per calendar day for the trailing window,
// oldest first and ending today. Days without samples appear as zero so
// the chart never has gaps.
func (s *Store) Daily(ctx context.Context, days int) ([]DayTotal, error) {
	if days <= 0 {
		days = 7
	}

	today := time.Now()
	since := today.AddDate(0, 0, -(days - 1)).Format(dateLayout)

	rows, err := s.db.QueryContext(ctx, `
		SELECT date(recorded_at), SUM(kwh)
		FROM energy_readings
		WHERE date(recorded_at) >= ?
		GROUP BY date(recorded_at)`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("querying energy totals: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only cursor

	totals := make(map[string]float64, days)
	for rows.Next() {
		var date string
		var kwh float64
		if err := rows.Scan(&date, &kwh); err != nil {
			return nil, fmt.Errorf("scanning energy total: %w", err)
		}
		totals[date] = kwh
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading energy totals: %w", err)
	}

	out := make([]DayTotal, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format(dateLayout)
		out = append(out, DayTotal{Date: date, KWh: totals[date]})
	}
	return out, nil
}

// sampleWeek is the chart's first-run data, one total per day ending today.
var sampleWeek = []float64{2.1, 2.6, 2.3, 2.8, 3.0, 2.4, 2.7}

// Seed inserts the sample week when no readings exist, so the chart has
// something to show before real usage accumulates.
func (s *Store) Seed(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM energy_readings",
	).Scan(&count); err != nil {
		return fmt.Errorf("counting energy readings: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	for i, kwh := range sampleWeek {
		at := now.AddDate(0, 0, i-(len(sampleWeek)-1))
		if err := s.RecordAt(ctx, "home", kwh, at); err != nil {
			return fmt.Errorf("seeding energy readings: %w", err)
		}
	}
	return nil
}
