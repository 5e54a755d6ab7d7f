package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/core/domain"
	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/infra/storage"
	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/metrics"
	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/retry"
)

// ReadingRepo implements storage.ReadingRepository using PostgreSQL.
type ReadingRepo struct {
	store  *Store
	policy retry.Policy
}

// NewReadingRepo creates a new PostgreSQL reading repository. Writes are
// wrapped in the given retry policy with the SQLSTATE classifier.
func NewReadingRepo(store *Store, policy retry.Policy) *ReadingRepo {
	policy.Name = "storage.save_reading"
	policy.Classify = ClassifyWriteError
	policy.Logger = store.log
	return &ReadingRepo{store: store, policy: policy}
}

// Save persists a reading. The insert is idempotent on the natural key
// (device_id, recorded_at): re-delivery stores nothing new and is reported
// as success to the caller.
func (r *ReadingRepo) Save(ctx context.Context, reading *domain.Reading) error {
	query := `
		INSERT INTO readings (
			device_id, recorded_at, temperature, humidity, battery, created_at
		) VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (device_id, recorded_at) DO NOTHING
	`

	rows, err := retry.Do(ctx, r.policy, func(ctx context.Context) (int64, error) {
		res, execErr := r.store.db.ExecContext(ctx, query,
			reading.DeviceID, reading.RecordedAt.UTC(),
			reading.Temperature, reading.Humidity, reading.Battery,
		)
		if execErr != nil {
			return 0, execErr
		}
		return res.RowsAffected()
	})
	if err != nil {
		return fmt.Errorf("failed to save reading %s: %w", reading.Key(), err)
	}

	if rows == 0 {
		metrics.ReadingsDuplicateTotal.WithLabelValues(reading.DeviceID).Inc()
		r.store.log.Debug("duplicate reading absorbed", "key", reading.Key())
		return nil
	}
	metrics.ReadingsStoredTotal.WithLabelValues(reading.DeviceID).Inc()
	return nil
}

type readingRow struct {
	DeviceID    string    `db:"device_id"`
	RecordedAt  time.Time `db:"recorded_at"`
	Temperature float64   `db:"temperature"`
	Humidity    *float64  `db:"humidity"`
	Battery     *float64  `db:"battery"`
	CreatedAt   time.Time `db:"created_at"`
}

func (row *readingRow) toDomain() *domain.Reading {
	return &domain.Reading{
		DeviceID:    row.DeviceID,
		RecordedAt:  row.RecordedAt,
		Temperature: row.Temperature,
		Humidity:    row.Humidity,
		Battery:     row.Battery,
	}
}

// GetLatest retrieves the most recent reading for a device.
func (r *ReadingRepo) GetLatest(ctx context.Context, deviceID string) (*domain.Reading, error) {
	query := `
		SELECT device_id, recorded_at, temperature, humidity, battery, created_at
		FROM readings
		WHERE device_id = $1
		ORDER BY recorded_at DESC
		LIMIT 1
	`

	var row readingRow
	err := r.store.db.GetContext(ctx, &row, query, deviceID)
	if err == sql.ErrNoRows {
		return nil, storage.ErrReadingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest reading: %w", err)
	}
	return row.toDomain(), nil
}

// Count returns the number of stored readings for a device.
func (r *ReadingRepo) Count(ctx context.Context, deviceID string) (int, error) {
	var count int
	err := r.store.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM readings WHERE device_id = $1`, deviceID)
	if err != nil {
		return 0, fmt.Errorf("failed to count readings: %w", err)
	}
	return count, nil
}

// TestWriteWithRollback performs a probe insert inside a transaction and
// unconditionally reverts it. Used by health checks to prove write
// capability without leaving side effects.
func (s *Store) TestWriteWithRollback(ctx context.Context) bool {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.log.Warn("write probe could not begin transaction", "error", err)
		return false
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO readings (device_id, recorded_at, temperature, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (device_id, recorded_at) DO NOTHING
	`, "healthcheck:probe", time.Now().UTC(), 0.0)
	if err != nil {
		s.log.Warn("write probe insert failed", "error", err)
		return false
	}
	return true
}
