package storage

import (
	"context"
	"errors"

	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/core/domain"
)

var (
	// ErrReadingNotFound is returned when a reading doesn't exist
	ErrReadingNotFound = errors.New("reading not found")
)

// ReadingRepository handles durable persistence of sensor readings
type ReadingRepository interface {
	// Save persists a reading. Re-delivery of the same natural key
	// (device_id, recorded_at) is treated as success, never a duplicate row.
	Save(ctx context.Context, reading *domain.Reading) error

	// GetLatest retrieves the most recent reading for a device
	GetLatest(ctx context.Context, deviceID string) (*domain.Reading, error)

	// Count returns the number of stored readings for a device
	Count(ctx context.Context, deviceID string) (int, error)
}

// DurabilityVerifier exposes the store's durable-write state to health checks
type DurabilityVerifier interface {
	// Durability returns the state captured at startup
	Durability() domain.DurabilityState

	// TestWriteWithRollback proves write capability without side effects
	TestWriteWithRollback(ctx context.Context) bool
}
