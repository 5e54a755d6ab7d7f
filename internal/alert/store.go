// Package alert persists critical-failure markers at a well-known path.
// Presence of the file signals an unresolved failure to external monitoring;
// the next success on the owning path clears it.
package alert

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/core/domain"
)

// Store owns one alert artifact. A single component instance owns a given
// path, so plain check-then-act is sufficient.
type Store struct {
	path string
}

// NewStore creates a store for the given artifact path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the artifact location.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether an unresolved alert is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Write persists an alert describing a failed operation and returns the
// record for logging.
func (s *Store) Write(operation string, opErr error) (*domain.AlertRecord, error) {
	rec := &domain.AlertRecord{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Operation: operation,
		Error:     opErr.Error(),
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal alert: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create alert dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write alert: %w", err)
	}
	return rec, nil
}

// Read returns the current alert, or nil when none is present.
func (s *Store) Read() (*domain.AlertRecord, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read alert: %w", err)
	}

	var rec domain.AlertRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("invalid alert file: %w", err)
	}
	return &rec, nil
}

// Clear removes the alert. Clearing an absent alert is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
