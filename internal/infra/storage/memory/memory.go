// Package memory provides an in-memory storage twin used by tests and
// local runs without a database.
package memory

import (
	"context"
	"sync"

	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/core/domain"
	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/infra/storage"
)

type MemoryStorage struct {
	readings   map[string]*domain.Reading
	durability domain.DurabilityState
	mu         sync.RWMutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		readings:   make(map[string]*domain.Reading),
		durability: domain.DurabilityState{WriteAheadEnabled: true},
	}
}

// ReadingRepo implements storage.ReadingRepository in memory.
type ReadingRepo struct {
	store *MemoryStorage
}

func NewReadingRepo(store *MemoryStorage) *ReadingRepo {
	return &ReadingRepo{store: store}
}

// Save stores a reading keyed by its natural key, mirroring the idempotent
// ON CONFLICT DO NOTHING behavior of the Postgres repo.
func (r *ReadingRepo) Save(ctx context.Context, reading *domain.Reading) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	key := reading.Key()
	if _, exists := r.store.readings[key]; exists {
		return nil
	}
	cp := *reading
	r.store.readings[key] = &cp
	return nil
}

func (r *ReadingRepo) GetLatest(ctx context.Context, deviceID string) (*domain.Reading, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var latest *domain.Reading
	for _, rd := range r.store.readings {
		if rd.DeviceID != deviceID {
			continue
		}
		if latest == nil || rd.RecordedAt.After(latest.RecordedAt) {
			latest = rd
		}
	}
	if latest == nil {
		return nil, storage.ErrReadingNotFound
	}
	cp := *latest
	return &cp, nil
}

func (r *ReadingRepo) Count(ctx context.Context, deviceID string) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	n := 0
	for _, rd := range r.store.readings {
		if rd.DeviceID == deviceID {
			n++
		}
	}
	return n, nil
}

// Durability reports the configured fake durability state.
func (s *MemoryStorage) Durability() domain.DurabilityState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.durability
}

// SetDurability overrides the reported state, for health-check tests.
func (s *MemoryStorage) SetDurability(state domain.DurabilityState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.durability = state
}

// TestWriteWithRollback always succeeds in memory.
func (s *MemoryStorage) TestWriteWithRollback(ctx context.Context) bool {
	return true
}
