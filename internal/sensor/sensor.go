// Package sensor defines the boundary to device APIs. Protocol and
// authentication details live behind the Source interface.
package sensor

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/core/domain"
)

// Source yields readings for one device.
type Source interface {
	// ID returns the stable device identifier, e.g. "hue:abc".
	ID() string

	// Read fetches the current reading. Implementations are expected to be
	// internally timeout-bound via ctx.
	Read(ctx context.Context) (domain.Reading, error)
}

// Simulated produces a slow sinusoidal temperature curve. Used for local
// runs and tests without real devices.
type Simulated struct {
	DeviceID string
	Base     float64
	mu       sync.Mutex
	n        int
}

func (s *Simulated) ID() string { return s.DeviceID }

func (s *Simulated) Read(ctx context.Context) (domain.Reading, error) {
	s.mu.Lock()
	s.n++
	n := s.n
	s.mu.Unlock()

	return domain.Reading{
		DeviceID:    s.DeviceID,
		RecordedAt:  time.Now().UTC().Truncate(time.Second),
		Temperature: s.Base + 2*math.Sin(float64(n)/10),
	}, nil
}
