// Package collect runs the periodic per-sensor collection workflow.
package collect

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/infra/redis"
	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/infra/storage"
	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/sensor"
)

// Collector polls sensor sources on a fixed interval and persists readings
// through the resilient storage layer. Each source runs as an independent
// goroutine; the collector adds no coordination between them.
type Collector struct {
	sources  []sensor.Source
	interval time.Duration
	readings storage.ReadingRepository
	cache    *redis.Cache
	log      *slog.Logger
	wg       sync.WaitGroup
}

// New creates a collector. cache may be nil when Redis is not configured.
func New(
	sources []sensor.Source,
	interval time.Duration,
	readings storage.ReadingRepository,
	cache *redis.Cache,
	log *slog.Logger,
) *Collector {
	if interval <= 0 {
		interval = time.Minute
	}
	if log == nil {
		log = slog.Default()
	}
	return &Collector{
		sources:  sources,
		interval: interval,
		readings: readings,
		cache:    cache,
		log:      log,
	}
}

// Start launches one polling loop per source and returns. Loops stop when
// ctx is cancelled; Wait blocks until they have drained.
func (c *Collector) Start(ctx context.Context) {
	for _, src := range c.sources {
		c.wg.Add(1)
		go func(src sensor.Source) {
			defer c.wg.Done()
			c.run(ctx, src)
		}(src)
	}
}

// Wait blocks until all polling loops have exited.
func (c *Collector) Wait() {
	c.wg.Wait()
}

func (c *Collector) run(ctx context.Context, src sensor.Source) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	// Initial poll so a fresh deployment stores data immediately.
	c.poll(ctx, src)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.poll(ctx, src)
		}
	}
}

// poll reads one sample and persists it. Storage exhaustion is reported and
// the loop continues; a failed poll never stops collection.
func (c *Collector) poll(ctx context.Context, src sensor.Source) {
	reading, err := src.Read(ctx)
	if err != nil {
		c.log.Warn("sensor read failed", "device", src.ID(), "error", err)
		return
	}

	if err := c.readings.Save(ctx, &reading); err != nil {
		c.log.Error("reading could not be persisted", "device", src.ID(), "error", err)
		return
	}

	if c.cache != nil {
		// Best effort: the cache is a convenience, not the record of truth.
		if err := c.cache.SetLatest(ctx, &reading); err != nil {
			c.log.Warn("latest-reading cache update failed", "device", src.ID(), "error", err)
		}
	}

	c.log.Debug("reading stored",
		"device", src.ID(), "recorded_at", reading.RecordedAt, "temperature", reading.Temperature)
}
