// Package logrotate provides a size-triggered log rotator with a hard
// disk-usage cap and alert escalation on persistent failure.
package logrotate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/alert"
	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/metrics"
	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/retry"
)

// State is the rotator's position in its lifecycle.
type State string

const (
	StateActive   State = "active"
	StateRotating State = "rotating"
	// StateDegraded means rotation keeps failing; writes continue into the
	// oversized active file and an alert artifact is on disk.
	StateDegraded State = "degraded"
)

// Config holds rotation thresholds. MaxTotalBytes is a hard cap across the
// whole file set; BackupCount is a soft default.
type Config struct {
	MaxBytes      int64 `yaml:"max_bytes"`
	BackupCount   int   `yaml:"backup_count"`
	MaxTotalBytes int64 `yaml:"max_total_bytes"`
}

// DefaultConfig provides sensible defaults: 10 MiB per file, 5 backups,
// 100 MiB across the set.
var DefaultConfig = Config{
	MaxBytes:      10 << 20,
	BackupCount:   5,
	MaxTotalBytes: 100 << 20,
}

// Rotator is an io.Writer over one log sink. A single mutex serializes
// writes and rotation; writers blocked during rotation simply wait.
type Rotator struct {
	mu     sync.Mutex
	path   string
	cfg    Config
	file   *os.File
	size   int64
	state  State
	alerts *alert.Store
	policy retry.Policy
	log    *slog.Logger

	// retryAfter gates re-attempts while degraded so every write does not
	// pay the full backoff cycle.
	retryAfter time.Time

	rename func(oldpath, newpath string) error
	remove func(path string) error
}

// New opens (or creates) the active file and returns a rotator for it.
func New(path string, cfg Config, alerts *alert.Store, policy retry.Policy, log *slog.Logger) (*Rotator, error) {
	if log == nil {
		log = slog.Default()
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultConfig.MaxBytes
	}
	if cfg.BackupCount <= 0 {
		cfg.BackupCount = DefaultConfig.BackupCount
	}
	if cfg.MaxTotalBytes <= 0 {
		cfg.MaxTotalBytes = DefaultConfig.MaxTotalBytes
	}
	policy.Name = "logrotate.rotate"
	policy.Classify = ClassifyFsError
	policy.Logger = log

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to stat log file: %w", err)
	}

	return &Rotator{
		path:   path,
		cfg:    cfg,
		file:   f,
		size:   info.Size(),
		state:  StateActive,
		alerts: alerts,
		policy: policy,
		log:    log,
		rename: os.Rename,
		remove: os.Remove,
	}, nil
}

// Config returns the configured thresholds.
func (r *Rotator) Config() Config {
	return r.cfg
}

// State returns the current lifecycle state.
func (r *Rotator) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Write appends to the active file, rotating first when the size threshold
// would be crossed. A failed rotation never fails the write: logging
// continues into the oversized file.
func (r *Rotator) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.size > 0 && r.size+int64(len(p)) > r.cfg.MaxBytes && time.Now().After(r.retryAfter) {
		r.rotate()
	}

	n, err := r.file.Write(p)
	r.size += int64(n)
	return n, err
}

// Close closes the active file.
func (r *Rotator) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.file.Close()
}

// rotate runs the rename chain under the retry policy and settles into
// ACTIVE or DEGRADED. Caller holds the mutex.
func (r *Rotator) rotate() {
	r.state = StateRotating
	_ = r.file.Close()

	_, err := retry.Do(context.Background(), r.policy, func(context.Context) (struct{}, error) {
		return struct{}{}, r.shiftBackups()
	})

	if err != nil {
		r.state = StateDegraded
		r.retryAfter = time.Now().Add(time.Minute)
		metrics.RotationsTotal.WithLabelValues(r.path, "failed").Inc()
		if rec, werr := r.alerts.Write("log_rotation:"+r.path, err); werr != nil {
			r.log.Error("rotation failed AND alert could not be written",
				"sink", r.path, "error", err, "alert_error", werr)
		} else {
			r.log.Error("rotation failed, continuing into oversized file",
				"sink", r.path, "error", err, "alert_id", rec.ID, "alert_path", r.alerts.Path())
		}
	} else {
		r.state = StateActive
		r.retryAfter = time.Time{}
		r.size = 0
		metrics.RotationsTotal.WithLabelValues(r.path, "ok").Inc()
		if r.alerts.Exists() {
			if cerr := r.alerts.Clear(); cerr != nil {
				r.log.Warn("could not clear alert after successful rotation", "error", cerr)
			} else {
				r.log.Info("rotation recovered, alert cleared", "sink", r.path)
			}
		}
	}

	// Reopen the active file either way; on failure the old contents are
	// still there and writes keep appending.
	f, oerr := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if oerr != nil {
		// Last resort: keep the closed handle; subsequent writes will error
		// and the caller's logger falls back to its other sinks.
		r.log.Error("could not reopen active log file", "sink", r.path, "error", oerr)
	} else {
		r.file = f
		if info, serr := f.Stat(); serr == nil {
			r.size = info.Size()
		}
	}

	r.enforceTotalBytes()
}

// shiftBackups renames active -> .1, shifting existing backups up and
// evicting the one beyond BackupCount.
func (r *Rotator) shiftBackups() error {
	oldest := backupPath(r.path, r.cfg.BackupCount)
	if _, err := os.Stat(oldest); err == nil {
		if err := r.remove(oldest); err != nil {
			return fmt.Errorf("evict oldest backup: %w", err)
		}
	}

	for i := r.cfg.BackupCount - 1; i >= 1; i-- {
		src := backupPath(r.path, i)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := r.rename(src, backupPath(r.path, i+1)); err != nil {
			return fmt.Errorf("shift backup %d: %w", i, err)
		}
	}

	if err := r.rename(r.path, backupPath(r.path, 1)); err != nil {
		return fmt.Errorf("rotate active file: %w", err)
	}
	return nil
}

// enforceTotalBytes evicts oldest backups until the file set fits under the
// hard cap. The active file is never evicted and is budgeted at its rotation
// threshold, since it grows until the next rotation. Caller holds the mutex.
func (r *Rotator) enforceTotalBytes() {
	total := r.size
	if total < r.cfg.MaxBytes {
		total = r.cfg.MaxBytes
	}
	sizes := make(map[int]int64)
	for i := 1; i <= r.cfg.BackupCount+1; i++ {
		if info, err := os.Stat(backupPath(r.path, i)); err == nil {
			sizes[i] = info.Size()
			total += info.Size()
		}
	}

	for i := r.cfg.BackupCount + 1; i >= 1 && total > r.cfg.MaxTotalBytes; i-- {
		sz, ok := sizes[i]
		if !ok {
			continue
		}
		if err := r.remove(backupPath(r.path, i)); err != nil {
			r.log.Warn("could not evict backup for disk cap", "backup", i, "error", err)
			continue
		}
		total -= sz
		metrics.BackupsEvictedTotal.WithLabelValues(r.path).Inc()
		r.log.Info("evicted backup to honor disk cap", "backup", i, "freed", sz)
	}
}

// TotalBytes returns the current size of the file set (active + backups).
func (r *Rotator) TotalBytes() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := r.size
	for i := 1; i <= r.cfg.BackupCount+1; i++ {
		if info, err := os.Stat(backupPath(r.path, i)); err == nil {
			total += info.Size()
		}
	}
	return total
}

func backupPath(path string, n int) string {
	return fmt.Sprintf("%s.%d", path, n)
}
