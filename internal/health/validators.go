package health

import (
	"context"
	"fmt"
	"time"

	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/alert"
	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/infra/storage"
	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/logrotate"
)

// probeTimeout bounds each built-in validator well under the global budget.
const probeTimeout = 5 * time.Second

// Pinger is the narrow connectivity surface of an external collaborator.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to the Pinger interface.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// DurabilityCheck validates the storage layer's write-ahead mode.
type DurabilityCheck struct {
	Store storage.DurabilityVerifier
}

func (c DurabilityCheck) Name() string { return "storage.durability" }

func (c DurabilityCheck) Probe(ctx context.Context) Result {
	state := c.Store.Durability()
	if !state.WriteAheadEnabled {
		return Result{
			Component:   c.Name(),
			Status:      StatusWarn,
			Message:     "write-ahead durability mode is not active",
			Remediation: "enable synchronous_commit on the database server so completed writes survive a crash",
		}
	}
	return Result{
		Component: c.Name(),
		Status:    StatusPass,
		Message:   fmt.Sprintf("durable-write mode active (checkpoint interval %s)", state.CheckpointInterval),
	}
}

// WriteCheck proves write capability via a rollback-only transaction.
type WriteCheck struct {
	Store storage.DurabilityVerifier
}

func (c WriteCheck) Name() string { return "storage.write" }

func (c WriteCheck) Probe(ctx context.Context) Result {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if !c.Store.TestWriteWithRollback(ctx) {
		return Result{
			Component:   c.Name(),
			Status:      StatusFail,
			Message:     "test write could not be performed",
			Remediation: "check database connectivity, credentials and disk space; see service logs for the underlying error",
		}
	}
	return Result{
		Component: c.Name(),
		Status:    StatusPass,
		Message:   "test write succeeded and was rolled back",
	}
}

// RotationCheck validates the rotator's thresholds and lifecycle state.
type RotationCheck struct {
	Rotator *logrotate.Rotator
}

func (c RotationCheck) Name() string { return "logging.rotation" }

func (c RotationCheck) Probe(ctx context.Context) Result {
	cfg := c.Rotator.Config()

	if c.Rotator.State() == logrotate.StateDegraded {
		return Result{
			Component:   c.Name(),
			Status:      StatusFail,
			Message:     "rotation is degraded; logging continues into an oversized file",
			Remediation: "inspect the alert artifact and fix the underlying filesystem error (permissions, disk space)",
		}
	}
	if cfg.MaxTotalBytes < 2*cfg.MaxBytes {
		return Result{
			Component:   c.Name(),
			Status:      StatusWarn,
			Message:     fmt.Sprintf("max_total_bytes (%d) leaves no room for even one backup of max_bytes (%d)", cfg.MaxTotalBytes, cfg.MaxBytes),
			Remediation: "raise max_total_bytes to at least twice max_bytes or lower the rotation threshold",
		}
	}
	return Result{
		Component: c.Name(),
		Status:    StatusPass,
		Message: fmt.Sprintf("rotation at %d bytes, %d backups, %d bytes cap",
			cfg.MaxBytes, cfg.BackupCount, cfg.MaxTotalBytes),
	}
}

// AlertCheck fails while an unresolved alert artifact is present.
type AlertCheck struct {
	Alerts *alert.Store
}

func (c AlertCheck) Name() string { return "alerts" }

func (c AlertCheck) Probe(ctx context.Context) Result {
	rec, err := c.Alerts.Read()
	if err != nil {
		return Result{
			Component:   c.Name(),
			Status:      StatusWarn,
			Message:     "alert artifact could not be read",
			Remediation: "inspect or remove the file at " + c.Alerts.Path(),
			Detail:      err.Error(),
		}
	}
	if rec != nil {
		return Result{
			Component:   c.Name(),
			Status:      StatusFail,
			Message:     fmt.Sprintf("unresolved critical failure: %s (since %s)", rec.Operation, rec.Timestamp.Format(time.RFC3339)),
			Remediation: "fix the failed operation; the alert clears automatically on its next success",
			Detail:      rec.Error,
		}
	}
	return Result{
		Component: c.Name(),
		Status:    StatusPass,
		Message:   "no unresolved alerts",
	}
}

// ConnectivityCheck probes an external collaborator through its Pinger.
type ConnectivityCheck struct {
	Component   string
	Target      Pinger
	Remediation string
}

func (c ConnectivityCheck) Name() string { return c.Component }

func (c ConnectivityCheck) Probe(ctx context.Context) Result {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	start := time.Now()
	if err := c.Target.Ping(ctx); err != nil {
		return Result{
			Component:   c.Component,
			Status:      StatusFail,
			Message:     "unreachable",
			Remediation: c.Remediation,
			Detail:      err.Error(),
		}
	}
	return Result{
		Component: c.Component,
		Status:    StatusPass,
		Message:   fmt.Sprintf("reachable in %s", time.Since(start).Round(time.Millisecond)),
	}
}
