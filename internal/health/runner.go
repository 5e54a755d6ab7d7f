package health

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/metrics"
)

// DefaultTimeout is the global budget when none is configured.
const DefaultTimeout = 15 * time.Second

// Runner executes registered validators under a global timeout budget.
type Runner struct {
	checks  []Checker
	timeout time.Duration
	log     *slog.Logger
}

// NewRunner creates a runner. A zero timeout means DefaultTimeout.
func NewRunner(timeout time.Duration, log *slog.Logger, checks ...Checker) *Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Runner{checks: checks, timeout: timeout, log: log}
}

// Register appends a validator to the run list.
func (r *Runner) Register(c Checker) {
	r.checks = append(r.checks, c)
}

// Run executes all validators concurrently, each in its own goroutine with
// panic isolation. Validators still outstanding when the budget expires are
// recorded as FAIL/timeout and their goroutines abandoned: the timeout
// fences the aggregate wait, not the blocked call, so every validator must
// carry its own internal timeout.
func (r *Runner) Run(ctx context.Context) Report {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	type indexed struct {
		i   int
		res Result
	}
	resultCh := make(chan indexed, len(r.checks))

	for i, check := range r.checks {
		go func(i int, check Checker) {
			defer func() {
				if rec := recover(); rec != nil {
					resultCh <- indexed{i, Result{
						Component:   check.Name(),
						Status:      StatusFail,
						Message:     "validator panicked",
						Remediation: "inspect service logs for the panic stack",
						Detail:      fmt.Sprint(rec),
					}}
				}
			}()
			resultCh <- indexed{i, check.Probe(ctx)}
		}(i, check)
	}

	results := make([]Result, len(r.checks))
	done := make([]bool, len(r.checks))
	remaining := len(r.checks)

collect:
	for remaining > 0 {
		select {
		case item := <-resultCh:
			results[item.i] = item.res
			done[item.i] = true
			remaining--
		case <-ctx.Done():
			break collect
		}
	}

	for i, check := range r.checks {
		if !done[i] {
			results[i] = Result{
				Component:   check.Name(),
				Status:      StatusFail,
				Message:     "timeout",
				Remediation: fmt.Sprintf("validator did not finish within %s; check its connectivity and internal timeouts", r.timeout),
			}
		}
	}

	report := Report{
		ID:       uuid.NewString(),
		Results:  results,
		Overall:  aggregate(results),
		Duration: time.Since(start),
	}

	for _, res := range results {
		metrics.HealthCheckStatus.WithLabelValues(res.Component).Set(float64(res.Status.severity()))
	}
	metrics.HealthCheckDuration.Observe(report.Duration.Seconds())
	r.log.Info("health run complete",
		"run_id", report.ID, "overall", report.Overall,
		"duration", report.Duration, "checks", len(results))
	return report
}
