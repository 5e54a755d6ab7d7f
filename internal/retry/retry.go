// Package retry executes failable operations under an exponential-backoff
// policy with caller-supplied error classification.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/metrics"
)

// Class determines whether an error is worth retrying.
type Class int

const (
	// Transient errors are expected to resolve on retry.
	Transient Class = iota
	// Permanent errors fail fast: retrying cannot help.
	Permanent
)

// String returns the label used in log events and metrics.
func (c Class) String() string {
	if c == Permanent {
		return "permanent"
	}
	return "transient"
}

// Classifier decides the class of an error. A nil Classifier treats every
// error as transient.
type Classifier func(error) Class

// Policy defines retry behavior. Construct once per call site; a Policy is
// immutable and safe for concurrent use.
type Policy struct {
	Name        string
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
	Classify    Classifier
	Logger      *slog.Logger
}

// DefaultPolicy provides sensible defaults for unconfigured call sites.
var DefaultPolicy = Policy{
	MaxAttempts: 5,
	BaseDelay:   1 * time.Second,
	MaxDelay:    60 * time.Second,
	Multiplier:  2.0,
}

// Attempt records one try of the wrapped operation.
type Attempt struct {
	Number int
	Delay  time.Duration
	Class  Class
	Err    error
}

// Exhausted is the terminal failure of a retried operation: either the
// budget ran out on transient errors, or a permanent error ended the run
// after a single attempt.
type Exhausted struct {
	Op       string
	Attempts []Attempt
	Last     error
}

func (e *Exhausted) Error() string {
	return fmt.Sprintf("%s failed after %d attempt(s): %v", e.Op, len(e.Attempts), e.Last)
}

func (e *Exhausted) Unwrap() error { return e.Last }

// Do runs op under the policy. On each failure the error is classified:
// permanent errors end the run immediately, transient errors sleep
// BaseDelay*Multiplier^(attempt-1) and retry up to MaxAttempts. The returned
// error is always *Exhausted on failure so callers can inspect the attempt
// trail. Do holds no shared state and is safe to call concurrently.
func Do[T any](ctx context.Context, p Policy, op func(context.Context) (T, error)) (T, error) {
	var zero T

	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.Multiplier < 1.0 {
		p.Multiplier = 1.0
	}
	log := p.Logger
	if log == nil {
		log = slog.Default()
	}

	attempts := make([]Attempt, 0, p.MaxAttempts)
	var delay time.Duration

	for n := 1; n <= p.MaxAttempts; n++ {
		result, err := op(ctx)
		if err == nil {
			log.Debug("operation succeeded",
				"op", p.Name, "attempt", n)
			return result, nil
		}

		class := Transient
		if p.Classify != nil {
			class = p.Classify(err)
		}
		attempts = append(attempts, Attempt{Number: n, Delay: delay, Class: class, Err: err})
		metrics.RetryAttemptsTotal.WithLabelValues(p.Name, class.String()).Inc()
		log.Warn("operation attempt failed",
			"op", p.Name, "attempt", n, "delay", delay, "class", class.String(), "error", err)

		if class == Permanent || n == p.MaxAttempts {
			metrics.RetryExhaustedTotal.WithLabelValues(p.Name).Inc()
			return zero, &Exhausted{Op: p.Name, Attempts: attempts, Last: err}
		}

		delay = backoff(n, p)
		select {
		case <-ctx.Done():
			attempts = append(attempts, Attempt{Number: n + 1, Delay: delay, Err: ctx.Err()})
			metrics.RetryExhaustedTotal.WithLabelValues(p.Name).Inc()
			return zero, &Exhausted{Op: p.Name, Attempts: attempts, Last: ctx.Err()}
		case <-time.After(delay):
		}
	}

	// Unreachable: the loop always returns.
	return zero, &Exhausted{Op: p.Name, Attempts: attempts, Last: ctx.Err()}
}

// backoff computes the delay before attempt n+1.
func backoff(attempt int, p Policy) time.Duration {
	d := float64(p.BaseDelay) * math.Pow(p.Multiplier, float64(attempt-1))
	if p.MaxDelay > 0 && d > float64(p.MaxDelay) {
		d = float64(p.MaxDelay)
	}
	return time.Duration(d)
}
