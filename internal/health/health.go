// Package health runs isolated, timeout-bounded validators and aggregates
// them into a single pass/warn/fail report with an exit-code contract.
package health

import (
	"context"
	"time"
)

// Status is the outcome of one validator or of the aggregate run.
type Status string

const (
	StatusPass Status = "PASS"
	StatusWarn Status = "WARN"
	StatusFail Status = "FAIL"
)

// severity orders statuses for worst-case aggregation: FAIL > WARN > PASS.
func (s Status) severity() int {
	switch s {
	case StatusFail:
		return 2
	case StatusWarn:
		return 1
	default:
		return 0
	}
}

// Result is one validator's verdict. Created fresh per invocation, never
// mutated afterwards.
type Result struct {
	Component   string `json:"component"`
	Status      Status `json:"status"`
	Message     string `json:"message"`
	Remediation string `json:"remediation,omitempty"`
	Detail      string `json:"detail,omitempty"`
}

// Report is the aggregate of one health run. ExitCode is derived solely from
// the worst status present.
type Report struct {
	ID       string        `json:"id"`
	Results  []Result      `json:"results"`
	Overall  Status        `json:"overall"`
	Duration time.Duration `json:"duration"`
}

// ExitCode maps the overall status onto the process-level contract:
// 0 = all PASS, 1 = at least one WARN, 2 = at least one FAIL.
func (r Report) ExitCode() int {
	return r.Overall.severity()
}

// Checker is the validator plug-in interface. A Checker must be failure
// isolated and honor the deadline on ctx; network-level timeouts are
// expected to sit well under the runner's global budget.
type Checker interface {
	Name() string
	Probe(ctx context.Context) Result
}

// CheckFunc adapts a function to the Checker interface.
type CheckFunc struct {
	CheckName string
	Fn        func(ctx context.Context) Result
}

func (c CheckFunc) Name() string                      { return c.CheckName }
func (c CheckFunc) Probe(ctx context.Context) Result { return c.Fn(ctx) }

func aggregate(results []Result) Status {
	overall := StatusPass
	for _, res := range results {
		if res.Status.severity() > overall.severity() {
			overall = res.Status
		}
	}
	return overall
}
