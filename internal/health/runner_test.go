package health

import (
	"context"
	"strings"
	"testing"
	"time"
)

func stubCheck(name string, status Status) Checker {
	return CheckFunc{
		CheckName: name,
		Fn: func(context.Context) Result {
			return Result{Component: name, Status: status, Message: "stub"}
		},
	}
}

func TestExitCodeFollowsWorstStatus(t *testing.T) {
	tests := []struct {
		statuses []Status
		overall  Status
		exit     int
	}{
		{[]Status{StatusPass, StatusPass}, StatusPass, 0},
		{[]Status{StatusPass, StatusWarn}, StatusWarn, 1},
		{[]Status{StatusWarn, StatusFail}, StatusFail, 2},
		{[]Status{StatusFail, StatusPass}, StatusFail, 2},
		{[]Status{StatusWarn}, StatusWarn, 1},
	}

	for _, tt := range tests {
		var checks []Checker
		for i, s := range tt.statuses {
			checks = append(checks, stubCheck(string(rune('a'+i)), s))
		}
		report := NewRunner(time.Second, nil, checks...).Run(context.Background())

		if report.Overall != tt.overall {
			t.Errorf("%v: overall = %s, want %s", tt.statuses, report.Overall, tt.overall)
		}
		if report.ExitCode() != tt.exit {
			t.Errorf("%v: exit = %d, want %d", tt.statuses, report.ExitCode(), tt.exit)
		}
	}
}

func TestRunPreservesRegistrationOrder(t *testing.T) {
	report := NewRunner(time.Second, nil,
		stubCheck("first", StatusPass),
		stubCheck("second", StatusWarn),
		stubCheck("third", StatusPass),
	).Run(context.Background())

	want := []string{"first", "second", "third"}
	for i, res := range report.Results {
		if res.Component != want[i] {
			t.Errorf("result %d = %s, want %s", i, res.Component, want[i])
		}
	}
}

func TestRunIsolatesPanickingValidator(t *testing.T) {
	panicking := CheckFunc{
		CheckName: "bad",
		Fn: func(context.Context) Result {
			panic("validator exploded")
		},
	}

	report := NewRunner(time.Second, nil, panicking, stubCheck("good", StatusPass)).Run(context.Background())

	if report.Results[0].Status != StatusFail {
		t.Errorf("panicking validator status = %s, want FAIL", report.Results[0].Status)
	}
	if !strings.Contains(report.Results[0].Detail, "validator exploded") {
		t.Errorf("panic message not captured in detail: %q", report.Results[0].Detail)
	}
	if report.Results[1].Status != StatusPass {
		t.Errorf("healthy validator was affected: %s", report.Results[1].Status)
	}
}

func TestRunReturnsAtTimeoutBoundary(t *testing.T) {
	blocked := CheckFunc{
		CheckName: "stuck",
		Fn: func(context.Context) Result {
			// Ignores its deadline on purpose.
			time.Sleep(10 * time.Second)
			return Result{Component: "stuck", Status: StatusPass}
		},
	}

	timeout := 100 * time.Millisecond
	start := time.Now()
	report := NewRunner(timeout, nil, blocked, stubCheck("fast", StatusPass)).Run(context.Background())
	elapsed := time.Since(start)

	if elapsed > timeout+500*time.Millisecond {
		t.Errorf("run took %s, want return near the %s budget", elapsed, timeout)
	}
	if report.Results[0].Status != StatusFail || report.Results[0].Message != "timeout" {
		t.Errorf("stuck validator = %+v, want FAIL/timeout", report.Results[0])
	}
	if report.Results[1].Status != StatusPass {
		t.Errorf("fast validator = %s, want PASS", report.Results[1].Status)
	}
	if report.Overall != StatusFail {
		t.Errorf("overall = %s, want FAIL", report.Overall)
	}
}

func TestRunReportDuration(t *testing.T) {
	report := NewRunner(time.Second, nil, stubCheck("a", StatusPass)).Run(context.Background())
	if report.Duration <= 0 {
		t.Errorf("duration = %s, want > 0", report.Duration)
	}
	if report.ID == "" {
		t.Error("report ID is empty")
	}
}
