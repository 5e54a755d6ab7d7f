package health

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/alert"
	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/core/domain"
	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/infra/storage/memory"
	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/logrotate"
	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/retry"
)

func TestDurabilityCheck(t *testing.T) {
	store := memory.NewMemoryStorage()

	res := DurabilityCheck{Store: store}.Probe(context.Background())
	if res.Status != StatusPass {
		t.Errorf("status = %s, want PASS with durability on", res.Status)
	}

	store.SetDurability(domain.DurabilityState{WriteAheadEnabled: false})
	res = DurabilityCheck{Store: store}.Probe(context.Background())
	if res.Status != StatusWarn {
		t.Errorf("status = %s, want WARN with durability off", res.Status)
	}
	if res.Remediation == "" {
		t.Error("WARN result carries no remediation")
	}
}

func TestWriteCheck(t *testing.T) {
	res := WriteCheck{Store: memory.NewMemoryStorage()}.Probe(context.Background())
	if res.Status != StatusPass {
		t.Errorf("status = %s, want PASS", res.Status)
	}
}

func TestAlertCheck(t *testing.T) {
	alerts := alert.NewStore(filepath.Join(t.TempDir(), "failure.json"))

	res := AlertCheck{Alerts: alerts}.Probe(context.Background())
	if res.Status != StatusPass {
		t.Errorf("status = %s, want PASS with no alert", res.Status)
	}

	alerts.Write("log_rotation:/var/log/app.log", errors.New("no space left on device"))
	res = AlertCheck{Alerts: alerts}.Probe(context.Background())
	if res.Status != StatusFail {
		t.Errorf("status = %s, want FAIL with alert present", res.Status)
	}
	if !strings.Contains(res.Message, "log_rotation:/var/log/app.log") {
		t.Errorf("message %q does not name the failed operation", res.Message)
	}
	if res.Remediation == "" {
		t.Error("FAIL result carries no remediation")
	}
}

func TestRotationCheck(t *testing.T) {
	dir := t.TempDir()
	alerts := alert.NewStore(filepath.Join(dir, "failure.json"))
	policy := retry.Policy{MaxAttempts: 1, BaseDelay: time.Millisecond, Multiplier: 2.0}

	tests := []struct {
		name   string
		cfg    logrotate.Config
		expect Status
	}{
		{"sane thresholds", logrotate.Config{MaxBytes: 10 << 20, BackupCount: 5, MaxTotalBytes: 100 << 20}, StatusPass},
		{"cap below one backup", logrotate.Config{MaxBytes: 10 << 20, BackupCount: 5, MaxTotalBytes: 15 << 20}, StatusWarn},
	}

	for _, tt := range tests {
		r, err := logrotate.New(filepath.Join(dir, tt.name+".log"), tt.cfg, alerts, policy, nil)
		if err != nil {
			t.Fatalf("%s: New: %v", tt.name, err)
		}
		res := RotationCheck{Rotator: r}.Probe(context.Background())
		r.Close()
		if res.Status != tt.expect {
			t.Errorf("%s: status = %s, want %s", tt.name, res.Status, tt.expect)
		}
	}
}

func TestConnectivityCheck(t *testing.T) {
	ok := ConnectivityCheck{
		Component: "database",
		Target:    PingerFunc(func(context.Context) error { return nil }),
	}.Probe(context.Background())
	if ok.Status != StatusPass {
		t.Errorf("status = %s, want PASS", ok.Status)
	}

	down := ConnectivityCheck{
		Component:   "redis",
		Target:      PingerFunc(func(context.Context) error { return errors.New("dial tcp: connection refused") }),
		Remediation: "check the redis URL and network",
	}.Probe(context.Background())
	if down.Status != StatusFail {
		t.Errorf("status = %s, want FAIL", down.Status)
	}
	if down.Remediation == "" || down.Detail == "" {
		t.Errorf("FAIL result incomplete: %+v", down)
	}
}

func TestRenderShowsRemediationAndRedacts(t *testing.T) {
	report := Report{
		ID:      "run-1",
		Overall: StatusFail,
		Results: []Result{
			{Component: "storage.write", Status: StatusFail,
				Message:     "auth failed, api_key=AKIAABCDEFGHIJKL1234",
				Remediation: "rotate the credentials"},
			{Component: "alerts", Status: StatusPass, Message: "no unresolved alerts"},
		},
	}

	var buf bytes.Buffer
	Render(&buf, report)
	out := buf.String()

	if strings.Contains(out, "AKIAABCDEFGHIJKL1234") {
		t.Errorf("raw credential rendered:\n%s", out)
	}
	if !strings.Contains(out, "api_key=[REDACTED]") {
		t.Errorf("expected redacted credential:\n%s", out)
	}
	if !strings.Contains(out, "rotate the credentials") {
		t.Errorf("remediation not rendered:\n%s", out)
	}
}
