package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: info
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Retry.MaxAttempts != 5 {
		t.Errorf("max_attempts = %d, want 5", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.BaseDelay != time.Second {
		t.Errorf("base_delay = %s, want 1s", cfg.Retry.BaseDelay)
	}
	if cfg.Retry.BackoffMultiplier != 2.0 {
		t.Errorf("backoff_multiplier = %v, want 2.0", cfg.Retry.BackoffMultiplier)
	}
	if cfg.Health.TimeoutSeconds != 15 {
		t.Errorf("health timeout = %d, want 15", cfg.Health.TimeoutSeconds)
	}
	if cfg.Alerts.Path == "" {
		t.Error("alert path default missing")
	}
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("TEST_DB_URL", "postgres://collector@localhost:5432/readings")

	path := writeConfig(t, `
database:
  url: ${TEST_DB_URL}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.URL != "postgres://collector@localhost:5432/readings" {
		t.Errorf("url = %q, env not expanded", cfg.Database.URL)
	}
}

func TestLoadSensorDefaults(t *testing.T) {
	path := writeConfig(t, `
sensors:
  - id: "hue:abc"
    name: "Living Room"
  - id: "hue:def"
    name: "Bedroom"
    poll_interval: 30000000000
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Sensors) != 2 {
		t.Fatalf("sensors = %d, want 2", len(cfg.Sensors))
	}
	if cfg.Sensors[0].PollInterval != time.Minute {
		t.Errorf("default poll interval = %s, want 1m", cfg.Sensors[0].PollInterval)
	}
	if cfg.Sensors[1].PollInterval != 30*time.Second {
		t.Errorf("poll interval = %s, want 30s", cfg.Sensors[1].PollInterval)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
