// Command healthcheck runs the validator suite once and exits with the
// operational contract code: 0 = all PASS, 1 = WARN present, 2 = FAIL present.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/alert"
	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/core/config"
	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/health"
	redisclient "github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/infra/redis"
	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/infra/storage/postgres"
	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/logrotate"
	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/retry"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	timeoutSec := flag.Int("timeout", 0, "Override the global timeout budget in seconds")
	flag.Parse()

	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelWarn,
		TimeFormat: time.RFC3339,
	}))
	slog.SetDefault(log)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("Failed to load config", "error", err)
		os.Exit(2)
	}
	if *timeoutSec > 0 {
		cfg.Health.TimeoutSeconds = *timeoutSec
	}

	alerts := alert.NewStore(cfg.Alerts.Path)
	runner := health.NewRunner(time.Duration(cfg.Health.TimeoutSeconds)*time.Second, log,
		health.AlertCheck{Alerts: alerts},
	)

	if cfg.Logging.File != "" {
		rotator, rerr := logrotate.New(cfg.Logging.File, cfg.Logging.Rotation, alerts, retry.Policy{
			MaxAttempts: cfg.Retry.MaxAttempts,
			BaseDelay:   cfg.Retry.BaseDelay,
			MaxDelay:    cfg.Retry.MaxDelay,
			Multiplier:  cfg.Retry.BackoffMultiplier,
		}, log)
		if rerr != nil {
			log.Warn("Could not open log sink for rotation check", "error", rerr)
		} else {
			defer rotator.Close()
			runner.Register(health.RotationCheck{Rotator: rotator})
		}
	}

	if cfg.Database.URL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		store, serr := postgres.NewStore(ctx, cfg.Database, log)
		cancel()
		if serr != nil {
			// Unreachable storage is itself a finding, not a crash.
			runner.Register(health.CheckFunc{
				CheckName: "storage.connect",
				Fn: func(context.Context) health.Result {
					return health.Result{
						Component:   "storage.connect",
						Status:      health.StatusFail,
						Message:     "database is unreachable",
						Remediation: "check the database URL, network and credentials",
						Detail:      serr.Error(),
					}
				},
			})
		} else {
			defer store.Close()
			runner.Register(health.DurabilityCheck{Store: store})
			runner.Register(health.WriteCheck{Store: store})
			runner.Register(health.ConnectivityCheck{
				Component:   "database",
				Target:      health.PingerFunc(store.Health),
				Remediation: "check the database URL, network and credentials",
			})
		}
	}

	if cfg.Redis.URL != "" {
		cache, cerr := redisclient.NewCache(cfg.Redis)
		if cerr != nil {
			runner.Register(health.CheckFunc{
				CheckName: "redis",
				Fn: func(context.Context) health.Result {
					return health.Result{
						Component:   "redis",
						Status:      health.StatusFail,
						Message:     "redis is unreachable",
						Remediation: "check the redis URL and network",
						Detail:      cerr.Error(),
					}
				},
			})
		} else {
			defer cache.Close()
			runner.Register(health.ConnectivityCheck{
				Component:   "redis",
				Target:      health.PingerFunc(cache.Ping),
				Remediation: "check the redis URL and network",
			})
		}
	}

	report := runner.Run(context.Background())
	health.Render(os.Stdout, report)
	os.Exit(report.ExitCode())
}
