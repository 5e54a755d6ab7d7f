package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/alert"
	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/collect"
	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/core/config"
	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/health"
	redisclient "github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/infra/redis"
	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/infra/storage"
	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/infra/storage/memory"
	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/infra/storage/postgres"
	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/logrotate"
	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/retry"
	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/sensor"
)

func main() {
	if err := godotenv.Load(); err != nil {
		// No .env file is fine; environment may be set by the supervisor.
		slog.Debug("no .env file found")
	}

	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	isDebug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	slogLevel := slog.LevelInfo
	if *isDebug || cfg.Logging.Level == "debug" {
		slogLevel = slog.LevelDebug
	}

	// The file sink is the bounded rotator, so the service's own logging
	// exercises rotation.
	alerts := alert.NewStore(cfg.Alerts.Path)
	rotationPolicy := retryPolicy(cfg.Retry)

	var sink io.Writer = os.Stderr
	var rotator *logrotate.Rotator
	if cfg.Logging.File != "" {
		rotator, err = logrotate.New(cfg.Logging.File, cfg.Logging.Rotation, alerts, rotationPolicy, nil)
		if err != nil {
			slog.Error("Failed to open log sink", "error", err)
			os.Exit(1)
		}
		defer rotator.Close()
		sink = io.MultiWriter(os.Stderr, rotator)
	}

	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(sink, &slog.HandlerOptions{Level: slogLevel})
	} else {
		handler = tint.NewHandler(sink, &tint.Options{
			Level:      slogLevel,
			TimeFormat: time.RFC3339,
		})
	}
	log := slog.New(handler)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", slogLevel.String())

	// Storage: Postgres when configured, in-memory twin otherwise.
	var readings storage.ReadingRepository
	var verifier storage.DurabilityVerifier
	var dbPing health.Pinger

	if cfg.Database.URL != "" {
		store, serr := postgres.NewStore(context.Background(), cfg.Database, log)
		if serr != nil {
			log.Error("Failed to init storage", "error", serr)
			os.Exit(1)
		}
		defer store.Close()
		readings = postgres.NewReadingRepo(store, retryPolicy(cfg.Retry))
		verifier = store
		dbPing = health.PingerFunc(store.Health)
	} else {
		log.Warn("No database configured, using in-memory storage")
		mem := memory.NewMemoryStorage()
		readings = memory.NewReadingRepo(mem)
		verifier = mem
	}

	var cache *redisclient.Cache
	if cfg.Redis.URL != "" {
		cache, err = redisclient.NewCache(cfg.Redis)
		if err != nil {
			log.Error("Failed to init redis", "error", err)
			os.Exit(1)
		}
		defer cache.Close()
	}

	// Health framework
	runner := health.NewRunner(time.Duration(cfg.Health.TimeoutSeconds)*time.Second, log,
		health.DurabilityCheck{Store: verifier},
		health.WriteCheck{Store: verifier},
		health.AlertCheck{Alerts: alerts},
	)
	if rotator != nil {
		runner.Register(health.RotationCheck{Rotator: rotator})
	}
	if dbPing != nil {
		runner.Register(health.ConnectivityCheck{
			Component:   "database",
			Target:      dbPing,
			Remediation: "check the database URL, network and credentials",
		})
	}
	if cache != nil {
		runner.Register(health.ConnectivityCheck{
			Component:   "redis",
			Target:      health.PingerFunc(cache.Ping),
			Remediation: "check the redis URL and network",
		})
	}

	healthServer := health.NewServer(runner, cfg.Server.Port)
	go func() {
		if serr := healthServer.Start(); serr != nil && serr != http.ErrServerClosed {
			log.Error("Health server stopped", "error", serr)
		}
	}()

	// Sensors: simulated sources stand in for real device integrations.
	var sources []sensor.Source
	interval := time.Minute
	for _, sc := range cfg.Sensors {
		sources = append(sources, &sensor.Simulated{DeviceID: sc.ID, Base: sc.BaseTemp})
		if sc.PollInterval > 0 {
			interval = sc.PollInterval
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	collector := collect.New(sources, interval, readings, cache, log)
	collector.Start(ctx)
	log.Info("Collector started", "sensors", len(sources), "interval", interval)

	// Wait for Signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal, shutting down...", "signal", sig)

	cancel()
	collector.Wait()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := healthServer.Stop(shutdownCtx); err != nil {
		log.Error("Error during shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Stopped gracefully")
}

func retryPolicy(cfg config.RetryConfig) retry.Policy {
	return retry.Policy{
		MaxAttempts: cfg.MaxAttempts,
		BaseDelay:   cfg.BaseDelay,
		MaxDelay:    cfg.MaxDelay,
		Multiplier:  cfg.BackoffMultiplier,
	}
}
