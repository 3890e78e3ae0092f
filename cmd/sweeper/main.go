package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ShivamNishad0/tasktracker/config"
	"github.com/ShivamNishad0/tasktracker/internal/health"
	"github.com/ShivamNishad0/tasktracker/internal/infrastructure/postgres"
	ctxlog "github.com/ShivamNishad0/tasktracker/internal/log"
	"github.com/ShivamNishad0/tasktracker/internal/metrics"
	"github.com/ShivamNishad0/tasktracker/internal/notify"
	"github.com/ShivamNishad0/tasktracker/internal/sweeper"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	logger.Info("db connected")

	metrics.Register()
	metrics.SweeperStartTime.SetToCurrentTime()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)

	userRepo := postgres.NewUserRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	notifier := notify.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)

	s := sweeper.New(
		taskRepo,
		userRepo,
		notifier,
		logger,
		cfg.ReminderHorizon(),
		cfg.NotifyTimeout(),
		cfg.SweepBatchSize,
	)

	c := cron.New()
	if _, err := c.AddFunc(cfg.ReminderCron, func() { s.RunSweepOnce(ctx) }); err != nil {
		stop()
		log.Fatalf("invalid REMINDER_CRON %q: %v", cfg.ReminderCron, err)
	}
	c.Start()
	logger.Info("sweeper started", "cron", cfg.ReminderCron, "horizon", cfg.ReminderHorizon())

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)
	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()

	// Let an in-flight sweep finish before exiting.
	<-c.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}

	logger.Info("sweeper shut down")
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
