package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/supplytrust/compliance-backend/internal/cron"
	"github.com/supplytrust/compliance-backend/internal/documents"
	"github.com/supplytrust/compliance-backend/internal/lifecycle"
	"github.com/supplytrust/compliance-backend/internal/notifications"
	"github.com/supplytrust/compliance-backend/internal/requests"
	"github.com/supplytrust/compliance-backend/pkg/config"
	"github.com/supplytrust/compliance-backend/pkg/db"
	"github.com/supplytrust/compliance-backend/pkg/logger"
	"github.com/supplytrust/compliance-backend/pkg/metrics"
	"github.com/supplytrust/compliance-backend/pkg/migrate"
	"github.com/supplytrust/compliance-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	policy := lifecycle.Policy{ExpiringWindowDays: cfg.Compliance.ExpiringWindowDays}
	documentRepo := documents.NewRepository(dbClient.DB())
	requestRepo := requests.NewRepository(dbClient.DB())
	stateRepo := notifications.NewStateRepository(dbClient.DB())

	notificationService, err := notifications.NewService(notifications.ServiceParams{
		DocumentRepo: documentRepo,
		RequestRepo:  requestRepo,
		StateRepo:    stateRepo,
		Policy:       policy,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create notification service", err)
		os.Exit(1)
	}

	statusJob, err := cron.NewStatusRefreshJob(cron.StatusRefreshJobParams{
		Logger:       logg,
		DB:           dbClient,
		DocumentRepo: documentRepo,
		Policy:       policy,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create status refresh job", err)
		os.Exit(1)
	}

	pruneJob, err := cron.NewNotificationPruneJob(cron.NotificationPruneJobParams{
		Logger:        logg,
		Notifications: notificationService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create notification prune job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, cfg.Cron.LockKey, cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(statusJob, pruneJob),
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}
