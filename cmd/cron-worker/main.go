package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/evergreenlabs/plantcare-backend/internal/cron"
	"github.com/evergreenlabs/plantcare-backend/internal/delivery"
	"github.com/evergreenlabs/plantcare-backend/internal/notifications"
	"github.com/evergreenlabs/plantcare-backend/internal/plants"
	"github.com/evergreenlabs/plantcare-backend/internal/reminders"
	"github.com/evergreenlabs/plantcare-backend/internal/tasks"
	"github.com/evergreenlabs/plantcare-backend/internal/users"
	"github.com/evergreenlabs/plantcare-backend/pkg/config"
	"github.com/evergreenlabs/plantcare-backend/pkg/db"
	"github.com/evergreenlabs/plantcare-backend/pkg/logger"
	"github.com/evergreenlabs/plantcare-backend/pkg/metrics"
	"github.com/evergreenlabs/plantcare-backend/pkg/migrate"
	"github.com/evergreenlabs/plantcare-backend/pkg/redis"
)

const lockKeyFormat = "pc:cron-worker:lock:%s"

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

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
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

	usersRepo := users.NewRepository(dbClient.DB())
	plantsRepo := plants.NewRepository(dbClient.DB())
	tasksRepo := tasks.NewRepository(dbClient.DB())
	notificationsRepo := notifications.NewRepository(dbClient.DB())
	preferencesRepo := notifications.NewPreferencesRepository(dbClient.DB())

	var smsDriver delivery.Driver = delivery.NewSMSDriver(logg)
	var emailDriver delivery.Driver
	if cfg.Email.ResendAPIKey != "" {
		driver, err := delivery.NewEmailDriver(cfg.Email)
		if err != nil {
			logg.Error(context.Background(), "failed to create email driver", err)
			os.Exit(1)
		}
		emailDriver = driver
	} else {
		logg.Warn(context.Background(), "resend api key not set, email delivery disabled")
	}

	dispatcher, err := notifications.NewDispatcher(notifications.DispatcherParams{
		Users:  usersRepo,
		Prefs:  preferencesRepo,
		Repo:   notificationsRepo,
		SMS:    smsDriver,
		Email:  emailDriver,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create notification dispatcher", err)
		os.Exit(1)
	}

	scanner, err := reminders.NewScanner(reminders.ScannerParams{
		Plants:        plantsRepo,
		Tasks:         tasksRepo,
		Notifications: notificationsRepo,
		Prefs:         preferencesRepo,
		Config:        cfg.Reminders,
		Logger:        logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create reminder scanner", err)
		os.Exit(1)
	}

	remindersJob, err := reminders.NewJob(reminders.JobParams{
		Scanner:    scanner,
		Dispatcher: dispatcher,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create reminders job", err)
		os.Exit(1)
	}

	cleanupJob, err := cron.NewNotificationCleanupJob(cron.NotificationCleanupJobParams{
		Logger:        logg,
		Repository:    notificationsRepo,
		RetentionDays: cfg.Reminders.NotificationRetentionDays,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create notification cleanup job", err)
		os.Exit(1)
	}

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	registry := cron.NewRegistry(remindersJob, cleanupJob)
	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
