package main

import (
	"context"
	"net/http"
	"os"

	"github.com/evergreenlabs/plantcare-backend/api/routes"
	"github.com/evergreenlabs/plantcare-backend/internal/auth"
	"github.com/evergreenlabs/plantcare-backend/internal/delivery"
	"github.com/evergreenlabs/plantcare-backend/internal/groups"
	"github.com/evergreenlabs/plantcare-backend/internal/media"
	"github.com/evergreenlabs/plantcare-backend/internal/notifications"
	"github.com/evergreenlabs/plantcare-backend/internal/plants"
	"github.com/evergreenlabs/plantcare-backend/internal/reminders"
	"github.com/evergreenlabs/plantcare-backend/internal/tasks"
	"github.com/evergreenlabs/plantcare-backend/internal/users"
	"github.com/evergreenlabs/plantcare-backend/pkg/auth/session"
	"github.com/evergreenlabs/plantcare-backend/pkg/config"
	"github.com/evergreenlabs/plantcare-backend/pkg/db"
	"github.com/evergreenlabs/plantcare-backend/pkg/logger"
	"github.com/evergreenlabs/plantcare-backend/pkg/migrate"
	"github.com/evergreenlabs/plantcare-backend/pkg/redis"
	"github.com/evergreenlabs/plantcare-backend/pkg/storage/gcs"
	"github.com/joho/godotenv"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())
	plantsRepo := plants.NewRepository(dbClient.DB())
	groupsRepo := groups.NewRepository(dbClient.DB())
	tasksRepo := tasks.NewRepository(dbClient.DB())
	notificationsRepo := notifications.NewRepository(dbClient.DB())
	preferencesRepo := notifications.NewPreferencesRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	groupsService, err := groups.NewService(groups.ServiceParams{
		DB:    dbClient,
		Repo:  groupsRepo,
		Users: usersRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create groups service", err)
		os.Exit(1)
	}

	plantsService, err := plants.NewService(plants.ServiceParams{
		Repo:   plantsRepo,
		Groups: groupsRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create plants service", err)
		os.Exit(1)
	}

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

	notificationsService, err := notifications.NewService(notificationsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	preferencesService, err := notifications.NewPreferencesService(preferencesRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create preferences service", err)
		os.Exit(1)
	}

	tasksService, err := tasks.NewService(tasks.ServiceParams{
		Repo:     tasksRepo,
		Plants:   plantsRepo,
		Notifier: dispatcher,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create tasks service", err)
		os.Exit(1)
	}

	var mediaService media.Service
	if cfg.GCS.BucketName != "" {
		gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap gcs", err)
			os.Exit(1)
		}
		defer func() {
			if err := gcsClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing gcs", err)
			}
		}()

		mediaService, err = media.NewService(plantsRepo, gcsClient, cfg.GCS.BucketName, cfg.GCS.UploadURLExpiry, cfg.GCS.DownloadURLExpiry)
		if err != nil {
			logg.Error(context.Background(), "failed to create media service", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "gcs bucket not set, plant photos disabled")
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

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:               cfg,
			Logger:               logg,
			DB:                   dbClient,
			Redis:                redisClient,
			SessionChecker:       sessionManager,
			AuthService:          authService,
			RegisterService:      registerService,
			UsersRepo:            usersRepo,
			PlantsService:        plantsService,
			GroupsService:        groupsService,
			TasksService:         tasksService,
			NotificationsService: notificationsService,
			PreferencesService:   preferencesService,
			MediaService:         mediaService,
			RemindersJob:         remindersJob,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
