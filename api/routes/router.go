package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/evergreenlabs/plantcare-backend/api/controllers"
	"github.com/evergreenlabs/plantcare-backend/api/middleware"
	"github.com/evergreenlabs/plantcare-backend/internal/auth"
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
	"github.com/evergreenlabs/plantcare-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	SessionChecker session.AccessSessionChecker

	AuthService          auth.Service
	RegisterService      auth.RegisterService
	UsersRepo            *users.Repository
	PlantsService        plants.Service
	GroupsService        groups.Service
	TasksService         tasks.Service
	NotificationsService notifications.Service
	PreferencesService   notifications.PreferencesService
	MediaService         media.Service
	RemindersJob         *reminders.Job
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.RegisterService, deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, cfg.JWT, logg))
	})

	r.Route("/api/internal/v1/cron", func(r chi.Router) {
		r.Post("/reminders", controllers.TriggerReminders(deps.RemindersJob, cfg.Reminders.TriggerSecret, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/users/me", func(r chi.Router) {
			r.Get("/", controllers.ProfileMe(deps.UsersRepo, logg))
			r.Put("/timezone", controllers.ProfileUpdateTimezone(deps.UsersRepo, logg))
		})

		r.Route("/plants", func(r chi.Router) {
			r.Get("/", controllers.PlantList(deps.PlantsService, logg))
			r.Post("/", controllers.PlantCreate(deps.PlantsService, logg))
			r.Route("/{plantId}", func(r chi.Router) {
				r.Get("/", controllers.PlantGet(deps.PlantsService, logg))
				r.Put("/", controllers.PlantUpdate(deps.PlantsService, logg))
				r.Delete("/", controllers.PlantDelete(deps.PlantsService, logg))
				r.Get("/tasks", controllers.TaskListByPlant(deps.TasksService, logg))
				r.Route("/photo", func(r chi.Router) {
					r.Get("/", controllers.PlantPhotoURL(deps.MediaService, logg))
					r.Post("/presign", controllers.PlantPhotoPresign(deps.MediaService, logg))
					r.Post("/confirm", controllers.PlantPhotoConfirm(deps.MediaService, logg))
				})
			})
		})

		r.Route("/groups", func(r chi.Router) {
			r.Get("/", controllers.GroupList(deps.GroupsService, logg))
			r.Post("/", controllers.GroupCreate(deps.GroupsService, logg))
			r.Route("/{groupId}", func(r chi.Router) {
				r.Get("/", controllers.GroupGet(deps.GroupsService, logg))
				r.Put("/", controllers.GroupUpdate(deps.GroupsService, logg))
				r.Delete("/", controllers.GroupDelete(deps.GroupsService, logg))
				r.Route("/members", func(r chi.Router) {
					r.Get("/", controllers.GroupMemberList(deps.GroupsService, logg))
					r.Post("/", controllers.GroupMemberAdd(deps.GroupsService, logg))
					r.Delete("/{userId}", controllers.GroupMemberRemove(deps.GroupsService, logg))
				})
			})
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", controllers.TaskList(deps.TasksService, logg))
			r.Post("/", controllers.TaskCreate(deps.TasksService, logg))
			r.Route("/{taskId}", func(r chi.Router) {
				r.Get("/", controllers.TaskGet(deps.TasksService, logg))
				r.Put("/", controllers.TaskUpdate(deps.TasksService, logg))
				r.Delete("/", controllers.TaskDelete(deps.TasksService, logg))
				r.Post("/complete", controllers.TaskComplete(deps.TasksService, logg))
				r.Get("/events", controllers.TaskEvents(deps.TasksService, logg))
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(deps.NotificationsService, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(deps.NotificationsService, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(deps.NotificationsService, logg))
			r.Delete("/{notificationId}", controllers.DeleteNotification(deps.NotificationsService, logg))
		})

		r.Route("/preferences", func(r chi.Router) {
			r.Get("/", controllers.PreferencesGet(deps.PreferencesService, logg))
			r.Put("/", controllers.PreferencesUpdate(deps.PreferencesService, logg))
		})
	})

	return r
}
