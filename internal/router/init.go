package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/task-manager-api/internal/application"
	"github.com/oksasatya/task-manager-api/internal/container"
	repo "github.com/oksasatya/task-manager-api/internal/domain/repository"
	"github.com/oksasatya/task-manager-api/internal/infrastructure/gcs"
	pginfra "github.com/oksasatya/task-manager-api/internal/infrastructure/postgres"
	"github.com/oksasatya/task-manager-api/internal/infrastructure/search"
	handlers "github.com/oksasatya/task-manager-api/internal/interface/http"
	"github.com/oksasatya/task-manager-api/internal/interface/middleware"
	"github.com/oksasatya/task-manager-api/internal/router/modules"
)

// Services is everything the HTTP modules need.
type Services struct {
	Tokens *application.TokenService
	Users  *application.UserService
	Tasks  *application.TaskService
}

// buildServices wires repositories and optional infrastructure from the container.
func buildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	tasks := pginfra.NewTaskRepository(pool)

	var index repo.TaskSearchIndex
	if es := container.GetES(); es != nil {
		index = search.NewTaskIndex(es, cfg.ESTasksIndex)
	}

	tokens := application.NewTokenService(users, container.GetJWT(), logger)
	userSvc := application.NewUserService(users, pginfra.NewTransactor(pool), tokens, container.GetNotifier(), logger)
	userSvc.AvatarSize = cfg.AvatarSize
	userSvc.Index = index
	if client := container.GetGCS(); client != nil && cfg.GCSBucket != "" {
		userSvc.Mirror = gcs.NewAvatarMirror(client, cfg.GCSBucket, cfg.GCSAvatarPrefix)
	}

	return Services{
		Tokens: tokens,
		Users:  userSvc,
		Tasks:  application.NewTaskService(tasks, index, logger),
	}
}

// InitModules builds the services from the container and registers every module.
// Call once during startup.
func InitModules(r *Registry) {
	svc := buildServices()
	cfg := container.GetConfig()
	pool := container.GetPGPool()

	AddModules(r, svc, ModuleOptions{
		Limits: modules.Limits{
			RDB:           container.GetRedis(),
			PerMinute:     cfg.RateLimitPerMin,
			AuthPerMinute: cfg.AuthRateLimitPerM,
		},
		AvatarMaxBytes: cfg.AvatarMaxBytes,
		Health:         handlers.HealthHandler{Ping: pool.Ping},
		Metrics:        promhttp.Handler(),
		DebugVars:      cfg.DebugMetricsEnabled,
		Logger:         container.GetLogger(),
	})
}

type ModuleOptions struct {
	Limits         modules.Limits
	AvatarMaxBytes int64
	Health         handlers.HealthHandler
	Metrics        http.Handler
	DebugVars      bool
	Logger         *logrus.Logger
}

// AddModules registers the user, task and debug modules backed by svc.
func AddModules(r *Registry, svc Services, opts ModuleOptions) {
	logger := opts.Logger
	auth := middleware.Auth(svc.Tokens, logger)

	r.Add(modules.NewUserModule(
		handlers.NewUserHandler(svc.Users, logger),
		handlers.NewAvatarHandler(svc.Users, opts.AvatarMaxBytes, logger),
		auth,
		opts.Limits,
	))
	r.Add(modules.NewTaskModule(handlers.NewTaskHandler(svc.Tasks, logger), auth, opts.Limits))
	r.Add(&modules.DebugModule{
		Health:    opts.Health,
		Metrics:   opts.Metrics,
		DebugVars: opts.DebugVars,
		RDB:       opts.Limits.RDB,
	})
}
