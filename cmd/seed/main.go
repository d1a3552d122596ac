package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/task-manager-api/config"
	"github.com/oksasatya/task-manager-api/internal/application"
	"github.com/oksasatya/task-manager-api/internal/domain/errs"
	pginfra "github.com/oksasatya/task-manager-api/internal/infrastructure/postgres"
	"github.com/oksasatya/task-manager-api/pkg/helpers"
	"github.com/oksasatya/task-manager-api/pkg/validation"
)

// seeds a demo account with a handful of tasks; safe to run more than once
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	validation.Init()

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)
	tokens := application.NewTokenService(users, helpers.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL), logger)
	userSvc := application.NewUserService(users, pginfra.NewTransactor(pool), tokens, application.LogNotifier{Logger: logger}, logger)
	taskSvc := application.NewTaskService(pginfra.NewTaskRepository(pool), nil, logger)

	const (
		email    = "demo@example.com"
		password = "red12345!"
	)
	u, token, err := userSvc.Register(ctx, application.RegisterInput{Name: "Demo User", Email: email, Password: password, Age: 27})
	if errors.Is(err, errs.ErrConflict) {
		u, token, err = userSvc.Login(ctx, email, password)
	}
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", u.ID, email, password)
	fmt.Printf("bearer token: %s\n", token)

	existing, err := taskSvc.List(ctx, u.ID, application.ListQuery{})
	if err != nil {
		log.Fatalf("failed to list tasks: %v", err)
	}
	if len(existing) > 0 {
		fmt.Printf("user already has %d tasks, skipping\n", len(existing))
		return
	}
	for _, in := range []application.CreateTaskInput{
		{Description: "Clean the house", Completed: true},
		{Description: "Buy groceries"},
		{Description: "Water the plants"},
		{Description: "Renew passport"},
	} {
		t, err := taskSvc.Create(ctx, u.ID, in)
		if err != nil {
			log.Fatalf("failed to seed task: %v", err)
		}
		fmt.Printf("seeded task: id=%s %q completed=%v\n", t.ID, t.Description, t.Completed)
	}
}
