// Package main is the entry point for the electa API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"electa/internal/config"
	"electa/internal/domain/auth"
	"electa/internal/domain/catalog/course"
	"electa/internal/domain/catalog/elective"
	"electa/internal/domain/choice"
	"electa/internal/domain/user"
	v1 "electa/internal/infrastructure/http/v1"
	"electa/internal/infrastructure/sso"
	"electa/internal/infrastructure/storage/postgres"
	"electa/internal/infrastructure/storage/postgres/catalog_repo"
	"electa/internal/infrastructure/storage/postgres/choice_repo"
	"electa/internal/infrastructure/storage/postgres/user_repo"
	"electa/pkg/logger"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("configuration error: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting electa server")

	// --- Database ---
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatalw("failed to apply schema", "error", err)
	}

	txManager := postgres.NewTxManager(pool)

	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- Repositories ---
	courseRepo := catalog_repo.NewCourseRepo(txManager)
	electiveRepo := catalog_repo.NewElectiveRepo(txManager)
	choiceRepo := choice_repo.NewChoiceRepo(txManager)
	userRepo := user_repo.NewUserRepo(txManager)

	// --- Services ---
	courseService := course.NewService(courseRepo, electiveRepo, txManager)
	electiveService := elective.NewService(electiveRepo, courseRepo, txManager)
	choiceService := choice.NewService(choiceRepo, electiveRepo, txManager)
	userService := user.NewService(userRepo, txManager)

	registerAuditHooks(auditService, courseService, electiveService, userService)

	jwtConfig := auth.JWTConfig{
		Secret:         cfg.JWT.Secret,
		Issuer:         cfg.JWT.Issuer,
		AccessTokenTTL: cfg.JWT.TokenTTL,
	}
	jwtService := auth.NewJWTService(jwtConfig)

	ssoClient := sso.NewClient(cfg.SSO)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:       pool,
		Logger:     log,
		JWTService: jwtService,
		SSOClient:  ssoClient,
		Courses:    courseService,
		Electives:  electiveService,
		Choices:    choiceService,
		Users:      userService,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

// registerAuditHooks records every catalog and account mutation in the
// audit trail. Hooks run after commit; a failed audit write is logged by
// the service layer, never surfaced to the client.
func registerAuditHooks(
	audit *postgres.AuditService,
	courses *course.Service,
	electives *elective.Service,
	users *user.Service,
) {
	courses.Hooks().OnAfterCreate(func(ctx context.Context, c *course.Course) error {
		return audit.LogChange(ctx, "course", c.ID, postgres.AuditActionCreate, postgres.StructToMap(c))
	})
	courses.Hooks().OnAfterUpdate(func(ctx context.Context, c *course.Course) error {
		return audit.LogChange(ctx, "course", c.ID, postgres.AuditActionUpdate, postgres.StructToMap(c))
	})
	courses.Hooks().OnAfterDelete(func(ctx context.Context, c *course.Course) error {
		return audit.LogChange(ctx, "course", c.ID, postgres.AuditActionDelete, nil)
	})

	electives.Hooks().OnAfterCreate(func(ctx context.Context, e *elective.Elective) error {
		return audit.LogChange(ctx, "elective", e.ID, postgres.AuditActionCreate, postgres.StructToMap(e))
	})
	electives.Hooks().OnAfterUpdate(func(ctx context.Context, e *elective.Elective) error {
		return audit.LogChange(ctx, "elective", e.ID, postgres.AuditActionUpdate, postgres.StructToMap(e))
	})
	electives.Hooks().OnAfterDelete(func(ctx context.Context, e *elective.Elective) error {
		return audit.LogChange(ctx, "elective", e.ID, postgres.AuditActionDelete, nil)
	})

	users.Hooks().OnAfterUpdate(func(ctx context.Context, u *user.User) error {
		return audit.LogChange(ctx, "user", u.ID, postgres.AuditActionUpdate, map[string]any{
			"role": u.Role,
		})
	})
}
