// Package main seeds a development database: applies the schema, creates
// the base course buckets, and bootstraps the first admin account.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"electa/internal/config"
	"electa/internal/core/apperror"
	"electa/internal/domain/catalog/course"
	"electa/internal/domain/user"
	"electa/internal/infrastructure/storage/postgres"
	"electa/internal/infrastructure/storage/postgres/catalog_repo"
	"electa/internal/infrastructure/storage/postgres/user_repo"
	"electa/pkg/logger"
)

func main() {
	adminSSOID := flag.String("admin-sso-id", "", "provider subject to bootstrap as admin")
	adminEmail := flag.String("admin-email", "admin@example.com", "email for the bootstrap admin")
	adminName := flag.String("admin-name", "Bootstrap Admin", "name for the bootstrap admin")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("configuration error: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Development: true})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatalw("failed to apply schema", "error", err)
	}

	txManager := postgres.NewTxManager(pool)

	courseRepo := catalog_repo.NewCourseRepo(txManager)
	electiveRepo := catalog_repo.NewElectiveRepo(txManager)
	courseService := course.NewService(courseRepo, electiveRepo, txManager)

	seedCourses := []*course.Course{
		course.NewCourse("General Technical", 120, 0),
		course.NewCourse("General Humanities", 0, 120),
	}
	for _, c := range seedCourses {
		if err := courseService.Create(ctx, c); err != nil {
			if apperror.IsDuplicate(err) {
				log.Infow("course already present", "name", c.Name)
				continue
			}
			log.Fatalw("failed to seed course", "name", c.Name, "error", err)
		}
		log.Infow("course seeded", "name", c.Name, "id", c.ID)
	}

	if *adminSSOID != "" {
		userRepo := user_repo.NewUserRepo(txManager)
		userService := user.NewService(userRepo, txManager)

		u, err := userService.RegisterSSO(ctx, *adminSSOID, *adminEmail, *adminName, user.RoleAdmin)
		if err != nil {
			log.Fatalw("failed to bootstrap admin", "sso_id", *adminSSOID, "error", err)
		}
		log.Infow("admin bootstrapped", "sso_id", u.SSOID, "id", u.ID)
	}

	log.Info("seed complete")
}
