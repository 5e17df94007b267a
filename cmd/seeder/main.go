package main

import (
	"context"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/hr-service/internal/auth"
	"github.com/spec-kit/hr-service/internal/config"
	"github.com/spec-kit/hr-service/internal/domain"
	"github.com/spec-kit/hr-service/internal/observability"
	"github.com/spec-kit/hr-service/internal/persistence"
	"github.com/spec-kit/hr-service/internal/repository"
	"github.com/spec-kit/hr-service/internal/service"
)

// Seeds the initial admin account. Idempotent: an existing account with
// the configured email is left untouched.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	email := service.NormalizeEmail(getEnv("SEED_ADMIN_EMAIL", "admin@example.com"))
	password := getEnv("SEED_ADMIN_PASSWORD", "changeme")
	name := getEnv("SEED_ADMIN_NAME", "Administrator")

	pool := pg.PoolHandle()
	identityRepo := repository.NewIdentityRepository(pool)
	employeeRepo := repository.NewEmployeeRepository(pool)

	if _, err := identityRepo.GetByEmail(ctx, email); err == nil {
		logger.Info("admin account already present", zap.String("email", email))
		return
	} else if err != pgx.ErrNoRows {
		logger.Fatal("failed to check admin account", zap.Error(err))
	}

	hash, err := auth.HashPassword(password, cfg.Auth.BcryptCost)
	if err != nil {
		logger.Fatal("failed to hash password", zap.Error(err))
	}

	identity := &domain.Identity{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Status:       domain.StatusActive,
	}
	if err := identityRepo.Create(ctx, identity); err != nil {
		logger.Fatal("failed to create admin identity", zap.Error(err))
	}

	record := &domain.EmployeeRecord{
		IdentityID: identity.ID,
		Department: getEnv("SEED_ADMIN_DEPARTMENT", "Human Resources"),
		Position:   getEnv("SEED_ADMIN_POSITION", "HR Manager"),
		Status:     domain.StatusActive,
	}
	if err := employeeRepo.Create(ctx, record); err != nil {
		if delErr := identityRepo.Delete(ctx, identity.ID); delErr != nil {
			logger.Error("failed to remove identity after record failure", zap.Error(delErr))
		}
		logger.Fatal("failed to create admin employee record", zap.Error(err))
	}

	logger.Info("admin account seeded",
		zap.String("email", email),
		zap.String("identity_id", identity.ID))
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
