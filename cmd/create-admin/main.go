package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/lead-service/internal/config"
	"github.com/spec-kit/lead-service/internal/observability"
	"github.com/spec-kit/lead-service/internal/persistence"
	"github.com/spec-kit/lead-service/internal/repository"
	"github.com/spec-kit/lead-service/internal/service"
)

const usage = "usage: create-admin [username] [email] [password]  (password may also come from ADMIN_PASSWORD)"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	username, email, password, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()
	if !pg.Enabled() {
		logger.Fatal("DATABASE_URL is required to create an admin")
	}
	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		AdminRepo: repository.NewAdminRepository(pg.PoolHandle()),
		Logger:    logger,
	})
	admin, err := authService.CreateAdmin(ctx, username, email, password)
	if errors.Is(err, service.ErrAdminExists) {
		fmt.Fprintf(os.Stderr, "admin %q or %q already exists\n", username, email)
		os.Exit(1)
	}
	if err != nil {
		logger.Fatal("failed to create admin", zap.Error(err))
	}

	fmt.Printf("admin created\n  id:       %s\n  username: %s\n  email:    %s\n", admin.ID, admin.Username, admin.Email)
}

// parseArgs reads positional username, email and password. Username and email
// default to admin / admin@example.com; the password has no default.
func parseArgs(args []string) (username, email, password string, err error) {
	username, email = "admin", "admin@example.com"
	if len(args) > 3 {
		return "", "", "", errors.New("too many arguments")
	}
	if len(args) > 0 && args[0] != "" {
		username = args[0]
	}
	if len(args) > 1 && args[1] != "" {
		email = args[1]
	}
	if len(args) > 2 {
		password = args[2]
	}
	if password == "" {
		password = os.Getenv("ADMIN_PASSWORD")
	}
	if password == "" {
		return "", "", "", errors.New("password is required (third argument or ADMIN_PASSWORD)")
	}
	return username, email, password, nil
}
