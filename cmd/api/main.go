package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/lead-service/internal/api/dto"
	httptransport "github.com/spec-kit/lead-service/internal/api/http"
	"github.com/spec-kit/lead-service/internal/api/http/handlers"
	"github.com/spec-kit/lead-service/internal/attachment"
	"github.com/spec-kit/lead-service/internal/auth"
	"github.com/spec-kit/lead-service/internal/captcha"
	"github.com/spec-kit/lead-service/internal/config"
	"github.com/spec-kit/lead-service/internal/domain"
	"github.com/spec-kit/lead-service/internal/events"
	"github.com/spec-kit/lead-service/internal/mail"
	"github.com/spec-kit/lead-service/internal/observability"
	"github.com/spec-kit/lead-service/internal/persistence"
	"github.com/spec-kit/lead-service/internal/repository"
	"github.com/spec-kit/lead-service/internal/service"
	"github.com/spec-kit/lead-service/internal/worker"
)

type repositories struct {
	contacts repository.ContactRepository
	projects repository.ProjectRepository
	careers  repository.CareerRepository
	admins   repository.AdminRepository
}

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

	metrics := observability.NewMetrics()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}
	repos := buildRepositories(pg, logger)

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var revoker auth.Revoker = auth.NoopRevoker{}
	if redis.Enabled() {
		revoker = auth.NewRedisRevoker(redis.Client)
	}

	pool := worker.NewPool(cfg.Worker, logger, metrics)
	dispatcher := events.NewDispatcher(pool, logger)

	renderer, err := mail.NewRenderer(cfg.Mail.LogoURL)
	if err != nil {
		logger.Fatal("failed to load mail templates", zap.Error(err))
	}
	sender := mail.NewZeptoMailClient(cfg.Mail)
	if !sender.Enabled() {
		logger.Warn("ZEPTOMAIL_API_KEY or ZEPTOMAIL_TO_EMAIL not set; email notifications disabled")
	}
	notificationService := service.NewNotificationService(dispatcher, renderer, sender, logger, metrics)
	worker.StartNotificationWorker(notificationService)

	verifier := captcha.NewTurnstileVerifier(cfg.Captcha, logger, metrics)
	if !verifier.Enabled() {
		logger.Warn("CLOUDFLARE_TURNSTILE_SECRET_KEY not set; CAPTCHA verification bypassed")
	}
	files := attachment.NewStoreFromConfig(cfg.Storage, logger, metrics)
	logger.Info("attachment storage ready", zap.Strings("backends", files.Backends()))

	intakeService := service.NewIntakeService(service.IntakeDependencies{
		ContactRepo: repos.contacts,
		ProjectRepo: repos.projects,
		CareerRepo:  repos.careers,
		Verifier:    verifier,
		Attachments: files,
		Dispatcher:  dispatcher,
		Logger:      logger,
		Metrics:     metrics,
	})
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		AdminRepo: repos.admins,
		Revoker:   revoker,
		Logger:    logger,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), repos.admins, authService.Revoker(), logger)

	app := httptransport.NewApp(cfg.App, logger, metrics)
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), cfg.CORS.AllowedOrigins)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Dependency{
			"postgres": pg,
			"redis":    redis,
		}),
		Auth:   handlers.NewAuthHandler(authService),
		Intake: handlers.NewIntakeHandler(intakeService),
		Contacts: handlers.NewLeadHandler(
			service.NewLeadService[domain.Contact](domain.KindContact, repos.contacts, notificationService, logger),
			"Contact request", dto.NewContactResponse),
		Projects: handlers.NewLeadHandler(
			service.NewLeadService[domain.Project](domain.KindProject, repos.projects, notificationService, logger),
			"Project inquiry", dto.NewProjectResponse),
		Careers: handlers.NewLeadHandler(
			service.NewLeadService[domain.Career](domain.KindCareer, repos.careers, notificationService, logger),
			"Career application", dto.NewCareerResponse),
		Resumes:        handlers.NewResumeHandler(files),
		Metrics:        metrics,
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	if err := pool.Shutdown(shutdownCtx); err != nil {
		logger.Warn("worker pool shutdown", zap.Error(err))
	}
}

func buildRepositories(pg *persistence.Postgres, logger *zap.Logger) repositories {
	if !pg.Enabled() {
		logger.Warn("running on in-memory storage; submissions are lost on restart")
		store := repository.NewMemoryStore()
		return repositories{
			contacts: store.Contacts(),
			projects: store.Projects(),
			careers:  store.Careers(),
			admins:   store.Admins(),
		}
	}
	db := pg.PoolHandle()
	return repositories{
		contacts: repository.NewContactRepository(db),
		projects: repository.NewProjectRepository(db),
		careers:  repository.NewCareerRepository(db),
		admins:   repository.NewAdminRepository(db),
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
