package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/Kalpesh-Product/wono-ticketing/internal/api/http"
	"github.com/Kalpesh-Product/wono-ticketing/internal/api/http/handlers"
	"github.com/Kalpesh-Product/wono-ticketing/internal/auth"
	"github.com/Kalpesh-Product/wono-ticketing/internal/config"
	"github.com/Kalpesh-Product/wono-ticketing/internal/events"
	"github.com/Kalpesh-Product/wono-ticketing/internal/observability"
	"github.com/Kalpesh-Product/wono-ticketing/internal/persistence"
	"github.com/Kalpesh-Product/wono-ticketing/internal/repository"
	"github.com/Kalpesh-Product/wono-ticketing/internal/service"
	"github.com/Kalpesh-Product/wono-ticketing/internal/storage"
	"github.com/Kalpesh-Product/wono-ticketing/internal/worker"
)

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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	uploads, err := storage.NewUploadStore(cfg.Upload)
	if err != nil {
		logger.Fatal("failed to init upload store", zap.Error(err))
	}

	var (
		ticketRepo    repository.TicketRepository
		issueTypeRepo repository.IssueTypeRepository
		auditRepo     repository.AuditRepository
	)
	if pool := pg.PoolHandle(); pool != nil {
		ticketRepo = repository.NewTicketRepository(pool)
		issueTypeRepo = repository.NewIssueTypeRepository(pool)
		auditRepo = repository.NewAuditRepository(pool)
	} else {
		ticketRepo = repository.NewMemoryTicketRepository()
		issueTypeRepo = repository.NewMemoryIssueTypeRepository()
		auditRepo = repository.NewMemoryAuditRepository()
	}

	dispatcher := events.NewInMemoryDispatcher()

	lifecycleService := service.NewLifecycleService(service.LifecycleDependencies{
		TicketRepo:    ticketRepo,
		IssueTypeRepo: issueTypeRepo,
		AuditRepo:     auditRepo,
		Dispatcher:    dispatcher,
	})
	queryService := service.NewQueryService(service.QueryDependencies{
		TicketRepo: ticketRepo,
		AuditRepo:  auditRepo,
		Cache:      redis.ClientHandle(),
		Location:   cfg.App.Location(),
	})
	taxonomyService := service.NewTaxonomyService(issueTypeRepo, dispatcher)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authMiddleware := auth.NewMiddleware(tokenManager)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(tokenManager, cfg.Auth),
		Tickets:        handlers.NewTicketsHandler(lifecycleService, uploads),
		Queries:        handlers.NewQueriesHandler(queryService),
		Issues:         handlers.NewIssuesHandler(taxonomyService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
