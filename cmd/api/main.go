package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/hpdsk/helpdesk-service/internal/ai"
	httptransport "github.com/hpdsk/helpdesk-service/internal/api/http"
	"github.com/hpdsk/helpdesk-service/internal/api/http/handlers"
	"github.com/hpdsk/helpdesk-service/internal/auth"
	"github.com/hpdsk/helpdesk-service/internal/config"
	"github.com/hpdsk/helpdesk-service/internal/events"
	"github.com/hpdsk/helpdesk-service/internal/observability"
	"github.com/hpdsk/helpdesk-service/internal/persistence"
	"github.com/hpdsk/helpdesk-service/internal/repository"
	"github.com/hpdsk/helpdesk-service/internal/service"
	"github.com/hpdsk/helpdesk-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
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

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	taskRepo := repository.NewTaskRepository(pool)
	equipmentRepo := repository.NewEquipmentRepository(pool)
	contractRepo := repository.NewContractRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	aiClient := ai.NewGeminiClient(cfg.AI, logger)
	turnLocker := persistence.NewRedisTurnLocker(redis.Client, cfg.AI.TurnLeaseTTL())
	revoker := persistence.NewRedisTokenRevoker(redis.Client)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)

	conversationService := service.NewConversationService(service.ConversationDependencies{
		TicketRepo:  ticketRepo,
		MessageRepo: messageRepo,
		AIClient:    aiClient,
		Locker:      turnLocker,
		Hub:         service.NewStreamHub(),
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Logger:      logger,
		TurnTimeout: cfg.AI.RequestTimeout(),
	})
	reportService := service.NewReportService(service.ReportDependencies{
		TicketRepo:    ticketRepo,
		TaskRepo:      taskRepo,
		EquipmentRepo: equipmentRepo,
		AIClient:      aiClient,
		Metrics:       metrics,
		Logger:        logger,
	})
	taskService := service.NewTaskService(taskRepo)
	equipmentService := service.NewEquipmentService(equipmentRepo)
	contractService := service.NewContractService(contractRepo, dispatcher)
	authService := service.NewAuthService(profileRepo, tokens, revoker, cfg.Auth.BcryptCost, logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(tokens, profileRepo, revoker)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, aiClient),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(conversationService),
		Tasks:          handlers.NewTasksHandler(taskService),
		Equipment:      handlers.NewEquipmentHandler(equipmentService),
		Contracts:      handlers.NewContractsHandler(contractService),
		Reports:        handlers.NewReportsHandler(reportService),
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
