package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ems-service/internal/api/http"
	"github.com/spec-kit/ems-service/internal/api/http/handlers"
	"github.com/spec-kit/ems-service/internal/auth"
	"github.com/spec-kit/ems-service/internal/bootstrap"
	"github.com/spec-kit/ems-service/internal/config"
	"github.com/spec-kit/ems-service/internal/events"
	"github.com/spec-kit/ems-service/internal/observability"
	"github.com/spec-kit/ems-service/internal/persistence"
	"github.com/spec-kit/ems-service/internal/repository"
	"github.com/spec-kit/ems-service/internal/service"
	"github.com/spec-kit/ems-service/internal/worker"
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
		if err := persistence.RunMigrations(ctx, pg.Pool, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	repos := repository.NewRepositories(pg.Pool)
	txRunner := repository.NewTxRunner(pg.Pool)

	seeder := bootstrap.NewSeeder(txRunner, cfg.Seed, cfg.Auth, logger)
	if err := seeder.Run(ctx); err != nil {
		logger.Fatal("failed to seed initial data", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger)
	worker.StartNotificationWorker(notificationService)

	denylist := auth.NewRedisDenylist(redis.Client)
	authService := service.NewAuthService(cfg.Auth, repos.Users, denylist)
	employeeService := service.NewEmployeeService(cfg.Auth, repos, txRunner, dispatcher)
	departmentService := service.NewDepartmentService(repos, dispatcher)
	userService := service.NewUserService(cfg.Auth, repos, txRunner, dispatcher)

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), denylist)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:              handlers.NewHealthHandler(pg, redis),
		Auth:                handlers.NewAuthHandler(authService),
		Employees:           handlers.NewEmployeesHandler(employeeService),
		Departments:         handlers.NewDepartmentsHandler(departmentService),
		Users:               handlers.NewUsersHandler(userService),
		Middleware:          authMiddleware,
		RestrictDepartments: cfg.Auth.RestrictDepartments,
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
