package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/fieldworks/maintenance-service/internal/api/http"
	"github.com/fieldworks/maintenance-service/internal/api/http/handlers"
	"github.com/fieldworks/maintenance-service/internal/audit"
	"github.com/fieldworks/maintenance-service/internal/auth"
	"github.com/fieldworks/maintenance-service/internal/config"
	"github.com/fieldworks/maintenance-service/internal/events"
	"github.com/fieldworks/maintenance-service/internal/observability"
	"github.com/fieldworks/maintenance-service/internal/persistence"
	"github.com/fieldworks/maintenance-service/internal/repository"
	"github.com/fieldworks/maintenance-service/internal/service"
	"github.com/fieldworks/maintenance-service/internal/worker"
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

	metrics := observability.NewMetrics()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	locationRepo := repository.NewLocationRepository(pool)
	technicianRepo := repository.NewTechnicianRepository(pool)
	assetRepo := repository.NewAssetRepository(pool)
	jobRepo := repository.NewJobRepository(pool)
	availabilityRepo := repository.NewAvailabilityRepository(pool)
	downtimeRepo := repository.NewDowntimeRepository(pool)
	activityRepo := repository.NewActivityLogRepository(pool)

	recorder := audit.NewRecorder(activityRepo, logger, metrics,
		cfg.Audit.QueueSize, time.Duration(cfg.Audit.WriteTimeoutSec)*time.Second)
	defer recorder.Close()

	dispatcher := events.NewInMemoryDispatcher()
	cache := service.NewSummaryCache(redis, logger,
		time.Duration(cfg.Summary.CacheTTLSeconds)*time.Second)

	authService := service.NewAuthService(*cfg, userRepo)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	validator := service.NewAssignmentValidator(availabilityRepo)
	jobService := service.NewJobService(service.JobDependencies{
		JobRepo:        jobRepo,
		TechnicianRepo: technicianRepo,
		Validator:      validator,
		AuditSink:      recorder,
		Dispatcher:     dispatcher,
		Cache:          cache,
	})
	technicianService := service.NewTechnicianService(service.TechnicianDependencies{
		TechnicianRepo: technicianRepo,
		AuditSink:      recorder,
		Dispatcher:     dispatcher,
		Cache:          cache,
	})
	assetService := service.NewAssetService(service.AssetDependencies{
		AssetRepo:    assetRepo,
		LocationRepo: locationRepo,
		AuditSink:    recorder,
		Dispatcher:   dispatcher,
		Cache:        cache,
	})
	downtimeService := service.NewDowntimeService(service.DowntimeDependencies{
		DowntimeRepo: downtimeRepo,
		AssetRepo:    assetRepo,
		AuditSink:    recorder,
		Dispatcher:   dispatcher,
		Cache:        cache,
	})
	availabilityService := service.NewAvailabilityService(availabilityRepo, technicianRepo)
	workloadService := service.NewWorkloadService(jobRepo, technicianRepo, locationRepo, cache)
	locationService := service.NewLocationService(locationRepo)
	activityService := service.NewActivityService(activityRepo)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notify)
	worker.StartNotificationWorker(notificationService)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Jobs:           handlers.NewJobsHandler(jobService),
		Technicians:    handlers.NewTechniciansHandler(technicianService),
		Assets:         handlers.NewAssetsHandler(assetService),
		Availability:   handlers.NewAvailabilityHandler(availabilityService),
		Downtime:       handlers.NewDowntimeHandler(downtimeService),
		Locations:      handlers.NewLocationsHandler(locationService),
		Activity:       handlers.NewActivityHandler(activityService),
		Summaries:      handlers.NewSummariesHandler(jobService, workloadService, downtimeService),
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
