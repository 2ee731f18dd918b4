package main

// @title Region Dashboard API
// @version 1.0.0
// @description Рейтинг районов провинции Кёнсан-Пукто по пригодности для жизни с домашними животными.
// @description
// @description Основные возможности:
// @description - Канонизация меток районов из разнородных наборов данных
// @description - Показатели на душу населения с инверсией "меньше - лучше"
// @description - Составной показатель загрязнения воздуха
// @description - Радар-диаграмма по районам, присутствующим во всех показателях

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/region-dashboard/docs"
	"github.com/region-dashboard/internal/config"
	httpDelivery "github.com/region-dashboard/internal/delivery/http"
	"github.com/region-dashboard/internal/delivery/http/handler"
	"github.com/region-dashboard/internal/domain/repository"
	"github.com/region-dashboard/internal/pkg/logger"
	"github.com/region-dashboard/internal/repository/cache"
	"github.com/region-dashboard/internal/repository/file"
	"github.com/region-dashboard/internal/repository/postgres"
	redisRepo "github.com/region-dashboard/internal/repository/redis"
	"github.com/region-dashboard/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, zap.String("service", "api"))
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Region Dashboard")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("population_source", cfg.Data.PopulationSource),
		zap.Bool("dataset_cache", cfg.Data.CacheEnabled))

	// 3. Load catalog and reference data
	catalog, err := config.LoadCatalog(cfg.Data.CatalogPath, cfg.Data.Dir)
	if err != nil {
		log.Fatal("Failed to load catalog", zap.Error(err))
	}
	reference, err := catalog.Reference()
	if err != nil {
		log.Fatal("Failed to build region reference", zap.Error(err))
	}
	log.Info("Catalog loaded",
		zap.String("province", catalog.Province),
		zap.Int("regions", reference.Regions.Len()),
		zap.Int("indicators", len(catalog.Indicators)))

	healthChecks := make(map[string]httpDelivery.HealthCheck)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// 4. Connect to PostgreSQL (population registry)
	var db *postgres.DB
	if cfg.UsesPostgres() {
		db, err = postgres.New(&cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		}
		healthChecks["postgres"] = db.Health

		if err := db.EnsureSchema(ctx); err != nil {
			log.Fatal("Failed to prepare population schema", zap.Error(err))
		}

		reference, err = usecase.ResolvePopulation(ctx, reference, postgres.NewPopulationRepository(db), log)
		if err != nil {
			log.Fatal("Failed to load population", zap.Error(err))
		}
	}

	// 5. Connect to Redis (dataset cache and selection stream)
	var (
		redisClient *cache.Redis
		streamRepo  repository.StreamRepository
	)
	if cfg.Data.CacheEnabled || cfg.Worker.Enabled {
		redisClient, err = cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		if err := redisClient.Health(ctx); err != nil {
			log.Fatal("Redis health check failed", zap.Error(err))
		}
		healthChecks["redis"] = redisClient.Health
	}

	// 6. Initialize Repositories
	var datasetRepo repository.DatasetRepository = file.NewDatasetRepository(log)
	if cfg.Data.CacheEnabled {
		datasetRepo = cache.NewCachedDatasetRepository(datasetRepo, cache.NewCacheRepository(redisClient), log)
	}
	if cfg.Worker.Enabled {
		streamRepo = redisRepo.NewStreamRepository(redisClient.Client(), log)
	}

	log.Info("Repositories initialized")

	// 7. Initialize Use Cases
	dashboardUC := usecase.NewDashboardUseCase(reference, catalog.IndicatorCatalog(), datasetRepo, log)
	selectionUC := usecase.NewSelectionUseCase(dashboardUC, streamRepo, log)

	// 8. Initialize HTTP Handlers and Server
	server := httpDelivery.NewServer(
		cfg,
		log,
		handler.NewDashboardHandler(dashboardUC, log),
		handler.NewSelectionHandler(selectionUC, log),
		healthChecks,
	)

	// 9. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env))

	// 10. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if db != nil {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL", zap.Error(err))
		}
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis", zap.Error(err))
		}
	}

	log.Info("Server stopped successfully")
}
