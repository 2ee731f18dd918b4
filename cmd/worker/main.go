package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/region-dashboard/internal/config"
	"github.com/region-dashboard/internal/domain/repository"
	"github.com/region-dashboard/internal/pkg/logger"
	"github.com/region-dashboard/internal/repository/cache"
	"github.com/region-dashboard/internal/repository/file"
	"github.com/region-dashboard/internal/repository/postgres"
	redisRepo "github.com/region-dashboard/internal/repository/redis"
	"github.com/region-dashboard/internal/usecase"
	"github.com/region-dashboard/internal/worker"
	"github.com/region-dashboard/internal/worker/selection"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Check if worker is enabled
	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, zap.String("service", "worker"))
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Dashboard Selection Worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("max_retries", cfg.Worker.MaxRetries),
		zap.String("population_source", cfg.Data.PopulationSource))

	// 3. Load catalog and reference data
	catalog, err := config.LoadCatalog(cfg.Data.CatalogPath, cfg.Data.Dir)
	if err != nil {
		log.Fatal("Failed to load catalog", zap.Error(err))
	}
	reference, err := catalog.Reference()
	if err != nil {
		log.Fatal("Failed to build region reference", zap.Error(err))
	}

	initCtx, initCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer initCancel()

	// 4. Connect to PostgreSQL
	if cfg.UsesPostgres() {
		db, err := postgres.New(&cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Failed to close PostgreSQL connection", zap.Error(err))
			}
		}()

		if err := db.EnsureSchema(initCtx); err != nil {
			log.Fatal("Failed to prepare population schema", zap.Error(err))
		}

		reference, err = usecase.ResolvePopulation(initCtx, reference, postgres.NewPopulationRepository(db), log)
		if err != nil {
			log.Fatal("Failed to load population", zap.Error(err))
		}
	}

	// 5. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 6. Initialize repositories
	var datasetRepo repository.DatasetRepository = file.NewDatasetRepository(log)
	if cfg.Data.CacheEnabled {
		datasetRepo = cache.NewCachedDatasetRepository(datasetRepo, cache.NewCacheRepository(redisClient), log)
	}
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)

	// 7. Initialize use cases
	dashboardUC := usecase.NewDashboardUseCase(reference, catalog.IndicatorCatalog(), datasetRepo, log)
	// воркер только потребляет события выбора и не публикует их сам
	selectionUC := usecase.NewSelectionUseCase(dashboardUC, nil, log)

	// 8. Initialize workers
	selectionWorker := selection.NewSelectionWorker(
		streamRepo,
		selectionUC,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.MaxRetries,
		log,
	)

	workerManager := worker.NewWorkerManager(log, worker.DefaultShutdownTimeout)
	workerManager.Register(selectionWorker)

	// 9. Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	cancel()

	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	for _, st := range workerManager.Stats() {
		log.Info("Worker stats",
			zap.String("worker", st.Name),
			zap.Int64("processed", st.Processed),
			zap.Int64("failed", st.Failed))
	}

	log.Info("Worker shutdown complete")
}
