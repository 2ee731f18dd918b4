package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/region-dashboard/internal/config"
	"github.com/region-dashboard/internal/pkg/logger"
	"github.com/region-dashboard/internal/report"
	"github.com/region-dashboard/internal/repository/file"
	"github.com/region-dashboard/internal/usecase"
)

func main() {
	region := flag.String("region", "", "Выбранный район (любая метка, например 포항)")
	catalogPath := flag.String("catalog", "", "Путь к YAML каталогу (по умолчанию CATALOG_PATH или встроенный)")
	dataDir := flag.String("data", "", "Директория наборов данных (по умолчанию DATA_DIR)")
	logLevel := flag.String("log-level", "warn", "Уровень логирования (в stderr)")
	flag.Parse()

	log, err := logger.NewConsole(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}
	if *catalogPath == "" {
		*catalogPath = cfg.Data.CatalogPath
	}
	if *dataDir == "" {
		*dataDir = cfg.Data.Dir
	}

	catalog, err := config.LoadCatalog(*catalogPath, *dataDir)
	if err != nil {
		log.Fatal("Failed to load catalog", zap.Error(err))
	}
	reference, err := catalog.Reference()
	if err != nil {
		log.Fatal("Failed to build region reference", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dashboardUC := usecase.NewDashboardUseCase(
		reference,
		catalog.IndicatorCatalog(),
		file.NewDatasetRepository(log),
		log,
	)

	dashboard, err := dashboardUC.Dashboard(ctx, *region)
	if err != nil {
		log.Fatal("Failed to compute dashboard", zap.Error(err))
	}

	out := os.Stdout
	if *region != "" {
		selected := "없음 (알 수 없는 지역)"
		if dashboard.Selected != nil {
			selected = *dashboard.Selected
		}
		fmt.Fprintf(out, "# %s: %s\n\n", *region, selected)
	}

	tables := make([]*report.Table, 0, len(dashboard.Panels)+2)
	for i := range dashboard.Panels {
		tables = append(tables, report.PanelTable(&dashboard.Panels[i]))
	}
	if dashboard.Pollution != nil {
		tables = append(tables, report.PollutionTable(dashboard.Pollution))
	}
	tables = append(tables, report.RadarTable(&dashboard.Radar))

	for _, t := range tables {
		if err := t.Render(out); err != nil {
			log.Fatal("Failed to write report", zap.Error(err))
		}
		fmt.Fprintln(out)
	}
}
