package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/region-dashboard/internal/domain"
	"github.com/region-dashboard/internal/domain/repository"
	apperrors "github.com/region-dashboard/internal/pkg/errors"
)

// ResolvePopulation заменяет население из каталога данными хранилища.
// Пустое хранилище заполняется значениями каталога. Записи о районах вне
// набора и неположительные значения отбрасываются.
func ResolvePopulation(
	ctx context.Context,
	base *domain.Reference,
	populationRepo repository.PopulationRepository,
	logger *zap.Logger,
) (*domain.Reference, error) {
	if populationRepo == nil {
		return base, nil
	}

	stored, err := populationRepo.GetAll(ctx)
	if err != nil {
		logger.Error("Failed to load population", zap.Error(err))
		return nil, apperrors.ErrDatabaseError.WithDetails(map[string]interface{}{
			"operation": "load_population",
			"error":     err.Error(),
		})
	}

	if len(stored) == 0 {
		seed := make(map[domain.Region]int64, base.Population.Len())
		for _, r := range base.Regions.Regions() {
			if c, ok := base.Population.Get(r); ok {
				seed[r] = c
			}
		}
		if err := populationRepo.Upsert(ctx, seed); err != nil {
			return nil, fmt.Errorf("failed to seed population: %w", err)
		}
		logger.Info("Population table seeded from catalog", zap.Int("regions", len(seed)))
		return base, nil
	}

	ref, err := domain.NewReference(base.Regions, stored)
	if err != nil {
		return nil, err
	}

	if ignored := len(stored) - ref.Population.Len(); ignored > 0 {
		logger.Warn("Ignored population rows for unknown regions",
			zap.Int("ignored", ignored))
	}
	for _, r := range base.Regions.Regions() {
		if _, ok := ref.Population.Get(r); !ok {
			logger.Warn("Region has no population, it will be excluded from every indicator",
				zap.String("region", string(r)))
		}
	}

	logger.Info("Population loaded from storage", zap.Int("regions", ref.Population.Len()))
	return ref, nil
}
