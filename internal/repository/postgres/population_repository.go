package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/region-dashboard/internal/domain"
	"github.com/region-dashboard/internal/domain/repository"
)

type populationRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewPopulationRepository создает репозиторий населения поверх таблицы region_population
func NewPopulationRepository(db *DB) repository.PopulationRepository {
	return &populationRepository{
		db:     db,
		logger: db.logger,
	}
}

type populationRow struct {
	Region     string `db:"region"`
	Population int64  `db:"population"`
}

// GetAll возвращает все записи; неположительные значения отбрасываются
func (r *populationRepository) GetAll(ctx context.Context) (map[domain.Region]int64, error) {
	query := `
		SELECT region, population
		FROM region_population
		ORDER BY region
	`

	var rows []populationRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		r.logger.Error("Failed to load region population", zap.Error(err))
		return nil, fmt.Errorf("failed to load region population: %w", err)
	}

	out := make(map[domain.Region]int64, len(rows))
	for _, row := range rows {
		if row.Population <= 0 {
			r.logger.Warn("Skipping non-positive population",
				zap.String("region", row.Region),
				zap.Int64("population", row.Population))
			continue
		}
		out[domain.Region(row.Region)] = row.Population
	}

	r.logger.Debug("Region population loaded", zap.Int("count", len(out)))
	return out, nil
}

// Upsert записывает население районов одной транзакцией
func (r *populationRepository) Upsert(ctx context.Context, counts map[domain.Region]int64) error {
	query := `
		INSERT INTO region_population (region, population, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (region) DO UPDATE
		SET population = EXCLUDED.population, updated_at = NOW()
	`

	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		for region, population := range counts {
			if _, err := tx.ExecContext(ctx, query, string(region), population); err != nil {
				return fmt.Errorf("failed to upsert population for %s: %w", region, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.Info("Region population stored", zap.Int("count", len(counts)))
	return nil
}
