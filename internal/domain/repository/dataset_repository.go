package repository

import (
	"context"

	"github.com/region-dashboard/internal/domain"
)

// DatasetRepository читает таблицы наборов данных
type DatasetRepository interface {
	// Load читает таблицу по описанию источника
	Load(ctx context.Context, src domain.DatasetSource) (*domain.Table, error)

	// Invalidate сбрасывает закешированные таблицы
	Invalidate(ctx context.Context) error
}
