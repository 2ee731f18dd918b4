package cache

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/region-dashboard/internal/domain"
	"github.com/region-dashboard/internal/domain/repository"
)

// cachedDatasetRepository хранит прочитанные таблицы в Redis.
// Ошибки кеша не мешают чтению: запрос уходит во внутренний репозиторий.
type cachedDatasetRepository struct {
	inner  repository.DatasetRepository
	cache  repository.CacheRepository
	logger *zap.Logger
}

// NewCachedDatasetRepository оборачивает репозиторий наборов данных кешем
func NewCachedDatasetRepository(
	inner repository.DatasetRepository,
	cache repository.CacheRepository,
	logger *zap.Logger,
) repository.DatasetRepository {
	return &cachedDatasetRepository{
		inner:  inner,
		cache:  cache,
		logger: logger,
	}
}

func (r *cachedDatasetRepository) Load(ctx context.Context, src domain.DatasetSource) (*domain.Table, error) {
	identity := src.Identity()

	table, err := r.cache.GetTable(ctx, identity)
	if err != nil {
		r.logger.Warn("Dataset cache unavailable, reading source",
			zap.String("identity", identity),
			zap.Error(err))
	} else if table != nil {
		r.logger.Debug("Dataset served from cache", zap.String("identity", identity))
		return table, nil
	}

	table, err = r.inner.Load(ctx, src)
	if err != nil {
		return nil, err
	}

	if err := r.cache.SetTable(ctx, identity, table); err != nil {
		r.logger.Warn("Failed to cache dataset",
			zap.String("identity", identity),
			zap.Error(err))
	}

	return table, nil
}

func (r *cachedDatasetRepository) Invalidate(ctx context.Context) error {
	deleted, err := r.cache.DeleteByPrefix(ctx, DatasetKeyPrefix)
	if err != nil {
		return fmt.Errorf("failed to invalidate dataset cache: %w", err)
	}

	r.logger.Info("Dataset cache invalidated", zap.Int64("deleted", deleted))
	return r.inner.Invalidate(ctx)
}
