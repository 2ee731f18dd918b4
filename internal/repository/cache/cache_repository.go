package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/region-dashboard/internal/domain"
	"github.com/region-dashboard/internal/domain/repository"
)

// DatasetKeyPrefix - префикс ключей снимков таблиц
const DatasetKeyPrefix = "dataset:raw:"

const scanBatch = 100

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

// GetTable получает снимок таблицы; nil, nil при промахе
func (r *cacheRepository) GetTable(ctx context.Context, identity string) (*domain.Table, error) {
	data, err := r.Get(ctx, DatasetKeyPrefix+identity)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var table domain.Table
	if err := json.Unmarshal(data, &table); err != nil {
		r.logger.Error("Failed to unmarshal table from cache",
			zap.String("identity", identity),
			zap.Error(err))
		return nil, fmt.Errorf("unmarshal table: %w", err)
	}

	return &table, nil
}

// SetTable сохраняет снимок без TTL: наборы данных меняются только при явной перезагрузке
func (r *cacheRepository) SetTable(ctx context.Context, identity string, table *domain.Table) error {
	data, err := json.Marshal(table)
	if err != nil {
		r.logger.Error("Failed to marshal table", zap.Error(err))
		return fmt.Errorf("marshal table: %w", err)
	}

	return r.Set(ctx, DatasetKeyPrefix+identity, data, 0)
}

// DeleteByPrefix удаляет ключи с префиксом, обходя их через SCAN
func (r *cacheRepository) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	var (
		cursor  uint64
		deleted int64
	)

	for {
		keys, next, err := r.client.Scan(ctx, cursor, prefix+"*", scanBatch).Result()
		if err != nil {
			r.logger.Error("Failed to scan cache keys", zap.String("prefix", prefix), zap.Error(err))
			return deleted, fmt.Errorf("cache scan error: %w", err)
		}

		if len(keys) > 0 {
			n, err := r.client.Del(ctx, keys...).Result()
			if err != nil {
				r.logger.Error("Failed to delete cache keys", zap.String("prefix", prefix), zap.Error(err))
				return deleted, fmt.Errorf("cache delete error: %w", err)
			}
			deleted += n
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	r.logger.Info("Cache keys deleted", zap.String("prefix", prefix), zap.Int64("count", deleted))
	return deleted, nil
}
