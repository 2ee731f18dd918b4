package repository

import (
	"context"
	"time"

	"github.com/region-dashboard/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу; nil, nil при промахе
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL (0 - без срока)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// GetTable получает снимок прочитанной таблицы набора данных
	GetTable(ctx context.Context, identity string) (*domain.Table, error)

	// SetTable сохраняет снимок таблицы без срока жизни
	SetTable(ctx context.Context, identity string, table *domain.Table) error

	// DeleteByPrefix удаляет все ключи с префиксом, возвращает число удалённых
	DeleteByPrefix(ctx context.Context, prefix string) (int64, error)
}
