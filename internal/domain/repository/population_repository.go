package repository

import (
	"context"

	"github.com/region-dashboard/internal/domain"
)

// PopulationRepository - источник численности населения по районам
type PopulationRepository interface {
	// GetAll возвращает население всех районов из хранилища
	GetAll(ctx context.Context) (map[domain.Region]int64, error)

	// Upsert записывает или обновляет население районов
	Upsert(ctx context.Context, counts map[domain.Region]int64) error
}
