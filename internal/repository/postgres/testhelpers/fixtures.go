package testhelpers

import (
	"context"
	"database/sql"
	"fmt"
)

// SeedPopulation вставляет строки region_population как есть, без фильтрации значений
func SeedPopulation(ctx context.Context, db *sql.DB, rows map[string]int64) error {
	for region, population := range rows {
		_, err := db.ExecContext(ctx,
			"INSERT INTO region_population (region, population) VALUES ($1, $2)",
			region, population)
		if err != nil {
			return fmt.Errorf("seed population %s: %w", region, err)
		}
	}
	return nil
}
