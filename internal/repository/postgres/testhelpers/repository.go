package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/region-dashboard/internal/domain/repository"
	"github.com/region-dashboard/internal/repository/postgres"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewPopulationRepositoryForTest creates a population repository with test database and logger
func NewPopulationRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.PopulationRepository {
	return postgres.NewPopulationRepository(NewDBForTest(db, logger))
}
