package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"

	"github.com/region-dashboard/internal/domain"
	"github.com/region-dashboard/internal/domain/repository"
	"github.com/region-dashboard/internal/repository/postgres/testhelpers"
)

// PopulationRepositoryTestSuite тестирует PopulationRepository на реальной БД
type PopulationRepositoryTestSuite struct {
	suite.Suite
	testDB *testhelpers.TestDB
	repo   repository.PopulationRepository
	ctx    context.Context
}

func (s *PopulationRepositoryTestSuite) SetupSuite() {
	s.testDB = testhelpers.SetupTestDB(s.T())
	s.ctx = context.Background()

	testhelpers.ApplyMigrations(s.T(), s.testDB.DB, "../../../migrations")

	s.repo = testhelpers.NewPopulationRepositoryForTest(s.testDB.DB, s.testDB.Logger)
}

func (s *PopulationRepositoryTestSuite) TearDownSuite() {
	if s.testDB != nil {
		s.testDB.Close()
	}
}

func (s *PopulationRepositoryTestSuite) SetupTest() {
	s.Require().NoError(s.testDB.Cleanup(s.ctx))
}

func (s *PopulationRepositoryTestSuite) TestGetAll_SkipsNonPositive() {
	err := testhelpers.SeedPopulation(s.ctx, s.testDB.DB.DB, map[string]int64{
		"포항시": 498296,
		"경주시": 257668,
		"울릉군": 0,
	})
	s.Require().NoError(err)

	counts, err := s.repo.GetAll(s.ctx)
	s.Require().NoError(err)

	s.Len(counts, 2)
	s.Equal(int64(498296), counts["포항시"])
	s.NotContains(counts, domain.Region("울릉군"))
}

func (s *PopulationRepositoryTestSuite) TestUpsert() {
	s.Require().NoError(s.repo.Upsert(s.ctx, map[domain.Region]int64{"김천시": 100}))
	s.Require().NoError(s.repo.Upsert(s.ctx, map[domain.Region]int64{"김천시": 138999, "안동시": 154788}))

	counts, err := s.repo.GetAll(s.ctx)
	s.Require().NoError(err)

	s.Equal(map[domain.Region]int64{"김천시": 138999, "안동시": 154788}, counts)
}

func (s *PopulationRepositoryTestSuite) TestGetAll_Empty() {
	counts, err := s.repo.GetAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(counts)
}

func (s *PopulationRepositoryTestSuite) TestEnsureSchema_Idempotent() {
	db := testhelpers.NewDBForTest(s.testDB.DB, s.testDB.Logger)

	s.Require().NoError(db.EnsureSchema(s.ctx))
	s.Require().NoError(db.EnsureSchema(s.ctx))
}

func (s *PopulationRepositoryTestSuite) TestWithTx_RollsBackOnError() {
	db := testhelpers.NewDBForTest(s.testDB.DB, s.testDB.Logger)
	failure := errors.New("stop")

	err := db.WithTx(s.ctx, func(tx *sqlx.Tx) error {
		_, execErr := tx.ExecContext(s.ctx,
			"INSERT INTO region_population (region, population) VALUES ($1, $2)", "영주시", 100000)
		s.Require().NoError(execErr)
		return failure
	})
	s.ErrorIs(err, failure)

	counts, err := s.repo.GetAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(counts)
}

func TestPopulationRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(PopulationRepositoryTestSuite))
}
