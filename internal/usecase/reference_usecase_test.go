package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/region-dashboard/internal/domain"
	apperrors "github.com/region-dashboard/internal/pkg/errors"
	"github.com/region-dashboard/internal/usecase"
)

// MockPopulationRepository is a mock of PopulationRepository
type MockPopulationRepository struct {
	mock.Mock
}

func (m *MockPopulationRepository) GetAll(ctx context.Context) (map[domain.Region]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.Region]int64), args.Error(1)
}

func (m *MockPopulationRepository) Upsert(ctx context.Context, counts map[domain.Region]int64) error {
	args := m.Called(ctx, counts)
	return args.Error(0)
}

func TestResolvePopulation(t *testing.T) {
	ctx := context.Background()

	t.Run("no storage keeps catalog", func(t *testing.T) {
		base := testReference(t)

		ref, err := usecase.ResolvePopulation(ctx, base, nil, zap.NewNop())
		require.NoError(t, err)
		assert.Same(t, base, ref)
	})

	t.Run("empty storage is seeded", func(t *testing.T) {
		base := testReference(t)
		repo := new(MockPopulationRepository)
		repo.On("GetAll", ctx).Return(map[domain.Region]int64{}, nil)
		repo.On("Upsert", ctx, map[domain.Region]int64{"포항시": 500, "경주시": 1000, "김천시": 200}).Return(nil)

		ref, err := usecase.ResolvePopulation(ctx, base, repo, zap.NewNop())
		require.NoError(t, err)
		assert.Same(t, base, ref)
		repo.AssertExpectations(t)
	})

	t.Run("storage overrides catalog", func(t *testing.T) {
		base := testReference(t)
		repo := new(MockPopulationRepository)
		repo.On("GetAll", ctx).Return(map[domain.Region]int64{
			"포항시":   510,
			"경주시":   0,
			"서울특별시": 9000000,
		}, nil)

		ref, err := usecase.ResolvePopulation(ctx, base, repo, zap.NewNop())
		require.NoError(t, err)

		pop, ok := ref.Population.Get("포항시")
		assert.True(t, ok)
		assert.Equal(t, int64(510), pop)

		_, ok = ref.Population.Get("경주시")
		assert.False(t, ok)
		_, ok = ref.Population.Get("서울특별시")
		assert.False(t, ok)
		assert.Equal(t, base.Regions, ref.Regions)
	})

	t.Run("storage error", func(t *testing.T) {
		repo := new(MockPopulationRepository)
		repo.On("GetAll", ctx).Return(nil, errors.New("connection refused"))

		_, err := usecase.ResolvePopulation(ctx, testReference(t), repo, zap.NewNop())
		assert.ErrorIs(t, err, apperrors.ErrDatabaseError)
	})
}
