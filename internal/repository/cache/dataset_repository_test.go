package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/region-dashboard/internal/domain"
)

type mockDatasetRepo struct {
	mock.Mock
}

func (m *mockDatasetRepo) Load(ctx context.Context, src domain.DatasetSource) (*domain.Table, error) {
	args := m.Called(ctx, src)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Table), args.Error(1)
}

func (m *mockDatasetRepo) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockCacheRepo struct {
	mock.Mock
}

func (m *mockCacheRepo) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *mockCacheRepo) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *mockCacheRepo) GetTable(ctx context.Context, identity string) (*domain.Table, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Table), args.Error(1)
}

func (m *mockCacheRepo) SetTable(ctx context.Context, identity string, table *domain.Table) error {
	return m.Called(ctx, identity, table).Error(0)
}

func (m *mockCacheRepo) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).(int64), args.Error(1)
}

func TestCachedDatasetRepository_Load(t *testing.T) {
	ctx := context.Background()
	src := domain.DatasetSource{Path: "crime.xlsx", Format: domain.FormatXLSX}
	table := &domain.Table{Header: []string{"a"}, Rows: [][]string{{"1"}}}

	t.Run("cache hit skips source", func(t *testing.T) {
		inner := new(mockDatasetRepo)
		cache := new(mockCacheRepo)
		cache.On("GetTable", ctx, src.Identity()).Return(table, nil)

		repo := NewCachedDatasetRepository(inner, cache, zap.NewNop())
		got, err := repo.Load(ctx, src)
		require.NoError(t, err)
		assert.Equal(t, table, got)

		inner.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
	})

	t.Run("miss reads source and stores snapshot", func(t *testing.T) {
		inner := new(mockDatasetRepo)
		cache := new(mockCacheRepo)
		cache.On("GetTable", ctx, src.Identity()).Return(nil, nil)
		inner.On("Load", ctx, src).Return(table, nil)
		cache.On("SetTable", ctx, src.Identity(), table).Return(nil)

		repo := NewCachedDatasetRepository(inner, cache, zap.NewNop())
		got, err := repo.Load(ctx, src)
		require.NoError(t, err)
		assert.Equal(t, table, got)

		cache.AssertExpectations(t)
		inner.AssertExpectations(t)
	})

	t.Run("cache failure falls back to source", func(t *testing.T) {
		inner := new(mockDatasetRepo)
		cache := new(mockCacheRepo)
		cache.On("GetTable", ctx, src.Identity()).Return(nil, errors.New("connection refused"))
		inner.On("Load", ctx, src).Return(table, nil)
		cache.On("SetTable", ctx, src.Identity(), table).Return(errors.New("connection refused"))

		repo := NewCachedDatasetRepository(inner, cache, zap.NewNop())
		got, err := repo.Load(ctx, src)
		require.NoError(t, err)
		assert.Equal(t, table, got)
	})

	t.Run("source error is returned and not cached", func(t *testing.T) {
		inner := new(mockDatasetRepo)
		cache := new(mockCacheRepo)
		cache.On("GetTable", ctx, src.Identity()).Return(nil, nil)
		inner.On("Load", ctx, src).Return(nil, errors.New("no such file"))

		repo := NewCachedDatasetRepository(inner, cache, zap.NewNop())
		_, err := repo.Load(ctx, src)
		assert.Error(t, err)

		cache.AssertNotCalled(t, "SetTable", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCachedDatasetRepository_Invalidate(t *testing.T) {
	ctx := context.Background()

	inner := new(mockDatasetRepo)
	cache := new(mockCacheRepo)
	cache.On("DeleteByPrefix", ctx, DatasetKeyPrefix).Return(int64(3), nil)
	inner.On("Invalidate", ctx).Return(nil)

	repo := NewCachedDatasetRepository(inner, cache, zap.NewNop())
	require.NoError(t, repo.Invalidate(ctx))

	cache.AssertExpectations(t)
	inner.AssertExpectations(t)

	failing := new(mockCacheRepo)
	failing.On("DeleteByPrefix", ctx, DatasetKeyPrefix).Return(int64(0), errors.New("down"))
	repo = NewCachedDatasetRepository(new(mockDatasetRepo), failing, zap.NewNop())
	assert.Error(t, repo.Invalidate(ctx))
}
