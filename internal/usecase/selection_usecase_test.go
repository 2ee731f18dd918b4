package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/region-dashboard/internal/domain"
	"github.com/region-dashboard/internal/usecase"
	"github.com/region-dashboard/internal/usecase/dto"
)

func selectedDashboard(region string) *dto.DashboardResponse {
	return &dto.DashboardResponse{RequestID: "req-1", Region: region, Selected: &region}
}

func TestSelectionUseCase_Select(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes selection event", func(t *testing.T) {
		dashboard := new(MockDashboardProvider)
		streams := new(MockStreamRepository)
		sessionID := uuid.New()

		dashboard.On("Dashboard", ctx, "포항").Return(selectedDashboard("포항시"), nil)
		streams.On("PublishToStream", ctx, domain.StreamDashboardSelect, mock.MatchedBy(func(e *domain.SelectionEvent) bool {
			return e.SessionID == sessionID && e.Region == "포항" && !e.RequestedAt.IsZero()
		})).Return("1-0", nil)

		uc := usecase.NewSelectionUseCase(dashboard, streams, zap.NewNop())
		resp, err := uc.Select(ctx, &dto.SelectionRequest{SessionID: sessionID.String(), Region: "포항"})

		require.NoError(t, err)
		assert.Equal(t, sessionID.String(), resp.SessionID)
		assert.Equal(t, "1-0", resp.MessageID)
		assert.Equal(t, "포항시", *resp.Dashboard.Selected)
		streams.AssertExpectations(t)
	})

	t.Run("generates session id", func(t *testing.T) {
		dashboard := new(MockDashboardProvider)
		dashboard.On("Dashboard", ctx, "경주").Return(selectedDashboard("경주시"), nil)

		uc := usecase.NewSelectionUseCase(dashboard, nil, zap.NewNop())
		resp, err := uc.Select(ctx, &dto.SelectionRequest{Region: "경주"})

		require.NoError(t, err)
		_, parseErr := uuid.Parse(resp.SessionID)
		assert.NoError(t, parseErr)
		assert.Empty(t, resp.MessageID)
	})

	t.Run("publish failure is not fatal", func(t *testing.T) {
		dashboard := new(MockDashboardProvider)
		streams := new(MockStreamRepository)
		dashboard.On("Dashboard", ctx, "김천").Return(selectedDashboard("김천시"), nil)
		streams.On("PublishToStream", ctx, domain.StreamDashboardSelect, mock.Anything).
			Return("", errors.New("connection refused"))

		uc := usecase.NewSelectionUseCase(dashboard, streams, zap.NewNop())
		resp, err := uc.Select(ctx, &dto.SelectionRequest{Region: "김천"})

		require.NoError(t, err)
		assert.NotNil(t, resp.Dashboard)
		assert.Empty(t, resp.MessageID)
	})

	t.Run("validation", func(t *testing.T) {
		dashboard := new(MockDashboardProvider)
		uc := usecase.NewSelectionUseCase(dashboard, nil, zap.NewNop())

		_, err := uc.Select(ctx, &dto.SelectionRequest{Region: ""})
		assert.Error(t, err)

		_, err = uc.Select(ctx, &dto.SelectionRequest{SessionID: "not-a-uuid", Region: "포항"})
		assert.Error(t, err)

		dashboard.AssertNotCalled(t, "Dashboard", mock.Anything, mock.Anything)
	})
}

func TestSelectionUseCase_HandleEvent(t *testing.T) {
	ctx := context.Background()
	sessionID := uuid.New()

	t.Run("success", func(t *testing.T) {
		dashboard := new(MockDashboardProvider)
		dashboard.On("Dashboard", ctx, "포항").Return(selectedDashboard("포항시"), nil)

		uc := usecase.NewSelectionUseCase(dashboard, nil, zap.NewNop())
		result, err := uc.HandleEvent(ctx, &domain.SelectionEvent{SessionID: sessionID, Region: "포항"})

		require.NoError(t, err)
		assert.Equal(t, sessionID, result.SessionID)
		require.NotNil(t, result.Selected)
		assert.Equal(t, domain.Region("포항시"), *result.Selected)
		assert.NotNil(t, result.Dashboard)
		assert.Empty(t, result.Error)
	})

	t.Run("dashboard error is reported in event", func(t *testing.T) {
		dashboard := new(MockDashboardProvider)
		dashboard.On("Dashboard", ctx, "포항").Return(nil, errors.New("boom"))

		uc := usecase.NewSelectionUseCase(dashboard, nil, zap.NewNop())
		result, err := uc.HandleEvent(ctx, &domain.SelectionEvent{SessionID: sessionID, Region: "포항"})

		require.NoError(t, err)
		assert.Contains(t, result.Error, "boom")
		assert.Nil(t, result.Dashboard)
	})
}
