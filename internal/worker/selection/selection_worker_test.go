package selection_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/region-dashboard/internal/domain"
	"github.com/region-dashboard/internal/worker/selection"
)

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, count int64) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) ClaimStale(ctx context.Context, stream, group, consumer string, minIdle time.Duration, count int64) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, minIdle, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessages(ctx context.Context, stream, group string, messageIDs []string) error {
	args := m.Called(ctx, stream, group, messageIDs)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) (string, error) {
	args := m.Called(ctx, stream, data)
	return args.String(0), args.Error(1)
}

// MockEventHandler is a mock of EventHandler
type MockEventHandler struct {
	mock.Mock
}

func (m *MockEventHandler) HandleEvent(ctx context.Context, event *domain.SelectionEvent) (*domain.DashboardEvent, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardEvent), args.Error(1)
}

func expectNoStale(streams *MockStreamRepository) {
	streams.On("ClaimStale", mock.Anything, domain.StreamDashboardSelect, "test-group", mock.Anything, mock.Anything, int64(20)).
		Return([]domain.StreamMessage{}, nil)
}

func encodeEvent(t *testing.T, event domain.SelectionEvent) string {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return string(data)
}

func TestSelectionWorker_Name(t *testing.T) {
	w := selection.NewSelectionWorker(&MockStreamRepository{}, &MockEventHandler{}, "test-group", 3, zap.NewNop())

	assert.Equal(t, "dashboard-selection", w.Name())
	assert.Equal(t, "test-group", w.ConsumerGroup())
	assert.NotEmpty(t, w.ConsumerName())
}

func TestSelectionWorker_Stop(t *testing.T) {
	w := selection.NewSelectionWorker(&MockStreamRepository{}, &MockEventHandler{}, "test-group", 3, zap.NewNop())

	// Stop should not error even if not started
	assert.NoError(t, w.Stop())
	// Calling stop multiple times should be safe
	assert.NoError(t, w.Stop())
	assert.True(t, w.IsStopped())
}

func TestSelectionWorker_ProcessBatch(t *testing.T) {
	ctx := context.Background()
	sessionID := uuid.New()

	t.Run("publishes dashboard and acks", func(t *testing.T) {
		streams := &MockStreamRepository{}
		handler := &MockEventHandler{}

		selected := domain.Region("포항시")
		result := &domain.DashboardEvent{SessionID: sessionID, Region: "포항", Selected: &selected}

		expectNoStale(streams)
		streams.On("ConsumeBatch", ctx, domain.StreamDashboardSelect, "test-group", mock.Anything, int64(20)).
			Return([]domain.StreamMessage{
				{ID: "1-0", Data: encodeEvent(t, domain.SelectionEvent{SessionID: sessionID, Region: "포항"})},
				{ID: "2-0", Data: "{not json"},
			}, nil)
		handler.On("HandleEvent", ctx, mock.MatchedBy(func(e *domain.SelectionEvent) bool {
			return e.SessionID == sessionID && e.Region == "포항"
		})).Return(result, nil)
		streams.On("PublishToStream", ctx, domain.StreamDashboardDone, result).Return("10-0", nil)
		streams.On("AckMessages", ctx, domain.StreamDashboardSelect, "test-group", []string{"1-0", "2-0"}).Return(nil)

		w := selection.NewSelectionWorker(streams, handler, "test-group", 3, zap.NewNop())
		n, err := w.ProcessBatch(ctx)

		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, int64(1), w.Stats().Processed)
		assert.Equal(t, int64(1), w.Stats().Failed)
		streams.AssertExpectations(t)
		handler.AssertExpectations(t)
	})

	t.Run("empty queue", func(t *testing.T) {
		streams := &MockStreamRepository{}
		expectNoStale(streams)
		streams.On("ConsumeBatch", ctx, domain.StreamDashboardSelect, "test-group", mock.Anything, int64(20)).
			Return([]domain.StreamMessage{}, nil)

		w := selection.NewSelectionWorker(streams, &MockEventHandler{}, "test-group", 3, zap.NewNop())
		n, err := w.ProcessBatch(ctx)

		require.NoError(t, err)
		assert.Zero(t, n)
		streams.AssertNotCalled(t, "AckMessages", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("publish failure leaves message pending", func(t *testing.T) {
		streams := &MockStreamRepository{}
		handler := &MockEventHandler{}
		result := &domain.DashboardEvent{SessionID: sessionID, Region: "경주"}

		expectNoStale(streams)
		streams.On("ConsumeBatch", ctx, domain.StreamDashboardSelect, "test-group", mock.Anything, int64(20)).
			Return([]domain.StreamMessage{
				{ID: "3-0", Data: encodeEvent(t, domain.SelectionEvent{SessionID: sessionID, Region: "경주"})},
			}, nil)
		handler.On("HandleEvent", ctx, mock.Anything).Return(result, nil)
		streams.On("PublishToStream", ctx, domain.StreamDashboardDone, result).Return("", errors.New("connection refused"))

		w := selection.NewSelectionWorker(streams, handler, "test-group", 2, zap.NewNop())
		n, err := w.ProcessBatch(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, n)
		streams.AssertNumberOfCalls(t, "PublishToStream", 2)
		streams.AssertNotCalled(t, "AckMessages", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		assert.Equal(t, int64(1), w.Stats().Failed)
	})

	t.Run("stale message is claimed and delivered", func(t *testing.T) {
		streams := &MockStreamRepository{}
		handler := &MockEventHandler{}
		result := &domain.DashboardEvent{SessionID: sessionID, Region: "경주"}

		// сообщение осталось в pending после неудачной публикации
		streams.On("ClaimStale", ctx, domain.StreamDashboardSelect, "test-group", mock.Anything, 30*time.Second, int64(20)).
			Return([]domain.StreamMessage{
				{ID: "3-0", Data: encodeEvent(t, domain.SelectionEvent{SessionID: sessionID, Region: "경주"})},
			}, nil)
		streams.On("ConsumeBatch", ctx, domain.StreamDashboardSelect, "test-group", mock.Anything, int64(19)).
			Return([]domain.StreamMessage{}, nil)
		handler.On("HandleEvent", ctx, mock.Anything).Return(result, nil)
		streams.On("PublishToStream", ctx, domain.StreamDashboardDone, result).Return("11-0", nil)
		streams.On("AckMessages", ctx, domain.StreamDashboardSelect, "test-group", []string{"3-0"}).Return(nil)

		w := selection.NewSelectionWorker(streams, handler, "test-group", 2, zap.NewNop())
		n, err := w.ProcessBatch(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, int64(1), w.Stats().Processed)
		streams.AssertExpectations(t)
	})

	t.Run("full batch of stale messages skips new reads", func(t *testing.T) {
		streams := &MockStreamRepository{}
		stale := make([]domain.StreamMessage, 20)
		ids := make([]string, 20)
		for i := range stale {
			stale[i] = domain.StreamMessage{ID: fmt.Sprintf("%d-0", i+1), Data: "{broken"}
			ids[i] = stale[i].ID
		}
		streams.On("ClaimStale", ctx, domain.StreamDashboardSelect, "test-group", mock.Anything, mock.Anything, int64(20)).
			Return(stale, nil)
		streams.On("AckMessages", ctx, domain.StreamDashboardSelect, "test-group", ids).Return(nil)

		w := selection.NewSelectionWorker(streams, &MockEventHandler{}, "test-group", 2, zap.NewNop())
		n, err := w.ProcessBatch(ctx)

		require.NoError(t, err)
		assert.Equal(t, 20, n)
		streams.AssertNotCalled(t, "ConsumeBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("claim error", func(t *testing.T) {
		streams := &MockStreamRepository{}
		streams.On("ClaimStale", ctx, domain.StreamDashboardSelect, "test-group", mock.Anything, mock.Anything, int64(20)).
			Return(nil, errors.New("NOGROUP"))

		w := selection.NewSelectionWorker(streams, &MockEventHandler{}, "test-group", 3, zap.NewNop())
		_, err := w.ProcessBatch(ctx)
		assert.Error(t, err)
		streams.AssertNotCalled(t, "ConsumeBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("consume error", func(t *testing.T) {
		streams := &MockStreamRepository{}
		expectNoStale(streams)
		streams.On("ConsumeBatch", ctx, domain.StreamDashboardSelect, "test-group", mock.Anything, int64(20)).
			Return(nil, errors.New("NOGROUP"))

		w := selection.NewSelectionWorker(streams, &MockEventHandler{}, "test-group", 3, zap.NewNop())
		_, err := w.ProcessBatch(ctx)
		assert.Error(t, err)
	})
}

func TestSelectionWorker_ContextCancellation(t *testing.T) {
	streams := &MockStreamRepository{}
	streams.On("CreateConsumerGroup", mock.Anything, domain.StreamDashboardSelect, "test-group").Return(nil)
	expectNoStale(streams)
	streams.On("ConsumeBatch", mock.Anything, domain.StreamDashboardSelect, "test-group", mock.Anything, int64(20)).
		Return([]domain.StreamMessage{}, nil)

	w := selection.NewSelectionWorker(streams, &MockEventHandler{}, "test-group", 3, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Start(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
}

func TestSelectionWorker_StartFailsWithoutGroup(t *testing.T) {
	streams := &MockStreamRepository{}
	streams.On("CreateConsumerGroup", mock.Anything, domain.StreamDashboardSelect, "test-group").
		Return(errors.New("connection refused"))

	w := selection.NewSelectionWorker(streams, &MockEventHandler{}, "test-group", 3, zap.NewNop())
	err := w.Start(context.Background())
	assert.Error(t, err)
}
