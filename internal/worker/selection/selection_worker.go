package selection

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/region-dashboard/internal/domain"
	"github.com/region-dashboard/internal/domain/repository"
	"github.com/region-dashboard/internal/worker"
)

const (
	maxBatchSize    = 20                     // максимум сообщений за раз
	emptyQueueSleep = 100 * time.Millisecond // пауза если очередь пуста
	errorSleep      = time.Second            // пауза после ошибки чтения
	staleClaimIdle  = 30 * time.Second       // через сколько неподтверждённое сообщение забирается повторно
)

// EventHandler пересчитывает дашборд по событию выбора
type EventHandler interface {
	HandleEvent(ctx context.Context, event *domain.SelectionEvent) (*domain.DashboardEvent, error)
}

// SelectionWorker читает stream:dashboard:select и публикует готовые
// дашборды в stream:dashboard:done
type SelectionWorker struct {
	*worker.BaseWorker
	streamRepo repository.StreamRepository
	handler    EventHandler
	maxRetries int
}

// NewSelectionWorker создает новый SelectionWorker
func NewSelectionWorker(
	streamRepo repository.StreamRepository,
	handler EventHandler,
	consumerGroup string,
	maxRetries int,
	logger *zap.Logger,
) *SelectionWorker {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &SelectionWorker{
		BaseWorker: worker.NewBaseWorker("dashboard-selection", consumerGroup, logger),
		streamRepo: streamRepo,
		handler:    handler,
		maxRetries: maxRetries,
	}
}

// Start запускает воркер
func (w *SelectionWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting SelectionWorker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.ConsumerName()),
		zap.Int("max_batch_size", maxBatchSize))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamDashboardSelect, w.ConsumerGroup()); err != nil {
		logger.Error("Failed to create consumer group", zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil
		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()
		default:
		}

		processed, err := w.ProcessBatch(ctx)
		pause := time.Duration(0)
		switch {
		case err != nil:
			logger.Error("Failed to process batch", zap.Error(err))
			pause = errorSleep
		case processed == 0:
			pause = emptyQueueSleep
		}

		if pause > 0 {
			select {
			case <-w.StopChan():
			case <-ctx.Done():
			case <-time.After(pause):
			}
		}
	}
}

// ProcessBatch читает и обрабатывает batch сообщений.
// Возвращает количество прочитанных сообщений.
func (w *SelectionWorker) ProcessBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	// сначала pending, оставшиеся без ACK после сбоя публикации или падения процесса
	messages, err := w.streamRepo.ClaimStale(
		ctx,
		domain.StreamDashboardSelect,
		w.ConsumerGroup(),
		w.ConsumerName(),
		staleClaimIdle,
		maxBatchSize,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to claim stale messages: %w", err)
	}

	if free := maxBatchSize - len(messages); free > 0 {
		fresh, err := w.streamRepo.ConsumeBatch(
			ctx,
			domain.StreamDashboardSelect,
			w.ConsumerGroup(),
			w.ConsumerName(),
			int64(free),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to consume batch: %w", err)
		}
		messages = append(messages, fresh...)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	logger.Debug("Processing batch", zap.Int("message_count", len(messages)))

	ackIDs := make([]string, 0, len(messages))
	for _, msg := range messages {
		event, err := parseMessage(msg)
		if err != nil {
			// битое сообщение подтверждаем, чтобы не застревало в PEL
			logger.Warn("Failed to parse message, skipping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			w.RecordFailed(1)
			ackIDs = append(ackIDs, msg.ID)
			continue
		}

		if err := w.handle(ctx, event); err != nil {
			if ctx.Err() != nil {
				break
			}
			// без ACK сообщение останется в pending, его заберёт ClaimStale
			logger.Error("Failed to handle selection",
				zap.String("message_id", msg.ID),
				zap.String("session_id", event.SessionID.String()),
				zap.Error(err))
			w.RecordFailed(1)
			continue
		}

		w.RecordProcessed(1)
		ackIDs = append(ackIDs, msg.ID)
	}

	if len(ackIDs) > 0 {
		if err := w.streamRepo.AckMessages(ctx, domain.StreamDashboardSelect, w.ConsumerGroup(), ackIDs); err != nil {
			logger.Error("Failed to ack messages", zap.Error(err))
		}
	}

	return len(messages), nil
}

func (w *SelectionWorker) handle(ctx context.Context, event *domain.SelectionEvent) error {
	result, err := w.handler.HandleEvent(ctx, event)
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 1; attempt <= w.maxRetries; attempt++ {
		_, lastErr = w.streamRepo.PublishToStream(ctx, domain.StreamDashboardDone, result)
		if lastErr == nil {
			return nil
		}
		w.Logger().Warn("Failed to publish dashboard event",
			zap.String("session_id", event.SessionID.String()),
			zap.Int("attempt", attempt),
			zap.Error(lastErr))
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return fmt.Errorf("publish dashboard event: %w", lastErr)
}

// parseMessage парсит сообщение из стрима в SelectionEvent
func parseMessage(msg domain.StreamMessage) (*domain.SelectionEvent, error) {
	if msg.Data == "" {
		return nil, fmt.Errorf("empty 'data' field")
	}

	var event domain.SelectionEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if !event.HasRegion() {
		return nil, fmt.Errorf("event has no region")
	}

	return &event, nil
}
