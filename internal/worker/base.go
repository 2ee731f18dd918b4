package worker

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// BaseWorker содержит общую логику для всех воркеров стримов
type BaseWorker struct {
	name          string
	logger        *zap.Logger
	stopChan      chan struct{}
	stopped       bool
	mu            sync.Mutex
	consumerGroup string
	consumerName  string

	processed atomic.Int64
	failed    atomic.Int64
}

// NewBaseWorker создает новый BaseWorker. Имя consumer'а - hostname + PID,
// чтобы несколько процессов делили одну группу.
func NewBaseWorker(name, consumerGroup string, logger *zap.Logger) *BaseWorker {
	hostname, _ := os.Hostname()

	return &BaseWorker{
		name:          name,
		logger:        logger.With(zap.String("worker", name)),
		stopChan:      make(chan struct{}),
		consumerGroup: consumerGroup,
		consumerName:  fmt.Sprintf("%s-%d", hostname, os.Getpid()),
	}
}

// Name возвращает имя воркера
func (w *BaseWorker) Name() string {
	return w.name
}

// Stop останавливает воркер; повторный вызов безопасен
func (w *BaseWorker) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}

	w.logger.Info("Stopping worker",
		zap.Int64("processed", w.processed.Load()),
		zap.Int64("failed", w.failed.Load()))
	close(w.stopChan)
	w.stopped = true

	return nil
}

// IsStopped проверяет, остановлен ли воркер
func (w *BaseWorker) IsStopped() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stopped
}

// StopChan возвращает канал остановки
func (w *BaseWorker) StopChan() <-chan struct{} {
	return w.stopChan
}

// ConsumerGroup возвращает имя consumer group
func (w *BaseWorker) ConsumerGroup() string {
	return w.consumerGroup
}

// ConsumerName возвращает имя consumer'а внутри группы
func (w *BaseWorker) ConsumerName() string {
	return w.consumerName
}

// Logger возвращает логгер
func (w *BaseWorker) Logger() *zap.Logger {
	return w.logger
}

// RecordProcessed учитывает успешно обработанные сообщения
func (w *BaseWorker) RecordProcessed(n int) {
	w.processed.Add(int64(n))
}

// RecordFailed учитывает сообщения, обработанные с ошибкой
func (w *BaseWorker) RecordFailed(n int) {
	w.failed.Add(int64(n))
}

// Stats возвращает счётчики воркера
func (w *BaseWorker) Stats() Stats {
	return Stats{
		Name:      w.name,
		Processed: w.processed.Load(),
		Failed:    w.failed.Load(),
	}
}
