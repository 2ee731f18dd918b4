package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/region-dashboard/internal/domain"
	"github.com/region-dashboard/internal/domain/repository"
	"github.com/region-dashboard/internal/pkg/errors"
	"github.com/region-dashboard/internal/pkg/validator"
	"github.com/region-dashboard/internal/usecase/dto"
)

// DashboardProvider - пересчёт дашборда для выбранного района
type DashboardProvider interface {
	Dashboard(ctx context.Context, highlight string) (*dto.DashboardResponse, error)
}

// SelectionUseCase - use case для выбора района на карте
type SelectionUseCase struct {
	dashboard DashboardProvider
	streams   repository.StreamRepository // nil - публикация отключена
	logger    *zap.Logger
}

// NewSelectionUseCase создает новый SelectionUseCase
func NewSelectionUseCase(
	dashboard DashboardProvider,
	streams repository.StreamRepository,
	logger *zap.Logger,
) *SelectionUseCase {
	return &SelectionUseCase{
		dashboard: dashboard,
		streams:   streams,
		logger:    logger,
	}
}

// Select пересчитывает дашборд и публикует событие выбора
func (uc *SelectionUseCase) Select(ctx context.Context, req *dto.SelectionRequest) (*dto.SelectionResponse, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	sessionID := uuid.New()
	if req.SessionID != "" {
		parsed, err := uuid.Parse(req.SessionID)
		if err != nil {
			return nil, errors.ErrInvalidRequest.WithMessage("invalid session_id")
		}
		sessionID = parsed
	}

	dashboard, err := uc.dashboard.Dashboard(ctx, req.Region)
	if err != nil {
		return nil, err
	}

	resp := &dto.SelectionResponse{
		SessionID: sessionID.String(),
		Dashboard: dashboard,
	}

	if uc.streams == nil {
		return resp, nil
	}

	event := &domain.SelectionEvent{
		SessionID:   sessionID,
		Region:      req.Region,
		RequestedAt: time.Now().UTC(),
	}
	messageID, err := uc.streams.PublishToStream(ctx, domain.StreamDashboardSelect, event)
	if err != nil {
		// дашборд уже посчитан, потеря события не критична
		uc.logger.Warn("Failed to publish selection event",
			zap.String("session_id", sessionID.String()),
			zap.Error(err))
		return resp, nil
	}

	resp.MessageID = messageID
	return resp, nil
}

// HandleEvent пересчитывает дашборд по событию из стрима
func (uc *SelectionUseCase) HandleEvent(ctx context.Context, event *domain.SelectionEvent) (*domain.DashboardEvent, error) {
	result := &domain.DashboardEvent{
		SessionID: event.SessionID,
		Region:    event.Region,
	}

	dashboard, err := uc.dashboard.Dashboard(ctx, event.Region)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		uc.logger.Error("Failed to compute dashboard",
			zap.String("session_id", event.SessionID.String()),
			zap.String("region", event.Region),
			zap.Error(err))
		result.Error = fmt.Sprintf("failed to compute dashboard: %v", err)
		return result, nil
	}

	if dashboard.Selected != nil {
		selected := domain.Region(*dashboard.Selected)
		result.Selected = &selected
	}
	result.Dashboard = dashboard

	return result, nil
}
