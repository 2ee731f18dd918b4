package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/region-dashboard/internal/pkg/errors"
	"github.com/region-dashboard/internal/pkg/utils"
	"github.com/region-dashboard/internal/usecase/dto"
)

// SelectionService - выбор района на карте
type SelectionService interface {
	Select(ctx context.Context, req *dto.SelectionRequest) (*dto.SelectionResponse, error)
}

// SelectionHandler - обработчик клика по району на карте
type SelectionHandler struct {
	selectionUC SelectionService
	logger      *zap.Logger
}

// NewSelectionHandler - создание нового SelectionHandler
func NewSelectionHandler(selectionUC SelectionService, logger *zap.Logger) *SelectionHandler {
	return &SelectionHandler{
		selectionUC: selectionUC,
		logger:      logger,
	}
}

// Select godoc
// @Summary Выбор района
// @Description Пересчитывает дашборд для выбранного района и публикует событие выбора в stream:dashboard:select
// @Tags Dashboard
// @Accept json
// @Produce json
// @Param request body dto.SelectionRequest true "Выбранный район"
// @Success 200 {object} utils.SuccessResponse{data=dto.SelectionResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/selection [post]
func (h *SelectionHandler) Select(c *fiber.Ctx) error {
	var req dto.SelectionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}

	result, err := h.selectionUC.Select(c.Context(), &req)
	if err != nil {
		h.logger.Debug("Selection rejected", zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		RequestID: result.Dashboard.RequestID,
	})
}
