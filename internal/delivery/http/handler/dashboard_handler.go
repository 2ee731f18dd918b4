package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/region-dashboard/internal/pkg/utils"
	"github.com/region-dashboard/internal/pkg/validator"
	"github.com/region-dashboard/internal/usecase/dto"
)

// DashboardService - операции дашборда, нужные HTTP слою
type DashboardService interface {
	Regions() []dto.RegionResponse
	Indicators() []dto.IndicatorResponse
	Panel(ctx context.Context, indicator, highlight, order string) (*dto.PanelResponse, error)
	Pollution(ctx context.Context, highlight string) (*dto.PollutionResponse, error)
	Radar(ctx context.Context, highlight string) (*dto.RadarResponse, error)
	Dashboard(ctx context.Context, highlight string) (*dto.DashboardResponse, error)
	Reload(ctx context.Context) error
}

// DashboardHandler - обработчик запросов дашборда
type DashboardHandler struct {
	dashboardUC DashboardService
	logger      *zap.Logger
}

// NewDashboardHandler - создание нового DashboardHandler
func NewDashboardHandler(dashboardUC DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardUC: dashboardUC,
		logger:      logger,
	}
}

// GetRegions godoc
// @Summary Список районов
// @Description Возвращает канонические районы провинции в исходном порядке вместе с численностью населения
// @Tags Reference
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]dto.RegionResponse}
// @Router /api/v1/regions [get]
func (h *DashboardHandler) GetRegions(c *fiber.Ctx) error {
	regions := h.dashboardUC.Regions()
	return utils.SendSuccess(c, regions, &utils.Meta{
		Total: len(regions),
	})
}

// GetIndicators godoc
// @Summary Список показателей
// @Description Возвращает показатели каталога: стратегию загрузки, инверсию, деление на население и порядок сортировки
// @Tags Reference
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]dto.IndicatorResponse}
// @Router /api/v1/indicators [get]
func (h *DashboardHandler) GetIndicators(c *fiber.Ctx) error {
	indicators := h.dashboardUC.Indicators()
	return utils.SendSuccess(c, indicators, &utils.Meta{
		Total: len(indicators),
	})
}

// GetRanking godoc
// @Summary Ранжированный ряд показателя
// @Description Гистограмма одного показателя: районы отсортированы по отношению к населению, выбранный район выделен
// @Tags Dashboard
// @Produce json
// @Param name path string true "Имя показателя" example(crime)
// @Param region query string false "Выбранный район (любая метка, например 포항)"
// @Param order query string false "Порядок сортировки" Enums(asc, desc)
// @Success 200 {object} utils.SuccessResponse{data=dto.PanelResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/indicators/{name}/ranking [get]
func (h *DashboardHandler) GetRanking(c *fiber.Ctx) error {
	req := dto.RankingRequest{
		Indicator: c.Params("name"),
		Region:    c.Query("region"),
		Order:     c.Query("order"),
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	panel, err := h.dashboardUC.Panel(c.Context(), req.Indicator, req.Region, req.Order)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, panel, &utils.Meta{
		Total: len(panel.Series),
	})
}

// GetPollution godoc
// @Summary Составной показатель загрязнения воздуха
// @Description Сумма масштабированных загрязнителей по районам (stacked bar)
// @Tags Dashboard
// @Produce json
// @Param region query string false "Выбранный район"
// @Success 200 {object} utils.SuccessResponse{data=dto.PollutionResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/pollution [get]
func (h *DashboardHandler) GetPollution(c *fiber.Ctx) error {
	req := dto.RegionQuery{Region: c.Query("region")}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	pollution, err := h.dashboardUC.Pollution(c.Context(), req.Region)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, pollution, &utils.Meta{
		Total: len(pollution.Series),
	})
}

// GetRadar godoc
// @Summary Радар-диаграмма
// @Description Масштабированные показатели по районам, присутствующим во всех доступных осях
// @Tags Dashboard
// @Produce json
// @Param region query string false "Выбранный район"
// @Success 200 {object} utils.SuccessResponse{data=dto.RadarResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/radar [get]
func (h *DashboardHandler) GetRadar(c *fiber.Ctx) error {
	req := dto.RegionQuery{Region: c.Query("region")}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	radar, err := h.dashboardUC.Radar(c.Context(), req.Region)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, radar, &utils.Meta{
		Total: len(radar.Records),
	})
}

// GetDashboard godoc
// @Summary Полный дашборд
// @Description Все панели, загрязнение и радар для выбранного района. Недоступный показатель помечается в своей панели и не прерывает ответ.
// @Tags Dashboard
// @Produce json
// @Param region query string false "Выбранный район"
// @Success 200 {object} utils.SuccessResponse{data=dto.DashboardResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/dashboard [get]
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	req := dto.RegionQuery{Region: c.Query("region")}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	dashboard, err := h.dashboardUC.Dashboard(c.Context(), req.Region)
	if err != nil {
		h.logger.Error("Failed to compute dashboard",
			zap.String("region", req.Region),
			zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dashboard, &utils.Meta{
		RequestID: dashboard.RequestID,
	})
}

// ReloadDatasets godoc
// @Summary Сброс кеша наборов данных
// @Description Удаляет закешированные таблицы; следующий запрос перечитает файлы
// @Tags Admin
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.ReloadResponse}
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/datasets/reload [post]
func (h *DashboardHandler) ReloadDatasets(c *fiber.Ctx) error {
	if err := h.dashboardUC.Reload(c.Context()); err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.ReloadResponse{Reloaded: true}, nil)
}
