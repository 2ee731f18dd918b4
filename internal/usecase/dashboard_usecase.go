package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/region-dashboard/internal/domain"
	"github.com/region-dashboard/internal/domain/repository"
	"github.com/region-dashboard/internal/pipeline"
	apperrors "github.com/region-dashboard/internal/pkg/errors"
	"github.com/region-dashboard/internal/usecase/dto"
)

var (
	ErrNoMatchedRegions    = errors.New("no dataset label matched a known region")
	ErrAllComponentsFailed = errors.New("all components failed to load")
	ErrNotComposite        = errors.New("indicator is not composite")
	ErrNoRadarIndicators   = errors.New("no radar indicator is available")
)

// DashboardUseCase вычисляет панели, радар и составной показатель загрязнения.
// Справочник и каталог неизменяемы; наборы данных читаются заново в каждом
// запросе (или берутся из кеша репозитория), внутри запроса каждый показатель
// вычисляется один раз.
type DashboardUseCase struct {
	reference  *domain.Reference
	catalog    *domain.IndicatorCatalog
	datasets   repository.DatasetRepository
	canon      *pipeline.Canonicalizer
	normalizer *pipeline.Normalizer
	ranker     *pipeline.Ranker
	logger     *zap.Logger
}

// NewDashboardUseCase создает новый экземпляр DashboardUseCase
func NewDashboardUseCase(
	reference *domain.Reference,
	catalog *domain.IndicatorCatalog,
	datasets repository.DatasetRepository,
	logger *zap.Logger,
) *DashboardUseCase {
	canon := pipeline.NewCanonicalizer(reference.Regions)
	return &DashboardUseCase{
		reference:  reference,
		catalog:    catalog,
		datasets:   datasets,
		canon:      canon,
		normalizer: pipeline.NewNormalizer(canon, reference.Population),
		ranker:     pipeline.NewRanker(reference.Regions),
		logger:     logger,
	}
}

// Regions возвращает канонические районы в исходном порядке
func (uc *DashboardUseCase) Regions() []dto.RegionResponse {
	regions := uc.reference.Regions.Regions()
	out := make([]dto.RegionResponse, 0, len(regions))
	for _, r := range regions {
		pop, _ := uc.reference.Population.Get(r)
		out = append(out, dto.RegionResponse{Name: string(r), Population: pop})
	}
	return out
}

// Indicators возвращает описание показателей каталога
func (uc *DashboardUseCase) Indicators() []dto.IndicatorResponse {
	out := make([]dto.IndicatorResponse, 0, len(uc.catalog.Indicators))
	for _, def := range uc.catalog.Indicators {
		item := dto.IndicatorResponse{
			Name:      def.Name,
			Title:     def.Title,
			Unit:      def.Unit,
			Kind:      string(def.Kind),
			Invert:    def.Invert,
			PerCapita: def.IsPerCapita(),
			Order:     orderName(def.Ascending()),
		}
		for _, c := range def.Components {
			item.Components = append(item.Components, c.Name)
		}
		out = append(out, item)
	}
	return out
}

// Panel строит ранжированный ряд одного показателя.
// order пустой - порядок из каталога.
func (uc *DashboardUseCase) Panel(ctx context.Context, indicator, highlight, order string) (*dto.PanelResponse, error) {
	def, ok := uc.catalog.Indicator(indicator)
	if !ok {
		return nil, apperrors.ErrIndicatorNotFound.WithDetails(map[string]interface{}{
			"indicator": indicator,
		})
	}

	region, _ := uc.resolveHighlight(highlight)
	resp := uc.panel(ctx, uc.newComputation(), def, region, order)
	return &resp, nil
}

// Pollution строит stacked-ряд составного показателя загрязнения
func (uc *DashboardUseCase) Pollution(ctx context.Context, highlight string) (*dto.PollutionResponse, error) {
	def, ok := uc.catalog.Indicator(uc.catalog.Pollution)
	if !ok {
		return nil, apperrors.ErrIndicatorNotFound.WithDetails(map[string]interface{}{
			"indicator": uc.catalog.Pollution,
		})
	}

	region, _ := uc.resolveHighlight(highlight)
	resp := uc.pollution(ctx, uc.newComputation(), def, region)
	return &resp, nil
}

// Radar строит радар по районам, присутствующим во всех доступных осях
func (uc *DashboardUseCase) Radar(ctx context.Context, highlight string) (*dto.RadarResponse, error) {
	region, _ := uc.resolveHighlight(highlight)
	resp := uc.radar(ctx, uc.newComputation(), region)
	return &resp, nil
}

// Dashboard пересчитывает все панели для выбранного района.
// Сбой одного показателя отражается в его панели и не прерывает ответ.
func (uc *DashboardUseCase) Dashboard(ctx context.Context, highlight string) (*dto.DashboardResponse, error) {
	start := time.Now()
	comp := uc.newComputation()
	region, selected := uc.resolveHighlight(highlight)

	uc.prefetch(ctx, comp)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp := &dto.DashboardResponse{
		RequestID:   uuid.New().String(),
		Region:      highlight,
		Selected:    selected,
		GeneratedAt: time.Now().UTC(),
		Panels:      make([]dto.PanelResponse, 0, len(uc.catalog.Panels)),
	}

	for _, name := range uc.catalog.Panels {
		def, ok := uc.catalog.Indicator(name)
		if !ok {
			continue
		}
		resp.Panels = append(resp.Panels, uc.panel(ctx, comp, def, region, ""))
	}

	if def, ok := uc.catalog.Indicator(uc.catalog.Pollution); ok {
		p := uc.pollution(ctx, comp, def, region)
		resp.Pollution = &p
	}

	resp.Radar = uc.radar(ctx, comp, region)

	uc.logger.Info("Dashboard computed",
		zap.String("request_id", resp.RequestID),
		zap.String("region", highlight),
		zap.Bool("selected", selected != nil),
		zap.Int("panels", len(resp.Panels)),
		zap.Int("radar_records", len(resp.Radar.Records)),
		zap.Duration("duration", time.Since(start)))

	return resp, nil
}

// Reload сбрасывает закешированные наборы данных
func (uc *DashboardUseCase) Reload(ctx context.Context) error {
	if err := uc.datasets.Invalidate(ctx); err != nil {
		uc.logger.Error("Failed to reload datasets", zap.Error(err))
		return apperrors.ErrCacheError.WithDetails(map[string]interface{}{
			"cause": err.Error(),
		})
	}

	uc.logger.Info("Datasets reloaded")
	return nil
}

// resolveHighlight канонизирует выбранную метку; неизвестная метка ничего не выделяет
func (uc *DashboardUseCase) resolveHighlight(label string) (domain.Region, *string) {
	if label == "" {
		return "", nil
	}
	region, ok := uc.canon.Canonicalize(label)
	if !ok {
		return "", nil
	}
	name := string(region)
	return region, &name
}

func (uc *DashboardUseCase) panel(
	ctx context.Context,
	comp *computation,
	def domain.IndicatorDefinition,
	region domain.Region,
	order string,
) dto.PanelResponse {
	asc := def.Ascending()
	if order != "" {
		asc = order == domain.OrderAsc
	}

	resp := dto.PanelResponse{
		Indicator: def.Name,
		Title:     def.Title,
		Unit:      def.Unit,
		Order:     orderName(asc),
		Status:    dto.StatusOK,
		Series:    []dto.SeriesEntry{},
	}

	res := comp.get(ctx, def)
	resp.Failures = failureResponses(res.failures)
	if res.err != nil {
		resp.Status = dto.StatusUnavailable
		resp.Error = res.err.Error()
		return resp
	}

	// панель показывает отношение до инверсии
	for _, e := range uc.ranker.Rank(res.normalized.Ratios, region, asc) {
		pop, _ := uc.reference.Population.Get(e.Region)
		resp.Series = append(resp.Series, dto.SeriesEntry{
			Region:      string(e.Region),
			Value:       e.Value,
			RawValue:    res.normalized.Raw[e.Region],
			Population:  pop,
			Highlighted: e.Highlighted,
		})
	}
	return resp
}

func (uc *DashboardUseCase) pollution(
	ctx context.Context,
	comp *computation,
	def domain.IndicatorDefinition,
	region domain.Region,
) dto.PollutionResponse {
	resp := dto.PollutionResponse{
		Indicator:  def.Name,
		Title:      def.Title,
		Components: []string{},
		Status:     dto.StatusOK,
		Series:     []dto.StackedEntry{},
	}

	res := comp.get(ctx, def)
	resp.Failures = failureResponses(res.failures)
	if res.err != nil {
		resp.Status = dto.StatusUnavailable
		resp.Error = res.err.Error()
		return resp
	}
	if res.composite == nil {
		resp.Status = dto.StatusUnavailable
		resp.Error = fmt.Sprintf("%s: %v", def.Name, ErrNotComposite)
		return resp
	}

	for _, c := range res.composite.Components {
		resp.Components = append(resp.Components, c.Name)
	}

	for _, e := range uc.ranker.Rank(res.composite.Totals, region, def.Ascending()) {
		values := make([]float64, len(res.composite.Components))
		for i, c := range res.composite.Components {
			values[i] = c.Values[e.Region]
		}
		resp.Series = append(resp.Series, dto.StackedEntry{
			Region:      string(e.Region),
			Values:      values,
			Total:       e.Value,
			Highlighted: e.Highlighted,
		})
	}
	return resp
}

func (uc *DashboardUseCase) radar(ctx context.Context, comp *computation, region domain.Region) dto.RadarResponse {
	resp := dto.RadarResponse{
		Axes:    []dto.RadarAxis{},
		Status:  dto.StatusOK,
		Records: []dto.RadarRecord{},
	}

	indicators := make([]domain.NormalizedIndicator, 0, len(uc.catalog.Radar))
	for _, axis := range uc.catalog.Radar {
		def, ok := uc.catalog.Indicator(axis.Indicator)
		if !ok {
			resp.Failures = append(resp.Failures, dto.FailureResponse{
				Indicator: axis.Indicator,
				Error:     apperrors.ErrIndicatorNotFound.Message,
			})
			continue
		}

		res := comp.get(ctx, def)
		if res.err != nil {
			resp.Failures = append(resp.Failures, dto.FailureResponse{
				Indicator: axis.Indicator,
				Error:     res.err.Error(),
			})
			continue
		}

		resp.Axes = append(resp.Axes, dto.RadarAxis{Indicator: axis.Indicator, Label: axis.Label})
		indicators = append(indicators, res.normalized)
	}

	if len(indicators) == 0 {
		resp.Status = dto.StatusUnavailable
		resp.Error = ErrNoRadarIndicators.Error()
		return resp
	}

	agg, err := pipeline.Aggregate(indicators, uc.reference.Population)
	if err != nil {
		uc.logger.Warn("Radar aggregation failed", zap.Error(err))
		resp.Status = dto.StatusUnavailable
		resp.Error = err.Error()
		return resp
	}

	if len(agg.Skipped) > 0 {
		skipped := make(map[string]struct{}, len(agg.Skipped))
		for _, name := range agg.Skipped {
			skipped[name] = struct{}{}
			f := uc.failure(name, pipeline.ErrDegenerateScale)
			resp.Failures = append(resp.Failures, dto.FailureResponse{
				Indicator: name,
				Error:     f.Error(),
			})
		}
		axes := resp.Axes[:0]
		for _, axis := range resp.Axes {
			if _, ok := skipped[axis.Indicator]; !ok {
				axes = append(axes, axis)
			}
		}
		resp.Axes = axes
	}

	for _, r := range uc.reference.Regions.Regions() {
		rec, ok := agg.Records[r]
		if !ok {
			continue
		}
		resp.Records = append(resp.Records, dto.RadarRecord{
			Region:      string(r),
			Values:      rec.Values,
			Population:  rec.Population,
			Highlighted: region != "" && r == region,
		})
	}
	return resp
}

// prefetch параллельно загружает все показатели, нужные дашборду
func (uc *DashboardUseCase) prefetch(ctx context.Context, comp *computation) {
	names := make([]string, 0, len(uc.catalog.Panels)+len(uc.catalog.Radar)+1)
	names = append(names, uc.catalog.Panels...)
	for _, axis := range uc.catalog.Radar {
		names = append(names, axis.Indicator)
	}
	if uc.catalog.Pollution != "" {
		names = append(names, uc.catalog.Pollution)
	}

	seen := make(map[string]struct{}, len(names))
	var wg sync.WaitGroup
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		def, ok := uc.catalog.Indicator(name)
		if !ok {
			continue
		}

		wg.Add(1)
		go func(def domain.IndicatorDefinition) {
			defer wg.Done()
			comp.get(ctx, def)
		}(def)
	}
	wg.Wait()
}

// computeIndicator загружает и нормализует показатель; составной собирается из компонентов
func (uc *DashboardUseCase) computeIndicator(ctx context.Context, def domain.IndicatorDefinition) indicatorResult {
	if def.Kind == domain.KindComposite {
		return uc.computeComposite(ctx, def)
	}

	norm, err := uc.loadNormalized(ctx, def, pipeline.NormalizeOptions{
		Invert:    def.Invert,
		PerCapita: def.IsPerCapita(),
	})
	if err != nil {
		return indicatorResult{err: uc.failure(def.Name, err)}
	}
	return indicatorResult{normalized: norm}
}

func (uc *DashboardUseCase) computeComposite(ctx context.Context, def domain.IndicatorDefinition) indicatorResult {
	var (
		result     indicatorResult
		components []domain.NormalizedIndicator
	)

	for _, c := range def.Components {
		norm, err := uc.loadNormalized(ctx, c, pipeline.NormalizeOptions{PerCapita: c.IsPerCapita()})
		if err != nil {
			result.failures = append(result.failures, *uc.failure(c.Name, err))
			continue
		}
		components = append(components, norm)
	}

	if len(components) == 0 {
		result.err = uc.failure(def.Name, ErrAllComponentsFailed)
		return result
	}

	composite, skipped, err := pipeline.Composite(def.Name, components)
	for _, name := range skipped {
		result.failures = append(result.failures, *uc.failure(name, pipeline.ErrDegenerateScale))
	}
	if err != nil {
		result.err = uc.failure(def.Name, err)
		return result
	}

	raw := make(domain.RawIndicatorRecord, len(composite.Totals))
	for r, total := range composite.Totals {
		raw[string(r)] = total
	}

	result.composite = composite
	result.normalized = uc.normalizer.Normalize(def.Name, raw, pipeline.NormalizeOptions{
		Invert:    def.Invert,
		PerCapita: def.IsPerCapita(),
	})
	if len(result.normalized.Values) == 0 {
		result.err = uc.failure(def.Name, ErrNoMatchedRegions)
	}
	return result
}

func (uc *DashboardUseCase) loadNormalized(
	ctx context.Context,
	def domain.IndicatorDefinition,
	opts pipeline.NormalizeOptions,
) (domain.NormalizedIndicator, error) {
	table, err := uc.datasets.Load(ctx, def.Source)
	if err != nil {
		return domain.NormalizedIndicator{}, fmt.Errorf("load dataset: %w", err)
	}

	loader, err := pipeline.NewLoader(def, uc.canon)
	if err != nil {
		return domain.NormalizedIndicator{}, err
	}

	raw, err := loader.ExtractRaw(table)
	if err != nil {
		return domain.NormalizedIndicator{}, fmt.Errorf("extract values: %w", err)
	}

	norm := uc.normalizer.Normalize(def.Name, raw, opts)
	if len(norm.Values) == 0 {
		return domain.NormalizedIndicator{}, ErrNoMatchedRegions
	}
	return norm, nil
}

// failure логирует сбой показателя и возвращает его как данные
func (uc *DashboardUseCase) failure(indicator string, err error) *domain.LoadFailure {
	uc.logger.Warn("Indicator unavailable",
		zap.String("indicator", indicator),
		zap.Error(err))
	return &domain.LoadFailure{Indicator: indicator, Err: err}
}

func (uc *DashboardUseCase) newComputation() *computation {
	return &computation{
		compute: uc.computeIndicator,
		entries: make(map[string]*computationEntry),
	}
}

// computation - результаты показателей в пределах одного запроса
type computation struct {
	compute func(ctx context.Context, def domain.IndicatorDefinition) indicatorResult
	mu      sync.Mutex
	entries map[string]*computationEntry
}

type computationEntry struct {
	once   sync.Once
	result indicatorResult
}

type indicatorResult struct {
	normalized domain.NormalizedIndicator
	composite  *domain.CompositeIndicator
	failures   []domain.LoadFailure // сбои отдельных компонентов
	err        *domain.LoadFailure
}

func (c *computation) get(ctx context.Context, def domain.IndicatorDefinition) *indicatorResult {
	c.mu.Lock()
	e, ok := c.entries[def.Name]
	if !ok {
		e = &computationEntry{}
		c.entries[def.Name] = e
	}
	c.mu.Unlock()

	e.once.Do(func() {
		e.result = c.compute(ctx, def)
	})
	return &e.result
}

func failureResponses(failures []domain.LoadFailure) []dto.FailureResponse {
	if len(failures) == 0 {
		return nil
	}
	out := make([]dto.FailureResponse, len(failures))
	for i := range failures {
		out[i] = dto.FailureResponse{
			Indicator: failures[i].Indicator,
			Error:     failures[i].Err.Error(),
		}
	}
	return out
}

func orderName(asc bool) string {
	if asc {
		return domain.OrderAsc
	}
	return domain.OrderDesc
}
