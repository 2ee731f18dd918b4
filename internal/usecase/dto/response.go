package dto

import "time"

// Статусы панели
const (
	StatusOK          = "ok"
	StatusUnavailable = "unavailable"
)

// FailureResponse - показатель, который не удалось загрузить
type FailureResponse struct {
	Indicator string `json:"indicator"`
	Error     string `json:"error"`
}

// SeriesEntry - элемент ранжированного ряда панели
type SeriesEntry struct {
	Region      string  `json:"region"`
	Value       float64 `json:"value"`     // отношение к населению (или значение, если показатель не душевой)
	RawValue    float64 `json:"raw_value"` // усреднённое сырое значение
	Population  int64   `json:"population"`
	Highlighted bool    `json:"highlighted"`
}

// PanelResponse - гистограмма одного показателя
type PanelResponse struct {
	Indicator string            `json:"indicator"`
	Title     string            `json:"title"`
	Unit      string            `json:"unit,omitempty"`
	Order     string            `json:"order"`
	Status    string            `json:"status"`
	Error     string            `json:"error,omitempty"`
	Failures  []FailureResponse `json:"failures,omitempty"`
	Series    []SeriesEntry     `json:"series"`
}

// StackedEntry - район в составной (stacked) диаграмме
type StackedEntry struct {
	Region      string    `json:"region"`
	Values      []float64 `json:"values"` // масштабированные компоненты в порядке Components
	Total       float64   `json:"total"`
	Highlighted bool      `json:"highlighted"`
}

// PollutionResponse - составной показатель загрязнения воздуха
type PollutionResponse struct {
	Indicator  string            `json:"indicator"`
	Title      string            `json:"title"`
	Components []string          `json:"components"`
	Status     string            `json:"status"`
	Error      string            `json:"error,omitempty"`
	Failures   []FailureResponse `json:"failures,omitempty"`
	Series     []StackedEntry    `json:"series"`
}

// RadarAxis - ось радар-диаграммы
type RadarAxis struct {
	Indicator string `json:"indicator"`
	Label     string `json:"label"`
}

// RadarRecord - масштабированные значения района по осям
type RadarRecord struct {
	Region      string    `json:"region"`
	Values      []float64 `json:"values"`
	Population  int64     `json:"population"`
	Highlighted bool      `json:"highlighted"`
}

// RadarResponse - радар по районам, присутствующим во всех показателях
type RadarResponse struct {
	Axes     []RadarAxis       `json:"axes"`
	Status   string            `json:"status"`
	Error    string            `json:"error,omitempty"`
	Failures []FailureResponse `json:"failures,omitempty"`
	Records  []RadarRecord     `json:"records"`
}

// DashboardResponse - все панели дашборда для одного выбора района
type DashboardResponse struct {
	RequestID   string             `json:"request_id"`
	Region      string             `json:"region,omitempty"`   // метка как пришла
	Selected    *string            `json:"selected"`           // канонический район или null
	GeneratedAt time.Time          `json:"generated_at"`
	Panels      []PanelResponse    `json:"panels"`
	Pollution   *PollutionResponse `json:"pollution,omitempty"`
	Radar       RadarResponse      `json:"radar"`
}

// RegionResponse - канонический район
type RegionResponse struct {
	Name       string `json:"name"`
	Population int64  `json:"population"`
}

// IndicatorResponse - описание показателя каталога
type IndicatorResponse struct {
	Name       string   `json:"name"`
	Title      string   `json:"title"`
	Unit       string   `json:"unit,omitempty"`
	Kind       string   `json:"kind"`
	Invert     bool     `json:"invert"`
	PerCapita  bool     `json:"per_capita"`
	Order      string   `json:"order"`
	Components []string `json:"components,omitempty"`
}

// SelectionResponse - результат выбора района
type SelectionResponse struct {
	SessionID string             `json:"session_id"`
	MessageID string             `json:"message_id,omitempty"`
	Dashboard *DashboardResponse `json:"dashboard"`
}

// ReloadResponse - результат сброса кеша наборов данных
type ReloadResponse struct {
	Reloaded bool `json:"reloaded"`
}
