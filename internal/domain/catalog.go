package domain

// LoaderKind - стратегия извлечения сырых значений
type LoaderKind string

const (
	KindColumnMean LoaderKind = "column_mean" // каждая колонка - метка, среднее по строкам
	KindColumnSum  LoaderKind = "column_sum"  // каждая колонка - метка, сумма по строкам
	KindRowMean    LoaderKind = "row_mean"    // колонка-метка + числовые колонки, среднее
	KindRowCount   LoaderKind = "row_count"   // число строк на район
	KindComposite  LoaderKind = "composite"   // сумма масштабированных компонентов
)

// Sort orders
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// RowFilter - предикат "колонка == значение"
type RowFilter struct {
	Column string `yaml:"column" json:"column"`
	Equals string `yaml:"equals" json:"equals"`
}

// IndicatorDefinition - описание показателя в каталоге
type IndicatorDefinition struct {
	Name           string                `yaml:"name" json:"name"`
	Title          string                `yaml:"title" json:"title"`
	Unit           string                `yaml:"unit,omitempty" json:"unit,omitempty"`
	Kind           LoaderKind            `yaml:"kind" json:"kind"`
	Source         DatasetSource         `yaml:"source,omitempty" json:"source"`
	Filter         *RowFilter            `yaml:"filter,omitempty" json:"filter,omitempty"`
	LabelColumns   []string              `yaml:"label_columns,omitempty" json:"label_columns,omitempty"`
	ValueColumns   []string              `yaml:"value_columns,omitempty" json:"value_columns,omitempty"`
	ExcludeColumns []string              `yaml:"exclude_columns,omitempty" json:"exclude_columns,omitempty"`
	Invert         bool                  `yaml:"invert" json:"invert"`
	PerCapita      *bool                 `yaml:"per_capita,omitempty" json:"per_capita,omitempty"`
	Order          string                `yaml:"order,omitempty" json:"order,omitempty"`
	Components     []IndicatorDefinition `yaml:"components,omitempty" json:"components,omitempty"`
}

// IsPerCapita - по умолчанию показатель делится на население
func (d *IndicatorDefinition) IsPerCapita() bool {
	return d.PerCapita == nil || *d.PerCapita
}

// Ascending - порядок сортировки панели
func (d *IndicatorDefinition) Ascending() bool {
	return d.Order == OrderAsc
}

// RadarAxis - ось радар-диаграммы
type RadarAxis struct {
	Indicator string `yaml:"indicator" json:"indicator"`
	Label     string `yaml:"label" json:"label"`
}

// IndicatorCatalog - все показатели и состав панелей дашборда
type IndicatorCatalog struct {
	Indicators []IndicatorDefinition
	Panels     []string
	Radar      []RadarAxis
	Pollution  string
}

// Indicator ищет определение по имени
func (c *IndicatorCatalog) Indicator(name string) (IndicatorDefinition, bool) {
	for _, d := range c.Indicators {
		if d.Name == name {
			return d, true
		}
	}
	return IndicatorDefinition{}, false
}
