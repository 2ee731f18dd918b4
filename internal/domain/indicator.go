package domain

import "fmt"

// RawIndicatorRecord - сырая метка из набора данных -> скалярное значение
type RawIndicatorRecord map[string]float64

// NormalizedIndicator - значения показателя по районам после объединения с населением.
// Values хранит итоговое значение (1/ratio при Invert), Ratios - отношение до инверсии,
// Raw - усреднённое сырое значение. Ключи всех трёх карт совпадают.
type NormalizedIndicator struct {
	Name      string             `json:"name"`
	Invert    bool               `json:"invert"`
	PerCapita bool               `json:"per_capita"`
	Values    map[Region]float64 `json:"values"`
	Ratios    map[Region]float64 `json:"ratios"`
	Raw       map[Region]float64 `json:"raw"`
}

// ScaledIndicator - показатель, поделённый на собственный максимум; значения в [0, 1]
type ScaledIndicator struct {
	Name   string             `json:"name"`
	Max    float64            `json:"max"`
	Values map[Region]float64 `json:"values"`
}

// AggregateRecord - кортеж масштабированных показателей района в объявленном порядке
type AggregateRecord struct {
	Region     Region    `json:"region"`
	Values     []float64 `json:"values"`
	Population int64     `json:"population"`
}

// Aggregate - результат межпоказательной агрегации
type Aggregate struct {
	Indicators []string                   `json:"indicators"`
	Records    map[Region]AggregateRecord `json:"records"`
	Skipped    []string                   `json:"skipped,omitempty"` // показатели с вырожденным масштабом
}

// CompositeIndicator - сумма масштабированных компонентов (например, пять загрязнителей)
type CompositeIndicator struct {
	Name       string             `json:"name"`
	Components []ScaledIndicator  `json:"components"`
	Totals     map[Region]float64 `json:"totals"`
}

// RankedEntry - элемент ранжированного ряда
type RankedEntry struct {
	Region      Region  `json:"region"`
	Value       float64 `json:"value"`
	Highlighted bool    `json:"highlighted"`
}

// RankedSeries - отсортированный ряд, не более одного выделенного элемента
type RankedSeries []RankedEntry

// Highlighted возвращает выделенный элемент, если он есть
func (s RankedSeries) Highlighted() (RankedEntry, bool) {
	for _, e := range s {
		if e.Highlighted {
			return e, true
		}
	}
	return RankedEntry{}, false
}

// Regions возвращает районы в порядке ряда
func (s RankedSeries) Regions() []Region {
	out := make([]Region, len(s))
	for i, e := range s {
		out[i] = e.Region
	}
	return out
}

// LoadFailure - ошибка загрузки одного показателя; передаётся как данные, соседние показатели не затрагивает
type LoadFailure struct {
	Indicator string
	Err       error
}

func (f *LoadFailure) Error() string {
	return fmt.Sprintf("indicator %s: %v", f.Indicator, f.Err)
}

func (f *LoadFailure) Unwrap() error {
	return f.Err
}
