package pipeline

import (
	"math"

	"github.com/region-dashboard/internal/domain"
)

// NormalizeOptions - параметры нормализации показателя
type NormalizeOptions struct {
	Invert    bool // "меньше - лучше": хранится 1/ratio
	PerCapita bool // делить на население; false - значение берётся как есть, но район всё равно должен быть в реестре
}

// Normalizer объединяет сырые значения с реестром населения
type Normalizer struct {
	canon      *Canonicalizer
	population *domain.PopulationRegistry
}

// NewNormalizer создает нормализатор поверх справочника
func NewNormalizer(canon *Canonicalizer, population *domain.PopulationRegistry) *Normalizer {
	return &Normalizer{
		canon:      canon,
		population: population,
	}
}

// Normalize: канонизация меток, среднее по меткам одного района, соединение
// с населением, ratio = value / population, опциональная инверсия.
// Районы без населения и нулевые отношения при инверсии исключаются.
func (n *Normalizer) Normalize(name string, raw domain.RawIndicatorRecord, opts NormalizeOptions) domain.NormalizedIndicator {
	out := domain.NormalizedIndicator{
		Name:      name,
		Invert:    opts.Invert,
		PerCapita: opts.PerCapita,
		Values:    make(map[domain.Region]float64),
		Ratios:    make(map[domain.Region]float64),
		Raw:       make(map[domain.Region]float64),
	}

	merged := make(map[domain.Region]*accumulator)
	for _, label := range sortedLabels(raw) {
		region, ok := n.canon.Canonicalize(label)
		if !ok {
			continue
		}
		acc, ok := merged[region]
		if !ok {
			acc = &accumulator{}
			merged[region] = acc
		}
		acc.add(raw[label])
	}

	for region, acc := range merged {
		population, ok := n.population.Get(region)
		if !ok || population <= 0 {
			continue
		}

		value := acc.mean()
		ratio := value
		if opts.PerCapita {
			ratio = value / float64(population)
		}

		result := ratio
		if opts.Invert {
			if ratio <= 0 {
				continue
			}
			result = 1 / ratio
		}

		if math.IsNaN(result) || math.IsInf(result, 0) {
			continue
		}

		out.Values[region] = result
		out.Ratios[region] = ratio
		out.Raw[region] = value
	}

	return out
}
