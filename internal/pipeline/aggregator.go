package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/region-dashboard/internal/domain"
)

var (
	ErrDegenerateScale = errors.New("indicator maximum is not positive")
	ErrNoIndicators    = errors.New("no indicators to aggregate")
)

// Scale делит каждое значение на максимум показателя. Отрицательные значения
// отбрасываются; если максимум не положителен, масштаб не определён.
func Scale(ind domain.NormalizedIndicator) (domain.ScaledIndicator, error) {
	maxValue := 0.0
	for _, v := range ind.Values {
		if v > maxValue {
			maxValue = v
		}
	}
	if maxValue <= 0 {
		return domain.ScaledIndicator{}, fmt.Errorf("%s: %w", ind.Name, ErrDegenerateScale)
	}

	scaled := domain.ScaledIndicator{
		Name:   ind.Name,
		Max:    maxValue,
		Values: make(map[domain.Region]float64, len(ind.Values)),
	}
	for r, v := range ind.Values {
		if v < 0 {
			continue
		}
		scaled.Values[r] = v / maxValue
	}
	return scaled, nil
}

// Aggregate оставляет районы, присутствующие во всех показателях, и масштабирует
// каждый показатель отдельно по его собственному максимуму. Показатель с
// вырожденным масштабом исключается из соединения и попадает в Skipped;
// ошибка возвращается, только если исключены все. Порядок значений в кортеже
// совпадает с порядком оставшихся indicators.
func Aggregate(indicators []domain.NormalizedIndicator, population *domain.PopulationRegistry) (*domain.Aggregate, error) {
	if len(indicators) == 0 {
		return nil, ErrNoIndicators
	}

	active := append([]domain.NormalizedIndicator(nil), indicators...)
	var skipped []string

	for {
		joined := joinRegions(active)
		result := &domain.Aggregate{
			Indicators: indicatorNames(active),
			Records:    make(map[domain.Region]domain.AggregateRecord, len(joined)),
			Skipped:    skipped,
		}
		if len(joined) == 0 {
			return result, nil
		}

		scaled := make([]domain.ScaledIndicator, 0, len(active))
		kept := active[:0:0]
		for _, ind := range active {
			restricted := ind
			restricted.Values = make(map[domain.Region]float64, len(joined))
			for r := range joined {
				restricted.Values[r] = ind.Values[r]
			}
			s, err := Scale(restricted)
			if err != nil {
				skipped = append(skipped, ind.Name)
				continue
			}
			scaled = append(scaled, s)
			kept = append(kept, ind)
		}

		if len(kept) == 0 {
			return nil, fmt.Errorf("%s: %w", strings.Join(skipped, ", "), ErrDegenerateScale)
		}
		if len(kept) < len(active) {
			// без исключённых показателей соединение может расшириться
			active = kept
			continue
		}

		for r := range joined {
			record := domain.AggregateRecord{
				Region: r,
				Values: make([]float64, len(scaled)),
			}
			complete := true
			for i, s := range scaled {
				v, ok := s.Values[r]
				if !ok {
					complete = false
					break
				}
				record.Values[i] = v
			}
			if !complete {
				continue
			}
			if population != nil {
				record.Population, _ = population.Get(r)
			}
			result.Records[r] = record
		}
		return result, nil
	}
}

func joinRegions(indicators []domain.NormalizedIndicator) map[domain.Region]struct{} {
	joined := make(map[domain.Region]struct{}, len(indicators[0].Values))
	for r := range indicators[0].Values {
		joined[r] = struct{}{}
	}
	for _, ind := range indicators[1:] {
		for r := range joined {
			if _, ok := ind.Values[r]; !ok {
				delete(joined, r)
			}
		}
	}
	return joined
}

func indicatorNames(indicators []domain.NormalizedIndicator) []string {
	names := make([]string, len(indicators))
	for i, ind := range indicators {
		names[i] = ind.Name
	}
	return names
}

// Composite масштабирует каждый компонент и суммирует их по району.
// Компоненты с вырожденным масштабом пропускаются и перечисляются в Skipped;
// отсутствующий у района компонент вносит ноль.
func Composite(name string, components []domain.NormalizedIndicator) (*domain.CompositeIndicator, []string, error) {
	if len(components) == 0 {
		return nil, nil, ErrNoIndicators
	}

	result := &domain.CompositeIndicator{
		Name:   name,
		Totals: make(map[domain.Region]float64),
	}
	var skipped []string

	for _, c := range components {
		s, err := Scale(c)
		if err != nil {
			skipped = append(skipped, c.Name)
			continue
		}
		result.Components = append(result.Components, s)
		for r, v := range s.Values {
			result.Totals[r] += v
		}
	}

	if len(result.Components) == 0 {
		return nil, skipped, fmt.Errorf("%s: %w", name, ErrDegenerateScale)
	}
	return result, skipped, nil
}
