package pipeline

import (
	"sort"

	"github.com/region-dashboard/internal/domain"
	"github.com/region-dashboard/internal/pkg/textutil"
)

// Ranker сортирует ряды и выделяет выбранный район
type Ranker struct {
	regions *domain.RegionSet
}

func NewRanker(regions *domain.RegionSet) *Ranker {
	return &Ranker{regions: regions}
}

// Rank сортирует значения по возрастанию или убыванию. Равные значения
// упорядочиваются по каноническому порядку районов, районы вне набора идут
// после них по имени. Выделяется не более одного элемента; отсутствующий или
// пустой highlight ничего не выделяет.
func (k *Ranker) Rank(series map[domain.Region]float64, highlight domain.Region, ascending bool) domain.RankedSeries {
	out := make(domain.RankedSeries, 0, len(series))
	for r, v := range series {
		out = append(out, domain.RankedEntry{Region: r, Value: v})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Value != b.Value {
			if ascending {
				return a.Value < b.Value
			}
			return a.Value > b.Value
		}
		return k.less(a.Region, b.Region)
	})

	target := domain.Region(textutil.Clean(string(highlight)))
	if target == "" {
		return out
	}
	for i := range out {
		if out[i].Region == target {
			out[i].Highlighted = true
			break
		}
	}
	return out
}

func (k *Ranker) less(a, b domain.Region) bool {
	ia, okA := k.regions.Index(a)
	ib, okB := k.regions.Index(b)
	switch {
	case okA && okB:
		return ia < ib
	case okA:
		return true
	case okB:
		return false
	default:
		return a < b
	}
}
