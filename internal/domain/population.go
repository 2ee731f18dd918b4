package domain

import "errors"

var ErrNilReference = errors.New("reference data is incomplete")

// PopulationRegistry - неизменяемая таблица район -> численность населения.
// Создаётся один раз при старте и передаётся явно во все вычисления.
type PopulationRegistry struct {
	counts map[Region]int64
}

// NewPopulationRegistry копирует входные данные, отбрасывая неположительные значения
func NewPopulationRegistry(counts map[Region]int64) *PopulationRegistry {
	reg := &PopulationRegistry{counts: make(map[Region]int64, len(counts))}
	for r, c := range counts {
		if r == "" || c <= 0 {
			continue
		}
		reg.counts[r] = c
	}
	return reg
}

// Get возвращает население района; ok=false если записи нет
func (p *PopulationRegistry) Get(r Region) (int64, bool) {
	c, ok := p.counts[r]
	return c, ok
}

// Len - число районов в реестре
func (p *PopulationRegistry) Len() int {
	return len(p.counts)
}

// Reference - справочные данные процесса: набор районов и реестр населения
type Reference struct {
	Regions    *RegionSet
	Population *PopulationRegistry
}

// NewReference собирает справочник, оставляя в реестре только районы из набора
func NewReference(regions *RegionSet, counts map[Region]int64) (*Reference, error) {
	if regions == nil {
		return nil, ErrNilReference
	}

	filtered := make(map[Region]int64, len(counts))
	for r, c := range counts {
		if regions.Contains(r) {
			filtered[r] = c
		}
	}

	return &Reference{
		Regions:    regions,
		Population: NewPopulationRegistry(filtered),
	}, nil
}
