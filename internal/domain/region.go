package domain

import (
	"errors"
	"fmt"

	"github.com/region-dashboard/internal/pkg/textutil"
)

var (
	ErrEmptyRegionSet     = errors.New("region set is empty")
	ErrDuplicateRegion    = errors.New("duplicate region")
	ErrExcludedInSet      = errors.New("excluded region must not be part of the canonical set")
	ErrAliasUnknownTarget = errors.New("alias points to unknown region")
)

// Region - канонический идентификатор района (시/군) из закрытого набора
type Region string

func (r Region) String() string {
	return string(r)
}

// RegionSet - упорядоченный закрытый набор канонических районов.
// Порядок задаёт детерминированный tie-break при ранжировании.
type RegionSet struct {
	names    []Region
	index    map[Region]int
	aliases  map[string]Region
	excluded Region
}

// NewRegionSet создает набор районов.
// aliases: дополнительная метка -> каноническое имя (или исключённый район).
func NewRegionSet(names []string, aliases map[string]string, excluded string) (*RegionSet, error) {
	if len(names) == 0 {
		return nil, ErrEmptyRegionSet
	}

	set := &RegionSet{
		names:    make([]Region, 0, len(names)),
		index:    make(map[Region]int, len(names)),
		aliases:  make(map[string]Region, len(aliases)),
		excluded: Region(textutil.Clean(excluded)),
	}

	for _, name := range names {
		r := Region(textutil.Clean(name))
		if r == "" {
			continue
		}
		if _, ok := set.index[r]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRegion, r)
		}
		if r == set.excluded {
			return nil, fmt.Errorf("%w: %s", ErrExcludedInSet, r)
		}
		set.index[r] = len(set.names)
		set.names = append(set.names, r)
	}

	if len(set.names) == 0 {
		return nil, ErrEmptyRegionSet
	}

	for alias, target := range aliases {
		a := textutil.Clean(alias)
		t := Region(textutil.Clean(target))
		if a == "" {
			continue
		}
		if _, ok := set.index[t]; !ok && (t == "" || t != set.excluded) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrAliasUnknownTarget, a, t)
		}
		set.aliases[a] = t
	}

	return set, nil
}

// Regions возвращает копию канонического списка в исходном порядке
func (s *RegionSet) Regions() []Region {
	out := make([]Region, len(s.names))
	copy(out, s.names)
	return out
}

// Len - количество канонических районов
func (s *RegionSet) Len() int {
	return len(s.names)
}

// Contains проверяет принадлежность к каноническому набору
func (s *RegionSet) Contains(r Region) bool {
	_, ok := s.index[r]
	return ok
}

// Index возвращает позицию района в каноническом порядке
func (s *RegionSet) Index(r Region) (int, bool) {
	i, ok := s.index[r]
	return i, ok
}

// Excluded возвращает исключённый из анализа район (может быть пустым)
func (s *RegionSet) Excluded() Region {
	return s.excluded
}

// Aliases возвращает копию таблицы псевдонимов
func (s *RegionSet) Aliases() map[string]Region {
	out := make(map[string]Region, len(s.aliases))
	for k, v := range s.aliases {
		out[k] = v
	}
	return out
}

// Resolve ищет район по точному имени после очистки: каноническое имя или псевдоним.
// Исключённый район не резолвится.
func (s *RegionSet) Resolve(name string) (Region, bool) {
	clean := textutil.Clean(name)
	if clean == "" {
		return "", false
	}
	r := Region(clean)
	if _, ok := s.index[r]; ok {
		return r, true
	}
	if target, ok := s.aliases[clean]; ok && target != s.excluded {
		return target, true
	}
	return "", false
}
