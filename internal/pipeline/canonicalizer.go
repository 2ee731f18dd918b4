// Package pipeline реализует вычисление показателей на душу населения:
// канонизация меток районов, извлечение сырых значений, нормализация,
// межпоказательная агрегация и ранжирование.
package pipeline

import (
	"regexp"
	"sort"
	"strings"

	"github.com/region-dashboard/internal/domain"
	"github.com/region-dashboard/internal/pkg/textutil"
)

// Canonicalizer приводит свободные метки к каноническим районам.
// Безопасен для конкурентного использования: после создания не изменяется.
type Canonicalizer struct {
	regions *domain.RegionSet
	pattern *regexp.Regexp
	lookup  map[string]domain.Region
}

// NewCanonicalizer компилирует альтернацию из канонических имён, псевдонимов и исключённого района
func NewCanonicalizer(regions *domain.RegionSet) *Canonicalizer {
	lookup := make(map[string]domain.Region, regions.Len()+len(regions.Aliases())+1)
	for _, r := range regions.Regions() {
		lookup[string(r)] = r
	}
	for alias, target := range regions.Aliases() {
		lookup[alias] = target
	}
	// Исключённый район должен распознаваться, чтобы метка с ним отбрасывалась, а не совпала с чем-то ещё
	if ex := regions.Excluded(); ex != "" {
		lookup[string(ex)] = ex
	}

	keys := make([]string, 0, len(lookup))
	for k := range lookup {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = regexp.QuoteMeta(k)
	}

	pattern := regexp.MustCompile("(" + strings.Join(quoted, "|") + ")")
	pattern.Longest()

	return &Canonicalizer{
		regions: regions,
		pattern: pattern,
		lookup:  lookup,
	}
}

// Canonicalize возвращает район для метки. Берётся самое левое и самое длинное
// вхождение канонического имени или псевдонима. ok=false, если совпадения нет
// или совпал исключённый район.
func (c *Canonicalizer) Canonicalize(label string) (domain.Region, bool) {
	clean := textutil.Clean(label)
	if clean == "" {
		return "", false
	}
	if region, ok := c.regions.Resolve(clean); ok {
		return region, true
	}

	match := c.pattern.FindString(clean)
	if match == "" {
		return "", false
	}

	region, ok := c.lookup[match]
	if !ok || region == c.regions.Excluded() {
		return "", false
	}
	return region, true
}

// CanonicalizeParts склеивает несколько колонок через пробел и канонизирует результат
func (c *Canonicalizer) CanonicalizeParts(parts ...string) (domain.Region, bool) {
	return c.Canonicalize(textutil.Join(parts...))
}
