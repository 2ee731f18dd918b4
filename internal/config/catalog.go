package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/region-dashboard/internal/domain"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// Catalog validation errors.
var (
	ErrNoRegions            = errors.New("catalog: at least one region is required")
	ErrRegionMissingName    = errors.New("catalog: region name is required")
	ErrNoIndicators         = errors.New("catalog: at least one indicator is required")
	ErrIndicatorMissingName = errors.New("catalog: indicator name is required")
	ErrDuplicateIndicator   = errors.New("catalog: duplicate indicator name")
	ErrMissingSource        = errors.New("catalog: indicator source path is required")
	ErrInvalidFormat        = errors.New("catalog: source format must be xlsx or csv")
	ErrInvalidKind          = errors.New("catalog: unknown indicator kind")
	ErrInvalidOrder         = errors.New("catalog: order must be asc or desc")
	ErrEmptyComposite       = errors.New("catalog: composite indicator needs components")
	ErrUnknownReference     = errors.New("catalog: reference to undefined indicator")
)

// Catalog - YAML-описание районов, населения и показателей дашборда
type Catalog struct {
	Province        string                       `yaml:"province"`
	ExcludedRegion  string                       `yaml:"excluded_region"`
	ExcludedAliases []string                     `yaml:"excluded_aliases"`
	Regions         []RegionEntry                `yaml:"regions"`
	Indicators      []domain.IndicatorDefinition `yaml:"indicators"`
	Panels          []string                     `yaml:"panels"`
	Radar           []domain.RadarAxis           `yaml:"radar"`
	Pollution       string                       `yaml:"pollution"`
}

// RegionEntry - канонический район, его население и дополнительные метки
type RegionEntry struct {
	Name       string   `yaml:"name"`
	Population int64    `yaml:"population"`
	Aliases    []string `yaml:"aliases"`
}

// LoadCatalog читает каталог из файла; пустой путь - встроенный каталог.
// Относительные пути источников разрешаются относительно dataDir.
func LoadCatalog(path, dataDir string) (*Catalog, error) {
	data := defaultCatalog
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog file: %w", err)
		}
	}

	cat, err := ParseCatalog(data)
	if err != nil {
		return nil, err
	}

	cat.resolvePaths(dataDir)
	return cat, nil
}

// ParseCatalog разбирает и проверяет YAML каталога
func ParseCatalog(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}

	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	return &cat, nil
}

// Validate checks the catalog for errors.
func (c *Catalog) Validate() error {
	if len(c.Regions) == 0 {
		return ErrNoRegions
	}
	for i, r := range c.Regions {
		if r.Name == "" {
			return fmt.Errorf("region[%d]: %w", i, ErrRegionMissingName)
		}
	}

	if len(c.Indicators) == 0 {
		return ErrNoIndicators
	}

	seen := make(map[string]struct{}, len(c.Indicators))
	for i := range c.Indicators {
		def := &c.Indicators[i]
		if def.Name == "" {
			return fmt.Errorf("indicator[%d]: %w", i, ErrIndicatorMissingName)
		}
		if _, ok := seen[def.Name]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateIndicator, def.Name)
		}
		seen[def.Name] = struct{}{}

		if err := validateIndicator(def); err != nil {
			return fmt.Errorf("indicator %s: %w", def.Name, err)
		}
	}

	for _, name := range c.Panels {
		if _, ok := seen[name]; !ok {
			return fmt.Errorf("panel %s: %w", name, ErrUnknownReference)
		}
	}
	for _, axis := range c.Radar {
		if _, ok := seen[axis.Indicator]; !ok {
			return fmt.Errorf("radar axis %s: %w", axis.Indicator, ErrUnknownReference)
		}
	}
	if c.Pollution != "" {
		if _, ok := seen[c.Pollution]; !ok {
			return fmt.Errorf("pollution %s: %w", c.Pollution, ErrUnknownReference)
		}
	}

	return nil
}

func validateIndicator(def *domain.IndicatorDefinition) error {
	if def.Order != "" && def.Order != domain.OrderAsc && def.Order != domain.OrderDesc {
		return fmt.Errorf("%w: %q", ErrInvalidOrder, def.Order)
	}

	switch def.Kind {
	case domain.KindComposite:
		if len(def.Components) == 0 {
			return ErrEmptyComposite
		}
		for i := range def.Components {
			comp := &def.Components[i]
			if comp.Name == "" {
				return fmt.Errorf("component[%d]: %w", i, ErrIndicatorMissingName)
			}
			if comp.Kind == domain.KindComposite {
				return fmt.Errorf("component %s: %w", comp.Name, ErrInvalidKind)
			}
			// компоненты наследуют источник составного показателя, если свой не указан
			if comp.Source.Path == "" {
				sheet := comp.Source.Sheet
				comp.Source = def.Source
				comp.Source.Sheet = sheet
			}
			if err := validateIndicator(comp); err != nil {
				return fmt.Errorf("component %s: %w", comp.Name, err)
			}
		}
		return nil
	case domain.KindColumnMean, domain.KindColumnSum, domain.KindRowMean, domain.KindRowCount:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidKind, def.Kind)
	}

	if def.Source.Path == "" {
		return ErrMissingSource
	}
	switch def.Source.Format {
	case domain.FormatXLSX, domain.FormatCSV:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, def.Source.Format)
	}
	return nil
}

func (c *Catalog) resolvePaths(dataDir string) {
	if dataDir == "" {
		return
	}
	resolve := func(src *domain.DatasetSource) {
		if src.Path != "" && !filepath.IsAbs(src.Path) {
			src.Path = filepath.Join(dataDir, src.Path)
		}
	}
	for i := range c.Indicators {
		def := &c.Indicators[i]
		resolve(&def.Source)
		for j := range def.Components {
			resolve(&def.Components[j].Source)
		}
	}
}

// Reference строит набор районов и реестр населения из каталога
func (c *Catalog) Reference() (*domain.Reference, error) {
	names := make([]string, 0, len(c.Regions))
	aliases := make(map[string]string)
	counts := make(map[domain.Region]int64, len(c.Regions))

	for _, r := range c.Regions {
		names = append(names, r.Name)
		for _, a := range r.Aliases {
			aliases[a] = r.Name
		}
		counts[domain.Region(r.Name)] = r.Population
	}
	for _, a := range c.ExcludedAliases {
		aliases[a] = c.ExcludedRegion
	}

	regions, err := domain.NewRegionSet(names, aliases, c.ExcludedRegion)
	if err != nil {
		return nil, err
	}

	return domain.NewReference(regions, counts)
}

// IndicatorCatalog возвращает определения показателей и состав дашборда
func (c *Catalog) IndicatorCatalog() *domain.IndicatorCatalog {
	return &domain.IndicatorCatalog{
		Indicators: c.Indicators,
		Panels:     c.Panels,
		Radar:      c.Radar,
		Pollution:  c.Pollution,
	}
}
