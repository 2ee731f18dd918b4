package pipeline

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/region-dashboard/internal/domain"
	"github.com/region-dashboard/internal/pkg/textutil"
)

var (
	ErrNilTable            = errors.New("dataset table is nil")
	ErrNoValues            = errors.New("dataset produced no values")
	ErrUnknownLoaderKind   = errors.New("unknown loader kind")
	ErrMissingLabelColumns = errors.New("label columns are not configured")
)

// IndicatorLoader извлекает из таблицы сырые значения по меткам
type IndicatorLoader interface {
	ExtractRaw(table *domain.Table) (domain.RawIndicatorRecord, error)
}

// NewLoader создает стратегию извлечения по определению показателя.
// Составные показатели собираются из компонентов и своей стратегии не имеют.
func NewLoader(def domain.IndicatorDefinition, canon *Canonicalizer) (IndicatorLoader, error) {
	switch def.Kind {
	case domain.KindColumnMean:
		return &ColumnLoader{Filter: def.Filter, Exclude: def.ExcludeColumns, Sum: false}, nil
	case domain.KindColumnSum:
		return &ColumnLoader{Filter: def.Filter, Exclude: def.ExcludeColumns, Sum: true}, nil
	case domain.KindRowMean:
		if len(def.LabelColumns) == 0 {
			return nil, fmt.Errorf("%s: %w", def.Name, ErrMissingLabelColumns)
		}
		return &RowMeanLoader{Filter: def.Filter, LabelColumns: def.LabelColumns, ValueColumns: def.ValueColumns}, nil
	case domain.KindRowCount:
		if len(def.LabelColumns) == 0 {
			return nil, fmt.Errorf("%s: %w", def.Name, ErrMissingLabelColumns)
		}
		return &RowCountLoader{Filter: def.Filter, LabelColumns: def.LabelColumns, Canonicalizer: canon}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLoaderKind, def.Kind)
	}
}

// ColumnLoader: каждая колонка (кроме исключённых) - отдельная метка,
// значение - среднее (или сумма) разбираемых ячеек по отфильтрованным строкам.
type ColumnLoader struct {
	Filter  *domain.RowFilter
	Exclude []string
	Sum     bool
}

func (l *ColumnLoader) ExtractRaw(table *domain.Table) (domain.RawIndicatorRecord, error) {
	if table == nil {
		return nil, ErrNilTable
	}

	rows, err := filterRows(table, l.Filter)
	if err != nil {
		return nil, err
	}

	skip := make(map[string]struct{}, len(l.Exclude)+1)
	for _, ex := range l.Exclude {
		skip[textutil.Clean(ex)] = struct{}{}
	}
	if l.Filter != nil {
		skip[textutil.Clean(l.Filter.Column)] = struct{}{}
	}

	record := make(domain.RawIndicatorRecord)
	for col, header := range table.Header {
		label := textutil.Clean(header)
		if label == "" {
			continue
		}
		if _, ok := skip[label]; ok {
			continue
		}

		var acc accumulator
		for _, row := range rows {
			if v, ok := ParseNumber(domain.Cell(row, col)); ok {
				acc.add(v)
			}
		}
		if acc.count == 0 {
			continue
		}

		if l.Sum {
			record[label] = acc.sum
		} else {
			record[label] = acc.mean()
		}
	}

	if len(record) == 0 {
		return nil, ErrNoValues
	}
	return record, nil
}

// RowMeanLoader: метка из одной или нескольких колонок (через пробел), значение -
// среднее по числовым колонкам. Для меток, встречающихся в нескольких строках,
// сначала усредняется каждая колонка, затем среднее по колонкам.
type RowMeanLoader struct {
	Filter       *domain.RowFilter
	LabelColumns []string
	ValueColumns []string // пусто - все колонки с числовым заголовком (месяцы, годы)
}

func (l *RowMeanLoader) ExtractRaw(table *domain.Table) (domain.RawIndicatorRecord, error) {
	if table == nil {
		return nil, ErrNilTable
	}

	rows, err := filterRows(table, l.Filter)
	if err != nil {
		return nil, err
	}

	labelIdx, err := columnIndexes(table, l.LabelColumns)
	if err != nil {
		return nil, err
	}

	var valueIdx []int
	if len(l.ValueColumns) > 0 {
		valueIdx, err = columnIndexes(table, l.ValueColumns)
		if err != nil {
			return nil, err
		}
	} else {
		valueIdx = numericHeaderColumns(table.Header)
		if len(valueIdx) == 0 {
			return nil, fmt.Errorf("%w: no numeric period columns", domain.ErrColumnNotFound)
		}
	}

	perLabel := make(map[string][]accumulator)
	for _, row := range rows {
		label := rowLabel(row, labelIdx)
		if label == "" {
			continue
		}
		accs, ok := perLabel[label]
		if !ok {
			accs = make([]accumulator, len(valueIdx))
			perLabel[label] = accs
		}
		for i, col := range valueIdx {
			if v, ok := ParseNumber(domain.Cell(row, col)); ok {
				accs[i].add(v)
			}
		}
	}

	record := make(domain.RawIndicatorRecord, len(perLabel))
	for label, accs := range perLabel {
		var overall accumulator
		for _, a := range accs {
			if a.count > 0 {
				overall.add(a.mean())
			}
		}
		if overall.count > 0 {
			record[label] = overall.mean()
		}
	}

	if len(record) == 0 {
		return nil, ErrNoValues
	}
	return record, nil
}

// RowCountLoader считает строки на район. Строки группируются по каноническому
// району до подсчёта: районы-подразделения одного города складываются.
type RowCountLoader struct {
	Filter        *domain.RowFilter
	LabelColumns  []string
	Canonicalizer *Canonicalizer // nil - считать по сырой метке
}

func (l *RowCountLoader) ExtractRaw(table *domain.Table) (domain.RawIndicatorRecord, error) {
	if table == nil {
		return nil, ErrNilTable
	}

	rows, err := filterRows(table, l.Filter)
	if err != nil {
		return nil, err
	}

	labelIdx, err := columnIndexes(table, l.LabelColumns)
	if err != nil {
		return nil, err
	}

	record := make(domain.RawIndicatorRecord)
	for _, row := range rows {
		label := rowLabel(row, labelIdx)
		if label == "" {
			continue
		}
		if l.Canonicalizer != nil {
			region, ok := l.Canonicalizer.Canonicalize(label)
			if !ok {
				continue
			}
			label = string(region)
		}
		record[label]++
	}

	if len(record) == 0 {
		return nil, ErrNoValues
	}
	return record, nil
}

// ParseNumber разбирает ячейку: пробелы и разделители тысяч игнорируются,
// прочерки и нечисловые значения считаются пропуском.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

type accumulator struct {
	sum   float64
	count int
}

func (a *accumulator) add(v float64) {
	a.sum += v
	a.count++
}

func (a *accumulator) mean() float64 {
	if a.count == 0 {
		return 0
	}
	return a.sum / float64(a.count)
}

func filterRows(table *domain.Table, filter *domain.RowFilter) ([][]string, error) {
	if filter == nil || filter.Column == "" {
		return table.Rows, nil
	}

	idx, err := table.ColumnIndex(filter.Column)
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}

	want := textutil.Clean(filter.Equals)
	out := make([][]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		if textutil.Clean(domain.Cell(row, idx)) == want {
			out = append(out, row)
		}
	}
	return out, nil
}

func columnIndexes(table *domain.Table, refs []string) ([]int, error) {
	if len(refs) == 0 {
		return nil, ErrMissingLabelColumns
	}
	out := make([]int, len(refs))
	for i, ref := range refs {
		idx, err := table.ColumnIndex(ref)
		if err != nil {
			return nil, err
		}
		out[i] = idx
	}
	return out, nil
}

func rowLabel(row []string, idx []int) string {
	parts := make([]string, len(idx))
	for i, col := range idx {
		parts[i] = domain.Cell(row, col)
	}
	return textutil.Join(parts...)
}

// numericHeaderColumns находит колонки с заголовком из цифр и точек ("1", "2023.01")
func numericHeaderColumns(header []string) []int {
	var out []int
	for i, h := range header {
		h = strings.ReplaceAll(textutil.Clean(h), ".", "")
		if h == "" {
			continue
		}
		if strings.IndexFunc(h, func(r rune) bool { return r < '0' || r > '9' }) == -1 {
			out = append(out, i)
		}
	}
	return out
}

// sortedLabels - детерминированный порядок обхода сырых меток
func sortedLabels(raw domain.RawIndicatorRecord) []string {
	labels := make([]string, 0, len(raw))
	for k := range raw {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return labels
}
