package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/region-dashboard/internal/pkg/textutil"
)

var ErrColumnNotFound = errors.New("column not found")

// DatasetFormat - формат файла-источника
type DatasetFormat string

const (
	FormatXLSX DatasetFormat = "xlsx"
	FormatCSV  DatasetFormat = "csv"
)

// DatasetSource описывает, откуда и как читать таблицу
type DatasetSource struct {
	Path      string        `yaml:"path" json:"path"`
	Format    DatasetFormat `yaml:"format" json:"format"`
	Sheet     string        `yaml:"sheet,omitempty" json:"sheet,omitempty"`
	HeaderRow int           `yaml:"header_row,omitempty" json:"header_row,omitempty"` // 0-based
	SkipRows  int           `yaml:"skip_rows,omitempty" json:"skip_rows,omitempty"`   // строк данных после заголовка
	Encoding  string        `yaml:"encoding,omitempty" json:"encoding,omitempty"`     // utf-8 | cp949
}

// Identity - ключ набора данных для кеша
func (s DatasetSource) Identity() string {
	return fmt.Sprintf("%s:%s#%s@%d+%d", s.Format, s.Path, s.Sheet, s.HeaderRow, s.SkipRows)
}

// Table - прочитанная таблица: заголовок и строки данных
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// ColumnIndex находит колонку по имени заголовка или по ссылке вида "#N" (0-based)
func (t *Table) ColumnIndex(ref string) (int, error) {
	if strings.HasPrefix(ref, "#") {
		idx, err := strconv.Atoi(ref[1:])
		if err != nil || idx < 0 || idx >= len(t.Header) {
			return -1, fmt.Errorf("%w: %s", ErrColumnNotFound, ref)
		}
		return idx, nil
	}

	want := textutil.Clean(ref)
	for i, h := range t.Header {
		if textutil.Clean(h) == want {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrColumnNotFound, ref)
}

// Cell возвращает ячейку строки или пустую строку, если строка короче
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
