// Package file читает наборы данных показателей из локальных xlsx и csv файлов.
package file

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"

	"github.com/region-dashboard/internal/domain"
	"github.com/region-dashboard/internal/domain/repository"
)

var (
	ErrUnsupportedFormat   = errors.New("unsupported dataset format")
	ErrUnsupportedEncoding = errors.New("unsupported text encoding")
	ErrSheetNotFound       = errors.New("sheet not found")
	ErrEmptyDataset        = errors.New("dataset has no header row")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type datasetRepository struct {
	logger *zap.Logger
}

// NewDatasetRepository создает репозиторий, читающий файлы при каждом вызове
func NewDatasetRepository(logger *zap.Logger) repository.DatasetRepository {
	return &datasetRepository{logger: logger}
}

func (r *datasetRepository) Load(ctx context.Context, src domain.DatasetSource) (*domain.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		rows [][]string
		err  error
	)
	switch src.Format {
	case domain.FormatXLSX:
		rows, err = readXLSX(src)
	case domain.FormatCSV:
		rows, err = readCSV(src)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, src.Format)
	}
	if err != nil {
		r.logger.Warn("Failed to read dataset",
			zap.String("path", src.Path),
			zap.String("sheet", src.Sheet),
			zap.Error(err))
		return nil, err
	}

	table, err := buildTable(rows, src.HeaderRow, src.SkipRows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Path, err)
	}

	r.logger.Debug("Dataset loaded",
		zap.String("path", src.Path),
		zap.String("sheet", src.Sheet),
		zap.Int("columns", len(table.Header)),
		zap.Int("rows", len(table.Rows)))

	return table, nil
}

// Invalidate - файловый репозиторий ничего не кеширует
func (r *datasetRepository) Invalidate(ctx context.Context) error {
	return nil
}

func readXLSX(src domain.DatasetSource) ([][]string, error) {
	f, err := excelize.OpenFile(src.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := src.Sheet
	sheets := f.GetSheetList()
	if sheet == "" {
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook is empty", ErrSheetNotFound)
		}
		sheet = sheets[0]
	} else if !containsSheet(sheets, sheet) {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

func containsSheet(sheets []string, name string) bool {
	for _, s := range sheets {
		if s == name {
			return true
		}
	}
	return false
}

func readCSV(src domain.DatasetSource) ([][]string, error) {
	data, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	data, err = decode(data, src.Encoding)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return rows, nil
}

// decode приводит содержимое к UTF-8. Пустая кодировка: UTF-8, а если байты
// не являются корректным UTF-8, то cp949 (типично для публичных данных).
func decode(data []byte, encoding string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8":
		data = bytes.TrimPrefix(data, utf8BOM)
		if encoding != "" || utf8.Valid(data) {
			return data, nil
		}
		fallthrough
	case "cp949", "euc-kr", "euckr":
		out, _, err := transform.Bytes(korean.EUCKR.NewDecoder(), data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode cp949: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, encoding)
	}
}

func buildTable(rows [][]string, headerRow, skipRows int) (*domain.Table, error) {
	if headerRow < 0 || headerRow >= len(rows) {
		return nil, ErrEmptyDataset
	}

	table := &domain.Table{
		Header: rows[headerRow],
		Rows:   make([][]string, 0),
	}

	start := headerRow + 1 + skipRows
	for i := start; i < len(rows); i++ {
		if isBlank(rows[i]) {
			continue
		}
		table.Rows = append(table.Rows, rows[i])
	}
	return table, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
