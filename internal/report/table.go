package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/region-dashboard/internal/usecase/dto"
)

// Alignment колонки
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// highlightMark отмечает выбранный район в первой колонке
const highlightMark = "▶"

// Table - текстовая таблица с выравниванием по ширине на экране.
// Хангыль занимает две колонки терминала, поэтому ширина считается через runewidth.
type Table struct {
	Title  string
	Header []string
	Align  []Alignment
	Rows   [][]string
	Notes  []string
}

// Render печатает таблицу в markdown-подобном виде
func (t *Table) Render(w io.Writer) error {
	colCount := len(t.Header)
	for _, row := range t.Rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	widths := make([]int, colCount)
	measure := func(row []string) {
		for i := 0; i < len(row) && i < colCount; i++ {
			if width := runewidth.StringWidth(row[i]); width > widths[i] {
				widths[i] = width
			}
		}
	}
	measure(t.Header)
	for _, row := range t.Rows {
		measure(row)
	}
	for i := range widths {
		if widths[i] < 3 {
			widths[i] = 3
		}
	}

	var sb strings.Builder
	if t.Title != "" {
		sb.WriteString("## ")
		sb.WriteString(t.Title)
		sb.WriteString("\n\n")
	}

	sb.WriteString(t.line(t.Header, widths))
	separator := make([]string, colCount)
	for i := range separator {
		separator[i] = strings.Repeat("-", widths[i])
	}
	sb.WriteString(t.line(separator, widths))
	for _, row := range t.Rows {
		sb.WriteString(t.line(row, widths))
	}

	for _, note := range t.Notes {
		sb.WriteString("\n> ")
		sb.WriteString(note)
	}
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func (t *Table) line(row []string, widths []int) string {
	var sb strings.Builder
	sb.WriteString("|")
	for j, width := range widths {
		content := ""
		if j < len(row) {
			content = row[j]
		}
		pad := width - runewidth.StringWidth(content)
		if pad < 0 {
			pad = 0
		}

		sb.WriteString(" ")
		if j < len(t.Align) && t.Align[j] == AlignRight {
			sb.WriteString(strings.Repeat(" ", pad))
			sb.WriteString(content)
		} else {
			sb.WriteString(content)
			sb.WriteString(strings.Repeat(" ", pad))
		}
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
	return sb.String()
}

// PanelTable строит таблицу ранжированного ряда
func PanelTable(p *dto.PanelResponse) *Table {
	t := &Table{
		Title:  panelTitle(p.Title, p.Indicator, p.Unit),
		Header: []string{"#", "지역", "값", "원자료", "인구"},
		Align:  []Alignment{AlignRight, AlignLeft, AlignRight, AlignRight, AlignRight},
	}

	for i, e := range p.Series {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(i + 1),
			markRegion(e.Region, e.Highlighted),
			formatValue(e.Value),
			formatValue(e.RawValue),
			strconv.FormatInt(e.Population, 10),
		})
	}

	t.Notes = statusNotes(p.Status, p.Error, p.Failures)
	return t
}

// PollutionTable строит таблицу составного показателя
func PollutionTable(p *dto.PollutionResponse) *Table {
	t := &Table{
		Title:  panelTitle(p.Title, p.Indicator, ""),
		Header: append([]string{"#", "지역"}, p.Components...),
	}
	t.Header = append(t.Header, "합계")

	t.Align = make([]Alignment, len(t.Header))
	for i := range t.Align {
		t.Align[i] = AlignRight
	}
	t.Align[1] = AlignLeft

	for i, e := range p.Series {
		row := []string{strconv.Itoa(i + 1), markRegion(e.Region, e.Highlighted)}
		for _, v := range e.Values {
			row = append(row, formatValue(v))
		}
		row = append(row, formatValue(e.Total))
		t.Rows = append(t.Rows, row)
	}

	t.Notes = statusNotes(p.Status, p.Error, p.Failures)
	return t
}

// RadarTable строит таблицу радар-диаграммы: строка на район, колонка на ось
func RadarTable(r *dto.RadarResponse) *Table {
	t := &Table{
		Title:  "레이더",
		Header: []string{"지역"},
		Align:  []Alignment{AlignLeft},
	}
	for _, axis := range r.Axes {
		t.Header = append(t.Header, axis.Label)
		t.Align = append(t.Align, AlignRight)
	}

	for _, rec := range r.Records {
		row := []string{markRegion(rec.Region, rec.Highlighted)}
		for _, v := range rec.Values {
			row = append(row, formatValue(v))
		}
		t.Rows = append(t.Rows, row)
	}

	t.Notes = statusNotes(r.Status, r.Error, r.Failures)
	return t
}

func panelTitle(title, indicator, unit string) string {
	if title == "" {
		title = indicator
	}
	if unit != "" {
		return fmt.Sprintf("%s (%s)", title, unit)
	}
	return title
}

func markRegion(region string, highlighted bool) string {
	if highlighted {
		return highlightMark + " " + region
	}
	return region
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func statusNotes(status, errMsg string, failures []dto.FailureResponse) []string {
	var notes []string
	if status == dto.StatusUnavailable {
		notes = append(notes, "unavailable: "+errMsg)
	}
	for _, f := range failures {
		notes = append(notes, fmt.Sprintf("skipped %s: %s", f.Indicator, f.Error))
	}
	return notes
}
