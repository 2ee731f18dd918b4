package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/region-dashboard/internal/domain"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{in: "12", want: 12, wantOK: true},
		{in: " 1,234.5 ", want: 1234.5, wantOK: true},
		{in: "-3", want: -3, wantOK: true},
		{in: "-", wantOK: false},
		{in: "", wantOK: false},
		{in: "n/a", wantOK: false},
		{in: "NaN", wantOK: false},
		{in: "Inf", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseNumber(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestColumnLoader(t *testing.T) {
	table := &domain.Table{
		Header: []string{"연도", "구분", "포항북부", "포항남부", "경주"},
		Rows: [][]string{
			{"2021", "사고", "10", "4", "6"},
			{"2022", "사고", "20", "6", "-"},
			{"2022", "사망", "1", "1", "1"},
		},
	}

	t.Run("mean over filtered rows", func(t *testing.T) {
		l := &ColumnLoader{
			Filter:  &domain.RowFilter{Column: "구분", Equals: "사고"},
			Exclude: []string{"연도"},
		}
		raw, err := l.ExtractRaw(table)
		require.NoError(t, err)

		assert.Equal(t, domain.RawIndicatorRecord{"포항북부": 15, "포항남부": 5, "경주": 6}, raw)
	})

	t.Run("sum", func(t *testing.T) {
		l := &ColumnLoader{Exclude: []string{"연도", "구분"}, Sum: true}
		raw, err := l.ExtractRaw(table)
		require.NoError(t, err)

		assert.Equal(t, 31.0, raw["포항북부"])
		assert.Equal(t, 7.0, raw["경주"])
	})

	t.Run("unknown filter column", func(t *testing.T) {
		l := &ColumnLoader{Filter: &domain.RowFilter{Column: "없음", Equals: "x"}}
		_, err := l.ExtractRaw(table)
		assert.ErrorIs(t, err, domain.ErrColumnNotFound)
	})

	t.Run("nil table", func(t *testing.T) {
		_, err := (&ColumnLoader{}).ExtractRaw(nil)
		assert.ErrorIs(t, err, ErrNilTable)
	})
}

func TestRowMeanLoader(t *testing.T) {
	table := &domain.Table{
		Header: []string{"구분(1)", "구분(2)", "1", "2", "비고"},
		Rows: [][]string{
			{"경상북도", "포항시", "10", "20", "x"},
			{"경상북도", "포항시", "30", "-", "x"},
			{"경상북도", "경주시", "5", "5", "x"},
			{"서울특별시", "종로구", "99", "99", "x"},
		},
	}

	l := &RowMeanLoader{
		Filter:       &domain.RowFilter{Column: "구분(1)", Equals: "경상북도"},
		LabelColumns: []string{"구분(2)"},
	}
	raw, err := l.ExtractRaw(table)
	require.NoError(t, err)

	// колонка "1": (10+30)/2 = 20, колонка "2": 20; среднее 20
	assert.InDelta(t, 20.0, raw["포항시"], 1e-9)
	assert.InDelta(t, 5.0, raw["경주시"], 1e-9)
	assert.NotContains(t, raw, "종로구")

	t.Run("explicit value columns by index", func(t *testing.T) {
		l := &RowMeanLoader{LabelColumns: []string{"#1"}, ValueColumns: []string{"#3"}}
		raw, err := l.ExtractRaw(table)
		require.NoError(t, err)
		assert.InDelta(t, 20.0, raw["포항시"], 1e-9)
	})
}

func TestRowCountLoader(t *testing.T) {
	table := &domain.Table{
		Header: []string{"시도 명칭", "시군구 명칭", "시설명"},
		Rows: [][]string{
			{"경상북도", "포항시 북구", "a"},
			{"경상북도", "포항시 남구", "b"},
			{"경상북도", "경주시", "c"},
			{"경상북도", "군위군", "d"},
			{"대구광역시", "중구", "e"},
		},
	}

	l := &RowCountLoader{
		Filter:        &domain.RowFilter{Column: "시도 명칭", Equals: "경상북도"},
		LabelColumns:  []string{"시도 명칭", "시군구 명칭"},
		Canonicalizer: NewCanonicalizer(testRegions(t)),
	}
	raw, err := l.ExtractRaw(table)
	require.NoError(t, err)

	assert.Equal(t, domain.RawIndicatorRecord{"포항시": 2, "경주시": 1}, raw)
}

func TestNewLoader(t *testing.T) {
	canon := NewCanonicalizer(testRegions(t))

	l, err := NewLoader(domain.IndicatorDefinition{Name: "a", Kind: domain.KindColumnSum}, canon)
	require.NoError(t, err)
	assert.True(t, l.(*ColumnLoader).Sum)

	_, err = NewLoader(domain.IndicatorDefinition{Name: "b", Kind: domain.KindRowCount}, canon)
	assert.ErrorIs(t, err, ErrMissingLabelColumns)

	_, err = NewLoader(domain.IndicatorDefinition{Name: "c", Kind: domain.KindComposite}, canon)
	assert.ErrorIs(t, err, ErrUnknownLoaderKind)
}
