package extractor

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labscan/internal/logger"
	"labscan/internal/types"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExtractRussianReport(t *testing.T) {
	text := "Гемоглобин: 135.5\nЛейкоциты: 6.2\nДата взятия биоматериала: 03.11.2023"

	r := New().Extract(text)

	require.NotNil(t, r.Hemoglobin)
	assert.Equal(t, 135.5, *r.Hemoglobin)
	require.NotNil(t, r.WBC)
	assert.Equal(t, 6.2, *r.WBC)
	assert.Nil(t, r.Platelets)
	assert.Nil(t, r.RBC)
	require.NotNil(t, r.SampleDate)
	assert.Equal(t, date(2023, time.November, 3), *r.SampleDate)
}

func TestExtractIndicators(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		field func(types.PartialRecord) *float64
		want  float64
	}{
		{"hemoglobin colon", "Гемоглобин: 140", hgb, 140},
		{"hemoglobin whitespace", "гемоглобин   128.0 г/л", hgb, 128},
		{"hemoglobin dash", "HEMOGLOBIN - 13.9", hgb, 13.9},
		{"hemoglobin with unit annotation", "Гемоглобин (HGB), г/л\nГемоглобин (г/л): 131", hgb, 131},
		{"hemoglobin abbreviation", "HGB 142", hgb, 142},
		{"hemoglobin trailing dot", "Hb: 120.", hgb, 120},
		{"wbc russian", "ЛЕЙКОЦИТЫ: 5.4", wbc, 5.4},
		{"wbc english", "White blood cells (10^9/L): 7.1", wbc, 7.1},
		{"wbc abbreviation", "WBC 4.9", wbc, 4.9},
		{"platelets russian", "Тромбоциты (10^9/л) 250", plt, 250},
		{"platelets english", "Platelet count: 310", plt, 310},
		{"platelets abbreviation", "PLT-198", plt, 198},
		{"rbc russian", "Эритроциты: 4.8", rbc, 4.8},
		{"rbc english", "erythrocytes 5.01", rbc, 5.01},
		{"rbc abbreviation", "RBC: 4.35", rbc, 4.35},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.field(New().Extract(tt.text))
			require.NotNil(t, got)
			assert.InDelta(t, tt.want, *got, 1e-9)
		})
	}
}

func TestExtractFirstMatchWins(t *testing.T) {
	r := New().Extract("Гемоглобин: 120\nповторно\nГемоглобин: 150")
	require.NotNil(t, r.Hemoglobin)
	assert.Equal(t, 120.0, *r.Hemoglobin)
}

func TestExtractAbsentFields(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"garbage", "%%% ### lorem ipsum 12.5 ~~~"},
		{"label without value", "Гемоглобин: н/д"},
		{"label glued to number", "Гемоглобин135"},
		{"derived index is not hemoglobin", "Среднее содержание гемоглобина 29.5"},
		{"abbreviation inside a word", "HbA1c: 5.6"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New().Extract(tt.text)
			assert.Nil(t, r.Hemoglobin)
			assert.Nil(t, r.WBC)
			assert.Nil(t, r.Platelets)
			assert.Nil(t, r.RBC)
			assert.Nil(t, r.SampleDate)
			assert.True(t, r.IsEmpty())
		})
	}
}

func TestExtractNegativeSignIsSeparator(t *testing.T) {
	r := New().Extract("RBC -4.5")
	require.NotNil(t, r.RBC)
	assert.Equal(t, 4.5, *r.RBC)
}

func TestExtractOutOfRangeNumberIsAbsent(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWriterLogger(&buf)
	l.SetLevel(logger.DEBUG)

	huge := "1" + strings.Repeat("0", 400)
	r := New(WithLogger(l)).Extract("Гемоглобин: " + huge)

	assert.Nil(t, r.Hemoglobin)
	assert.Contains(t, buf.String(), "не удалось разобрать hemoglobin")
}

func TestExtractDates(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		lenient *time.Time
		strict  *time.Time
	}{
		{"dotted four digit year", "Дата анализа: 03.11.2023", ptr(date(2023, 11, 3)), ptr(date(2023, 11, 3))},
		{"single digit day and month", "Дата сдачи 3.1.2024", ptr(date(2024, 1, 3)), ptr(date(2024, 1, 3))},
		{"slash two digit year", "Дата исследования: 12/09/23", ptr(date(2023, 9, 12)), ptr(date(2023, 9, 12))},
		{"slash four digit year", "Дата получения: 12/09/2023", ptr(date(2023, 9, 12)), nil},
		{"dotted two digit year", "Дата приема: 03.11.23", ptr(date(2023, 11, 3)), nil},
		{"dash separator", "Дата регистрации заказа - 05-06-2022", ptr(date(2022, 6, 5)), nil},
		{"english label", "Date of collection: 21.04.2024", ptr(date(2024, 4, 21)), ptr(date(2024, 4, 21))},
		{"invalid calendar date", "Дата анализа: 31.02.2023", nil, nil},
		{"three digit year", "Дата анализа: 01.02.202", nil, nil},
		{"no label", "03.11.2023", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.lenient, New().Extract(tt.text).SampleDate, "lenient")
			assert.Equal(t, tt.strict, New(WithStrictDates(true)).Extract(tt.text).SampleDate, "strict")
		})
	}
}

func TestExtractFieldsAreIndependent(t *testing.T) {
	text := `КЛИНИЧЕСКИЙ АНАЛИЗ КРОВИ
Дата взятия образца: 14.02.2024
Эритроциты (RBC) 4.62 10^12/л
Гемоглобин (HGB) 138 г/л
Тромбоциты (PLT): 265
Лейкоциты (WBC): н/д`

	r := New().Extract(text)

	require.NotNil(t, r.RBC)
	assert.Equal(t, 4.62, *r.RBC)
	require.NotNil(t, r.Hemoglobin)
	assert.Equal(t, 138.0, *r.Hemoglobin)
	require.NotNil(t, r.Platelets)
	assert.Equal(t, 265.0, *r.Platelets)
	assert.Nil(t, r.WBC)
	require.NotNil(t, r.SampleDate)
	assert.Equal(t, date(2024, 2, 14), *r.SampleDate)
}

func hgb(r types.PartialRecord) *float64 { return r.Hemoglobin }
func wbc(r types.PartialRecord) *float64 { return r.WBC }
func plt(r types.PartialRecord) *float64 { return r.Platelets }
func rbc(r types.PartialRecord) *float64 { return r.RBC }

func ptr(t time.Time) *time.Time { return &t }
