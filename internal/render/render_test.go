package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labscan/internal/reminder"
	"labscan/internal/types"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleRows() []types.IndicatorRow {
	return []types.IndicatorRow{
		{Hemoglobin: types.Float(120), WBC: types.Float(5.1), Date: date(2023, 1, 10)},
		{Hemoglobin: types.Float(135.5), Platelets: types.Float(250), Date: date(2023, 7, 10)},
	}
}

func TestRender(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	t.Run("table chart and banner", func(t *testing.T) {
		latest := date(2023, 7, 10)
		page := Page{
			Rows:        sampleRows(),
			Reminder:    reminder.Evaluate(&latest, date(2024, 3, 1)),
			GeneratedAt: date(2024, 3, 1),
		}
		var buf bytes.Buffer
		require.NoError(t, r.Render(&buf, page))
		html := buf.String()

		assert.Contains(t, html, `<table id="indicators">`)
		assert.Contains(t, html, "<td>10.07.2023</td>")
		assert.Contains(t, html, "<td>135.5</td>")
		assert.Contains(t, html, `class="reminder due"`)
		assert.Contains(t, html, "Пора сдать общий анализ крови")
		assert.Contains(t, html, `id="chart-hemoglobin"`)
		assert.Contains(t, html, "<polyline")
		// у эритроцитов нет ни одного значения
		assert.Contains(t, html, "Нет данных")
	})

	t.Run("empty store", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, r.Render(&buf, Page{Reminder: reminder.Evaluate(nil, date(2024, 3, 1))}))
		html := buf.String()

		assert.Contains(t, html, "Записей пока нет")
		assert.Contains(t, html, "Анализов пока нет")
		assert.NotContains(t, html, "<svg")
	})

	t.Run("render is repeatable", func(t *testing.T) {
		page := Page{Rows: sampleRows(), Reminder: reminder.Evaluate(nil, date(2024, 3, 1))}
		var a, b bytes.Buffer
		require.NoError(t, r.Render(&a, page))
		require.NoError(t, r.Render(&b, page))
		assert.Equal(t, a.String(), b.String())
	})
}

func TestBuildSeries(t *testing.T) {
	series := BuildSeries(sampleRows())
	require.Len(t, series, 4)

	hb := series[0]
	assert.Equal(t, "hemoglobin", hb.Key)
	require.Len(t, hb.Points, 2)
	assert.Equal(t, 120.0, hb.Min)
	assert.Equal(t, 135.5, hb.Max)
	assert.InDelta(t, float64(chartPadding), hb.Points[0].X, 0.001)
	assert.InDelta(t, float64(chartWidth-chartPadding), hb.Points[1].X, 0.001)
	// большее значение выше на графике
	assert.Less(t, hb.Points[1].Y, hb.Points[0].Y)

	wbc := series[1]
	require.Len(t, wbc.Points, 1)
	assert.InDelta(t, float64(chartHeight)/2, wbc.Points[0].Y, 0.001)

	assert.True(t, series[3].Empty())
	assert.Empty(t, series[3].Polyline())
}

func TestBuildSeriesNoRows(t *testing.T) {
	for _, s := range BuildSeries(nil) {
		assert.True(t, s.Empty())
	}
}
