package render

import (
	"fmt"
	"strings"
	"time"

	"labscan/internal/types"
)

const (
	chartWidth   = 640
	chartHeight  = 160
	chartPadding = 24
)

// Point вершина ломаной на графике
type Point struct {
	X, Y  float64
	Value float64
	Date  time.Time
}

// Series один показатель на отдельном графике
type Series struct {
	Key    string
	Title  string
	Unit   string
	Color  string
	Points []Point
	Min    float64
	Max    float64
}

// Polyline атрибут points для <polyline>
func (s Series) Polyline() string {
	parts := make([]string, 0, len(s.Points))
	for _, p := range s.Points {
		parts = append(parts, fmt.Sprintf("%.1f,%.1f", p.X, p.Y))
	}
	return strings.Join(parts, " ")
}

func (s Series) Empty() bool {
	return len(s.Points) == 0
}

type indicator struct {
	key, title, unit, color string
	value                   func(r types.IndicatorRow) *float64
}

var indicators = []indicator{
	{"hemoglobin", "Гемоглобин", "г/л", "#c0392b", func(r types.IndicatorRow) *float64 { return r.Hemoglobin }},
	{"wbc", "Лейкоциты", "×10⁹/л", "#2980b9", func(r types.IndicatorRow) *float64 { return r.WBC }},
	{"plt", "Тромбоциты", "×10⁹/л", "#8e44ad", func(r types.IndicatorRow) *float64 { return r.Platelets }},
	{"rbc", "Эритроциты", "×10¹²/л", "#27ae60", func(r types.IndicatorRow) *float64 { return r.RBC }},
}

// BuildSeries раскладывает строки по показателям. Ось X общая для всех
// графиков и пропорциональна датам, ось Y у каждого показателя своя.
// Строки с пустым значением показателя пропускаются.
func BuildSeries(rows []types.IndicatorRow) []Series {
	var first, last time.Time
	for i, r := range rows {
		if i == 0 || r.Date.Before(first) {
			first = r.Date
		}
		if i == 0 || r.Date.After(last) {
			last = r.Date
		}
	}
	span := last.Sub(first)

	out := make([]Series, 0, len(indicators))
	for _, ind := range indicators {
		s := Series{Key: ind.key, Title: ind.title, Unit: ind.unit, Color: ind.color}
		for _, r := range rows {
			v := ind.value(r)
			if v == nil {
				continue
			}
			if s.Empty() || *v < s.Min {
				s.Min = *v
			}
			if s.Empty() || *v > s.Max {
				s.Max = *v
			}
			s.Points = append(s.Points, Point{Value: *v, Date: r.Date})
		}
		for i := range s.Points {
			s.Points[i].X = scale(s.Points[i].Date.Sub(first).Seconds(), span.Seconds(), chartWidth)
			// SVG считает Y сверху вниз
			s.Points[i].Y = chartHeight - scale(s.Points[i].Value-s.Min, s.Max-s.Min, chartHeight)
		}
		out = append(out, s)
	}
	return out
}

// scale переводит v из [0, total] в [padding, size-padding].
// Если диапазон нулевой, точка ставится посередине.
func scale(v, total float64, size float64) float64 {
	inner := size - 2*chartPadding
	if total <= 0 {
		return chartPadding + inner/2
	}
	return chartPadding + v/total*inner
}
