// Package render формирует HTML-страницу с таблицей анализов, графиками и
// напоминанием.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"labscan/internal/reminder"
	"labscan/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page данные одной страницы
type Page struct {
	Rows        []types.IndicatorRow
	Reminder    reminder.Status
	GeneratedAt time.Time
}

// Renderer владеет разобранными шаблонами. Render не хранит состояние между
// вызовами, поэтому один Renderer можно использовать из разных запросов.
type Renderer struct {
	tmpl *template.Template
}

// New разбирает встроенные шаблоны
func New() (*Renderer, error) {
	tmpl, err := template.New("layout").Funcs(template.FuncMap{
		"value": formatValue,
		"date": func(t time.Time) string {
			return t.Format("02.01.2006")
		},
		"series": BuildSeries,
		"width":  func() int { return chartWidth },
		"height": func() int { return chartHeight },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора шаблонов: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render пишет страницу в w
func (r *Renderer) Render(w io.Writer, page Page) error {
	if err := r.tmpl.ExecuteTemplate(w, "index.html", page); err != nil {
		return fmt.Errorf("ошибка рендера страницы: %w", err)
	}
	return nil
}

func formatValue(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *v)
}
