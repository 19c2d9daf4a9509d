// Package extractor разбирает текст бланка анализа крови после OCR.
// Каждое поле ищется независимо; всё, что не удалось найти или разобрать,
// остается пустым.
package extractor

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"labscan/internal/logger"
	"labscan/internal/types"
)

// Extractor превращает распознанный текст в PartialRecord
type Extractor struct {
	strictDates bool
	logger      *logger.LoggerManager
}

type Option func(*Extractor)

// WithStrictDates оставляет только два исходных формата даты: Д.М.ГГГГ и Д/М/ГГ
func WithStrictDates(strict bool) Option {
	return func(e *Extractor) {
		e.strictDates = strict
	}
}

// WithLogger включает отладочные сообщения о значениях, которые не удалось разобрать
func WithLogger(l *logger.LoggerManager) Option {
	return func(e *Extractor) {
		e.logger = l
	}
}

// New создает Extractor
func New(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract никогда не возвращает ошибку: отсутствие поля означает nil
func (e *Extractor) Extract(text string) types.PartialRecord {
	return types.PartialRecord{
		Hemoglobin: e.number("hemoglobin", hemoglobinRe, text),
		WBC:        e.number("wbc", wbcRe, text),
		Platelets:  e.number("plt", plateletRe, text),
		RBC:        e.number("rbc", rbcRe, text),
		SampleDate: e.date(text),
	}
}

func (e *Extractor) number(field string, re *regexp.Regexp, text string) *float64 {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		e.debug("не удалось разобрать %s = %q: %v", field, m[1], err)
		return nil
	}
	return &v
}

func (e *Extractor) date(text string) *time.Time {
	m := dateRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	var (
		d  time.Time
		ok bool
	)
	if e.strictDates {
		d, ok = parseStrictDate(m[1])
	} else {
		d, ok = parseLenientDate(m[1])
	}
	if !ok {
		e.debug("не удалось разобрать дату %q", m[1])
		return nil
	}
	return &d
}

func (e *Extractor) debug(format string, args ...interface{}) {
	if e.logger != nil {
		e.logger.Debug(format, args...)
	}
}

// parseStrictDate: сначала день.месяц.год из 4 цифр, потом день/месяц/год из 2 цифр.
// "12/09/2023" и "03.11.23" этими форматами не разбираются.
func parseStrictDate(s string) (time.Time, bool) {
	for _, layout := range []string{"2.1.2006", "2/1/06"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var dateSeparators = regexp.MustCompile(`[.\-/]`)

// parseLenientDate принимает любой из разделителей и год из 2 или 4 цифр
func parseLenientDate(s string) (time.Time, bool) {
	parts := dateSeparators.Split(s, -1)
	if len(parts) != 3 {
		return time.Time{}, false
	}
	var layout string
	switch len(parts[2]) {
	case 4:
		layout = "2.1.2006"
	case 2:
		layout = "2.1.06"
	default:
		return time.Time{}, false
	}
	t, err := time.Parse(layout, strings.Join(parts, "."))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
