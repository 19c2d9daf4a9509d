package types

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DateLayout формат хранения даты анализа в БД
const DateLayout = "2006-01-02"

// ErrInvalidRecord возвращается, если запись не прошла проверку при создании
var ErrInvalidRecord = errors.New("некорректная запись анализа")

// PartialRecord результат разбора текста одного изображения.
// Отсутствующее поле означает, что показатель не найден в тексте.
type PartialRecord struct {
	Hemoglobin *float64
	WBC        *float64
	Platelets  *float64
	RBC        *float64
	SampleDate *time.Time
}

// NewPartialRecord собирает запись и сразу проверяет её
func NewPartialRecord(hemoglobin, wbc, platelets, rbc *float64, sampleDate *time.Time) (PartialRecord, error) {
	r := PartialRecord{
		Hemoglobin: hemoglobin,
		WBC:        wbc,
		Platelets:  platelets,
		RBC:        rbc,
	}
	if sampleDate != nil {
		d := CalendarDate(*sampleDate)
		r.SampleDate = &d
	}
	if err := r.Validate(); err != nil {
		return PartialRecord{}, err
	}
	return r, nil
}

// Validate проверяет, что все найденные показатели неотрицательны и конечны
func (r PartialRecord) Validate() error {
	for _, f := range r.indicators() {
		if f.value == nil {
			continue
		}
		v := *f.value
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %s = %v", ErrInvalidRecord, f.name, v)
		}
	}
	return nil
}

// HasIndicator сообщает, найден ли хотя бы один из четырех показателей
func (r PartialRecord) HasIndicator() bool {
	for _, f := range r.indicators() {
		if f.value != nil {
			return true
		}
	}
	return false
}

// IsEmpty true, если в записи нет ни одного поля
func (r PartialRecord) IsEmpty() bool {
	return !r.HasIndicator() && r.SampleDate == nil
}

// FormattedDate возвращает дату анализа в формате YYYY-MM-DD или пустую строку
func (r PartialRecord) FormattedDate() string {
	if r.SampleDate == nil {
		return ""
	}
	return r.SampleDate.Format(DateLayout)
}

type namedValue struct {
	name  string
	value *float64
}

func (r PartialRecord) indicators() []namedValue {
	return []namedValue{
		{"hemoglobin", r.Hemoglobin},
		{"wbc", r.WBC},
		{"plt", r.Platelets},
		{"rbc", r.RBC},
	}
}

// StoredRecord запись, сохраненная в БД. После записи не изменяется.
type StoredRecord struct {
	ID int64
	PartialRecord
	Date time.Time
}

// IndicatorRow строка для таблицы и графика
type IndicatorRow struct {
	Hemoglobin *float64  `json:"hemoglobin"`
	WBC        *float64  `json:"wbc"`
	Platelets  *float64  `json:"plt"`
	RBC        *float64  `json:"rbc"`
	Date       time.Time `json:"date"`
}

// Image одно изображение бланка анализа, выбранное пользователем
type Image struct {
	Name string
	Path string
}

// CalendarDate отбрасывает время и часовой пояс, оставляя дату в UTC
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Float возвращает указатель на значение
func Float(v float64) *float64 {
	return &v
}
