package reminder

import (
	"context"
	"fmt"
	"time"

	"labscan/internal/logger"
	"labscan/internal/types"
)

// Threshold через сколько дней после последнего анализа пора сдавать новый
const Threshold = 180 * 24 * time.Hour

// LatestDater источник даты последнего анализа
type LatestDater interface {
	LatestDate(ctx context.Context) (*time.Time, error)
}

// Status результат проверки
type Status struct {
	Due       bool
	Latest    *time.Time
	DaysSince int
}

// Message текст напоминания для баннера
func (s Status) Message() string {
	switch {
	case s.Latest == nil:
		return "Анализов пока нет. Пора сдать общий анализ крови."
	case s.Due:
		return fmt.Sprintf("С последнего анализа (%s) прошло %d дн. Пора сдать общий анализ крови.",
			s.Latest.Format("02.01.2006"), s.DaysSince)
	default:
		return fmt.Sprintf("Последний анализ: %s (%d дн. назад).", s.Latest.Format("02.01.2006"), s.DaysSince)
	}
}

// Evaluate напоминание нужно, если записей нет или прошло больше 180 дней
func Evaluate(latest *time.Time, now time.Time) Status {
	if latest == nil {
		return Status{Due: true}
	}
	elapsed := types.CalendarDate(now).Sub(types.CalendarDate(*latest))
	return Status{
		Due:       elapsed > Threshold,
		Latest:    latest,
		DaysSince: int(elapsed / (24 * time.Hour)),
	}
}

// Check читает последнюю дату из хранилища
func Check(ctx context.Context, store LatestDater, now time.Time) (Status, error) {
	latest, err := store.LatestDate(ctx)
	if err != nil {
		return Status{}, err
	}
	return Evaluate(latest, now), nil
}

// Notifier показывает напоминание пользователю
type Notifier interface {
	Notify(s Status)
}

// LogNotifier выводит напоминание в лог
type LogNotifier struct {
	Logger *logger.LoggerManager
}

func (n LogNotifier) Notify(s Status) {
	n.Logger.Warn("🔔 %s", s.Message())
}

// CheckAndNotify вызывает notifier, если подошел срок
func CheckAndNotify(ctx context.Context, store LatestDater, now time.Time, n Notifier) (Status, error) {
	st, err := Check(ctx, store, now)
	if err != nil {
		return st, err
	}
	if st.Due {
		n.Notify(st)
	}
	return st, nil
}
