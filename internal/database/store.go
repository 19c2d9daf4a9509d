package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"labscan/internal/types"
)

// Версии схемы таблицы general_blood_test
const (
	SchemaV1 = 1 // id, hemoglobin, date
	SchemaV2 = 2 // + wbc, plt, rbc

	LatestSchemaVersion = SchemaV2
)

// ErrStorage общая ошибка хранилища, проверяется через errors.Is
var ErrStorage = errors.New("ошибка хранилища")

// StorageError ошибка подключения или нарушения ограничения при записи/чтении
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStorage, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// Store хранилище анализов, в которое записи только добавляются
type Store interface {
	// Append добавляет одну запись одним INSERT в отдельной транзакции
	Append(ctx context.Context, r types.PartialRecord) (types.StoredRecord, error)
	// FetchAllIndicators возвращает строки с датой, отсортированные по дате
	FetchAllIndicators(ctx context.Context) ([]types.IndicatorRow, error)
	// LatestDate дата последнего анализа, nil если записей нет
	LatestDate(ctx context.Context) (*time.Time, error)
	// SchemaVersion активная версия схемы
	SchemaVersion() int
}

// projectToSchema оставляет только показатели, которые есть в версии схемы
func projectToSchema(r types.PartialRecord, version int) types.PartialRecord {
	if version >= SchemaV2 {
		return r
	}
	return types.PartialRecord{Hemoglobin: r.Hemoglobin, SampleDate: r.SampleDate}
}
