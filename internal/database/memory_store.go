package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"labscan/internal/types"
)

// MemoryStore хранилище в памяти для пробных запусков (--dry-run) и тестов
type MemoryStore struct {
	mu      sync.Mutex
	rows    []types.StoredRecord
	nextID  int64
	version int
	now     func() time.Time
}

// NewMemoryStore создает пустое хранилище. now задает "текущую дату"
// хранилища для записей без даты; nil означает time.Now.
func NewMemoryStore(version int, now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	if version < SchemaV1 || version > LatestSchemaVersion {
		version = LatestSchemaVersion
	}
	return &MemoryStore{nextID: 1, version: version, now: now}
}

func (m *MemoryStore) SchemaVersion() int {
	return m.version
}

func (m *MemoryStore) Append(ctx context.Context, r types.PartialRecord) (types.StoredRecord, error) {
	if err := ctx.Err(); err != nil {
		return types.StoredRecord{}, storageErr("вставка записи", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	r = projectToSchema(r, m.version)
	date := types.CalendarDate(m.now())
	if r.SampleDate != nil {
		date = *r.SampleDate
	}
	stored := types.StoredRecord{ID: m.nextID, PartialRecord: r, Date: date}
	m.nextID++
	m.rows = append(m.rows, stored)
	return stored, nil
}

func (m *MemoryStore) FetchAllIndicators(ctx context.Context) ([]types.IndicatorRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageErr("чтение показателей", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := make([]types.StoredRecord, len(m.rows))
	copy(rows, m.rows)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})

	out := make([]types.IndicatorRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, types.IndicatorRow{
			Hemoglobin: r.Hemoglobin,
			WBC:        r.WBC,
			Platelets:  r.Platelets,
			RBC:        r.RBC,
			Date:       r.Date,
		})
	}
	return out, nil
}

func (m *MemoryStore) LatestDate(ctx context.Context) (*time.Time, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageErr("чтение последней даты", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var latest *time.Time
	for i := range m.rows {
		d := m.rows[i].Date
		if latest == nil || d.After(*latest) {
			latest = &d
		}
	}
	return latest, nil
}

// Len количество сохраненных записей
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}
