package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"labscan/internal/types"
)

// SQLStore хранилище поверх MySQL или PostgreSQL
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	version int
}

// NewSQLStore создает хранилище. version: активная версия схемы,
// определяет, какие столбцы пишутся и читаются.
func NewSQLStore(db *sql.DB, dialect Dialect, version int) *SQLStore {
	return &SQLStore{db: db, dialect: dialect, version: version}
}

func (s *SQLStore) SchemaVersion() int {
	return s.version
}

// Ping проверяет подключение к БД
func (s *SQLStore) Ping(ctx context.Context) error {
	return storageErr("ping", s.db.PingContext(ctx))
}

// Append берет отдельное соединение, выполняет один INSERT и коммитит.
// Соединение возвращается в пул на любом пути выхода.
func (s *SQLStore) Append(ctx context.Context, r types.PartialRecord) (stored types.StoredRecord, err error) {
	r = projectToSchema(r, s.version)

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return types.StoredRecord{}, storageErr("подключение", err)
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return types.StoredRecord{}, storageErr("начало транзакции", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query, args := s.dialect.insertStatement(s.version,
		nullFloat(r.Hemoglobin), nullFloat(r.WBC), nullFloat(r.Platelets), nullFloat(r.RBC),
		r.FormattedDate())

	var (
		id   int64
		date time.Time
	)
	if s.dialect.returning {
		if err = tx.QueryRowContext(ctx, query, args...).Scan(&id, &date); err != nil {
			return types.StoredRecord{}, storageErr("вставка записи", err)
		}
	} else {
		var res sql.Result
		res, err = tx.ExecContext(ctx, query, args...)
		if err != nil {
			return types.StoredRecord{}, storageErr("вставка записи", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return types.StoredRecord{}, storageErr("получение ID записи", err)
		}
		if err = tx.QueryRowContext(ctx, s.dialect.selectDate, id).Scan(&date); err != nil {
			return types.StoredRecord{}, storageErr("чтение даты записи", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return types.StoredRecord{}, storageErr("подтверждение транзакции", err)
	}

	return types.StoredRecord{
		ID:            id,
		PartialRecord: r,
		Date:          types.CalendarDate(date),
	}, nil
}

// FetchAllIndicators читает все строки с непустой датой по возрастанию даты
func (s *SQLStore) FetchAllIndicators(ctx context.Context) ([]types.IndicatorRow, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.selectStatement(s.version))
	if err != nil {
		return nil, storageErr("чтение показателей", err)
	}
	defer rows.Close()

	var out []types.IndicatorRow
	for rows.Next() {
		var (
			hgb, wbc, plt, rbc sql.NullFloat64
			date               time.Time
		)
		if err := rows.Scan(&hgb, &wbc, &plt, &rbc, &date); err != nil {
			return nil, storageErr("чтение показателей", err)
		}
		out = append(out, types.IndicatorRow{
			Hemoglobin: floatPtr(hgb),
			WBC:        floatPtr(wbc),
			Platelets:  floatPtr(plt),
			RBC:        floatPtr(rbc),
			Date:       types.CalendarDate(date),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("чтение показателей", err)
	}
	return out, nil
}

// LatestDate дата последнего анализа
func (s *SQLStore) LatestDate(ctx context.Context) (*time.Time, error) {
	var latest sql.NullTime
	if err := s.db.QueryRowContext(ctx, s.dialect.latestDate).Scan(&latest); err != nil {
		return nil, storageErr("чтение последней даты", err)
	}
	if !latest.Valid {
		return nil, nil
	}
	d := types.CalendarDate(latest.Time)
	return &d, nil
}

func (s *SQLStore) String() string {
	return fmt.Sprintf("%s (схема v%d)", s.dialect.Name, s.version)
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
