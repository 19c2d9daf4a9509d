package database

import (
	"context"
	"database/sql"
	"fmt"

	"labscan/internal/logger"
)

const bloodTestTable = "general_blood_test"

type migration struct {
	version int
	name    string
	apply   func(ctx context.Context, db *sql.DB, d Dialect) error
}

var migrations = []migration{
	{version: SchemaV1, name: "создание general_blood_test", apply: migrateV1},
	{version: SchemaV2, name: "столбцы wbc, plt, rbc", apply: migrateV2},
}

func migrateV1(ctx context.Context, db *sql.DB, d Dialect) error {
	_, err := db.ExecContext(ctx, d.createV1)
	return err
}

// migrateV2 добавляет только отсутствующие столбцы: таблица могла быть
// создана более поздним вариантом скрипта без учета миграций
func migrateV2(ctx context.Context, db *sql.DB, d Dialect) error {
	for _, col := range v2Columns {
		var n int
		if err := db.QueryRowContext(ctx, d.columnExists, bloodTestTable, col).Scan(&n); err != nil {
			return fmt.Errorf("проверка столбца %s: %w", col, err)
		}
		if n > 0 {
			continue
		}
		if _, err := db.ExecContext(ctx, d.addColumn[col]); err != nil {
			return fmt.Errorf("добавление столбца %s: %w", col, err)
		}
	}
	return nil
}

// Migrate применяет недостающие миграции до target один раз при старте.
// Таблицу никогда не удаляет: существующая general_blood_test без записи в
// schema_migrations считается версией 1 и дополняется до target.
// Возвращает версию схемы в БД после миграции.
func Migrate(ctx context.Context, db *sql.DB, d Dialect, target int, log *logger.LoggerManager) (int, error) {
	if target < SchemaV1 || target > LatestSchemaVersion {
		return 0, fmt.Errorf("неподдерживаемая версия схемы %d", target)
	}
	if log == nil {
		log = logger.Discard()
	}

	if _, err := db.ExecContext(ctx, d.createMigrations); err != nil {
		return 0, storageErr("создание schema_migrations", err)
	}

	current, err := currentVersion(ctx, db, d)
	if err != nil {
		return 0, err
	}

	if current == 0 {
		var n int
		if err := db.QueryRowContext(ctx, d.tableExists, bloodTestTable).Scan(&n); err != nil {
			return 0, storageErr("проверка таблицы", err)
		}
		if n > 0 {
			log.Warn("⚠️ Найдена таблица %s без истории миграций, принимаем её как версию %d", bloodTestTable, SchemaV1)
			if _, err := db.ExecContext(ctx, d.insertVersion, SchemaV1); err != nil {
				return 0, storageErr("запись версии 1", err)
			}
			current = SchemaV1
		}
	}

	for _, m := range migrations {
		if m.version <= current || m.version > target {
			continue
		}
		log.Info("🔧 Применяем миграцию %d: %s", m.version, m.name)
		if err := m.apply(ctx, db, d); err != nil {
			return current, storageErr(fmt.Sprintf("миграция %d", m.version), err)
		}
		if _, err := db.ExecContext(ctx, d.insertVersion, m.version); err != nil {
			return current, storageErr(fmt.Sprintf("запись версии %d", m.version), err)
		}
		current = m.version
	}

	if current > target {
		log.Info("ℹ️ Схема БД версии %d, запись ведется по версии %d", current, target)
	}
	return current, nil
}

func currentVersion(ctx context.Context, db *sql.DB, d Dialect) (int, error) {
	rows, err := db.QueryContext(ctx, d.selectVersions)
	if err != nil {
		return 0, storageErr("чтение schema_migrations", err)
	}
	defer rows.Close()

	current := 0
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return 0, storageErr("чтение schema_migrations", err)
		}
		if v > current {
			current = v
		}
	}
	if err := rows.Err(); err != nil {
		return 0, storageErr("чтение schema_migrations", err)
	}
	return current, nil
}
