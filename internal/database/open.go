package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"

	"labscan/internal/config"
	"labscan/internal/logger"
)

// driverNames имена драйверов database/sql
var driverNames = map[string]string{
	config.DriverMySQL:    "mysql",
	config.DriverPostgres: "pgx",
}

// Open подключается к хранилищу из конфигурации, применяет миграции и
// возвращает готовое хранилище. Для memory база не открывается.
func Open(ctx context.Context, cfg config.Storage, log *logger.LoggerManager) (Store, func() error, error) {
	if log == nil {
		log = logger.Discard()
	}
	if cfg.Driver == config.DriverMemory {
		log.Info("ℹ️ Используется хранилище в памяти, данные не сохраняются между запусками")
		return NewMemoryStore(cfg.SchemaVersion, nil), func() error { return nil }, nil
	}

	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, nil, err
	}

	db, err := sql.Open(driverNames[cfg.Driver], cfg.DatabaseDSN())
	if err != nil {
		return nil, nil, storageErr("подключение", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, storageErr("ping", err)
	}
	log.Info("✅ Успешное подключение к базе данных (%s)", cfg.Driver)

	dbVersion, err := Migrate(ctx, db, dialect, cfg.SchemaVersion, log)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ошибка миграции: %w", err)
	}
	log.Info("✅ Схема БД версии %d", dbVersion)

	return NewSQLStore(db, dialect, cfg.SchemaVersion), db.Close, nil
}
