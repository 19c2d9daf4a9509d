package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"

	"labscan/internal/config"
	"labscan/internal/database"
	"labscan/internal/logger"
)

// db_init создает таблицу general_blood_test и применяет миграции до версии
// из конфигурации. Существующие данные не удаляются.
func main() {
	fs := pflag.NewFlagSet("db_init", pflag.ExitOnError)
	config.RegisterFlags(fs)
	fs.Int("storage.schema_version", 0, "целевая версия схемы (1 или 2)")
	_ = fs.Parse(os.Args[1:])

	c, err := config.InitConfig(fs)
	if err != nil {
		log.Fatalf("Ошибка конфигурации: %v", err)
	}
	if c.Storage.Driver == config.DriverMemory {
		log.Fatalf("Хранилище memory не требует инициализации")
	}

	loggerManager := logger.NewWriterLogger(os.Stdout)
	loggerManager.SetLevel(logger.ParseLevel(c.LogLevel))

	store, closeStore, err := database.Open(context.Background(), c.Storage, loggerManager)
	if err != nil {
		log.Fatalf("Ошибка инициализации базы: %v", err)
	}
	defer closeStore()

	fmt.Printf("Инициализация базы завершена! Хранилище: %v, версия схемы для записи: %d\n", store, store.SchemaVersion())
}
