package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"labscan/internal/acquire"
	"labscan/internal/config"
	"labscan/internal/database"
	"labscan/internal/extractor"
	"labscan/internal/logger"
	"labscan/internal/metrics"
	"labscan/internal/ocr"
	"labscan/internal/reminder"
	processReports "labscan/internal/scripts/process_reports"
)

func main() {
	os.Exit(run())
}

func run() int {
	fs := pflag.NewFlagSet("labscan", pflag.ExitOnError)
	config.RegisterFlags(fs)
	dryRun := fs.Bool("dry-run", false, "не писать в БД, использовать хранилище в памяти")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Использование: labscan [флаги] <файл или папка>...")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	// init конфигурации
	c, err := config.InitConfig(fs)
	if err != nil {
		log.Printf("Ошибка конфигурации: %v", err)
		return 2
	}
	if *dryRun {
		c.Storage.Driver = config.DriverMemory
	}

	// Инициализация логгера
	loggerManager, err := logger.NewLoggerManager(c.LogFilePath)
	if err != nil {
		log.Print("Error initializing logger: ", err)
		return 1
	}
	defer loggerManager.Close()
	loggerManager.SetLevel(logger.ParseLevel(c.LogLevel))

	loggerManager.Info("🚀 Запуск labscan")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	images, err := acquire.Collect(fs.Args())
	if err != nil {
		if !errors.Is(err, acquire.ErrNoImages) {
			loggerManager.LogError(err, "Ошибка чтения путей")
			return 1
		}
		loggerManager.Warn("⚠️ Изображения не найдены в %v", fs.Args())
	}

	store, closeStore, err := database.Open(ctx, c.Storage, loggerManager)
	if err != nil {
		loggerManager.LogError(err, "Error connecting to database")
		return 1
	}
	defer closeStore()

	// Инициализация всех менеджеров
	dbManager := database.NewDatabaseManager(store, loggerManager)
	ocrManager := ocr.NewOCRManager(c.OCR, ocr.ExecRunner{})
	fieldExtractor := extractor.New(
		extractor.WithStrictDates(c.Extractor.StrictDates),
		extractor.WithLogger(loggerManager),
	)

	processor, err := processReports.New(ocrManager, fieldExtractor, dbManager,
		processReports.WithLogger(loggerManager),
		processReports.WithMetrics(metrics.New(nil)),
		processReports.WithStopOnStorageError(c.Pipeline.StopOnStorageError),
	)
	if err != nil {
		loggerManager.LogError(err, "Ошибка инициализации конвейера")
		return 1
	}

	summary := processor.Run(ctx, images)

	if _, err := reminder.CheckAndNotify(ctx, store, time.Now(), reminder.LogNotifier{Logger: loggerManager}); err != nil {
		loggerManager.LogError(err, "Ошибка проверки напоминания")
	}

	if summary.Failed() {
		return 1
	}
	return 0
}
