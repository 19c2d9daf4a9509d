package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"

	"labscan/internal/acquire"
	"labscan/internal/config"
	"labscan/internal/extractor"
	"labscan/internal/logger"
	"labscan/internal/ocr"
	"labscan/internal/types"
)

// ocr_runner распознает изображения и печатает текст и найденные показатели
// без записи в БД
func main() {
	fs := pflag.NewFlagSet("ocr_runner", pflag.ExitOnError)
	config.RegisterFlags(fs)
	debugMode := fs.Bool("debug", false, "печатать команду и отладочные сообщения разбора")
	_ = fs.Parse(os.Args[1:])

	if fs.NArg() == 0 {
		log.Fatalf("Пожалуйста, укажите один или несколько путей к изображениям. Пример: go run ./cmd/ocr_runner ./scans/report1.jpg ./scans/")
	}

	c, err := config.InitConfig(fs)
	if err != nil {
		log.Fatalf("Ошибка конфигурации: %v", err)
	}

	loggerManager := logger.NewWriterLogger(os.Stderr)
	if *debugMode {
		loggerManager.SetLevel(logger.DEBUG)
		fmt.Println("Debug mode enabled")
	} else {
		loggerManager.SetLevel(logger.WARN)
	}

	images, err := acquire.Collect(fs.Args())
	if errors.Is(err, acquire.ErrNoImages) {
		log.Fatalf("Изображения не найдены: %v", fs.Args())
	}
	if err != nil {
		log.Fatalf("Ошибка чтения путей: %v", err)
	}

	ocrManager := ocr.NewOCRManager(c.OCR, ocr.ExecRunner{})
	fieldExtractor := extractor.New(
		extractor.WithStrictDates(c.Extractor.StrictDates),
		extractor.WithLogger(loggerManager),
	)

	fmt.Printf("Запускаю OCR для %d файлов...\n", len(images))

	ctx := context.Background()
	for _, img := range images {
		fmt.Printf("\n--- Обработка файла: %s ---\n", img.Name)

		text, err := ocrManager.Recognize(ctx, img)
		if err != nil {
			log.Printf("Ошибка при выполнении OCR: %v", err)
			continue
		}

		fmt.Printf("Результат:\n%s\n", text)
		printRecord(fieldExtractor.Extract(text))
	}

	fmt.Println("\nОбработка завершена.")
}

func printRecord(r types.PartialRecord) {
	fmt.Println("Найденные показатели:")
	fmt.Printf("  Гемоглобин: %s\n", show(r.Hemoglobin))
	fmt.Printf("  Лейкоциты:  %s\n", show(r.WBC))
	fmt.Printf("  Тромбоциты: %s\n", show(r.Platelets))
	fmt.Printf("  Эритроциты: %s\n", show(r.RBC))
	if date := r.FormattedDate(); date != "" {
		fmt.Printf("  Дата:       %s\n", date)
	} else {
		fmt.Println("  Дата:       не найдена")
	}
}

func show(v *float64) string {
	if v == nil {
		return "не найдено"
	}
	return fmt.Sprintf("%g", *v)
}
