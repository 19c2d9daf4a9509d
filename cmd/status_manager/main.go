package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/pflag"

	"labscan/internal/config"
	"labscan/internal/database"
	"labscan/internal/logger"
	"labscan/internal/reminder"
	"labscan/internal/types"
)

func usage() {
	fmt.Println("Использование: status_manager [флаги] <команда>")
	fmt.Println("Команды:")
	fmt.Println("  show - показать дату последнего анализа и напоминание")
	fmt.Println("  list - показать все сохраненные анализы")
}

func main() {
	fs := pflag.NewFlagSet("status_manager", pflag.ExitOnError)
	config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	if fs.NArg() < 1 {
		usage()
		return
	}

	c, err := config.InitConfig(fs)
	if err != nil {
		log.Fatalf("Ошибка конфигурации: %v", err)
	}

	loggerManager := logger.NewWriterLogger(os.Stderr)
	loggerManager.SetLevel(logger.WARN)

	ctx := context.Background()
	store, closeStore, err := database.Open(ctx, c.Storage, loggerManager)
	if err != nil {
		log.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	defer closeStore()

	switch command := fs.Arg(0); command {
	case "show":
		err = showStatus(ctx, os.Stdout, store, time.Now())
	case "list":
		err = listIndicators(ctx, os.Stdout, store)
	default:
		fmt.Printf("Неизвестная команда: %s\n", command)
		usage()
		return
	}
	if err != nil {
		log.Fatalf("Ошибка получения данных: %v", err)
	}
}

func showStatus(ctx context.Context, w io.Writer, store database.Store, now time.Time) error {
	status, err := reminder.Check(ctx, store, now)
	if err != nil {
		return err
	}
	if status.Latest != nil {
		fmt.Fprintf(w, "Последний анализ: %s\n", status.Latest.Format(types.DateLayout))
	}
	if status.Due {
		fmt.Fprintf(w, "🔔 %s\n", status.Message())
	} else {
		fmt.Fprintln(w, status.Message())
	}
	return nil
}

func listIndicators(ctx context.Context, w io.Writer, store database.Store) error {
	rows, err := store.FetchAllIndicators(ctx)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, "Записей пока нет")
		return nil
	}
	fmt.Fprintf(w, "%-10s  %10s  %10s  %10s  %10s\n", "Дата", "HGB", "WBC", "PLT", "RBC")
	for _, r := range rows {
		fmt.Fprintf(w, "%-10s  %10s  %10s  %10s  %10s\n",
			r.Date.Format(types.DateLayout), cell(r.Hemoglobin), cell(r.WBC), cell(r.Platelets), cell(r.RBC))
	}
	return nil
}

func cell(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *v)
}
