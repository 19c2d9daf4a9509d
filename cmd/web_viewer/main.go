package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"

	"labscan/internal/config"
	"labscan/internal/database"
	"labscan/internal/logger"
	"labscan/internal/render"
)

func main() {
	fs := pflag.NewFlagSet("web_viewer", pflag.ExitOnError)
	config.RegisterFlags(fs)
	fs.String("web.port", "", "порт веб-интерфейса")
	_ = fs.Parse(os.Args[1:])

	c, err := config.InitConfig(fs)
	if err != nil {
		log.Fatalf("Ошибка конфигурации: %v", err)
	}

	loggerManager, err := logger.NewLoggerManager(c.LogFilePath)
	if err != nil {
		log.Fatal("Error initializing logger: ", err)
	}
	defer loggerManager.Close()
	loggerManager.SetLevel(logger.ParseLevel(c.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := database.Open(ctx, c.Storage, loggerManager)
	if err != nil {
		loggerManager.LogError(err, "Ошибка подключения к базе данных")
		os.Exit(1)
	}
	defer closeStore()

	renderer, err := render.New()
	if err != nil {
		loggerManager.LogError(err, "Ошибка загрузки шаблонов")
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := &server{
		store:    store,
		renderer: renderer,
		gatherer: reg,
		logger:   loggerManager,
		now:      time.Now,
	}

	httpServer := &http.Server{
		Addr:              c.Web.Addr(),
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	loggerManager.Info("🌐 Запускаем сервер на %s", c.Web.Addr())
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		loggerManager.LogError(err, "Ошибка запуска сервера")
		os.Exit(1)
	}
	loggerManager.Info("👋 Сервер остановлен")
}
