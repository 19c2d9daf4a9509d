package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"labscan/internal/database"
	"labscan/internal/logger"
	"labscan/internal/reminder"
	"labscan/internal/render"
	"labscan/internal/types"
)

// pinger отвечает, доступна ли БД. MemoryStore его не реализует.
type pinger interface {
	Ping(ctx context.Context) error
}

type server struct {
	store    database.Store
	renderer *render.Renderer
	gatherer prometheus.Gatherer
	logger   *logger.LoggerManager
	now      func() time.Time
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleIndex)
	r.Get("/api/indicators", s.handleIndicators)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return r
}

// handleIndex перечитывает хранилище на каждый запрос
func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rows, err := s.store.FetchAllIndicators(ctx)
	if err != nil {
		s.logger.LogError(err, "Ошибка чтения анализов")
		http.Error(w, "Ошибка чтения данных", http.StatusInternalServerError)
		return
	}
	now := s.now()
	status, err := reminder.Check(ctx, s.store, now)
	if err != nil {
		s.logger.LogError(err, "Ошибка проверки напоминания")
		http.Error(w, "Ошибка чтения данных", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.Render(w, render.Page{Rows: rows, Reminder: status, GeneratedAt: now}); err != nil {
		s.logger.LogError(err, "Ошибка рендера")
	}
}

func (s *server) handleIndicators(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.FetchAllIndicators(r.Context())
	if err != nil {
		s.logger.LogError(err, "Ошибка чтения анализов")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "storage unavailable"})
		return
	}
	out := make([]indicatorRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, newIndicatorRow(row))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.store.(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// indicatorRow ответ /api/indicators, дата в формате YYYY-MM-DD
type indicatorRow struct {
	Date       string   `json:"date"`
	Hemoglobin *float64 `json:"hemoglobin"`
	WBC        *float64 `json:"wbc"`
	Platelets  *float64 `json:"plt"`
	RBC        *float64 `json:"rbc"`
}

func newIndicatorRow(r types.IndicatorRow) indicatorRow {
	return indicatorRow{
		Date:       r.Date.Format(types.DateLayout),
		Hemoglobin: r.Hemoglobin,
		WBC:        r.WBC,
		Platelets:  r.Platelets,
		RBC:        r.RBC,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
