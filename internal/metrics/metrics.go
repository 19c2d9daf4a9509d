package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics счетчики обработки бланков
type Metrics struct {
	ImagesProcessed     prometheus.Counter
	RecognitionFailures prometheus.Counter
	RecordsStored       prometheus.Counter
	RecordsSkipped      prometheus.Counter
	StorageErrors       prometheus.Counter
}

// New регистрирует счетчики в reg. nil означает prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		ImagesProcessed: f.NewCounter(prometheus.CounterOpts{
			Name: "labscan_images_processed_total",
			Help: "Total number of report images passed through the pipeline",
		}),
		RecognitionFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "labscan_recognition_failures_total",
			Help: "Total number of images the OCR engine failed on",
		}),
		RecordsStored: f.NewCounter(prometheus.CounterOpts{
			Name: "labscan_records_stored_total",
			Help: "Total number of blood test records appended to the store",
		}),
		RecordsSkipped: f.NewCounter(prometheus.CounterOpts{
			Name: "labscan_records_skipped_total",
			Help: "Total number of extracted records that failed admission",
		}),
		StorageErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "labscan_storage_errors_total",
			Help: "Total number of failed appends",
		}),
	}
}
