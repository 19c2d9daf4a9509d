// Package process_reports проводит выбранные изображения через OCR, разбор
// показателей и сохранение. Изображения обрабатываются строго по очереди.
package process_reports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"labscan/internal/logger"
	"labscan/internal/metrics"
	"labscan/internal/ocr"
	"labscan/internal/types"
)

// Recognizer распознает текст изображения
type Recognizer interface {
	Recognize(ctx context.Context, img types.Image) (string, error)
}

// Extractor разбирает текст в запись
type Extractor interface {
	Extract(text string) types.PartialRecord
}

// Admitter решает, сохранять ли запись, и сохраняет её
type Admitter interface {
	AdmitAndStore(ctx context.Context, r types.PartialRecord) (bool, error)
}

// ImageResult итог обработки одного изображения
type ImageResult struct {
	Image  types.Image
	Text   string
	Record types.PartialRecord
	Stored bool
	Err    error
}

// Summary итог обработки всей пачки
type Summary struct {
	BatchID             string
	Processed           int
	Stored              int
	Skipped             int
	RecognitionFailures int
	StorageErrors       []error
	Results             []ImageResult
	// Stopped true, если обработка остановлена после ошибки хранилища
	Stopped bool
}

// Failed true, если хотя бы одна запись не сохранилась из-за хранилища
func (s Summary) Failed() bool {
	return len(s.StorageErrors) > 0
}

// Processor последовательный конвейер обработки бланков
type Processor struct {
	recognizer Recognizer
	extractor  Extractor
	admitter   Admitter
	logger     *logger.LoggerManager
	metrics    *metrics.Metrics

	stopOnStorageError bool
}

type Option func(*Processor)

func WithLogger(l *logger.LoggerManager) Option {
	return func(p *Processor) {
		p.logger = l
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Processor) {
		p.metrics = m
	}
}

// WithStopOnStorageError прекращает обработку оставшихся изображений после
// первой ошибки хранилища. Уже сохраненные записи не затрагиваются.
func WithStopOnStorageError(stop bool) Option {
	return func(p *Processor) {
		p.stopOnStorageError = stop
	}
}

// New создает конвейер
func New(recognizer Recognizer, extractor Extractor, admitter Admitter, opts ...Option) (*Processor, error) {
	if recognizer == nil {
		return nil, errors.New("recognizer is required")
	}
	if extractor == nil {
		return nil, errors.New("extractor is required")
	}
	if admitter == nil {
		return nil, errors.New("admitter is required")
	}
	p := &Processor{
		recognizer: recognizer,
		extractor:  extractor,
		admitter:   admitter,
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run обрабатывает изображения в переданном порядке. Ошибка одного
// изображения не прерывает обработку следующих.
func (p *Processor) Run(ctx context.Context, images []types.Image) Summary {
	summary := Summary{BatchID: uuid.NewString()}
	log := p.logger.With("batch", summary.BatchID)

	log.Info("🚀 Запускаю обработку %d изображений", len(images))

	for i, img := range images {
		res := p.processImage(ctx, log, img)
		summary.Results = append(summary.Results, res)
		summary.Processed++

		var recErr *ocr.RecognitionError
		switch {
		case res.Stored:
			summary.Stored++
		case res.Err != nil && errors.As(res.Err, &recErr):
			summary.RecognitionFailures++
			summary.Skipped++
		case res.Err != nil:
			summary.StorageErrors = append(summary.StorageErrors, res.Err)
		default:
			summary.Skipped++
		}

		if res.Err != nil && !errors.As(res.Err, &recErr) && p.stopOnStorageError {
			summary.Stopped = true
			log.Error("⛔ Обработка остановлена после ошибки хранилища, осталось %d изображений", len(images)-i-1)
			break
		}
	}

	log.Info("✅ Обработка завершена: всего %d, сохранено %d, пропущено %d, ошибок OCR %d, ошибок БД %d",
		summary.Processed, summary.Stored, summary.Skipped, summary.RecognitionFailures, len(summary.StorageErrors))
	return summary
}

func (p *Processor) processImage(ctx context.Context, log *logger.LoggerManager, img types.Image) ImageResult {
	res := ImageResult{Image: img}
	p.inc(func(m *metrics.Metrics) { m.ImagesProcessed.Inc() })

	log.Info("--- Обработка файла: %s ---", img.Name)

	text, err := p.recognizer.Recognize(ctx, img)
	if err != nil {
		var recErr *ocr.RecognitionError
		if !errors.As(err, &recErr) {
			err = &ocr.RecognitionError{Image: img.Name, Err: err}
		}
		log.LogError(err, "Ошибка при обработке изображения")
		p.inc(func(m *metrics.Metrics) { m.RecognitionFailures.Inc() })
		res.Err = err
		text = ""
	}
	res.Text = text
	log.Debug("Распознанный текст с изображения %s:\n%s", img.Name, text)

	res.Record = p.extractor.Extract(text)

	stored, err := p.admitter.AdmitAndStore(ctx, res.Record)
	if err != nil {
		log.LogError(err, "❌ Ошибка сохранения в БД для "+img.Name)
		p.inc(func(m *metrics.Metrics) { m.StorageErrors.Inc() })
		res.Err = err
		return res
	}
	res.Stored = stored
	if stored {
		p.inc(func(m *metrics.Metrics) { m.RecordsStored.Inc() })
	} else {
		log.Info("⚠️ В %s не найдено показателей, запись пропущена", img.Name)
		p.inc(func(m *metrics.Metrics) { m.RecordsSkipped.Inc() })
	}
	return res
}

func (p *Processor) inc(f func(m *metrics.Metrics)) {
	if p.metrics != nil {
		f(p.metrics)
	}
}
