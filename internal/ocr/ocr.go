package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"labscan/internal/config"
	"labscan/internal/imageutils"
	"labscan/internal/types"
)

// Recognizer распознает текст одного изображения
type Recognizer interface {
	Recognize(ctx context.Context, img types.Image) (string, error)
}

// RecognitionError ошибка распознавания конкретного изображения
type RecognitionError struct {
	Image string
	Err   error
}

func (e *RecognitionError) Error() string {
	return fmt.Sprintf("ошибка распознавания %s: %v", e.Image, e.Err)
}

func (e *RecognitionError) Unwrap() error {
	return e.Err
}

// Runner запускает внешнюю программу OCR
type Runner interface {
	Run(ctx context.Context, stdin io.Reader, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner запускает программу через os/exec
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, stdin io.Reader, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// OCRManager выбирает движок по конфигурации и ограничивает время работы
type OCRManager struct {
	cfg    config.OCR
	runner Runner
}

// NewOCRManager создает менеджер OCR. runner == nil означает ExecRunner.
func NewOCRManager(cfg config.OCR, runner Runner) *OCRManager {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &OCRManager{cfg: cfg, runner: runner}
}

// Recognize запускает движок для изображения и возвращает распознанный текст
func (m *OCRManager) Recognize(ctx context.Context, img types.Image) (string, error) {
	if m.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.Timeout)
		defer cancel()
	}

	var (
		text string
		err  error
	)
	switch m.cfg.Engine {
	case config.EngineJSON:
		text, err = m.runJSONEngine(ctx, img.Path)
	default:
		text, err = m.runTesseract(ctx, img.Path)
	}
	if err != nil {
		return "", &RecognitionError{Image: img.Name, Err: err}
	}
	return text, nil
}

// runTesseract передает байты изображения через stdin:
// tesseract stdin stdout -l rus+eng [--psm N]
func (m *OCRManager) runTesseract(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("не удалось прочитать файл: %w", err)
	}
	if len(data) == 0 {
		return "", errors.New("пустой файл изображения")
	}
	if m.cfg.Preprocess {
		prepared, ok, err := imageutils.Prepare(data)
		if err != nil {
			return "", fmt.Errorf("ошибка подготовки изображения: %w", err)
		}
		if ok {
			data = prepared
		}
	}

	args := []string{"stdin", "stdout", "-l", m.cfg.Languages}
	if m.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(m.cfg.PSM))
	}

	out, errb, err := m.runner.Run(ctx, bytes.NewReader(data), m.cfg.Executable, args...)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("tesseract не уложился в %s: %w", m.cfg.Timeout, ctx.Err())
		}
		return "", fmt.Errorf("ошибка при выполнении tesseract: %w, вывод: %s", err, strings.TrimSpace(string(errb)))
	}
	return string(out), nil
}

// runJSONEngine запускает внешний движок, который печатает отладку и JSON с raw_text
func (m *OCRManager) runJSONEngine(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("не удалось открыть файл: %w", err)
	}

	out, errb, err := m.runner.Run(ctx, nil, m.cfg.Executable, path)
	if err != nil {
		return "", fmt.Errorf("ошибка при выполнении OCR: %w, вывод: %s", err, strings.TrimSpace(string(errb)))
	}

	res := ParseOCRResult(string(out))
	if res.JSONData == "" {
		return "", errors.New("движок OCR не вернул JSON")
	}
	if res.Err != nil {
		return "", res.Err
	}
	if !res.Success {
		return "", errors.New("движок OCR сообщил о неудаче распознавания")
	}
	return res.RawText, nil
}

