package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LogLevel представляет уровень логирования
type LogLevel string

const (
	DEBUG LogLevel = "DEBUG"
	INFO  LogLevel = "INFO"
	WARN  LogLevel = "WARN"
	ERROR LogLevel = "ERROR"
)

var levelRank = map[LogLevel]int{DEBUG: 0, INFO: 1, WARN: 2, ERROR: 3}

// ParseLevel разбирает уровень из конфигурации, по умолчанию INFO
func ParseLevel(s string) LogLevel {
	l := LogLevel(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := levelRank[l]; ok {
		return l
	}
	return INFO
}

// LoggerManager управляет логированием в файл и в консоль
type LoggerManager struct {
	mu       *sync.Mutex
	file     *os.File
	logger   *log.Logger
	console  io.Writer
	minLevel LogLevel
	fields   string
}

// NewLoggerManager создает новый экземпляр LoggerManager
func NewLoggerManager(logFilePath string) (*LoggerManager, error) {
	// Создаем директорию для логов, если её нет
	logDir := filepath.Dir(logFilePath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания директории для логов: %w", err)
	}

	file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла логов: %w", err)
	}

	return &LoggerManager{
		mu:       &sync.Mutex{},
		file:     file,
		logger:   log.New(file, "", 0),
		console:  os.Stdout,
		minLevel: INFO,
	}, nil
}

// NewWriterLogger пишет только в указанный writer, без файла (ocr_runner, тесты)
func NewWriterLogger(w io.Writer) *LoggerManager {
	return &LoggerManager{
		mu:       &sync.Mutex{},
		logger:   log.New(io.Discard, "", 0),
		console:  w,
		minLevel: INFO,
	}
}

// Discard логгер, который ничего не пишет
func Discard() *LoggerManager {
	return NewWriterLogger(io.Discard)
}

// SetLevel задает минимальный уровень сообщений
func (l *LoggerManager) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.minLevel = level
}

// With возвращает логгер с постоянным префиксом key=value для каждой строки
func (l *LoggerManager) With(key string, value interface{}) *LoggerManager {
	l.mu.Lock()
	defer l.mu.Unlock()
	fields := fmt.Sprintf("%s=%v", key, value)
	if l.fields != "" {
		fields = l.fields + " " + fields
	}
	return &LoggerManager{
		mu:       l.mu,
		file:     l.file,
		logger:   l.logger,
		console:  l.console,
		minLevel: l.minLevel,
		fields:   fields,
	}
}

// Close закрывает файл логов
func (l *LoggerManager) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// logWithLevel записывает сообщение с указанным уровнем
func (l *LoggerManager) logWithLevel(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if levelRank[level] < levelRank[l.minLevel] {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)
	logEntry := fmt.Sprintf("[%s] %s: %s", timestamp, level, message)
	if l.fields != "" {
		logEntry += " " + l.fields
	}

	l.logger.Println(logEntry)

	// Также выводим в консоль для удобства отладки
	fmt.Fprintln(l.console, logEntry)
}

// Debug записывает отладочное сообщение
func (l *LoggerManager) Debug(format string, args ...interface{}) {
	l.logWithLevel(DEBUG, format, args...)
}

// Info записывает информационное сообщение
func (l *LoggerManager) Info(format string, args ...interface{}) {
	l.logWithLevel(INFO, format, args...)
}

// Warn записывает предупреждение
func (l *LoggerManager) Warn(format string, args ...interface{}) {
	l.logWithLevel(WARN, format, args...)
}

// Error записывает сообщение об ошибке
func (l *LoggerManager) Error(format string, args ...interface{}) {
	l.logWithLevel(ERROR, format, args...)
}

// LogError записывает ошибку с дополнительной информацией
func (l *LoggerManager) LogError(err error, context string) {
	if err != nil {
		l.Error("%s: %v", context, err)
	}
}
