package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARN, ParseLevel(" Warn "))
	assert.Equal(t, INFO, ParseLevel(""))
	assert.Equal(t, INFO, ParseLevel("verbose"))
}

func TestMinLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf)
	l.SetLevel(WARN)

	l.Info("скрыто")
	l.Warn("видно %d", 1)

	assert.NotContains(t, buf.String(), "скрыто")
	assert.Contains(t, buf.String(), "WARN: видно 1")
}

func TestWithAppendsFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf).With("batch", "b-1").With("image", "a.png")

	l.Info("готово")

	assert.Contains(t, buf.String(), "INFO: готово batch=b-1 image=a.png")
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf)

	l.LogError(nil, "ничего")
	assert.Empty(t, buf.String())

	l.LogError(errors.New("boom"), "Ошибка подключения")
	assert.Contains(t, buf.String(), "ERROR: Ошибка подключения: boom")
}

func TestFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "labscan.log")
	l, err := NewLoggerManager(path)
	require.NoError(t, err)
	l.console = &bytes.Buffer{}

	l.Info("в файл")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "INFO: в файл")
}
