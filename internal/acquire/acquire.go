package acquire

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"labscan/internal/types"
)

// ErrNoImages пользователь не выбрал ни одного изображения
var ErrNoImages = errors.New("изображения не выбраны")

// Extensions поддерживаемые форматы изображений
var Extensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".tiff", ".tif"}

// IsImage проверяет расширение файла без учета регистра
func IsImage(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Collect превращает пути из командной строки в упорядоченный список изображений.
// Файлы берутся в том порядке, в котором переданы; содержимое каталога
// сортируется по имени. Несуществующий путь не прерывает сбор, а попадает в
// список: ошибка чтения проявится при распознавании этого изображения.
func Collect(paths []string) ([]types.Image, error) {
	var images []types.Image
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			if err == nil && !IsImage(p) {
				continue
			}
			images = append(images, newImage(p))
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения каталога %s: %w", p, err)
		}
		var names []string
		for _, entry := range entries {
			if entry.IsDir() || !IsImage(entry.Name()) {
				continue
			}
			names = append(names, entry.Name())
		}
		sort.Strings(names)
		for _, name := range names {
			images = append(images, newImage(filepath.Join(p, name)))
		}
	}

	if len(images) == 0 {
		return nil, ErrNoImages
	}
	return images, nil
}

func newImage(path string) types.Image {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return types.Image{Name: filepath.Base(path), Path: abs}
}
