// Package imageutils подготавливает скан бланка перед распознаванием:
// обрезает прозрачные поля и переводит изображение в оттенки серого.
package imageutils

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	"image/png"
)

// Prepare декодирует PNG или JPEG, обрезает прозрачные поля и возвращает
// PNG в оттенках серого. ok=false означает, что формат не поддерживается и
// нужно использовать исходные байты.
func Prepare(data []byte) (out []byte, ok bool, err error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, nil
	}

	cropped, err := CropOpacityPixel(img)
	if err != nil {
		return nil, false, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, Grayscale(cropped)); err != nil {
		return nil, false, fmt.Errorf("ошибка кодирования PNG: %w", err)
	}
	return buf.Bytes(), true, nil
}

// CropOpacityPixel обрезает изображение по непрозрачным пикселям со всех сторон
func CropOpacityPixel(img image.Image) (image.Image, error) {
	b := img.Bounds()
	minX, minY, maxX, maxY := b.Max.X, b.Max.Y, b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, alpha := img.At(x, y).RGBA(); alpha == 0 {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if maxX < minX {
		return nil, fmt.Errorf("изображение полностью прозрачное")
	}

	rect := image.Rect(minX, minY, maxX+1, maxY+1)
	if rect == b {
		return img, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), img, rect.Min, draw.Src)
	return dst, nil
}

// Grayscale переводит изображение в оттенки серого
func Grayscale(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}

// GetPixelColor возвращает 8-битные компоненты цвета пикселя
func GetPixelColor(img image.Image, x int, y int) (int, int, int) {
	r, g, b, _ := img.At(x, y).RGBA()
	return int(r >> 8), int(g >> 8), int(b >> 8)
}
