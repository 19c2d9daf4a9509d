package imageutils

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// paddedImage красный квадрат 4x3 в прозрачной рамке 10x10
func paddedImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for y := 2; y < 5; y++ {
		for x := 3; x < 7; x++ {
			img.Set(x, y, color.NRGBA{R: 200, A: 255})
		}
	}
	return img
}

func TestCropOpacityPixel(t *testing.T) {
	cropped, err := CropOpacityPixel(paddedImage())
	require.NoError(t, err)
	assert.Equal(t, 4, cropped.Bounds().Dx())
	assert.Equal(t, 3, cropped.Bounds().Dy())

	r, _, _ := GetPixelColor(cropped, 0, 0)
	assert.Equal(t, 200, r)

	_, err = CropOpacityPixel(image.NewNRGBA(image.Rect(0, 0, 2, 2)))
	assert.Error(t, err)
}

func TestPrepare(t *testing.T) {
	var src bytes.Buffer
	require.NoError(t, png.Encode(&src, paddedImage()))

	out, ok, err := Prepare(src.Bytes())
	require.NoError(t, err)
	require.True(t, ok)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	_, isGray := img.(*image.Gray)
	assert.True(t, isGray)
	assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())
}

func TestPrepareUnknownFormat(t *testing.T) {
	out, ok, err := Prepare([]byte("BM not really a bitmap"))
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, out)
}
