package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestMetadata(t *testing.T) {
	r := NewImageResizer()

	meta, err := r.Metadata(pngBytes(t, 320, 200))
	require.NoError(t, err)
	assert.Equal(t, Meta{Width: 320, Height: 200}, meta)
}

func TestMetadata_NotAnImage(t *testing.T) {
	r := NewImageResizer()

	_, err := r.Metadata([]byte("not an image"))
	assert.Error(t, err)
}

func TestResizeToWidth_ShrinksWideImage(t *testing.T) {
	r := NewImageResizer()

	resized, err := r.ResizeToWidth(pngBytes(t, 400, 200), 100)
	require.NoError(t, err)

	meta, err := r.Metadata(resized)
	require.NoError(t, err)
	assert.Equal(t, 100, meta.Width)
	assert.Equal(t, 50, meta.Height, "aspect ratio preserved")
}

func TestResizeToWidth_NarrowImageUntouched(t *testing.T) {
	r := NewImageResizer()
	original := pngBytes(t, 80, 60)

	resized, err := r.ResizeToWidth(original, 100)
	require.NoError(t, err)
	assert.Equal(t, original, resized, "no upscaling")
}
