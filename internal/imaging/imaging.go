// Package imaging wraps the image-resize collaborator used by the
// upload pipeline: metadata probing and a width clamp that preserves
// aspect ratio and never upscales.
package imaging

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Meta holds the pixel dimensions of an image.
type Meta struct {
	Width  int
	Height int
}

// Resizer is the collaborator interface consumed by the uploader.
type Resizer interface {
	Metadata(data []byte) (Meta, error)
	// ResizeToWidth scales data down to targetWidth, keeping aspect
	// ratio. It is a no-op when targetWidth >= the current width.
	ResizeToWidth(data []byte, targetWidth int) ([]byte, error)
}

// ImageResizer implements Resizer with disintegration/imaging.
type ImageResizer struct{}

func NewImageResizer() *ImageResizer {
	return &ImageResizer{}
}

func (r *ImageResizer) Metadata(data []byte) (Meta, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Meta{}, fmt.Errorf("decode image config: %w", err)
	}
	return Meta{Width: cfg.Width, Height: cfg.Height}, nil
}

func (r *ImageResizer) ResizeToWidth(data []byte, targetWidth int) ([]byte, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	if targetWidth <= 0 || src.Bounds().Dx() <= targetWidth {
		return data, nil
	}

	dst := imaging.Resize(src, targetWidth, 0, imaging.Lanczos)

	outFormat, err := imaging.FormatFromExtension(format)
	if err != nil {
		return nil, fmt.Errorf("unsupported image format %q: %w", format, err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, dst, outFormat); err != nil {
		return nil, fmt.Errorf("encode resized image: %w", err)
	}
	return buf.Bytes(), nil
}
