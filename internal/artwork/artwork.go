// Package artwork handles image edge I/O for the renderer: decoding input
// artwork, canonical canvas sizing, flattening, and PNG persistence.
package artwork

import (
	"image"
	"image/color"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP decoder

	"github.com/previewstudio/preview-renderer/internal/errors"
)

// Canonical canvas dimensions. Landscape inputs become backgrounds,
// everything else becomes a poster.
const (
	PosterWidth      = 1000
	PosterHeight     = 1500
	BackgroundWidth  = 1920
	BackgroundHeight = 1080
)

// CanvasSize returns the canonical canvas dimensions for an image of the
// given size.
func CanvasSize(w, h int) (int, int) {
	if w > h {
		return BackgroundWidth, BackgroundHeight
	}
	return PosterWidth, PosterHeight
}

// Load reads and decodes an image file.
func Load(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, errors.Imagef("failed to load image: %v", err).WithCause(err)
	}
	return img, nil
}

// Canonical converts img to NRGBA at canonical canvas size, resizing with
// Lanczos resampling when the dimensions differ.
func Canonical(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	w, h := CanvasSize(bounds.Dx(), bounds.Dy())
	if bounds.Dx() != w || bounds.Dy() != h {
		return imaging.Resize(img, w, h, imaging.Lanczos)
	}
	return imaging.Clone(img)
}

// Flatten composites img over an opaque black backdrop, removing alpha
// before persistence.
func Flatten(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	backdrop := imaging.New(bounds.Dx(), bounds.Dy(), color.NRGBA{R: 0, G: 0, B: 0, A: 255})
	return imaging.Overlay(backdrop, img, image.Pt(0, 0), 1.0)
}
