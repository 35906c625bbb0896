package artwork

import (
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/previewstudio/preview-renderer/internal/errors"
)

// SavePNG writes img as a PNG file, creating parent directories as needed.
func SavePNG(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Imagef("failed to create output directory: %v", err).WithCause(err)
	}

	f, err := os.Create(path) //#nosec G304 -- Output path is derived from the job directory
	if err != nil {
		return errors.Imagef("failed to create output file: %v", err).WithCause(err)
	}

	if err := png.Encode(f, img); err != nil {
		f.Close() //nolint:errcheck,gosec // Encode error takes precedence
		return errors.Imagef("failed to encode png: %v", err).WithCause(err)
	}

	return f.Close()
}
