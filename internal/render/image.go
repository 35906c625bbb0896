package render

import (
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/previewstudio/preview-renderer/internal/errors"
)

// drawImageOverlay pastes an external image asset onto the layer at the
// anchor point, shifted inward for right/bottom anchors, using the asset's
// own alpha channel. The asset is optionally scaled with Lanczos resampling.
func drawImageOverlay(dc *gg.Context, x, y int, position, path string, scale float64) error {
	if path == "" {
		return errors.Overlay("image overlay has no path")
	}

	asset, err := imaging.Open(path)
	if err != nil {
		return errors.Assetf("failed to load overlay image %s: %v", path, err).WithCause(err)
	}

	if scale > 0 && scale != 1.0 {
		bounds := asset.Bounds()
		w := int(math.Round(float64(bounds.Dx()) * scale))
		h := int(math.Round(float64(bounds.Dy()) * scale))
		if w < 1 || h < 1 {
			return errors.Overlayf("overlay image scale %v collapses the asset", scale)
		}
		asset = imaging.Resize(asset, w, h, imaging.Lanczos)
	}

	if strings.Contains(position, "right") {
		x -= asset.Bounds().Dx()
	}
	if strings.Contains(position, "bottom") {
		y -= asset.Bounds().Dy()
	}

	dc.DrawImage(asset, x, y)
	return nil
}
