package artwork

import (
	"fmt"
	"image"

	"github.com/bbrks/go-blurhash"
	"github.com/disintegration/imaging"
)

// blurHashSize is the target size for BlurHash computation.
// BlurHash doesn't need high resolution - a small thumbnail produces nearly
// identical results at a fraction of the cost.
const blurHashSize = 64

// BlurHash generates a BlurHash placeholder string for a rendered preview.
// Uses 4x3 components for a good balance of size (~20-30 chars) and detail.
func BlurHash(img image.Image) (string, error) {
	bounds := img.Bounds()
	thumbnail := img
	if bounds.Dx() > blurHashSize || bounds.Dy() > blurHashSize {
		thumbnail = imaging.Fit(img, blurHashSize, blurHashSize, imaging.NearestNeighbor)
	}

	hash, err := blurhash.Encode(4, 3, thumbnail)
	if err != nil {
		return "", fmt.Errorf("encode blurhash: %w", err)
	}

	return hash, nil
}
