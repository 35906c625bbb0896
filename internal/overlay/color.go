package overlay

import (
	"encoding/hex"
	"image/color"
	"strings"
)

// ParseColor parses a hex color string into an NRGBA color.
// Accepts RRGGBB or RRGGBBAA with an optional leading #; the 6-digit form
// gets full alpha. Malformed input yields opaque white rather than an error
// so a bad config value never aborts a render.
func ParseColor(s string) color.NRGBA {
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}

	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 && len(s) != 8 {
		return white
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		return white
	}

	c := color.NRGBA{R: b[0], G: b[1], B: b[2], A: 255}
	if len(b) == 4 {
		c.A = b[3]
	}
	return c
}
