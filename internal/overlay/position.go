package overlay

import "strings"

// PositionSpec describes where an element sits inside a container. Offsets
// are inward pixel distances from the aligned edge, never absolute
// coordinates, so {right, 10} means 10px in from the right edge.
type PositionSpec struct {
	HorizontalAlign    string
	VerticalAlign      string
	HorizontalOffset   int
	VerticalOffset     int
	HorizontalPosition string
	BuilderLevel       string
}

// Calculate returns the top-left coordinates for an element of the given
// size placed inside the container. HorizontalPosition
// overrides HorizontalAlign only when it names an actual edge (the legacy
// ratings-overlay alias); other values leave the alignment alone. Unknown
// alignment values fall back to left/top. The result is clamped so the
// element stays inside the container.
func Calculate(elemW, elemH, containerW, containerH int, spec PositionSpec) (int, int) {
	hAlign := spec.HorizontalAlign
	switch spec.HorizontalPosition {
	case "left", "right", "center":
		hAlign = spec.HorizontalPosition
	}

	var x int
	switch hAlign {
	case "center":
		x = (containerW-elemW)/2 + spec.HorizontalOffset
	case "right":
		x = containerW - elemW - spec.HorizontalOffset
	default:
		x = spec.HorizontalOffset
	}

	var y int
	switch spec.VerticalAlign {
	case "center":
		y = (containerH-elemH)/2 + spec.VerticalOffset
	case "bottom":
		y = containerH - elemH - spec.VerticalOffset
	default:
		y = spec.VerticalOffset
	}

	return clampAxis(x, containerW-elemW), clampAxis(y, containerH-elemH)
}

// Anchor resolves a compound position keyword ("top-left", "bottom-right",
// "center", ...) to an anchor point, padded 3% of the container height in
// from each named edge. Badges anchored right or bottom shift themselves by
// their own size relative to this point.
func Anchor(keyword string, containerW, containerH int) (int, int) {
	pad := int(float64(containerH) * 0.03)

	x := containerW / 2
	if strings.Contains(keyword, "left") {
		x = pad
	} else if strings.Contains(keyword, "right") {
		x = containerW - pad
	}

	y := containerH / 2
	if strings.Contains(keyword, "top") {
		y = pad
	} else if strings.Contains(keyword, "bottom") {
		y = containerH - pad
	}

	return x, y
}

func clampAxis(v, limit int) int {
	if v > limit {
		v = limit
	}
	if v < 0 {
		v = 0
	}
	return v
}
