package render

import "image/color"

// style describes one badge family: background fill, text color, and the
// font sizing rule (a floor in pixels plus a fraction of the canvas height,
// whichever is larger).
type style struct {
	back     color.NRGBA
	text     color.NRGBA
	minFont  int
	fontFrac float64
}

// fontSize resolves the style's font size for a canvas of the given height.
func (s style) fontSize(canvasH int) float64 {
	size := int(float64(canvasH) * s.fontFrac)
	if size < s.minFont {
		size = s.minFont
	}
	return float64(size)
}

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
)

// Badge styling per overlay type. These match the upstream tool's visual
// defaults so previews line up with what it would produce.
var (
	resolutionStyle = style{
		back:     color.NRGBA{R: 30, G: 30, B: 30, A: 220},
		text:     white,
		minFont:  24,
		fontFrac: 0.04,
	}
	hdrStyle = style{
		back:     color.NRGBA{R: 255, G: 193, B: 7, A: 230},
		text:     black,
		minFont:  18,
		fontFrac: 0.03,
	}
	audioStyle = style{
		back:     color.NRGBA{R: 76, G: 175, B: 80, A: 220},
		text:     white,
		minFont:  18,
		fontFrac: 0.03,
	}
	ratingStyle = style{
		back:     color.NRGBA{R: 245, G: 197, B: 24, A: 255},
		text:     black,
		minFont:  28,
		fontFrac: 0.05,
	}
	statusStyle = style{
		back:     color.NRGBA{R: 76, G: 175, B: 80, A: 230},
		text:     white,
		minFont:  16,
		fontFrac: 0.025,
	}
	seasonStyle = style{
		back:     color.NRGBA{R: 33, G: 150, B: 243, A: 240},
		text:     white,
		minFont:  32,
		fontFrac: 0.06,
	}
	episodeStyle = style{
		back:     color.NRGBA{R: 20, G: 20, B: 20, A: 200},
		text:     white,
		minFont:  20,
		fontFrac: 0.08,
	}
	runtimeStyle = style{
		back:     color.NRGBA{R: 0, G: 0, B: 0, A: 180},
		text:     white,
		minFont:  14,
		fontFrac: 0.05,
	}
)

// textDefaults hold the fallback styling for custom text badges when the
// overlay definition leaves colors or sizing unset.
const (
	defaultTextBackColor = "#1E1E1EDC"
	defaultTextFontColor = "#FFFFFF"
)

var textStyleBase = style{minFont: 20, fontFrac: 0.04}
