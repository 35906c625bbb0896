package render

import (
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// defaultFont is the family requested for built-in badge types. The font
// catalog falls back through its chain when it is not installed.
const defaultFont = "roboto"

// textNudge shifts badge text up slightly for optical centering inside the
// rounded rectangle.
const textNudge = 2

// badge is one self-sizing rounded-rectangle badge ready to draw.
type badge struct {
	text  string
	style style
	face  font.Face
}

// padding returns the horizontal and vertical badge padding for a canvas
// height, both percentage-based so badges scale with the artwork.
func padding(canvasH int) (int, int) {
	return int(float64(canvasH) * 0.015), int(float64(canvasH) * 0.01)
}

// size measures the badge box: rendered text plus symmetric padding.
func (b badge) size(dc *gg.Context, canvasH int) (int, int) {
	dc.SetFontFace(b.face)
	textW, textH := dc.MeasureString(b.text)
	padH, padV := padding(canvasH)
	return int(textW) + padH*2, int(textH) + padV*2
}

// draw renders the badge relative to an anchor point named by a compound
// position keyword. Anchors containing "right" or "bottom" hang the badge
// inward from that edge by shifting it by its own size. Returns the
// measured text width so a paired badge can sit next to it.
func (b badge) draw(dc *gg.Context, x, y int, position string, canvasH int) int {
	badgeW, badgeH := b.size(dc, canvasH)

	if strings.Contains(position, "right") {
		x -= badgeW
	}
	if strings.Contains(position, "bottom") {
		y -= badgeH
	}

	return b.drawBox(dc, x, y, canvasH)
}

// drawBox renders the badge with its top-left corner at (x, y): rounded
// rectangle fill first, then the text inset by the padding with a small
// upward nudge. Returns the measured text width.
func (b badge) drawBox(dc *gg.Context, x, y, canvasH int) int {
	dc.SetFontFace(b.face)
	textW, textH := dc.MeasureString(b.text)
	padH, padV := padding(canvasH)

	badgeW := int(textW) + padH*2
	badgeH := int(textH) + padV*2

	radius := float64(badgeH) * 0.25
	dc.SetColor(b.style.back)
	dc.DrawRoundedRectangle(float64(x), float64(y), float64(badgeW), float64(badgeH), radius)
	dc.Fill()

	dc.SetColor(b.style.text)
	textY := float64(y+padV-textNudge) + textH/2
	dc.DrawStringAnchored(b.text, float64(x+padH), textY, 0, 0.5)

	return int(textW)
}
