// Package render draws overlay badges onto artwork. The Renderer is the
// per-image pipeline: it normalizes the base image to a canonical canvas,
// selects the overlays for the item, draws each badge onto a transparent
// layer, and composites the layer back over the artwork.
package render

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/previewstudio/preview-renderer/internal/artwork"
	"github.com/previewstudio/preview-renderer/internal/errors"
	"github.com/previewstudio/preview-renderer/internal/fonts"
	"github.com/previewstudio/preview-renderer/internal/job"
	"github.com/previewstudio/preview-renderer/internal/overlay"
)

// position is an overlay's resolved placement mode: a compound keyword
// anchor by default, or an explicit spec when the library configuration
// carries positioning template variables for the overlay's type. The two
// modes use different offset conventions and are intentionally not unified.
type position struct {
	keyword string
	spec    *overlay.PositionSpec
}

// drawFunc renders one overlay variant onto the layer.
type drawFunc func(dc *gg.Context, pos position, def overlay.Definition, item job.Item, canvasW, canvasH int) error

// Renderer applies overlays to artwork. It is stateless per image and safe
// for concurrent use: each Render call owns its canvas and layer, and the
// font catalog is read-only.
type Renderer struct {
	logger *slog.Logger
	fonts  *fonts.Catalog
	draws  map[string]drawFunc
}

// New creates a renderer backed by the given font catalog.
func New(logger *slog.Logger, catalog *fonts.Catalog) *Renderer {
	r := &Renderer{logger: logger, fonts: catalog}
	r.draws = map[string]drawFunc{
		"resolution":     r.drawResolution,
		"audio":          r.drawAudio,
		"rating":         r.drawRating,
		"status":         r.drawStatus,
		"season_number":  r.drawSeasonNumber,
		"episode_number": r.drawEpisodeNumber,
		"runtime":        r.drawRuntime,
		"hdr":            r.drawHDR,
		"text":           r.drawText,
		"image":          r.drawImage,
	}
	return r
}

// Render produces the composited preview for one item. The base image is
// resized to the canonical poster or background canvas, every applicable
// overlay is drawn onto a transparent layer, and the layer is composited
// over the base and flattened against black. A failing overlay becomes a
// warning and never aborts the image; the returned error covers only
// image-level faults.
func (r *Renderer) Render(src image.Image, item job.Item, cfg *overlay.Config, library string) (*image.NRGBA, []string, error) {
	if src == nil {
		return nil, nil, errors.Image("no source image")
	}

	base := artwork.Canonical(src)
	canvasW := base.Bounds().Dx()
	canvasH := base.Bounds().Dy()

	defs := cfg.Overlays[item.Kind]
	if len(defs) == 0 {
		r.logger.Debug("no configured overlays, using defaults", "item", item.ID, "kind", item.Kind)
		defs = overlay.DefaultDefinitions(item.Kind)
	}
	positions := cfg.LibraryPositions(library)

	layer := gg.NewContext(canvasW, canvasH)

	var warnings []string
	for _, def := range defs {
		if err := r.applyOverlay(layer, def, positions, item, canvasW, canvasH); err != nil {
			r.logger.Warn("overlay failed",
				"item", item.ID,
				"type", def.Type,
				"error", err,
			)
			warnings = append(warnings, fmt.Sprintf("failed to apply %s overlay for %s: %v", def.Type, item.ID, err))
		}
	}

	composited := imaging.Overlay(base, layer.Image(), image.Pt(0, 0), 1.0)
	return artwork.Flatten(composited), warnings, nil
}

// applyOverlay dispatches one overlay definition to its variant. Unknown
// types and panics inside a variant surface as overlay errors so the caller
// can record them as warnings and continue.
func (r *Renderer) applyOverlay(dc *gg.Context, def overlay.Definition, positions map[string]overlay.PositionSpec, item job.Item, canvasW, canvasH int) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Overlayf("overlay draw panicked: %v", rec)
		}
	}()

	draw, ok := r.draws[def.Type]
	if !ok {
		return errors.Overlayf("unknown overlay type %q", def.Type)
	}

	pos := position{keyword: def.Position}
	if spec, ok := positions[def.Type]; ok {
		if spec.BuilderLevel != "" && spec.BuilderLevel != item.Kind {
			// Scoped to another item level, nothing to draw here.
			return nil
		}
		pos.spec = &spec
	} else if pos.keyword == "" {
		if def.Type == "image" {
			pos.keyword = "top-left"
		} else {
			spec := overlay.DefaultPositionSpec(def.Type)
			pos.spec = &spec
		}
	}

	return draw(dc, pos, def, item, canvasW, canvasH)
}

// placeBadge draws a badge per the position mode and returns the top-left
// anchor actually used plus the rendered text width. Configured specs place
// the measured badge with clamped offset arithmetic; keyword anchors use
// the fixed 3%-padding margin with right/bottom self-shifting.
func placeBadge(dc *gg.Context, b badge, pos position, canvasW, canvasH int) (int, int, int) {
	if pos.spec != nil {
		badgeW, badgeH := b.size(dc, canvasH)
		x, y := overlay.Calculate(badgeW, badgeH, canvasW, canvasH, *pos.spec)
		textW := b.drawBox(dc, x, y, canvasH)
		return x, y, textW
	}

	x, y := overlay.Anchor(pos.keyword, canvasW, canvasH)
	textW := b.draw(dc, x, y, pos.keyword, canvasH)
	return x, y, textW
}

func (r *Renderer) drawResolution(dc *gg.Context, pos position, _ overlay.Definition, item job.Item, canvasW, canvasH int) error {
	text := item.String("resolution", "1080p")
	face := r.fonts.Resolve(defaultFont, resolutionStyle.fontSize(canvasH))

	x, y, textW := placeBadge(dc, badge{text: text, style: resolutionStyle, face: face}, pos, canvasW, canvasH)

	// HDR-flagged subjects get a companion badge beside the resolution.
	if item.Bool("hdr") {
		padH, _ := padding(canvasH)
		hdrFace := r.fonts.Resolve(defaultFont, hdrStyle.fontSize(canvasH))
		hdrBadge := badge{text: "HDR", style: hdrStyle, face: hdrFace}
		hdrBadge.drawBox(dc, x+textW+padH*4, y, canvasH)
	}
	return nil
}

func (r *Renderer) drawAudio(dc *gg.Context, pos position, _ overlay.Definition, item job.Item, canvasW, canvasH int) error {
	text := item.String("audio_codec", "DTS-HD")
	face := r.fonts.Resolve(defaultFont, audioStyle.fontSize(canvasH))
	placeBadge(dc, badge{text: text, style: audioStyle, face: face}, pos, canvasW, canvasH)
	return nil
}

func (r *Renderer) drawRating(dc *gg.Context, pos position, _ overlay.Definition, item job.Item, canvasW, canvasH int) error {
	face := r.fonts.Resolve(defaultFont, ratingStyle.fontSize(canvasH))
	placeBadge(dc, badge{text: ratingText(item), style: ratingStyle, face: face}, pos, canvasW, canvasH)
	return nil
}

// ratingText formats the rating metadata: numeric values render with one
// decimal the way review sites display them, strings pass through.
func ratingText(item job.Item) string {
	switch v := item.Metadata["rating"].(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return fmt.Sprintf("%.1f", v)
	case int:
		return fmt.Sprintf("%.1f", float64(v))
	}
	return "9.5"
}

func (r *Renderer) drawStatus(dc *gg.Context, pos position, _ overlay.Definition, item job.Item, canvasW, canvasH int) error {
	text := item.String("status", "COMPLETED")
	face := r.fonts.Resolve(defaultFont, statusStyle.fontSize(canvasH))
	placeBadge(dc, badge{text: text, style: statusStyle, face: face}, pos, canvasW, canvasH)
	return nil
}

func (r *Renderer) drawSeasonNumber(dc *gg.Context, pos position, _ overlay.Definition, item job.Item, canvasW, canvasH int) error {
	text := fmt.Sprintf("S%02d", item.Int("season_index", 1))
	face := r.fonts.Resolve(defaultFont, seasonStyle.fontSize(canvasH))
	placeBadge(dc, badge{text: text, style: seasonStyle, face: face}, pos, canvasW, canvasH)
	return nil
}

func (r *Renderer) drawEpisodeNumber(dc *gg.Context, pos position, _ overlay.Definition, item job.Item, canvasW, canvasH int) error {
	text := fmt.Sprintf("S%02dE%02d", item.Int("season_index", 1), item.Int("episode_index", 1))
	face := r.fonts.Resolve(defaultFont, episodeStyle.fontSize(canvasH))
	placeBadge(dc, badge{text: text, style: episodeStyle, face: face}, pos, canvasW, canvasH)
	return nil
}

func (r *Renderer) drawRuntime(dc *gg.Context, pos position, _ overlay.Definition, item job.Item, canvasW, canvasH int) error {
	text := item.String("runtime", "58 min")
	face := r.fonts.Resolve(defaultFont, runtimeStyle.fontSize(canvasH))
	placeBadge(dc, badge{text: text, style: runtimeStyle, face: face}, pos, canvasW, canvasH)
	return nil
}

func (r *Renderer) drawHDR(dc *gg.Context, pos position, _ overlay.Definition, _ job.Item, canvasW, canvasH int) error {
	face := r.fonts.Resolve(defaultFont, hdrStyle.fontSize(canvasH))
	placeBadge(dc, badge{text: "HDR", style: hdrStyle, face: face}, pos, canvasW, canvasH)
	return nil
}

func (r *Renderer) drawText(dc *gg.Context, pos position, def overlay.Definition, _ job.Item, canvasW, canvasH int) error {
	if def.Text == "" {
		return errors.Overlay("text overlay has no text")
	}

	st := textStyleBase
	backColor := def.BackColor
	if backColor == "" {
		backColor = defaultTextBackColor
	}
	fontColor := def.FontColor
	if fontColor == "" {
		fontColor = defaultTextFontColor
	}
	st.back = overlay.ParseColor(backColor)
	st.text = overlay.ParseColor(fontColor)

	size := st.fontSize(canvasH)
	if def.FontSize > 0 {
		size = float64(def.FontSize)
	}
	fontName := def.Font
	if fontName == "" {
		fontName = defaultFont
	}
	face := r.fonts.Resolve(fontName, size)

	placeBadge(dc, badge{text: def.Text, style: st, face: face}, pos, canvasW, canvasH)
	return nil
}

func (r *Renderer) drawImage(dc *gg.Context, pos position, def overlay.Definition, _ job.Item, canvasW, canvasH int) error {
	x, y := overlay.Anchor(pos.keyword, canvasW, canvasH)
	return drawImageOverlay(dc, x, y, pos.keyword, def.Path, def.Scale)
}
