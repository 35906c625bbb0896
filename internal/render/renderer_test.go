package render_test

import (
	"image"
	"image/color"
	"log/slog"
	"os"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/previewstudio/preview-renderer/internal/fonts"
	"github.com/previewstudio/preview-renderer/internal/job"
	"github.com/previewstudio/preview-renderer/internal/overlay"
	"github.com/previewstudio/preview-renderer/internal/render"
)

var baseGray = color.NRGBA{R: 40, G: 40, B: 40, A: 255}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestRenderer builds a renderer over an empty font catalog so every
// badge uses the bundled face and renders identically everywhere.
func newTestRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	catalog, err := fonts.New(testLogger(), t.TempDir())
	require.NoError(t, err)
	return render.New(testLogger(), catalog)
}

func poster() image.Image {
	return imaging.New(500, 750, baseGray)
}

func emptyConfig() *overlay.Config {
	return &overlay.Config{Overlays: map[string][]overlay.Definition{}}
}

func movieItem(meta map[string]any) job.Item {
	if meta == nil {
		meta = map[string]any{}
	}
	return job.Item{ID: "dune", Kind: job.KindMovie, Title: "Dune", Metadata: meta}
}

// touched reports whether any pixel in the given region differs from the
// flat base color, i.e. a badge was drawn there.
func touched(img *image.NRGBA, x0, y0, x1, y1 int) bool {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if img.NRGBAAt(x, y) != baseGray {
				return true
			}
		}
	}
	return false
}

func TestRender_MovieDefaults(t *testing.T) {
	r := newTestRenderer(t)

	out, warnings, err := r.Render(poster(), movieItem(nil), emptyConfig(), "")
	require.NoError(t, err)
	assert.Empty(t, warnings)

	require.Equal(t, 1000, out.Bounds().Dx())
	require.Equal(t, 1500, out.Bounds().Dy())

	// Resolution badge at the top-left anchor (3% padding = 45px).
	assert.True(t, touched(out, 45, 45, 200, 120), "expected resolution badge near top-left")
	// Audio badge hangs up from the bottom-left anchor.
	assert.True(t, touched(out, 45, 1350, 200, 1455), "expected audio badge near bottom-left")
	// Nothing configured for the top-right corner.
	assert.False(t, touched(out, 800, 45, 955, 200), "top-right should be untouched")
}

func TestRender_MissingPositionUsesTypeDefault(t *testing.T) {
	r := newTestRenderer(t)
	cfg := &overlay.Config{Overlays: map[string][]overlay.Definition{
		job.KindMovie: {{Type: "resolution"}},
	}}

	out, warnings, err := r.Render(poster(), movieItem(nil), cfg, "")
	require.NoError(t, err)
	assert.Empty(t, warnings)

	// Resolution defaults to flush top-left, inside the 45px anchor margin.
	assert.True(t, touched(out, 0, 0, 40, 40), "expected badge flush at the origin")
}

func TestRender_LandscapeCanvas(t *testing.T) {
	r := newTestRenderer(t)
	src := imaging.New(1280, 720, baseGray)

	out, _, err := r.Render(src, movieItem(nil), emptyConfig(), "")
	require.NoError(t, err)
	assert.Equal(t, 1920, out.Bounds().Dx())
	assert.Equal(t, 1080, out.Bounds().Dy())
}

func TestRender_Idempotent(t *testing.T) {
	r := newTestRenderer(t)
	item := movieItem(map[string]any{"resolution": "4K", "hdr": true, "audio_codec": "Atmos"})

	first, _, err := r.Render(poster(), item, emptyConfig(), "")
	require.NoError(t, err)
	second, _, err := r.Render(poster(), item, emptyConfig(), "")
	require.NoError(t, err)

	assert.Equal(t, first.Pix, second.Pix)
}

func TestRender_UnknownTypeIsIsolated(t *testing.T) {
	r := newTestRenderer(t)
	cfg := &overlay.Config{Overlays: map[string][]overlay.Definition{
		job.KindMovie: {
			{Type: "sparkle", Position: "top-left"},
			{Type: "resolution", Position: "top-left"},
		},
	}}

	out, warnings, err := r.Render(poster(), movieItem(nil), cfg, "")
	require.NoError(t, err)

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "sparkle")
	assert.True(t, touched(out, 45, 45, 200, 120), "resolution badge should render despite the bad overlay")
}

func TestRender_MissingImageAssetWarns(t *testing.T) {
	r := newTestRenderer(t)
	cfg := &overlay.Config{Overlays: map[string][]overlay.Definition{
		job.KindMovie: {
			{Type: "image", Position: "top-left", Path: "/nonexistent/logo.png"},
		},
	}}

	out, warnings, err := r.Render(poster(), movieItem(nil), cfg, "")
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "image")
	assert.False(t, touched(out, 0, 0, 1000, 1500), "nothing should be drawn for a missing asset")
}

func TestRender_ImageOverlayPastesAsset(t *testing.T) {
	r := newTestRenderer(t)

	assetPath := t.TempDir() + "/logo.png"
	asset := imaging.New(80, 80, color.NRGBA{R: 200, G: 0, B: 0, A: 255})
	require.NoError(t, imaging.Save(asset, assetPath))

	cfg := &overlay.Config{Overlays: map[string][]overlay.Definition{
		job.KindMovie: {
			{Type: "image", Position: "top-right", Path: assetPath, Scale: 0.5},
		},
	}}

	out, warnings, err := r.Render(poster(), movieItem(nil), cfg, "")
	require.NoError(t, err)
	assert.Empty(t, warnings)

	// Scaled to 40x40, anchored right: drawn at x in [915, 955).
	assert.True(t, touched(out, 915, 45, 955, 85), "asset should be pasted inside the top-right margin")
}

func TestRender_ConfiguredPositionOverridesAnchor(t *testing.T) {
	r := newTestRenderer(t)

	cfg, err := overlay.Parse([]byte(`
overlays:
  movie:
    - type: resolution
      position: top-left
libraries:
  Movies:
    overlay_files:
      - default: resolution
        template_variables:
          horizontal_align: left
          vertical_align: top
          horizontal_offset: 0
          vertical_offset: 400
`))
	require.NoError(t, err)

	out, warnings, renderErr := r.Render(poster(), movieItem(nil), cfg, "Movies")
	require.NoError(t, renderErr)
	assert.Empty(t, warnings)

	assert.True(t, touched(out, 0, 400, 200, 480), "badge should sit at the configured offset")
	assert.False(t, touched(out, 0, 0, 1000, 380), "nothing should render at the default anchor")
}

func TestRender_BuilderLevelScopesOverlay(t *testing.T) {
	r := newTestRenderer(t)

	cfg, err := overlay.Parse([]byte(`
overlays:
  movie:
    - type: resolution
      position: top-left
libraries:
  Movies:
    overlay_files:
      - default: resolution
        template_variables:
          vertical_offset: 400
          builder_level: season
`))
	require.NoError(t, err)

	out, warnings, renderErr := r.Render(poster(), movieItem(nil), cfg, "Movies")
	require.NoError(t, renderErr)
	assert.Empty(t, warnings)
	assert.False(t, touched(out, 0, 0, 1000, 1500), "season-scoped overlay should not draw on a movie")
}

func TestRender_HDRCompanionBadge(t *testing.T) {
	r := newTestRenderer(t)

	plain, _, err := r.Render(poster(), movieItem(map[string]any{"resolution": "4K"}), emptyConfig(), "")
	require.NoError(t, err)
	flagged, _, err := r.Render(poster(), movieItem(map[string]any{"resolution": "4K", "hdr": true}), emptyConfig(), "")
	require.NoError(t, err)

	assert.NotEqual(t, plain.Pix, flagged.Pix, "HDR flag should add a companion badge")
}

func TestRender_EpisodeDefaults(t *testing.T) {
	r := newTestRenderer(t)
	item := job.Item{
		ID:   "show-s02e05",
		Kind: job.KindEpisode,
		Metadata: map[string]any{
			"season_index":  2,
			"episode_index": 5,
			"runtime":       "42 min",
		},
	}

	out, warnings, err := r.Render(poster(), item, emptyConfig(), "")
	require.NoError(t, err)
	assert.Empty(t, warnings)

	// Episode badge hangs inward from the bottom-right anchor.
	assert.True(t, touched(out, 700, 1280, 955, 1455), "expected episode badge near bottom-right")
	// Runtime badge at bottom-left.
	assert.True(t, touched(out, 45, 1350, 300, 1455), "expected runtime badge near bottom-left")
}

func TestRender_TextBadgeUsesDefinitionStyling(t *testing.T) {
	r := newTestRenderer(t)
	cfg := &overlay.Config{Overlays: map[string][]overlay.Definition{
		job.KindMovie: {
			{Type: "text", Position: "top-left", Text: "4K REMUX", BackColor: "FF0000", FontColor: "000000"},
		},
	}}

	out, warnings, err := r.Render(poster(), movieItem(nil), cfg, "")
	require.NoError(t, err)
	assert.Empty(t, warnings)

	// The badge fill is pure opaque red, so at least one pixel must be.
	found := false
	for y := 45; y < 150 && !found; y++ {
		for x := 45; x < 400 && !found; x++ {
			if out.NRGBAAt(x, y) == (color.NRGBA{R: 255, A: 255}) {
				found = true
			}
		}
	}
	assert.True(t, found, "expected opaque red badge fill")
}

func TestRender_EmptyTextBadgeWarns(t *testing.T) {
	r := newTestRenderer(t)
	cfg := &overlay.Config{Overlays: map[string][]overlay.Definition{
		job.KindMovie: {{Type: "text", Position: "top-left"}},
	}}

	_, warnings, err := r.Render(poster(), movieItem(nil), cfg, "")
	require.NoError(t, err)
	assert.Len(t, warnings, 1)
}
