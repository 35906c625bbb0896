package providers

import (
	"github.com/samber/do/v2"

	"github.com/previewstudio/preview-renderer/internal/config"
	"github.com/previewstudio/preview-renderer/internal/fonts"
	"github.com/previewstudio/preview-renderer/internal/logger"
	"github.com/previewstudio/preview-renderer/internal/render"
	"github.com/previewstudio/preview-renderer/internal/runner"
	"github.com/previewstudio/preview-renderer/internal/validation"
)

// ProvideValidator provides the option-struct validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideFontCatalog provides the shared read-only font catalog.
func ProvideFontCatalog(i do.Injector) (*fonts.Catalog, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return fonts.New(log.Logger, fonts.DefaultDirs(cfg.Fonts.Dir)...)
}

// ProvideRenderer provides the overlay renderer.
func ProvideRenderer(i do.Injector) (*render.Renderer, error) {
	log := do.MustInvoke[*logger.Logger](i)
	catalog := do.MustInvoke[*fonts.Catalog](i)

	return render.New(log.Logger, catalog), nil
}

// ProvideRunner provides the batch job runner.
func ProvideRunner(i do.Injector) (*runner.Runner, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	rend := do.MustInvoke[*render.Renderer](i)
	v := do.MustInvoke[*validation.Validator](i)

	return runner.New(log.Logger, rend, v, runner.Options{Workers: cfg.Jobs.Workers})
}
