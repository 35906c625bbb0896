// Package di provides dependency injection configuration for the preview
// renderer binaries.
package di

import (
	"github.com/samber/do/v2"

	"github.com/previewstudio/preview-renderer/internal/config"
	"github.com/previewstudio/preview-renderer/internal/di/providers"
	"github.com/previewstudio/preview-renderer/internal/fonts"
	"github.com/previewstudio/preview-renderer/internal/logger"
	"github.com/previewstudio/preview-renderer/internal/render"
	"github.com/previewstudio/preview-renderer/internal/runner"
	"github.com/previewstudio/preview-renderer/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)

	// Rendering
	do.Provide(injector, providers.ProvideFontCatalog)
	do.Provide(injector, providers.ProvideRenderer)
	do.Provide(injector, providers.ProvideRunner)

	return injector
}

// Bootstrap initializes all services up front so configuration or font
// discovery failures surface before any job runs.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*validation.Validator](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*fonts.Catalog](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*render.Renderer](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*runner.Runner](injector); err != nil {
		return err
	}
	return nil
}
