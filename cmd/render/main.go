// Package main provides the entry point for the preview renderer CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/previewstudio/preview-renderer/internal/config"
	"github.com/previewstudio/preview-renderer/internal/di"
	"github.com/previewstudio/preview-renderer/internal/extrun"
	"github.com/previewstudio/preview-renderer/internal/logger"
	"github.com/previewstudio/preview-renderer/internal/runner"
	"github.com/previewstudio/preview-renderer/internal/validation"
)

func main() {
	injector := di.NewContainer()

	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap renderer: %v\n", err)
		os.Exit(1)
	}

	cfg := do.MustInvoke[*config.Config](injector)
	log := do.MustInvoke[*logger.Logger](injector)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exit := run(ctx, injector, cfg, log)
	stop()

	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}
	os.Exit(exit)
}

// run executes the selected mode and returns the process exit code: zero
// only when every rendered image succeeded.
func run(ctx context.Context, injector do.Injector, cfg *config.Config, log *logger.Logger) int {
	if cfg.External.Enabled {
		v := do.MustInvoke[*validation.Validator](injector)
		ext, err := extrun.New(log.Logger, v, extrun.Options{
			ConfigPath: cfg.External.ConfigPath,
			Binary:     cfg.External.Binary,
			Timeout:    cfg.External.Timeout,
		})
		if err != nil {
			log.Error("Invalid external tool options", "error", err)
			return 1
		}
		exit, err := ext.Run(ctx)
		if err != nil {
			log.Error("External tool run failed", "error", err)
		}
		return exit
	}

	r := do.MustInvoke[*runner.Runner](injector)

	if cfg.Jobs.Watch {
		if err := r.Watch(ctx, cfg.Jobs.Dir, cfg.Jobs.WatchDebounce); err != nil {
			log.Error("Watch failed", "error", err)
			return 1
		}
		return 0
	}

	if cfg.Jobs.Job != "" {
		return runOne(ctx, r, log, cfg.Jobs.Job)
	}

	entries, err := os.ReadDir(cfg.Jobs.Dir)
	if err != nil {
		log.Error("Failed to read jobs root", "dir", cfg.Jobs.Dir, "error", err)
		return 1
	}

	exit := 0
	ran := false
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		ran = true
		if code := runOne(ctx, r, log, filepath.Join(cfg.Jobs.Dir, entry.Name())); code != 0 {
			exit = code
		}
	}
	if !ran {
		log.Error("No job directories found", "dir", cfg.Jobs.Dir)
		return 1
	}
	return exit
}

func runOne(ctx context.Context, r *runner.Runner, log *logger.Logger, dir string) int {
	summary, err := r.RunJob(ctx, dir)
	if err != nil {
		log.Error("Job failed", "job", dir, "error", err)
		return 1
	}
	if !summary.Success {
		return 1
	}
	return 0
}
