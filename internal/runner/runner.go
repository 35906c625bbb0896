// Package runner drives batch rendering of job directories: it fans a
// job's input images out over a bounded worker pool, collects per-image
// results, and writes the summary report.
package runner

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/previewstudio/preview-renderer/internal/artwork"
	"github.com/previewstudio/preview-renderer/internal/errors"
	"github.com/previewstudio/preview-renderer/internal/job"
	"github.com/previewstudio/preview-renderer/internal/overlay"
	"github.com/previewstudio/preview-renderer/internal/render"
	"github.com/previewstudio/preview-renderer/internal/validation"
)

// maxAutoWorkers caps the automatic worker count; rendering is memory-bound
// on full-size canvases well before it is CPU-bound.
const maxAutoWorkers = 4

// Options configures a Runner.
type Options struct {
	// Workers is the number of images rendered concurrently per job.
	// Zero selects GOMAXPROCS capped at maxAutoWorkers.
	Workers int `json:"workers" validate:"gte=0,lte=64"`
}

// Runner renders job directories. Each image render owns its canvas and
// layer; workers share only the read-only font catalog, so jobs are safe to
// process with any worker count.
type Runner struct {
	logger   *slog.Logger
	renderer *render.Renderer
	workers  int
}

// New creates a runner after validating the options.
func New(logger *slog.Logger, renderer *render.Renderer, v *validation.Validator, opts Options) (*Runner, error) {
	if err := v.Validate(opts); err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
		if workers > maxAutoWorkers {
			workers = maxAutoWorkers
		}
	}

	return &Runner{logger: logger, renderer: renderer, workers: workers}, nil
}

// RunJob renders every input image of one job directory and writes the
// summary. Individual image failures become failed result records; the only
// run-level failure is a job with no input images at all.
func (r *Runner) RunJob(ctx context.Context, dir string) (*Summary, error) {
	j, err := job.Open(dir, r.logger)
	if err != nil {
		return nil, errors.Runf("failed to open job: %v", err).WithCause(err)
	}

	images, err := j.InputImages()
	if err != nil {
		return nil, errors.Runf("failed to list input images: %v", err).WithCause(err)
	}
	if len(images) == 0 {
		return nil, errors.Run("no input images found")
	}

	cfg, err := overlay.Load(j.ConfigPath())
	if err != nil {
		// A broken config never fails the run; defaults still apply.
		r.logger.Warn("failed to load preview config, using defaults", "job", dir, "error", err)
		cfg = &overlay.Config{Overlays: map[string][]overlay.Definition{}}
	}

	r.logger.Info("rendering job",
		"job", dir,
		"images", len(images),
		"workers", r.workers,
	)

	results := make([]Result, len(images))
	var mu sync.Mutex
	var warnings []string

	g := new(errgroup.Group)
	g.SetLimit(r.workers)
	for i, path := range images {
		g.Go(func() error {
			if ctx.Err() != nil {
				results[i] = Result{
					ItemID:    j.Item(path).ID,
					InputPath: path,
					Error:     "render canceled",
				}
				return nil
			}

			res, warns := r.renderOne(j, path, cfg)
			results[i] = res
			if len(warns) > 0 {
				mu.Lock()
				warnings = append(warnings, warns...)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait() // Workers report through their result records.

	summary := newSummary(results, warnings)
	if err := summary.Write(j.SummaryPath()); err != nil {
		r.logger.Warn("failed to write summary", "job", dir, "error", err)
	}

	r.logger.Info("rendering complete",
		"job", dir,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
	)
	return summary, nil
}

// renderOne processes a single input image end to end: decode, overlay,
// persist, enrich with a BlurHash placeholder. Failures stay inside the
// returned result so the batch keeps going.
func (r *Runner) renderOne(j *job.Job, path string, cfg *overlay.Config) (Result, []string) {
	item := j.Item(path)
	res := Result{ItemID: item.ID, ItemType: item.Kind, InputPath: path}

	src, err := artwork.Load(path)
	if err != nil {
		r.logger.Error("failed to load image", "item", item.ID, "error", err)
		res.Error = err.Error()
		return res, nil
	}

	out, warns, err := r.renderer.Render(src, item, cfg, j.Meta.Library)
	if err != nil {
		r.logger.Error("failed to render image", "item", item.ID, "error", err)
		res.Error = err.Error()
		return res, warns
	}

	outPath := j.OutputPath(item.ID)
	if err := artwork.SavePNG(out, outPath); err != nil {
		r.logger.Error("failed to save preview", "item", item.ID, "error", err)
		res.Error = err.Error()
		return res, warns
	}
	res.OutputPath = outPath

	if hash, err := artwork.BlurHash(out); err == nil {
		res.BlurHash = hash
	} else {
		r.logger.Warn("failed to compute blurhash", "item", item.ID, "error", err)
	}

	res.Success = true
	return res, warns
}
