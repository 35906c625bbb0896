package runner

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch keeps the runner alive, rendering job directories as they appear
// under root. Jobs already present without a summary are processed first;
// new directories run after a debounce so half-copied jobs are not picked
// up mid-transfer. Returns when ctx is done.
func (r *Runner) Watch(ctx context.Context, root string, debounce time.Duration) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close() //nolint:errcheck // Close error is unactionable on shutdown

	if err := watcher.Add(root); err != nil {
		return err
	}

	r.logger.Info("watching for jobs", "root", root, "debounce", debounce)
	r.runPending(ctx, root)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			info, err := os.Stat(event.Name)
			if err != nil || !info.IsDir() {
				continue
			}
			go func(dir string) {
				select {
				case <-ctx.Done():
				case <-time.After(debounce):
					r.runEligible(ctx, dir)
				}
			}(event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("watch error", "error", err)
		}
	}
}

// runPending processes every job directory under root that has not been
// rendered yet.
func (r *Runner) runPending(ctx context.Context, root string) {
	entries, err := os.ReadDir(root)
	if err != nil {
		r.logger.Warn("failed to scan jobs root", "root", root, "error", err)
		return
	}
	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}
		if entry.IsDir() {
			r.runEligible(ctx, filepath.Join(root, entry.Name()))
		}
	}
}

// runEligible renders one job directory unless it was already processed
// (summary exists) or is not yet a job (no input images).
func (r *Runner) runEligible(ctx context.Context, dir string) {
	if _, err := os.Stat(filepath.Join(dir, "output", "summary.json")); err == nil {
		r.logger.Debug("job already processed", "job", dir)
		return
	}
	if !hasInputImages(dir) {
		r.logger.Debug("skipping directory without input images", "dir", dir)
		return
	}

	if _, err := r.RunJob(ctx, dir); err != nil {
		r.logger.Error("job failed", "job", dir, "error", err)
	}
}

// hasInputImages reports whether dir has at least one renderable image in
// its input directory.
func hasInputImages(dir string) bool {
	entries, err := os.ReadDir(filepath.Join(dir, "input"))
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".jpg", ".jpeg", ".png", ".JPG", ".JPEG", ".PNG":
			return true
		}
	}
	return false
}
