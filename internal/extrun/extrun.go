// Package extrun invokes the upstream rendering tool against a library
// configuration. When the configuration carries both movie and show
// libraries it is split by type and the two halves run in parallel, with
// the worst exit code winning.
package extrun

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/previewstudio/preview-renderer/internal/validation"
)

// binaryCandidates are tried on PATH when no binary override is given.
var binaryCandidates = []string{"kometa", "plex-meta-manager"}

// Options configures an external run.
type Options struct {
	// ConfigPath is the library configuration handed to the tool.
	ConfigPath string `json:"config_path" validate:"required"`
	// Binary overrides tool discovery.
	Binary string `json:"binary"`
	// Timeout bounds each tool invocation. Zero means no limit.
	Timeout time.Duration `json:"timeout" validate:"min=0"`
}

// Runner executes the external tool.
type Runner struct {
	logger *slog.Logger
	opts   Options
}

// New creates an external runner after validating the options.
func New(logger *slog.Logger, v *validation.Validator, opts Options) (*Runner, error) {
	if err := v.Validate(opts); err != nil {
		return nil, err
	}
	return &Runner{logger: logger, opts: opts}, nil
}

// findTool locates the external tool binary: the configured override first,
// then the known names on PATH.
func (r *Runner) findTool() (string, error) {
	if r.opts.Binary != "" {
		if _, err := os.Stat(r.opts.Binary); err != nil {
			return "", fmt.Errorf("external tool not found at %s: %w", r.opts.Binary, err)
		}
		return r.opts.Binary, nil
	}
	for _, name := range binaryCandidates {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("external tool not found (tried %v)", binaryCandidates)
}

// Run executes the tool for the configured library config. With both
// library types present the config is split and both halves run in
// parallel; split files are removed afterwards. Returns the maximum exit
// code across invocations.
func (r *Runner) Run(ctx context.Context) (int, error) {
	data, err := os.ReadFile(r.opts.ConfigPath) //#nosec G304 -- Config path comes from options
	if err != nil {
		return 1, fmt.Errorf("failed to read library config: %w", err)
	}
	var cfg map[string]any
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return 1, fmt.Errorf("failed to parse library config: %w", err)
	}

	libraries, _ := cfg["libraries"].(map[string]any)
	var movies, shows int
	for name, lib := range libraries {
		libCfg, _ := lib.(map[string]any)
		switch detectLibraryType(name, libCfg) {
		case "movie":
			movies++
		case "show":
			shows++
		}
	}

	// A single library type gains nothing from splitting.
	if movies == 0 || shows == 0 {
		r.logger.Info("single library type, running sequentially", "movies", movies, "shows", shows)
		return r.runOne(ctx, "all", r.opts.ConfigPath)
	}

	r.logger.Info("running movie and show libraries in parallel", "movies", movies, "shows", shows)

	movieCfg, showCfg := splitByLibraryType(cfg)
	moviePath, err := writeSplit(r.opts.ConfigPath, movieCfg, "movies")
	if err != nil {
		return 1, err
	}
	defer os.Remove(moviePath) //nolint:errcheck // Best-effort cleanup
	showPath, err := writeSplit(r.opts.ConfigPath, showCfg, "shows")
	if err != nil {
		return 1, err
	}
	defer os.Remove(showPath) //nolint:errcheck // Best-effort cleanup

	var movieExit, showExit int
	g := new(errgroup.Group)
	g.Go(func() error {
		movieExit = r.runLabeled(ctx, "movies", moviePath)
		return nil
	})
	g.Go(func() error {
		showExit = r.runLabeled(ctx, "shows", showPath)
		return nil
	})
	_ = g.Wait() // Failures are carried in the exit codes.

	exit := movieExit
	if showExit > exit {
		exit = showExit
	}
	r.logger.Info("parallel execution complete", "movies_exit", movieExit, "shows_exit", showExit)
	return exit, nil
}

// runLabeled runs one invocation, folding errors into a nonzero exit code
// so a failing half never hides the other half's outcome.
func (r *Runner) runLabeled(ctx context.Context, label, configPath string) int {
	exit, err := r.runOne(ctx, label, configPath)
	if err != nil {
		r.logger.Error("external tool failed", "split", label, "error", err)
		if exit == 0 {
			exit = 1
		}
	}
	return exit
}

// runOne executes a single tool invocation, streaming its merged output
// into the log.
func (r *Runner) runOne(ctx context.Context, label, configPath string) (int, error) {
	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	tool, err := r.findTool()
	if err != nil {
		return 1, err
	}

	cmd := exec.CommandContext(ctx, tool, "-r", "--config", configPath) //#nosec G204 -- Tool path comes from discovery or operator config
	cmd.Env = append(os.Environ(), "RENDER_CONFIG="+configPath)

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(pr)
		for scanner.Scan() {
			r.logger.Info(scanner.Text(), "split", label)
		}
	}()

	r.logger.Info("running external tool", "split", label, "command", tool, "config", configPath)
	runErr := cmd.Run()
	pw.Close() //nolint:errcheck,gosec // Pipe close after Run cannot fail meaningfully
	wg.Wait()

	if runErr == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 1, runErr
}
