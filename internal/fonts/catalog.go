// Package fonts discovers font files on disk and resolves font names to
// renderable faces with a deterministic fallback chain.
package fonts

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

const faceDPI = 72

// secondaryFamilies is tried when the requested name matches nothing,
// before falling back to the bundled face.
var secondaryFamilies = []string{"inter-regular", "inter", "inter-medium"}

// Catalog maps lowercase font file stems to paths. It is built once and is
// safe for concurrent readers; parsed fonts are cached behind a mutex while
// faces are created fresh per call because they are not safe to share.
type Catalog struct {
	logger *slog.Logger
	paths  map[string]string
	keys   []string

	mu     sync.Mutex
	parsed map[string]*opentype.Font

	bundled *opentype.Font
}

// DefaultDirs returns the standard scan list: the given extra directories
// followed by the system and user font locations. Later directories win on
// duplicate stems so user fonts override system ones.
func DefaultDirs(extra ...string) []string {
	dirs := make([]string, 0, len(extra)+2)
	for _, dir := range extra {
		if dir != "" {
			dirs = append(dirs, dir)
		}
	}
	dirs = append(dirs, "/usr/share/fonts")
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".fonts"))
	}
	return dirs
}

// New scans the given directories for .ttf/.otf files.
func New(logger *slog.Logger, dirs ...string) (*Catalog, error) {
	bundled, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bundled font: %w", err)
	}

	c := &Catalog{
		logger:  logger,
		paths:   make(map[string]string),
		parsed:  make(map[string]*opentype.Font),
		bundled: bundled,
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		c.scan(dir)
	}

	c.keys = make([]string, 0, len(c.paths))
	for k := range c.paths {
		c.keys = append(c.keys, k)
	}
	sort.Strings(c.keys)

	logger.Info("font catalog built", "fonts", len(c.paths))
	return c, nil
}

// scan walks one directory tree, registering font files by lowercase stem.
// Unreadable entries are skipped so a missing directory costs nothing.
func (c *Catalog) scan(root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".ttf" && ext != ".otf" {
			return nil
		}
		stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		c.paths[stem] = path
		return nil
	})
}

// Resolve returns a face for the requested name at the given pixel size.
// Resolution order: exact stem match (spaces normalized to hyphens), first
// catalog key containing the name as a substring, the secondary family list,
// then the bundled face. Files that fail to load are skipped and the chain
// continues, so Resolve never fails.
func (c *Catalog) Resolve(name string, size float64) font.Face {
	for _, stem := range c.candidates(name) {
		face, err := c.faceFor(c.paths[stem], size)
		if err != nil {
			c.logger.Warn("failed to load font", "font", stem, "error", err)
			continue
		}
		return face
	}

	if name != "" {
		c.logger.Debug("font not found, using bundled face", "font", name)
	}
	return c.bundledFace(size)
}

// ResolveSource reports which catalog file would serve the requested name.
// ok is false when resolution falls through to the bundled face.
func (c *Catalog) ResolveSource(name string) (string, bool) {
	for _, stem := range c.candidates(name) {
		if _, err := c.faceFor(c.paths[stem], 16); err == nil {
			return c.paths[stem], true
		}
	}
	return "", false
}

// Len reports the number of cataloged font files.
func (c *Catalog) Len() int {
	return len(c.paths)
}

// Names returns the sorted catalog stems.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.keys))
	copy(names, c.keys)
	return names
}

// Path returns the file registered for a catalog stem.
func (c *Catalog) Path(stem string) (string, bool) {
	path, ok := c.paths[stem]
	return path, ok
}

// candidates lists catalog stems to try for a name, in resolution order,
// deduplicated. Substring matches iterate sorted keys so the result is
// deterministic across runs.
func (c *Catalog) candidates(name string) []string {
	var stems []string
	seen := make(map[string]bool)
	add := func(stem string) {
		if seen[stem] {
			return
		}
		if _, ok := c.paths[stem]; ok {
			seen[stem] = true
			stems = append(stems, stem)
		}
	}

	if name != "" {
		want := normalize(name)
		add(want)
		for _, key := range c.keys {
			if strings.Contains(key, want) {
				add(key)
			}
		}
	}

	for _, family := range secondaryFamilies {
		add(family)
	}

	return stems
}

func (c *Catalog) faceFor(path string, size float64) (font.Face, error) {
	c.mu.Lock()
	parsed, ok := c.parsed[path]
	c.mu.Unlock()

	if !ok {
		data, err := os.ReadFile(path) //#nosec G304 -- Paths come from the catalog scan
		if err != nil {
			return nil, fmt.Errorf("failed to read font %s: %w", path, err)
		}
		parsed, err = opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse font %s: %w", path, err)
		}
		c.mu.Lock()
		c.parsed[path] = parsed
		c.mu.Unlock()
	}

	return opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     faceDPI,
		Hinting: font.HintingFull,
	})
}

func (c *Catalog) bundledFace(size float64) font.Face {
	face, err := opentype.NewFace(c.bundled, &opentype.FaceOptions{
		Size:    size,
		DPI:     faceDPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}

func normalize(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}
