// Package job models render job directories: input artwork, preview
// configuration, item metadata, and the output layout the batch driver
// writes into.
package job

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Item kinds driving which default overlays apply.
const (
	KindMovie   = "movie"
	KindShow    = "show"
	KindSeason  = "season"
	KindEpisode = "episode"
)

// Item identifies one artwork subject. Metadata is an open mapping;
// renderers read recognized keys through the typed accessors and fall back
// to per-badge defaults when a key is absent.
type Item struct {
	ID       string
	Kind     string
	Title    string
	Metadata map[string]any
}

// String returns the metadata value for key as a string, or fallback when
// the key is absent. Numeric values are formatted so a YAML/JSON number
// still renders as badge text.
func (i Item) String(key, fallback string) string {
	switch v := i.Metadata[key].(type) {
	case string:
		if v == "" {
			return fallback
		}
		return v
	case float64:
		if v == float64(int(v)) {
			return fmt.Sprintf("%d", int(v))
		}
		return fmt.Sprintf("%.1f", v)
	case int:
		return fmt.Sprintf("%d", v)
	default:
		return fallback
	}
}

// Int returns the metadata value for key as an int, or fallback.
func (i Item) Int(key string, fallback int) int {
	switch v := i.Metadata[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}

// Bool reports whether the metadata value for key is truthy. Missing keys
// are false.
func (i Item) Bool(key string) bool {
	switch v := i.Metadata[key].(type) {
	case bool:
		return v
	case string:
		s := strings.ToLower(v)
		return s == "true" || s == "1" || s == "yes"
	case int:
		return v != 0
	case float64:
		return v != 0
	default:
		return false
	}
}

// Meta is the decoded meta.json document accompanying a job's input images.
type Meta struct {
	Library string                    `json:"library"`
	Items   map[string]map[string]any `json:"items"`
}

// Job is one render job directory:
//
//	<dir>/input/           base images (*.jpg, *.jpeg, *.png)
//	<dir>/config/preview.yml
//	<dir>/meta.json        per-item metadata (optional)
//	<dir>/output/          rendered previews + summary.json
//	<dir>/logs/
type Job struct {
	Dir  string
	Meta Meta
}

// Open loads a job directory, creating the output and logs directories.
// A missing or malformed meta.json degrades to empty metadata; items then
// rely on kind inference from the image filename.
func Open(dir string, logger *slog.Logger) (*Job, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("job directory not found: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("job path is not a directory: %s", dir)
	}

	for _, sub := range []string{"output", "logs"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s directory: %w", sub, err)
		}
	}

	j := &Job{Dir: dir, Meta: Meta{Items: map[string]map[string]any{}}}

	data, err := os.ReadFile(filepath.Join(dir, "meta.json")) //#nosec G304 -- Path comes from the job directory
	switch {
	case os.IsNotExist(err):
		// Metadata is optional.
	case err != nil:
		logger.Warn("failed to read meta.json", "job", dir, "error", err)
	default:
		if err := json.Unmarshal(data, &j.Meta); err != nil {
			logger.Warn("failed to parse meta.json", "job", dir, "error", err)
			j.Meta = Meta{Items: map[string]map[string]any{}}
		}
		if j.Meta.Items == nil {
			j.Meta.Items = map[string]map[string]any{}
		}
	}

	return j, nil
}

// ConfigPath returns the preview configuration location.
func (j *Job) ConfigPath() string {
	return filepath.Join(j.Dir, "config", "preview.yml")
}

// OutputPath returns the rendered preview location for an item.
func (j *Job) OutputPath(itemID string) string {
	return filepath.Join(j.Dir, "output", itemID+"_after.png")
}

// SummaryPath returns the batch summary location.
func (j *Job) SummaryPath() string {
	return filepath.Join(j.Dir, "output", "summary.json")
}

// InputImages lists the job's base images sorted by name so batch order is
// deterministic.
func (j *Job) InputImages() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(j.Dir, "input"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var images []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".jpg", ".jpeg", ".png":
			images = append(images, filepath.Join(j.Dir, "input", entry.Name()))
		}
	}
	sort.Strings(images)
	return images, nil
}

// Item builds the Item for an input image from metadata, inferring the kind
// from the filename stem when metadata does not carry a type.
func (j *Job) Item(imagePath string) Item {
	id := strings.TrimSuffix(filepath.Base(imagePath), filepath.Ext(imagePath))
	meta := j.Meta.Items[id]

	item := Item{ID: id, Kind: InferKind(id), Title: id, Metadata: meta}
	if meta == nil {
		item.Metadata = map[string]any{}
		return item
	}
	if kind, ok := meta["type"].(string); ok && kind != "" {
		item.Kind = kind
	}
	if title, ok := meta["title"].(string); ok && title != "" {
		item.Title = title
	}
	return item
}

var episodePattern = regexp.MustCompile(`s\d{2}e\d{2}`)
var seasonPattern = regexp.MustCompile(`s\d{2}`)

// InferKind guesses an item kind from its image filename stem. Used when
// meta.json has no type for the item.
func InferKind(id string) string {
	lower := strings.ToLower(id)
	switch {
	case episodePattern.MatchString(lower) || strings.Contains(lower, "episode"):
		return KindEpisode
	case seasonPattern.MatchString(lower) || strings.Contains(lower, "season"):
		return KindSeason
	case strings.Contains(lower, "series") || strings.Contains(lower, "show"):
		return KindShow
	default:
		return KindMovie
	}
}
