// Package overlay models preview overlay configuration and computes badge
// placement on a canvas.
package overlay

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/previewstudio/preview-renderer/internal/errors"
)

// Definition is a single overlay entry for an item kind. Type is open;
// unrecognized types are skipped with a warning at render time.
type Definition struct {
	Type      string  `yaml:"type"`
	Position  string  `yaml:"position"`
	Text      string  `yaml:"text"`
	Path      string  `yaml:"path"`
	Font      string  `yaml:"font"`
	FontSize  int     `yaml:"font_size"`
	FontColor string  `yaml:"font_color"`
	BackColor string  `yaml:"back_color"`
	Scale     float64 `yaml:"scale"`
}

// Config is the preview overlay configuration. Overlays maps an item kind
// (movie, show, season, episode) to its overlay definitions. Libraries is
// kept as raw YAML so that a malformed section degrades to "no configured
// positions" instead of failing the whole config.
type Config struct {
	Overlays  map[string][]Definition `yaml:"overlays"`
	Libraries any                     `yaml:"libraries"`
}

// Parse decodes a preview configuration document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Configf("failed to parse preview config: %v", err)
	}
	if cfg.Overlays == nil {
		cfg.Overlays = map[string][]Definition{}
	}
	return &cfg, nil
}

// Load reads and parses the preview configuration at path. A missing file
// is not an error; it yields an empty config so per-kind defaults apply.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- Config path comes from the job directory
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{Overlays: map[string][]Definition{}}, nil
		}
		return nil, errors.Configf("failed to read preview config: %v", err).WithCause(err)
	}
	return Parse(data)
}

// LibraryPositions extracts the per-overlay position specs configured for a
// library via overlay_files template variables. Every structural mismatch
// (missing section, wrong shape, entries without a default name) contributes
// nothing; the result is never nil.
func (c *Config) LibraryPositions(library string) map[string]PositionSpec {
	positions := map[string]PositionSpec{}

	libs, ok := c.Libraries.(map[string]any)
	if !ok {
		return positions
	}
	lib, ok := libs[library].(map[string]any)
	if !ok {
		return positions
	}
	files, ok := lib["overlay_files"].([]any)
	if !ok {
		return positions
	}

	for _, raw := range files {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		name, ok := entry["default"].(string)
		if !ok || name == "" {
			continue
		}
		vars, ok := entry["template_variables"].(map[string]any)
		if !ok {
			continue
		}
		if spec, ok := specFromVariables(vars); ok {
			positions[name] = spec
		}
	}

	return positions
}

// specFromVariables builds a PositionSpec from raw template variables.
// Returns false when no recognized positioning key is present so that
// unrelated template variables do not register a spec.
func specFromVariables(vars map[string]any) (PositionSpec, bool) {
	spec := PositionSpec{HorizontalAlign: "left", VerticalAlign: "top"}
	found := false

	for key, value := range vars {
		switch key {
		case "horizontal_align":
			if s, ok := value.(string); ok {
				spec.HorizontalAlign = s
				found = true
			}
		case "vertical_align":
			if s, ok := value.(string); ok {
				spec.VerticalAlign = s
				found = true
			}
		case "horizontal_offset":
			if n, ok := coerceInt(value); ok {
				spec.HorizontalOffset = n
				found = true
			}
		case "vertical_offset":
			if n, ok := coerceInt(value); ok {
				spec.VerticalOffset = n
				found = true
			}
		case "horizontal_position":
			if s, ok := value.(string); ok {
				spec.HorizontalPosition = s
				found = true
			}
		case "builder_level":
			if s, ok := value.(string); ok {
				spec.BuilderLevel = s
				found = true
			}
		}
	}

	return spec, found
}

// coerceInt accepts the shapes yaml.v3 produces for numeric-ish values.
func coerceInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
