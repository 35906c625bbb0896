package extrun

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Library type detection patterns. An explicit type field wins; the library
// name decides otherwise.
var (
	movieTypes = map[string]bool{"movie": true, "movies": true}
	showTypes  = map[string]bool{"show": true, "shows": true, "tv": true, "series": true}

	movieNameHints = []string{"movie", "film", "cinema"}
	showNameHints  = []string{"tv", "show", "series", "anime"}
)

// detectLibraryType classifies a library as "movie", "show", or "unknown".
func detectLibraryType(name string, cfg map[string]any) string {
	if t, ok := cfg["type"].(string); ok {
		t = strings.ToLower(t)
		if movieTypes[t] {
			return "movie"
		}
		if showTypes[t] {
			return "show"
		}
	}

	lower := strings.ToLower(name)
	for _, hint := range movieNameHints {
		if strings.Contains(lower, hint) {
			return "movie"
		}
	}
	for _, hint := range showNameHints {
		if strings.Contains(lower, hint) {
			return "show"
		}
	}
	return "unknown"
}

// splitByLibraryType partitions a config's libraries into a movie config
// and a show config. Libraries of unknown type go into both so neither
// split drops them. Everything outside the libraries section is shared.
func splitByLibraryType(cfg map[string]any) (map[string]any, map[string]any) {
	libraries, _ := cfg["libraries"].(map[string]any)

	movieLibs := map[string]any{}
	showLibs := map[string]any{}
	for name, lib := range libraries {
		libCfg, _ := lib.(map[string]any)
		switch detectLibraryType(name, libCfg) {
		case "movie":
			movieLibs[name] = lib
		case "show":
			showLibs[name] = lib
		default:
			movieLibs[name] = lib
			showLibs[name] = lib
		}
	}

	build := func(libs map[string]any) map[string]any {
		split := make(map[string]any, len(cfg))
		for k, v := range cfg {
			split[k] = v
		}
		split["libraries"] = libs
		return split
	}
	return build(movieLibs), build(showLibs)
}

// writeSplit writes a split config next to the base config as
// <stem>_<suffix><ext> and returns its path.
func writeSplit(basePath string, cfg map[string]any, suffix string) (string, error) {
	ext := filepath.Ext(basePath)
	stem := strings.TrimSuffix(filepath.Base(basePath), ext)
	splitPath := filepath.Join(filepath.Dir(basePath), fmt.Sprintf("%s_%s%s", stem, suffix, ext))

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal split config: %w", err)
	}
	if err := os.WriteFile(splitPath, data, 0o644); err != nil { //#nosec G306 -- Split configs carry no secrets beyond the base config
		return "", fmt.Errorf("failed to write split config: %w", err)
	}
	return splitPath, nil
}
