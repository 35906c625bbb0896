package overlay

// DefaultDefinitions returns the built-in overlay set applied when the
// preview config has no entry for an item kind. Unknown kinds get nothing.
func DefaultDefinitions(kind string) []Definition {
	switch kind {
	case "movie":
		return []Definition{
			{Type: "resolution", Position: "top-left"},
			{Type: "audio", Position: "bottom-left"},
		}
	case "show":
		return []Definition{
			{Type: "rating", Position: "top-left"},
			{Type: "status", Position: "top-right"},
		}
	case "season":
		return []Definition{
			{Type: "season_number", Position: "top-left"},
		}
	case "episode":
		return []Definition{
			{Type: "episode_number", Position: "bottom-right"},
			{Type: "runtime", Position: "bottom-left"},
		}
	default:
		return nil
	}
}

// DefaultPositionSpec returns the conventional placement for an overlay
// type, used when a definition names no position and the library configures
// none. Informational badges sit top-left, branding top-right, ratings and
// ribbons along the bottom.
func DefaultPositionSpec(overlayType string) PositionSpec {
	switch overlayType {
	case "rating":
		return PositionSpec{HorizontalAlign: "left", VerticalAlign: "bottom"}
	case "streaming", "network", "studio":
		return PositionSpec{HorizontalAlign: "right", VerticalAlign: "top"}
	case "ribbon":
		return PositionSpec{HorizontalAlign: "right", VerticalAlign: "bottom"}
	case "status":
		return PositionSpec{HorizontalAlign: "center", VerticalAlign: "top"}
	default:
		return PositionSpec{HorizontalAlign: "left", VerticalAlign: "top"}
	}
}
