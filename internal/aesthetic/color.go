package aesthetic

// FallbackColor is returned for any tag outside the vocabulary.
const FallbackColor = "#808080"

var colors = map[Tag]string{
	Dark:       "#1a1a1a",
	Light:      "#f5f5f5",
	Warm:       "#d4a574",
	Cool:       "#7eb6d4",
	Vibrant:    "#e74c3c",
	Pastel:     "#ffd1dc",
	Monochrome: "#808080",
	Earthy:     "#8b7355",
}

// ColorFor returns the representative hex color for a tag.
func ColorFor(t Tag) string {
	if c, ok := colors[t]; ok {
		return c
	}
	return FallbackColor
}

// Palette resolves the color of each tag, preserving order.
func Palette(tags []Tag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = ColorFor(t)
	}
	return out
}
