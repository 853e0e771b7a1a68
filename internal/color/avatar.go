// Package color derives avatar colors for users without an avatar image.
package color

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/shioriapp/shiori-server/internal/aesthetic"
)

// Muted HSL values so generated avatars sit alongside the aesthetic palette.
const (
	saturation = 0.4
	lightness  = 0.65
)

// ForUser returns a stable "#rrggbb" color for userID.
func ForUser(userID string) string {
	return colorful.Hsl(hueFor(userID), saturation, lightness).Clamped().Hex()
}

// TextOn picks the dark or light aesthetic color for text drawn on background.
// Unparseable backgrounds get dark text.
func TextOn(background string) string {
	c, err := colorful.Hex(background)
	if err != nil {
		return aesthetic.ColorFor(aesthetic.Dark)
	}
	if luminance(c) > 0.4 {
		return aesthetic.ColorFor(aesthetic.Dark)
	}
	return aesthetic.ColorFor(aesthetic.Light)
}

func hueFor(userID string) float64 {
	var h uint32
	for _, c := range userID {
		h = 31*h + uint32(c)
	}
	return float64(h % 360)
}

// luminance is the WCAG relative luminance.
func luminance(c colorful.Color) float64 {
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}
