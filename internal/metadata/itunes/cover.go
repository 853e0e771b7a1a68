package itunes

import "strings"

const (
	thumbSize   = "100x100"
	displaySize = "600x600"
)

// UpscaleArtwork rewrites an artworkUrl100 thumbnail to the 600x600 rendition.
// Only the first size token is replaced; other URLs pass through unchanged.
func UpscaleArtwork(url string) string {
	return strings.Replace(url, thumbSize, displaySize, 1)
}
