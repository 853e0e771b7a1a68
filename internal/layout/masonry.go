// Package layout computes presentation hints for book grids.
package layout

import (
	"strings"
	"unicode/utf16"
)

const (
	// MinHeight is the smallest tile height in points.
	MinHeight = 150
	// heightRange is the spread above MinHeight; heights land in [150, 300).
	heightRange = 150
)

// HeightFor returns a stable pseudo-random tile height for a book ID.
//
// Only the segment before the first '-' is hashed, so every page-scoped
// copy of a catalogue item ("<trackId>-<page>-<nonce>") gets the same height.
func HeightFor(bookID string) int {
	seed, _, _ := strings.Cut(bookID, "-")

	sum := 0
	for _, r := range seed {
		// Astral code points contribute their leading surrogate only.
		if utf16.RuneLen(r) == 2 {
			r, _ = utf16.EncodeRune(r)
		}
		sum += int(r)
	}
	return sum%heightRange + MinHeight
}
