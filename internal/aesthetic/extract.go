package aesthetic

import (
	"strings"
	"unicode/utf16"
)

// maxTags caps the size of a TagSet.
const maxTags = 2

var (
	darkKeywords  = []string{"dark", "night", "black"}
	lightKeywords = []string{"light", "bright", "white"}
)

// BookRef is the minimal view of a book needed for classification.
type BookRef struct {
	ImageRef string `json:"uri" yaml:"uri"`
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
}

// Extract derives the aesthetic tags for a cover reference and optional title.
//
// Keyword matching runs over the lowercased concatenation of imageRef and
// title. When fewer than two keyword tags match, the set is filled from the
// hash fallback, computed over imageRef only. The result always holds one or
// two distinct tags and the function never fails.
func Extract(imageRef, title string) TagSet {
	tags := make(TagSet, 0, maxTags)

	combined := strings.ToLower(imageRef + title)
	if containsAny(combined, darkKeywords) {
		tags = append(tags, Dark)
	}
	if containsAny(combined, lightKeywords) {
		tags = append(tags, Light)
	}

	if len(tags) < maxTags {
		h := charCodeSum(imageRef)
		n := len(categories)
		primary := categories[h%n]
		secondary := categories[(h+3)%n]

		for _, t := range []Tag{primary, secondary} {
			if len(tags) >= maxTags {
				break
			}
			if !tags.Contains(t) {
				tags = append(tags, t)
			}
		}
	}

	return tags
}

// ExtractBook is Extract applied to a BookRef.
func ExtractBook(b BookRef) TagSet {
	return Extract(b.ImageRef, b.Title)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// charCodeSum adds up the UTF-16 code units of s, which is how the mobile
// client counts characters. For ASCII input this is the byte sum.
func charCodeSum(s string) int {
	sum := 0
	for _, u := range utf16.Encode([]rune(s)) {
		sum += int(u)
	}
	return sum
}
