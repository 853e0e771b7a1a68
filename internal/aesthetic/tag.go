// Package aesthetic classifies books into visual aesthetic tags and
// aggregates those tags into a reader's aesthetic profile.
//
// Classification is heuristic: it looks for mood keywords in the cover
// reference and title, then falls back to a deterministic hash of the cover
// reference so every book gets a stable pair of tags.
package aesthetic

import (
	"slices"
	"strings"
)

// Tag is a single aesthetic category.
type Tag string

// The closed tag vocabulary.
const (
	Dark       Tag = "Dark"
	Light      Tag = "Light"
	Warm       Tag = "Warm"
	Cool       Tag = "Cool"
	Vibrant    Tag = "Vibrant"
	Pastel     Tag = "Pastel"
	Monochrome Tag = "Monochrome"
	Earthy     Tag = "Earthy"
)

// vocabulary lists every tag in display order.
var vocabulary = []Tag{Dark, Light, Warm, Cool, Vibrant, Pastel, Monochrome, Earthy}

// categories is the hash fallback table. Order matters: index = hash mod 6.
var categories = []Tag{Warm, Cool, Vibrant, Pastel, Monochrome, Earthy}

// Vocabulary returns all known tags in display order.
func Vocabulary() []Tag {
	return slices.Clone(vocabulary)
}

// Categories returns the hash fallback categories in index order.
func Categories() []Tag {
	return slices.Clone(categories)
}

// Valid reports whether t belongs to the vocabulary.
func (t Tag) Valid() bool {
	return slices.Contains(vocabulary, t)
}

// String implements fmt.Stringer.
func (t Tag) String() string {
	return string(t)
}

// TagSet is an ordered set of at most two distinct tags.
type TagSet []Tag

// Contains reports whether the set holds t.
func (s TagSet) Contains(t Tag) bool {
	return slices.Contains(s, t)
}

// Strings returns the tags as plain strings, preserving order.
func (s TagSet) Strings() []string {
	out := make([]string, len(s))
	for i, t := range s {
		out[i] = string(t)
	}
	return out
}

// ParseTag looks a tag up by name, ignoring case.
func ParseTag(name string) (Tag, bool) {
	name = strings.TrimSpace(name)
	for _, t := range vocabulary {
		if strings.EqualFold(string(t), name) {
			return t, true
		}
	}
	return "", false
}

// ParseTagSet converts stored or client-sent tag names back into a TagSet.
// Known names are canonicalized; unknown names are kept so that ColorFor
// can fall back to gray.
func ParseTagSet(names []string) TagSet {
	out := make(TagSet, 0, len(names))
	for _, n := range names {
		if t, ok := ParseTag(n); ok {
			out = append(out, t)
			continue
		}
		out = append(out, Tag(n))
	}
	return out
}
