package aesthetic

import "strings"

// FilterAll is the sentinel filter value that matches every book.
const FilterAll = "all"

// Filter is one selectable entry in the aesthetic filter bar.
type Filter struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Color string `json:"color"`
}

// Filters returns the filter bar: "All" first, then each tag in display order.
func Filters() []Filter {
	out := make([]Filter, 0, len(vocabulary)+1)
	out = append(out, Filter{Label: "All", Value: FilterAll, Color: FallbackColor})
	for _, t := range vocabulary {
		out = append(out, Filter{Label: string(t), Value: string(t), Color: ColorFor(t)})
	}
	return out
}

// NormalizeFilter maps user input to a filter value: FilterAll for empty or
// "all" in any case, otherwise the tag's canonical name. ok is false for
// anything outside the vocabulary.
func NormalizeFilter(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, FilterAll) {
		return FilterAll, true
	}
	t, ok := ParseTag(s)
	return string(t), ok
}

// MatchesFilter reports whether a book with the given tags passes the
// selected filter. An empty selection behaves like FilterAll.
func MatchesFilter(tags TagSet, selected string) bool {
	if selected == "" || selected == FilterAll {
		return true
	}
	return tags.Contains(Tag(selected))
}

// FilterBooks keeps the items whose tags pass the selected filter,
// preserving input order.
func FilterBooks[T any](items []T, tagsOf func(T) TagSet, selected string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if MatchesFilter(tagsOf(it), selected) {
			out = append(out, it)
		}
	}
	return out
}
