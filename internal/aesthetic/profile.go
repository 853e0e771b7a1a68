package aesthetic

import "slices"

// MaxTopAesthetics is the number of entries kept in a Profile.
const MaxTopAesthetics = 5

// AestheticCount is one ranked entry of a Profile.
type AestheticCount struct {
	Name  Tag    `json:"name"`
	Count int    `json:"count"`
	Color string `json:"color"`
}

// Profile summarizes the dominant aesthetics across a set of books.
// ColorPalette mirrors TopAesthetics: ColorPalette[i] == TopAesthetics[i].Color.
type Profile struct {
	TopAesthetics []AestheticCount `json:"topAesthetics"`
	ColorPalette  []string         `json:"colorPalette"`
}

// Aggregate classifies each book and ranks the resulting tags.
func Aggregate(books []BookRef) Profile {
	sets := make([]TagSet, len(books))
	for i, b := range books {
		sets[i] = ExtractBook(b)
	}
	return AggregateTagSets(sets)
}

// AggregateTagSets ranks tags by how many sets contain them.
//
// Ranking is by count descending. Equal counts keep the order in which
// the tags were first seen. At most MaxTopAesthetics entries are returned,
// and empty input yields empty, non-nil slices.
func AggregateTagSets(sets []TagSet) Profile {
	counts := make(map[Tag]int)
	order := make([]Tag, 0, len(vocabulary))

	for _, set := range sets {
		for _, t := range set {
			if _, seen := counts[t]; !seen {
				order = append(order, t)
			}
			counts[t]++
		}
	}

	slices.SortStableFunc(order, func(a, b Tag) int {
		return counts[b] - counts[a]
	})

	if len(order) > MaxTopAesthetics {
		order = order[:MaxTopAesthetics]
	}

	p := Profile{
		TopAesthetics: make([]AestheticCount, 0, len(order)),
		ColorPalette:  make([]string, 0, len(order)),
	}
	for _, t := range order {
		c := ColorFor(t)
		p.TopAesthetics = append(p.TopAesthetics, AestheticCount{Name: t, Count: counts[t], Color: c})
		p.ColorPalette = append(p.ColorPalette, c)
	}
	return p
}

// Tags returns the ranked tag names of the profile.
func (p Profile) Tags() []Tag {
	out := make([]Tag, len(p.TopAesthetics))
	for i, a := range p.TopAesthetics {
		out[i] = a.Name
	}
	return out
}
