package itunes

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// GenreAll is the key for an unrestricted search.
const GenreAll = "all"

var genreIDs = map[string]string{
	GenreAll:          "",
	"fiction":         "9007",
	"mystery":         "9019",
	"romance":         "9022",
	"science-fiction": "9024",
	"fantasy":         "9005",
	"biography":       "9002",
	"history":         "9014",
	"self-help":       "10017",
	"poetry":          "9020",
	"thriller":        "9027",
}

// genreOrder is the display order of the genre chips.
var genreOrder = []string{
	GenreAll, "fiction", "mystery", "romance", "science-fiction", "fantasy",
	"biography", "history", "self-help", "poetry", "thriller",
}

var searchTerms = map[string][]string{
	GenreAll:          {"bestseller", "popular", "classic", "award winning", "new york times"},
	"fiction":         {"literary fiction", "contemporary fiction", "classic fiction", "bestseller fiction"},
	"mystery":         {"mystery thriller", "detective", "crime fiction", "whodunit"},
	"romance":         {"romance novel", "love story", "romantic fiction", "contemporary romance"},
	"science-fiction": {"science fiction", "sci-fi", "space opera", "dystopian"},
	"fantasy":         {"fantasy novel", "epic fantasy", "urban fantasy", "magical"},
	"biography":       {"biography", "memoir", "autobiography", "life story"},
	"history":         {"history", "historical", "world history", "historical narrative"},
	"self-help":       {"self help", "personal development", "motivation", "mindfulness"},
	"poetry":          {"poetry", "poems", "verse", "contemporary poetry"},
	"thriller":        {"thriller", "suspense", "psychological thriller", "action"},
}

// Genres returns the supported genre keys in display order.
func Genres() []string {
	return append([]string(nil), genreOrder...)
}

// NormalizeGenre maps user input to a genre key.
// "Science Fiction" and the legacy "science+fiction" both become "science-fiction".
// Empty input is GenreAll.
func NormalizeGenre(genre string) string {
	slug := Slugify(genre)
	if slug == "" {
		return GenreAll
	}
	return slug
}

// GenreID returns the iTunes genreId for a genre key, or "" when unknown.
func GenreID(genre string) string {
	return genreIDs[NormalizeGenre(genre)]
}

// SearchTerms returns the random-term pool for a genre.
// Unknown genres use the GenreAll pool.
func SearchTerms(genre string) []string {
	terms, ok := searchTerms[NormalizeGenre(genre)]
	if !ok {
		terms = searchTerms[GenreAll]
	}
	return append([]string(nil), terms...)
}

var (
	// Matches any non-alphanumeric character.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	// Matches multiple hyphens.
	multipleHyphens = regexp.MustCompile(`-+`)
)

// Slugify converts a string to a URL-safe slug.
// "Science Fiction" -> "science-fiction".
// "science+fiction" -> "science-fiction".
// "Self Help" -> "self-help".
func Slugify(s string) string {
	// Decompose accented characters.
	s = norm.NFKD.String(s)

	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	s = multipleHyphens.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}
