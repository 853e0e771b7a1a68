package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

const defaultLimit = 50

// BoardQuery searches one user's board.
type BoardQuery struct {
	UserID    string
	Query     string
	Aesthetic string // optional tag filter, case-insensitive
	Limit     int
}

// Hit is one matching liked book.
type Hit struct {
	BookID     string  `json:"book_id"`
	Score      float64 `json:"score"`
	Title      string  `json:"title"`
	Author     string  `json:"author,omitempty"`
	Aesthetics string  `json:"aesthetics,omitempty"`
}

// Search runs q against the board index. An empty query lists the user's
// board, most recently liked first.
func (b *BoardIndex) Search(ctx context.Context, q BoardQuery) ([]Hit, error) {
	if q.UserID == "" {
		return nil, fmt.Errorf("search: user id is required")
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	req := bleve.NewSearchRequestOptions(buildBoardQuery(q), limit, 0, false)
	if strings.TrimSpace(q.Query) == "" {
		req.SortBy([]string{"-liked_at"})
	}
	req.Fields = []string{"book_id", "title", "author", "aesthetics"}

	res, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hit := Hit{Score: h.Score}
		if v, ok := h.Fields["book_id"].(string); ok {
			hit.BookID = v
		}
		if v, ok := h.Fields["title"].(string); ok {
			hit.Title = v
		}
		if v, ok := h.Fields["author"].(string); ok {
			hit.Author = v
		}
		if v, ok := h.Fields["aesthetics"].(string); ok {
			hit.Aesthetics = v
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// buildBoardQuery scopes to the user, then ORs title, author, tag and
// description matches with fuzzy and prefix fallbacks for short typos.
func buildBoardQuery(q BoardQuery) query.Query {
	userQuery := bleve.NewTermQuery(q.UserID)
	userQuery.SetField("user_id")

	must := []query.Query{userQuery}

	if tag := strings.ToLower(strings.TrimSpace(q.Aesthetic)); tag != "" && tag != "all" {
		tagQuery := bleve.NewTermQuery(tag)
		tagQuery.SetField("aesthetics")
		must = append(must, tagQuery)
	}

	text := strings.TrimSpace(q.Query)
	if text != "" {
		must = append(must, buildTextQuery(text))
	}

	return bleve.NewConjunctionQuery(must...)
}

func buildTextQuery(text string) query.Query {
	var should []query.Query

	title := bleve.NewMatchQuery(text)
	title.SetField("title")
	title.SetBoost(3.0)
	should = append(should, title)

	author := bleve.NewMatchQuery(text)
	author.SetField("author")
	author.SetBoost(2.0)
	should = append(should, author)

	tags := bleve.NewMatchQuery(text)
	tags.SetField("aesthetics")
	tags.SetBoost(1.5)
	should = append(should, tags)

	desc := bleve.NewMatchQuery(text)
	desc.SetField("description")
	desc.SetBoost(0.5)
	should = append(should, desc)

	words := strings.Fields(strings.ToLower(text))
	last := words[len(words)-1]

	// Typo tolerance on longer words only.
	if len(last) >= 4 {
		for _, field := range []string{"title", "author"} {
			fuzzy := bleve.NewFuzzyQuery(last)
			fuzzy.SetField(field)
			fuzzy.SetFuzziness(1)
			fuzzy.SetBoost(0.8)
			should = append(should, fuzzy)
		}
	}

	// Search-as-you-type on the last word.
	if len(last) >= 2 {
		prefix := bleve.NewPrefixQuery(last)
		prefix.SetField("title")
		prefix.SetBoost(1.0)
		should = append(should, prefix)
	}

	return bleve.NewDisjunctionQuery(should...)
}
