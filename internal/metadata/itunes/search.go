package itunes

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// DefaultLimit is the number of results requested per search.
const DefaultLimit = 50

// SearchEbooks searches the iTunes ebook catalogue.
// Results without artwork are dropped; the rest carry 600x600 cover URLs.
func (c *Client) SearchEbooks(ctx context.Context, params SearchParams) ([]EbookResult, error) {
	term := strings.TrimSpace(params.Term)
	if term == "" {
		return nil, fmt.Errorf("search term is required")
	}

	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	q := url.Values{}
	q.Set("term", term)
	q.Set("entity", "ebook")
	q.Set("limit", strconv.Itoa(limit))
	q.Set("genreId", params.GenreID)

	searchURL := c.baseURL + "/search?" + q.Encode()

	c.logger.Debug("searching iTunes",
		"term", term,
		"genre_id", params.GenreID,
		"url", searchURL,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search failed: status %d", resp.StatusCode)
	}

	var searchResp searchResponse
	if err := json.UnmarshalRead(resp.Body, &searchResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	c.logger.Debug("iTunes search results",
		"term", term,
		"count", searchResp.ResultCount,
	)

	results := make([]EbookResult, 0, len(searchResp.Results))
	for i := range searchResp.Results {
		r := &searchResp.Results[i]
		if r.ArtworkURL100 == "" {
			continue
		}

		results = append(results, EbookResult{
			TrackID:          r.TrackID,
			Title:            r.TrackName,
			Author:           r.ArtistName,
			ArtworkURL:       UpscaleArtwork(r.ArtworkURL100),
			Description:      toMarkdown(r.Description),
			PlainDescription: toPlainText(r.Description),
			Genres:           r.Genres,
		})
	}

	return results, nil
}
