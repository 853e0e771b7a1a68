package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shioriapp/shiori-server/internal/domain"
	"github.com/shioriapp/shiori-server/internal/service"
)

func (s *Server) registerExploreRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "exploreFeed",
		Method:      http.MethodGet,
		Path:        "/api/v1/explore",
		Summary:     "Explore feed",
		Description: "Returns one shuffled page of catalogue books, optionally filtered by aesthetic. Falls back to the featured shelf when the catalogue is unreachable.",
		Tags:        []string{"Explore"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleExploreFeed)

	huma.Register(s.api, huma.Operation{
		OperationID: "listGenres",
		Method:      http.MethodGet,
		Path:        "/api/v1/explore/genres",
		Summary:     "List genres",
		Description: "Returns the genre keys accepted by the feed, in display order",
		Tags:        []string{"Explore"},
	}, s.handleListGenres)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFeatured",
		Method:      http.MethodGet,
		Path:        "/api/v1/explore/featured",
		Summary:     "Featured books",
		Description: "Returns the curated seed catalogue",
		Tags:        []string{"Explore"},
	}, s.handleListFeatured)
}

// === DTOs ===

// ExploreInput holds the feed query parameters.
type ExploreInput struct {
	Genre     string `query:"genre" doc:"Genre key, e.g. science-fiction (default all)"`
	Query     string `query:"q" doc:"Search term; a random genre term is used when empty"`
	Page      int    `query:"page" minimum:"0" maximum:"1000" default:"0" doc:"Page number, starting at 0"`
	Aesthetic string `query:"aesthetic" doc:"Aesthetic filter (all or a tag, any case)"`
	Reshuffle bool   `query:"reshuffle" doc:"Shuffle the page again before returning it"`
}

// ExploreOutput wraps a feed page for Huma.
type ExploreOutput struct {
	Body *service.FeedPage
}

// GenresOutput wraps the genre keys for Huma.
type GenresOutput struct {
	Body struct {
		Genres []string `json:"genres" doc:"Genre keys in display order"`
	}
}

// FeaturedOutput wraps the featured books for Huma.
type FeaturedOutput struct {
	Body struct {
		Books []domain.Book `json:"books" doc:"Curated books"`
		Count int           `json:"count" doc:"Number of books"`
	}
}

// === Handlers ===

func (s *Server) handleExploreFeed(ctx context.Context, input *ExploreInput) (*ExploreOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	page, err := s.services.Explore.Feed(ctx, service.FeedRequest{
		Genre:     input.Genre,
		Query:     input.Query,
		Page:      input.Page,
		Aesthetic: input.Aesthetic,
		Reshuffle: input.Reshuffle,
	})
	if err != nil {
		return nil, err
	}
	return &ExploreOutput{Body: page}, nil
}

func (s *Server) handleListGenres(_ context.Context, _ *struct{}) (*GenresOutput, error) {
	out := &GenresOutput{}
	out.Body.Genres = s.services.Explore.Genres()
	return out, nil
}

func (s *Server) handleListFeatured(_ context.Context, _ *struct{}) (*FeaturedOutput, error) {
	out := &FeaturedOutput{}
	out.Body.Books = s.services.Explore.Featured()
	out.Body.Count = len(out.Body.Books)
	return out, nil
}
