package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shioriapp/shiori-server/internal/aesthetic"
	"github.com/shioriapp/shiori-server/internal/layout"
)

func (s *Server) registerAestheticRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listAestheticFilters",
		Method:      http.MethodGet,
		Path:        "/api/v1/aesthetics/filters",
		Summary:     "List aesthetic filters",
		Description: "Returns the filter bar: All first, then every aesthetic with its color",
		Tags:        []string{"Aesthetics"},
	}, s.handleListFilters)

	huma.Register(s.api, huma.Operation{
		OperationID: "extractAesthetics",
		Method:      http.MethodPost,
		Path:        "/api/v1/aesthetics/extract",
		Summary:     "Tag a book",
		Description: "Classifies one cover reference and title into at most two aesthetic tags",
		Tags:        []string{"Aesthetics"},
	}, s.handleExtract)

	huma.Register(s.api, huma.Operation{
		OperationID: "aggregateAesthetics",
		Method:      http.MethodPost,
		Path:        "/api/v1/aesthetics/profile",
		Summary:     "Aggregate a profile",
		Description: "Ranks the aesthetics of a list of books, as shown on a profile",
		Tags:        []string{"Aesthetics"},
	}, s.handleAggregate)
}

// === DTOs ===

// FiltersOutput wraps the filter bar for Huma.
type FiltersOutput struct {
	Body struct {
		Filters []aesthetic.Filter `json:"filters" doc:"Filter entries in display order"`
	}
}

// ExtractRequest is one book to classify.
type ExtractRequest struct {
	ID       string `json:"id,omitempty" maxLength:"200" doc:"Book ID; when set, the masonry height is returned too"`
	ImageRef string `json:"uri" minLength:"1" maxLength:"2048" doc:"Cover URL or bundled asset name"`
	Title    string `json:"title,omitempty" maxLength:"500" doc:"Book title"`
}

// ExtractInput wraps the extract request for Huma.
type ExtractInput struct {
	Body ExtractRequest
}

// ExtractResponse is the tag set and its colors.
type ExtractResponse struct {
	Aesthetics aesthetic.TagSet `json:"aesthetics" doc:"One or two tags"`
	Colors     []string         `json:"colors" doc:"Hex color per tag"`
	Height     int              `json:"height,omitempty" doc:"Masonry tile height, when an ID was given"`
}

// ExtractOutput wraps the extract response for Huma.
type ExtractOutput struct {
	Body ExtractResponse
}

// AggregateRequest is a list of books to profile.
type AggregateRequest struct {
	Books []aesthetic.BookRef `json:"books" maxItems:"1000" doc:"Books to aggregate"`
}

// AggregateInput wraps the aggregate request for Huma.
type AggregateInput struct {
	Body AggregateRequest
}

// AggregateOutput wraps the aesthetic profile for Huma.
type AggregateOutput struct {
	Body aesthetic.Profile
}

// === Handlers ===

func (s *Server) handleListFilters(_ context.Context, _ *struct{}) (*FiltersOutput, error) {
	out := &FiltersOutput{}
	out.Body.Filters = aesthetic.Filters()
	return out, nil
}

func (s *Server) handleExtract(_ context.Context, input *ExtractInput) (*ExtractOutput, error) {
	tags := aesthetic.Extract(input.Body.ImageRef, input.Body.Title)

	resp := ExtractResponse{
		Aesthetics: tags,
		Colors:     aesthetic.Palette(tags),
	}
	if input.Body.ID != "" {
		resp.Height = layout.HeightFor(input.Body.ID)
	}
	return &ExtractOutput{Body: resp}, nil
}

func (s *Server) handleAggregate(_ context.Context, input *AggregateInput) (*AggregateOutput, error) {
	return &AggregateOutput{Body: aesthetic.Aggregate(input.Body.Books)}, nil
}
