package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shioriapp/shiori-server/internal/domain"
	"github.com/shioriapp/shiori-server/internal/service"
)

func (s *Server) registerBoardRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getBoard",
		Method:      http.MethodGet,
		Path:        "/api/v1/boards",
		Summary:     "Get board",
		Description: "Returns the liked books matching an aesthetic filter, with the aesthetic profile of the whole board",
		Tags:        []string{"Boards"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetBoard)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchBoard",
		Method:      http.MethodGet,
		Path:        "/api/v1/boards/search",
		Summary:     "Search board",
		Description: "Full-text search over the liked books' titles, authors and aesthetics",
		Tags:        []string{"Boards"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchBoard)
}

// === DTOs ===

// BoardInput holds the board filter.
type BoardInput struct {
	Aesthetic string `query:"aesthetic" doc:"Aesthetic filter (all or a tag, any case)"`
}

// BoardOutput wraps a board for Huma.
type BoardOutput struct {
	Body *service.Board
}

// SearchBoardInput holds the board search parameters.
type SearchBoardInput struct {
	Query     string `query:"q" maxLength:"200" doc:"Search text"`
	Aesthetic string `query:"aesthetic" doc:"Optional aesthetic filter"`
}

// SearchBoardOutput wraps board search results for Huma.
type SearchBoardOutput struct {
	Body struct {
		Query string              `json:"q" doc:"Search text"`
		Books []*domain.LikedBook `json:"books" doc:"Matches in relevance order"`
		Count int                 `json:"count" doc:"Number of matches"`
	}
}

// === Handlers ===

func (s *Server) handleGetBoard(ctx context.Context, input *BoardInput) (*BoardOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	board, err := s.services.Likes.Board(ctx, userID, input.Aesthetic)
	if err != nil {
		return nil, err
	}
	return &BoardOutput{Body: board}, nil
}

func (s *Server) handleSearchBoard(ctx context.Context, input *SearchBoardInput) (*SearchBoardOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	books, err := s.services.Likes.SearchBoard(ctx, userID, input.Query, input.Aesthetic)
	if err != nil {
		return nil, err
	}

	out := &SearchBoardOutput{}
	out.Body.Query = input.Query
	out.Body.Books = books
	out.Body.Count = len(books)
	return out, nil
}
