package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shioriapp/shiori-server/internal/domain"
	"github.com/shioriapp/shiori-server/internal/service"
)

func (s *Server) registerLikeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listLikes",
		Method:      http.MethodGet,
		Path:        "/api/v1/likes",
		Summary:     "List liked books",
		Description: "Returns the user's liked books in the order they were liked",
		Tags:        []string{"Likes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListLikes)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleLike",
		Method:      http.MethodPost,
		Path:        "/api/v1/likes/toggle",
		Summary:     "Toggle like",
		Description: "Likes the book if it is not on the board yet, and unlikes it otherwise",
		Tags:        []string{"Likes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleToggleLike)

	huma.Register(s.api, huma.Operation{
		OperationID: "getLike",
		Method:      http.MethodGet,
		Path:        "/api/v1/likes/{id}",
		Summary:     "Is liked",
		Description: "Reports whether the user has liked a book",
		Tags:        []string{"Likes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetLike)
}

// === DTOs ===

// ToggleLikeRequest is the book being liked or unliked, as shown on the feed.
type ToggleLikeRequest struct {
	ID          string   `json:"id" doc:"Book ID"`
	URI         string   `json:"uri" doc:"Cover URL or bundled asset name"`
	Title       string   `json:"title,omitempty" doc:"Book title"`
	Author      string   `json:"author,omitempty" doc:"Author name"`
	Description string   `json:"description,omitempty" doc:"Plain-text description"`
	Aesthetics  []string `json:"aesthetics,omitempty" doc:"Accepted for compatibility and ignored; tags are derived from uri and title"`
}

// ToggleLikeInput wraps the toggle request for Huma.
type ToggleLikeInput struct {
	Body ToggleLikeRequest
}

// ToggleLikeOutput wraps the toggle result for Huma.
type ToggleLikeOutput struct {
	Body *service.ToggleResult
}

// LikesOutput wraps the liked list for Huma.
type LikesOutput struct {
	Body struct {
		Books []*domain.LikedBook `json:"books" doc:"Liked books, oldest first"`
		Count int                 `json:"count" doc:"Number of liked books"`
	}
}

// GetLikeInput identifies one book.
type GetLikeInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// LikeStatusOutput reports whether a book is liked.
type LikeStatusOutput struct {
	Body struct {
		ID    string `json:"id" doc:"Book ID"`
		Liked bool   `json:"liked" doc:"Whether the book is on the user's board"`
	}
}

// === Handlers ===

func (s *Server) handleListLikes(ctx context.Context, _ *struct{}) (*LikesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	books, err := s.services.Likes.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &LikesOutput{}
	out.Body.Books = books
	out.Body.Count = len(books)
	return out, nil
}

func (s *Server) handleToggleLike(ctx context.Context, input *ToggleLikeInput) (*ToggleLikeOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	res, err := s.services.Likes.Toggle(ctx, userID, service.LikeRequest{
		ID:          input.Body.ID,
		URI:         input.Body.URI,
		Title:       input.Body.Title,
		Author:      input.Body.Author,
		Description: input.Body.Description,
	})
	if err != nil {
		return nil, err
	}
	return &ToggleLikeOutput{Body: res}, nil
}

func (s *Server) handleGetLike(ctx context.Context, input *GetLikeInput) (*LikeStatusOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	liked, err := s.services.Likes.IsLiked(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	out := &LikeStatusOutput{}
	out.Body.ID = input.ID
	out.Body.Liked = liked
	return out, nil
}
