package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shioriapp/shiori-server/internal/aesthetic"
	"github.com/shioriapp/shiori-server/internal/domain"
	domainerrors "github.com/shioriapp/shiori-server/internal/errors"
	"github.com/shioriapp/shiori-server/internal/layout"
	"github.com/shioriapp/shiori-server/internal/media/covers"
	"github.com/shioriapp/shiori-server/internal/search"
	"github.com/shioriapp/shiori-server/internal/sse"
	"github.com/shioriapp/shiori-server/internal/store"
	"github.com/shioriapp/shiori-server/internal/validation"
)

// CoverQueue accepts cover downloads. *covers.Worker satisfies it.
type CoverQueue interface {
	Enqueue(job covers.Job) bool
}

// LikesService owns each user's liked books and the boards built from them.
type LikesService struct {
	store     store.Store
	index     *search.BoardIndex
	profiles  *ProfileService
	covers    CoverQueue
	events    EventEmitter
	validator *validation.Validator
	logger    *slog.Logger
}

// NewLikesService creates a likes service. The cover queue and emitter may
// be nil.
func NewLikesService(
	store store.Store,
	index *search.BoardIndex,
	profiles *ProfileService,
	coverQueue CoverQueue,
	events EventEmitter,
	validator *validation.Validator,
	logger *slog.Logger,
) *LikesService {
	return &LikesService{
		store:     store,
		index:     index,
		profiles:  profiles,
		covers:    coverQueue,
		events:    emitterOrNoop(events),
		validator: validator,
		logger:    logger,
	}
}

// LikeRequest is the book being toggled, as shown on the feed.
type LikeRequest struct {
	ID          string `json:"id" validate:"required,max=200"`
	URI         string `json:"uri" validate:"required,max=2048"`
	Title       string `json:"title" validate:"max=500"`
	Author      string `json:"author,omitempty" validate:"max=500"`
	Description string `json:"description,omitempty" validate:"max=20000"`
}

// Book converts the request to a domain book. Aesthetics and height are
// always derived here, never taken from the client.
func (r LikeRequest) Book() *domain.Book {
	return &domain.Book{
		ID:          r.ID,
		URI:         r.URI,
		Title:       r.Title,
		Author:      r.Author,
		Description: r.Description,
		Aesthetics:  aesthetic.Extract(r.URI, r.Title),
		Height:      layout.HeightFor(r.ID),
	}
}

// ToggleResult reports the state after a toggle.
type ToggleResult struct {
	Liked bool              `json:"liked"`
	Book  *domain.LikedBook `json:"book,omitempty"`
	Count int               `json:"count"`
}

// Board is a user's liked books under an aesthetic filter, plus the
// aesthetic profile of the whole liked set.
type Board struct {
	Aesthetic string              `json:"aesthetic"`
	Books     []*domain.LikedBook `json:"books"`
	Count     int                 `json:"count"`
	Profile   aesthetic.Profile   `json:"profile"`
}

// Toggle likes the book if it is not liked yet and unlikes it otherwise.
// Identity is the book ID.
func (s *LikesService) Toggle(ctx context.Context, userID string, req LikeRequest) (*ToggleResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	_, err := s.store.GetLikedBook(ctx, userID, req.ID)
	switch {
	case err == nil:
		return s.unlike(ctx, userID, req.ID)
	case errors.Is(err, store.ErrNotFound):
		return s.like(ctx, userID, req.Book())
	default:
		return nil, fmt.Errorf("get liked book: %w", err)
	}
}

func (s *LikesService) like(ctx context.Context, userID string, book *domain.Book) (*ToggleResult, error) {
	liked, err := s.store.AddLikedBook(ctx, userID, book)
	if errors.Is(err, store.ErrAlreadyExists) {
		// A concurrent toggle got there first.
		liked, err = s.store.GetLikedBook(ctx, userID, book.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("add liked book: %w", err)
	}

	if err := s.index.IndexDocument(search.NewBoardDocument(liked)); err != nil {
		s.logger.Warn("failed to index liked book", "user_id", userID, "book_id", book.ID, "error", err)
	}
	s.events.Emit(sse.NewLikeAddedEvent(liked))
	s.refreshColors(ctx, userID)
	s.queueCover(userID, liked)

	count, err := s.store.CountLikedBooks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count liked books: %w", err)
	}

	s.logger.Debug("book liked", "user_id", userID, "book_id", book.ID)
	return &ToggleResult{Liked: true, Book: liked, Count: count}, nil
}

func (s *LikesService) unlike(ctx context.Context, userID, bookID string) (*ToggleResult, error) {
	if err := s.store.RemoveLikedBook(ctx, userID, bookID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("remove liked book: %w", err)
	}

	if err := s.index.DeleteDocument(userID, bookID); err != nil {
		s.logger.Warn("failed to remove liked book from index", "user_id", userID, "book_id", bookID, "error", err)
	}
	s.events.Emit(sse.NewLikeRemovedEvent(userID, bookID))
	s.refreshColors(ctx, userID)

	count, err := s.store.CountLikedBooks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count liked books: %w", err)
	}

	s.logger.Debug("book unliked", "user_id", userID, "book_id", bookID)
	return &ToggleResult{Liked: false, Count: count}, nil
}

// IsLiked reports whether the user has liked bookID.
func (s *LikesService) IsLiked(ctx context.Context, userID, bookID string) (bool, error) {
	_, err := s.store.GetLikedBook(ctx, userID, bookID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get liked book: %w", err)
	}
	return true, nil
}

// List returns the user's liked books in the order they were liked.
func (s *LikesService) List(ctx context.Context, userID string) ([]*domain.LikedBook, error) {
	books, err := s.store.ListLikedBooks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list liked books: %w", err)
	}
	if books == nil {
		books = []*domain.LikedBook{}
	}
	return books, nil
}

// Board filters the liked books by an aesthetic ("all" or empty keeps
// everything).
func (s *LikesService) Board(ctx context.Context, userID, filter string) (*Board, error) {
	if err := s.validator.Var("aesthetic", filter, "aesthetic"); err != nil {
		return nil, err
	}
	filter, _ = aesthetic.NormalizeFilter(filter)

	liked, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	books := aesthetic.FilterBooks(liked, (*domain.LikedBook).Tags, filter)
	return &Board{
		Aesthetic: filter,
		Books:     books,
		Count:     len(books),
		Profile:   aggregateLiked(liked),
	}, nil
}

// SearchBoard runs a full-text query over the user's liked books. Results
// are in relevance order.
func (s *LikesService) SearchBoard(ctx context.Context, userID, query, filter string) ([]*domain.LikedBook, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domainerrors.ValidationWithDetails("validation failed", map[string]string{"q": "is required"})
	}
	if err := s.validator.Var("aesthetic", filter, "aesthetic"); err != nil {
		return nil, err
	}
	if filter, _ = aesthetic.NormalizeFilter(filter); filter == aesthetic.FilterAll {
		filter = ""
	}

	hits, err := s.index.Search(ctx, search.BoardQuery{UserID: userID, Query: query, Aesthetic: filter})
	if err != nil {
		return nil, fmt.Errorf("search board: %w", err)
	}

	liked, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.LikedBook, len(liked))
	for _, b := range liked {
		byID[b.ID] = b
	}

	// The index can briefly lag the store, so hits without a row are skipped.
	out := make([]*domain.LikedBook, 0, len(hits))
	for _, h := range hits {
		if b, ok := byID[h.BookID]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

// Reindex rebuilds the search documents for one user's board.
func (s *LikesService) Reindex(ctx context.Context, userID string) (int, error) {
	liked, err := s.List(ctx, userID)
	if err != nil {
		return 0, err
	}
	docs := make([]*search.BoardDocument, len(liked))
	for i, b := range liked {
		docs[i] = search.NewBoardDocument(b)
	}
	if err := s.index.IndexDocuments(docs); err != nil {
		return 0, fmt.Errorf("index board: %w", err)
	}
	return len(docs), nil
}

// CoverDownloaded records a finished cover download. It is the cover
// worker's completion callback.
func (s *LikesService) CoverDownloaded(ctx context.Context, job covers.Job, result *covers.DownloadResult) {
	if !result.Success {
		s.logger.Debug("cover download failed", "book_id", job.BookID, "error", result.Error)
		return
	}
	if result.BlurHash == "" {
		return
	}

	err := s.store.SetLikedBookBlurHash(ctx, job.UserID, job.BookID, result.BlurHash)
	if errors.Is(err, store.ErrNotFound) {
		// Unliked while the download was running.
		return
	}
	if err != nil {
		s.logger.Warn("failed to store cover blurhash", "user_id", job.UserID, "book_id", job.BookID, "error", err)
		return
	}

	s.events.Emit(sse.NewCoverReadyEvent(job.UserID, job.BookID, result.BlurHash))
}

func (s *LikesService) refreshColors(ctx context.Context, userID string) {
	if _, err := s.profiles.RefreshAestheticColors(ctx, userID); err != nil {
		s.logger.Warn("failed to refresh aesthetic colors", "user_id", userID, "error", err)
	}
}

func (s *LikesService) queueCover(userID string, book *domain.LikedBook) {
	if s.covers == nil || book.BlurHash != "" || !covers.IsRemote(book.URI) {
		return
	}
	if !s.covers.Enqueue(covers.Job{UserID: userID, BookID: book.ID, URL: book.URI}) {
		s.logger.Debug("cover queue full, skipping", "book_id", book.ID)
	}
}
