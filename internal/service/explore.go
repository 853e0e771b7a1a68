package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/shioriapp/shiori-server/internal/aesthetic"
	"github.com/shioriapp/shiori-server/internal/domain"
	domainerrors "github.com/shioriapp/shiori-server/internal/errors"
	"github.com/shioriapp/shiori-server/internal/layout"
	"github.com/shioriapp/shiori-server/internal/metadata/itunes"
	"github.com/shioriapp/shiori-server/internal/validation"
)

// FeedPageSize is the number of books kept from each catalogue search.
const FeedPageSize = 20

// Catalogue searches the external ebook catalogue. *itunes.Client satisfies it.
type Catalogue interface {
	SearchEbooks(ctx context.Context, params itunes.SearchParams) ([]itunes.EbookResult, error)
}

// ResultCache stores catalogue results. *cache.Cache satisfies it.
type ResultCache interface {
	Get(key string, dest any) (bool, error)
	Set(key string, value any, ttl time.Duration) error
}

// FeaturedShelf is the curated seed catalogue. *catalog.Catalog satisfies it.
type FeaturedShelf interface {
	Books() []domain.Book
	Loaded() bool
}

// ExploreService builds the explore feed.
type ExploreService struct {
	catalogue Catalogue
	cache     ResultCache
	featured  FeaturedShelf
	validator *validation.Validator
	logger    *slog.Logger
	cacheTTL  time.Duration

	flight singleflight.Group

	mu  sync.Mutex
	src *rand.ChaCha8
	rng *rand.Rand
}

// NewExploreService creates the explore service. src drives term picks,
// book ID suffixes and shuffling; seed it in tests for reproducible feeds.
// cache and featured may be nil.
func NewExploreService(
	catalogue Catalogue,
	cache ResultCache,
	featured FeaturedShelf,
	validator *validation.Validator,
	logger *slog.Logger,
	cacheTTL time.Duration,
	src *rand.ChaCha8,
) *ExploreService {
	return &ExploreService{
		catalogue: catalogue,
		cache:     cache,
		featured:  featured,
		validator: validator,
		logger:    logger,
		cacheTTL:  cacheTTL,
		src:       src,
		rng:       rand.New(src),
	}
}

// FeedRequest selects one page of the explore feed.
type FeedRequest struct {
	Genre     string `json:"genre" validate:"max=64"`
	Query     string `json:"q" validate:"max=200"`
	Page      int    `json:"page" validate:"gte=0,lte=1000"`
	Aesthetic string `json:"aesthetic" validate:"aesthetic"`
	Reshuffle bool   `json:"reshuffle"`
}

// FeedPage is one page of the feed. Fallback is set when the catalogue was
// unavailable and the featured books were served instead.
type FeedPage struct {
	Page     int           `json:"page"`
	Genre    string        `json:"genre"`
	Term     string        `json:"term"`
	Books    []domain.Book `json:"books"`
	HasMore  bool          `json:"has_more"`
	Fallback bool          `json:"fallback,omitempty"`
}

// Feed searches the catalogue, shuffles the results, keeps one page and
// applies the aesthetic filter last.
func (s *ExploreService) Feed(ctx context.Context, req FeedRequest) (*FeedPage, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	selected, _ := aesthetic.NormalizeFilter(req.Aesthetic)

	genre := itunes.NormalizeGenre(req.Genre)
	term := strings.TrimSpace(req.Query)
	if term == "" {
		term = s.pickTerm(genre)
	}

	page := &FeedPage{Page: req.Page, Genre: genre, Term: term}

	results, err := s.search(ctx, term, itunes.GenreID(genre))
	if err != nil {
		if s.featured == nil || !s.featured.Loaded() {
			return nil, domainerrors.Upstream("book catalogue unavailable", err)
		}
		s.logger.Warn("catalogue search failed, serving featured books",
			"term", term, "genre", genre, "error", err)

		books := s.featured.Books()
		s.shuffle(books)
		page.Books = filterBooks(books, selected)
		page.Fallback = true
		return page, nil
	}

	books := s.toBooks(results, req.Page)
	s.shuffle(books)
	if len(books) > FeedPageSize {
		books = books[:FeedPageSize]
	}
	if req.Reshuffle {
		s.shuffle(books)
	}

	page.Books = filterBooks(books, selected)
	page.HasMore = len(results) > 0
	return page, nil
}

// Featured returns the curated books.
func (s *ExploreService) Featured() []domain.Book {
	if s.featured == nil {
		return []domain.Book{}
	}
	return s.featured.Books()
}

// Genres lists the genre keys in display order.
func (s *ExploreService) Genres() []string {
	return itunes.Genres()
}

// Tag runs the aesthetic extractor on a single book.
func (s *ExploreService) Tag(ref aesthetic.BookRef) aesthetic.TagSet {
	return aesthetic.ExtractBook(ref)
}

// search fetches results through the cache. Concurrent misses for the same
// key share one catalogue request.
func (s *ExploreService) search(ctx context.Context, term, genreID string) ([]itunes.EbookResult, error) {
	key := "itunes:search:" + genreID + ":" + strings.ToLower(term)

	if s.cache != nil {
		var cached []itunes.EbookResult
		hit, err := s.cache.Get(key, &cached)
		if err != nil {
			s.logger.Warn("results cache read failed", "key", key, "error", err)
		}
		if hit {
			return cached, nil
		}
	}

	v, err, _ := s.flight.Do(key, func() (any, error) {
		results, err := s.catalogue.SearchEbooks(ctx, itunes.SearchParams{Term: term, GenreID: genreID})
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Set(key, results, s.cacheTTL); err != nil {
				s.logger.Warn("results cache write failed", "key", key, "error", err)
			}
		}
		return results, nil
	})
	if err != nil {
		return nil, fmt.Errorf("search catalogue: %w", err)
	}
	return v.([]itunes.EbookResult), nil
}

func (s *ExploreService) toBooks(results []itunes.EbookResult, page int) []domain.Book {
	s.mu.Lock()
	defer s.mu.Unlock()

	books := make([]domain.Book, 0, len(results))
	for _, r := range results {
		suffix, err := uuid.NewRandomFromReader(s.src)
		if err != nil {
			// ChaCha8 reads never fail.
			suffix = uuid.New()
		}
		id := fmt.Sprintf("%d-%d-%s", r.TrackID, page, suffix)
		books = append(books, domain.Book{
			ID:          id,
			URI:         r.ArtworkURL,
			Title:       r.Title,
			Author:      r.Author,
			Description: r.Description,
			Aesthetics:  aesthetic.Extract(r.ArtworkURL, r.Title),
			Height:      layout.HeightFor(id),
		})
	}
	return books
}

func (s *ExploreService) pickTerm(genre string) string {
	terms := itunes.SearchTerms(genre)

	s.mu.Lock()
	defer s.mu.Unlock()
	return terms[s.rng.IntN(len(terms))]
}

func (s *ExploreService) shuffle(books []domain.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(len(books), func(i, j int) {
		books[i], books[j] = books[j], books[i]
	})
}

func filterBooks(books []domain.Book, selected string) []domain.Book {
	return aesthetic.FilterBooks(books, func(b domain.Book) aesthetic.TagSet { return b.Tags() }, selected)
}
