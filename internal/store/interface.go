// Package store defines the persistence interface for the Shiori server.
package store

import (
	"context"

	"github.com/shioriapp/shiori-server/internal/domain"
)

// Store defines all persistence operations.
type Store interface {
	// Lifecycle
	Close() error
	Ping(ctx context.Context) error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error

	// Auth sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)

	// Profiles
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	SaveProfile(ctx context.Context, profile *domain.Profile) error
	UpdateAestheticColors(ctx context.Context, userID string, colors []string) error

	// Liked books
	AddLikedBook(ctx context.Context, userID string, book *domain.Book) (*domain.LikedBook, error)
	RemoveLikedBook(ctx context.Context, userID, bookID string) error
	GetLikedBook(ctx context.Context, userID, bookID string) (*domain.LikedBook, error)
	ListLikedBooks(ctx context.Context, userID string) ([]*domain.LikedBook, error)
	CountLikedBooks(ctx context.Context, userID string) (int, error)
	SetLikedBookBlurHash(ctx context.Context, userID, bookID, blurHash string) error
}
