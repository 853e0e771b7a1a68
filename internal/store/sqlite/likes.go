package sqlite

import (
	"context"
	"database/sql"
	"encoding/json/v2"
	"errors"
	"fmt"
	"time"

	"github.com/shioriapp/shiori-server/internal/aesthetic"
	"github.com/shioriapp/shiori-server/internal/domain"
	"github.com/shioriapp/shiori-server/internal/store"
)

// likedBookColumns must match the scan order in scanLikedBook.
const likedBookColumns = `user_id, book_id, position, uri, title, author, description,
	aesthetics, height, blur_hash, liked_at`

func scanLikedBook(scanner interface{ Scan(dest ...any) error }) (*domain.LikedBook, error) {
	var (
		lb         domain.LikedBook
		aesthetics string
		blurHash   sql.NullString
		likedAt    string
	)

	err := scanner.Scan(
		&lb.UserID,
		&lb.ID,
		&lb.Position,
		&lb.URI,
		&lb.Title,
		&lb.Author,
		&lb.Description,
		&aesthetics,
		&lb.Height,
		&blurHash,
		&likedAt,
	)
	if err != nil {
		return nil, err
	}

	var tags []string
	if err := json.Unmarshal([]byte(aesthetics), &tags); err != nil {
		return nil, fmt.Errorf("decode aesthetics: %w", err)
	}
	lb.Aesthetics = aesthetic.ParseTagSet(tags)
	lb.BlurHash = blurHash.String

	if lb.LikedAt, err = parseTime(likedAt); err != nil {
		return nil, err
	}
	return &lb, nil
}

// AddLikedBook appends a book to the end of the user's board.
// Returns store.ErrAlreadyExists if the book is already liked.
func (s *Store) AddLikedBook(ctx context.Context, userID string, book *domain.Book) (*domain.LikedBook, error) {
	aesthetics, err := encodeStrings(book.Tags().Strings())
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var position int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), 0) + 1 FROM liked_books WHERE user_id = ?`, userID).Scan(&position)
	if err != nil {
		return nil, fmt.Errorf("next position: %w", err)
	}

	likedAt := time.Now()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO liked_books (
			user_id, book_id, position, uri, title, author, description,
			aesthetics, height, blur_hash, liked_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID,
		book.ID,
		position,
		book.URI,
		book.Title,
		book.Author,
		book.Description,
		aesthetics,
		book.Height,
		nullString(book.BlurHash),
		formatTime(likedAt),
	)
	if isUniqueViolation(err) {
		return nil, store.ErrAlreadyExists
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	lb := &domain.LikedBook{Book: *book, UserID: userID, Position: position, LikedAt: likedAt}
	lb.Aesthetics = book.Tags()
	return lb, nil
}

// RemoveLikedBook deletes a book from the user's board.
// Returns store.ErrNotFound if the book is not liked.
func (s *Store) RemoveLikedBook(ctx context.Context, userID, bookID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM liked_books WHERE user_id = ? AND book_id = ?`, userID, bookID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// GetLikedBook retrieves one liked book.
// Returns store.ErrNotFound if the book is not liked.
func (s *Store) GetLikedBook(ctx context.Context, userID, bookID string) (*domain.LikedBook, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+likedBookColumns+` FROM liked_books WHERE user_id = ? AND book_id = ?`, userID, bookID)

	lb, err := scanLikedBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return lb, err
}

// ListLikedBooks returns the user's board in the order books were liked.
func (s *Store) ListLikedBooks(ctx context.Context, userID string) ([]*domain.LikedBook, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+likedBookColumns+` FROM liked_books WHERE user_id = ? ORDER BY position ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []*domain.LikedBook{}
	for rows.Next() {
		lb, err := scanLikedBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, lb)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

// CountLikedBooks returns the size of the user's board.
func (s *Store) CountLikedBooks(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM liked_books WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}

// SetLikedBookBlurHash stores the cover placeholder for a liked book.
// Returns store.ErrNotFound if the book is no longer liked.
func (s *Store) SetLikedBookBlurHash(ctx context.Context, userID, bookID, blurHash string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE liked_books SET blur_hash = ? WHERE user_id = ? AND book_id = ?`,
		nullString(blurHash), userID, bookID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}
